package dto

// SubmitAnswerRequest is bound from the multipart form of a submission.
// Scratch-work images travel as separate "work" file parts.
type SubmitAnswerRequest struct {
	Answer string `form:"answer" binding:"required"`
}

// ProblemInput is one embedded problem in a guardian-authored legacy
// assignment.
type ProblemInput struct {
	Prompt        string   `json:"prompt" binding:"required"`
	AnswerKind    string   `json:"answer_kind" binding:"required,oneof=number multiple_choice text"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
	Options       []string `json:"options,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	Hint          *string  `json:"hint,omitempty"`
	HintPrice     int      `json:"hint_price,omitempty" binding:"omitempty,min=1"`
}

// CreateAssignmentRequest creates a legacy assignment with embedded problems.
type CreateAssignmentRequest struct {
	LearnerID    uint           `json:"learner_id" binding:"required"`
	Title        string         `json:"title" binding:"required"`
	ContentKind  string         `json:"content_kind" binding:"required,oneof=math reading"`
	HintsAllowed *bool          `json:"hints_allowed,omitempty"`
	Problems     []ProblemInput `json:"problems" binding:"required,min=1,dive"`
}

// GenerateAssignmentRequest asks the AI generator for a package-backed
// assignment.
type GenerateAssignmentRequest struct {
	LearnerID    uint   `json:"learner_id" binding:"required"`
	Title        string `json:"title" binding:"required"`
	ContentKind  string `json:"content_kind" binding:"required,oneof=math reading"`
	Topic        string `json:"topic" binding:"required"`
	Difficulty   string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	ProblemCount int    `json:"problem_count" binding:"required,min=1,max=20"`
	HintsAllowed *bool  `json:"hints_allowed,omitempty"`
}

// UpdateOrderRequest sets the display-order hint on an assignment.
type UpdateOrderRequest struct {
	SortOrder int `json:"sort_order" binding:"min=0"`
}

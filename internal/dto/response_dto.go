package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	// Retriable is set on conflict responses so clients can resubmit.
	Retriable bool `json:"retriable,omitempty"`
	// AlreadyComplete distinguishes "already done" from real failures.
	AlreadyComplete bool `json:"already_complete,omitempty"`
}

// SubmitAnswerResponse is the full grading result for one submission.
type SubmitAnswerResponse struct {
	IsCorrect     bool    `json:"is_correct"`
	CorrectAnswer *string `json:"correct_answer,omitempty"` // revealed only once the question is terminal
	Explanation   *string `json:"explanation,omitempty"`    // same reveal policy as CorrectAnswer
	CoinsEarned   int     `json:"coins_earned"`
	TotalCoins    int     `json:"total_coins"`
	Streak        int     `json:"streak"`

	AttemptNumber   int  `json:"attempt_number"`
	CanRetry        bool `json:"can_retry"`
	MaxAttempts     int  `json:"max_attempts"`
	PotentialReward int  `json:"potential_reward"` // coins if the next attempt is correct

	CanBuyHint bool `json:"can_buy_hint"`
	HintCost   int  `json:"hint_cost"`

	QuestionComplete   bool `json:"question_complete"`
	AssignmentComplete bool `json:"assignment_complete"`
}

type HintResponse struct {
	Hint       string `json:"hint"`
	CoinsSpent int    `json:"coins_spent"`
	NewBalance int    `json:"new_balance"`
}

type WalletDTO struct {
	Balance     int `json:"balance"`
	TotalEarned int `json:"total_earned"`
	Streak      int `json:"streak"`
}

type AssignmentSummaryDTO struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	ContentKind   string     `json:"content_kind"`
	Status        string     `json:"status"`
	HintsAllowed  bool       `json:"hints_allowed"`
	SortOrder     *int       `json:"sort_order,omitempty"`
	ProblemCount  int        `json:"problem_count"`
	AnsweredCount int        `json:"answered_count"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ProblemStateDTO is one problem in an assignment detail view, with the
// learner's attempt state. Correct answers and explanations are only present
// once the question is terminal.
type ProblemStateDTO struct {
	ID            uint     `json:"id"`
	Position      int      `json:"position"`
	Prompt        string   `json:"prompt"`
	AnswerKind    string   `json:"answer_kind"`
	Options       []string `json:"options,omitempty"`
	Attempts      int      `json:"attempts"`
	MaxAttempts   int      `json:"max_attempts"`
	Answered      bool     `json:"answered"`
	IsCorrect     *bool    `json:"is_correct,omitempty"`
	CanRetry      bool     `json:"can_retry"`
	HintPurchased bool     `json:"hint_purchased"`
	CanBuyHint    bool     `json:"can_buy_hint"`
	HintCost      int      `json:"hint_cost,omitempty"`
	CorrectAnswer *string  `json:"correct_answer,omitempty"`
	Explanation   *string  `json:"explanation,omitempty"`
}

type AssignmentDetailDTO struct {
	AssignmentSummaryDTO
	Problems []ProblemStateDTO `json:"problems"`
}

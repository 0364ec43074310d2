package model

const (
	AnswerKindNumber         = "number"
	AnswerKindMultipleChoice = "multiple_choice"
	AnswerKindText           = "text"
)

const (
	MaxMathAttempts    = 3
	MaxReadingAttempts = 1
)

// ProblemSource is the explicit discriminant for the three physical storage
// shapes an exercise item can have. It is set once at load time; callers
// never infer the shape from field presence.
type ProblemSource string

const (
	ProblemSourcePackage       ProblemSource = "package"
	ProblemSourceLegacyMath    ProblemSource = "legacy_math"
	ProblemSourceLegacyReading ProblemSource = "legacy_reading"
)

// Problem is the storage-independent view of one gradable exercise item,
// resolved by the attempt ledger from whichever row shape it lives in.
type Problem struct {
	Source        ProblemSource
	ID            uint
	Position      int
	Prompt        string
	AnswerKind    string
	CorrectAnswer string
	Options       []string
	Explanation   string
	Hint          *string
	HintPrice     int
	MaxAttempts   int
}

// HasHint reports whether hint text was authored for this problem.
func (p *Problem) HasHint() bool { return p.Hint != nil && *p.Hint != "" }

// AttemptState is the storage-independent per-(assignment, problem) grading
// state. A nil SubmittedAnswer means "never attempted".
type AttemptState struct {
	SubmittedAnswer *string
	IsCorrect       *bool
	Attempts        int
	HintPurchased   bool
	WorkImagePaths  []string
}

// Answered reports whether any attempt has been recorded.
func (s AttemptState) Answered() bool { return s.SubmittedAnswer != nil }

// Terminal reports whether the state accepts no further submissions: the
// answer is correct, or the attempt cap is reached.
func (s AttemptState) Terminal(maxAttempts int) bool {
	if s.IsCorrect != nil && *s.IsCorrect {
		return true
	}
	return s.Attempts >= maxAttempts
}

// ProblemWithState pairs a resolved problem with its attempt state.
type ProblemWithState struct {
	Problem Problem
	State   AttemptState
}

package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the grading and hint flows. Services wrap these with
// context via fmt.Errorf("...: %w", err); controllers match with errors.Is.
var (
	// ErrNotFound covers assignments/problems that do not exist or are not
	// owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyTerminal is returned when a submission or hint purchase
	// targets a question that is already correct or out of retries.
	ErrAlreadyTerminal = errors.New("question already completed")

	// ErrConfigInvalid marks corrupt authoring data, e.g. a multiple-choice
	// question whose correct answer matches none of its options. Grading must
	// halt rather than mis-grade.
	ErrConfigInvalid = errors.New("question configuration invalid")

	// ErrInsufficientFunds is returned by a guarded wallet debit.
	ErrInsufficientFunds = errors.New("insufficient coin balance")

	// ErrTxConflict signals a concurrent-write race detected via an
	// affected-rows mismatch. Safe to retry.
	ErrTxConflict = errors.New("concurrent update conflict")

	// ErrHintNotEligible is the base error for every hint refusal; use
	// HintError to carry the specific reason.
	ErrHintNotEligible = errors.New("hint not available")
)

// HintError carries the reason a hint purchase was refused.
type HintError struct {
	Reason string
}

func (e *HintError) Error() string {
	return fmt.Sprintf("hint not available: %s", e.Reason)
}

func (e *HintError) Unwrap() error { return ErrHintNotEligible }

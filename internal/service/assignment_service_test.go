package service

import (
	"errors"
	"testing"

	"homequest/internal/apperr"
	"homequest/internal/dto"
	"homequest/internal/model"
)

func TestCreateLegacyMathAssignment(t *testing.T) {
	f := newEngineFixture(t)

	detail, err := f.assignmentSvc.CreateLegacy(1, dto.CreateAssignmentRequest{
		LearnerID:   testLearnerID,
		Title:       "Times tables",
		ContentKind: model.ContentKindMath,
		Problems: []dto.ProblemInput{
			{Prompt: "6x7?", AnswerKind: model.AnswerKindNumber, CorrectAnswer: "42", Hint: strPtr("sixes")},
			{Prompt: "8x8?", AnswerKind: model.AnswerKindNumber, CorrectAnswer: "64"},
		},
	})
	if err != nil {
		t.Fatalf("CreateLegacy failed: %v", err)
	}

	if detail.Status != model.AssignmentStatusPending {
		t.Errorf("Status = %q, want pending", detail.Status)
	}
	if detail.ProblemCount != 2 || len(detail.Problems) != 2 {
		t.Fatalf("ProblemCount = %d with %d problems, want 2", detail.ProblemCount, len(detail.Problems))
	}
	for i, p := range detail.Problems {
		if p.Position != i+1 {
			t.Errorf("problem %d Position = %d, want %d", i, p.Position, i+1)
		}
		if p.CorrectAnswer != nil {
			t.Errorf("problem %d exposes the correct answer before any attempt", i)
		}
		if p.Answered {
			t.Errorf("problem %d marked answered on a fresh assignment", i)
		}
		if p.MaxAttempts != model.MaxMathAttempts {
			t.Errorf("problem %d MaxAttempts = %d, want %d", i, p.MaxAttempts, model.MaxMathAttempts)
		}
	}
}

func TestCreateLegacyReadingAssignment(t *testing.T) {
	f := newEngineFixture(t)

	detail, err := f.assignmentSvc.CreateLegacy(1, dto.CreateAssignmentRequest{
		LearnerID:   testLearnerID,
		Title:       "Comprehension",
		ContentKind: model.ContentKindReading,
		Problems: []dto.ProblemInput{
			{Prompt: "Who narrates?", AnswerKind: model.AnswerKindText, CorrectAnswer: "the cook"},
		},
	})
	if err != nil {
		t.Fatalf("CreateLegacy failed: %v", err)
	}

	p := detail.Problems[0]
	if p.MaxAttempts != model.MaxReadingAttempts {
		t.Errorf("MaxAttempts = %d, want %d", p.MaxAttempts, model.MaxReadingAttempts)
	}
	if p.CanBuyHint {
		t.Error("reading questions must never offer hints")
	}
}

func TestListForLearnerReflectsProgress(t *testing.T) {
	f := newEngineFixture(t)
	assignment := f.seedMathAssignment(t, numberProblem(1, "42"), numberProblem(2, "64"))

	summaries, err := f.assignmentSvc.ListForLearner(testLearnerID)
	if err != nil {
		t.Fatalf("ListForLearner failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	if summaries[0].AnsweredCount != 0 || summaries[0].ProblemCount != 2 {
		t.Errorf("progress = %d/%d, want 0/2", summaries[0].AnsweredCount, summaries[0].ProblemCount)
	}

	problemID := assignment.MathProblems[0].ID
	if _, err := f.submissions.SubmitAnswer(testLearnerID, assignment.ID, problemID, "42", nil); err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}

	// The submission invalidates the cached list, so the next read recounts.
	summaries, err = f.assignmentSvc.ListForLearner(testLearnerID)
	if err != nil {
		t.Fatalf("ListForLearner after submission failed: %v", err)
	}
	if summaries[0].AnsweredCount != 1 {
		t.Errorf("AnsweredCount = %d after one submission, want 1", summaries[0].AnsweredCount)
	}
	if summaries[0].Status != model.AssignmentStatusInProgress {
		t.Errorf("Status = %q, want in_progress", summaries[0].Status)
	}
}

func TestGetDetailRevealsOnlyTerminalAnswers(t *testing.T) {
	f := newEngineFixture(t)
	assignment := f.seedMathAssignment(t, numberProblem(1, "42"), numberProblem(2, "64"))
	solvedID := assignment.MathProblems[0].ID

	if _, err := f.submissions.SubmitAnswer(testLearnerID, assignment.ID, solvedID, "42", nil); err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}

	detail, err := f.assignmentSvc.GetDetailForLearner(testLearnerID, assignment.ID)
	if err != nil {
		t.Fatalf("GetDetailForLearner failed: %v", err)
	}

	for _, p := range detail.Problems {
		switch p.ID {
		case solvedID:
			if p.CorrectAnswer == nil || *p.CorrectAnswer != "42" {
				t.Error("solved problem must reveal its correct answer")
			}
			if p.CanRetry {
				t.Error("solved problem must not be retryable")
			}
		default:
			if p.CorrectAnswer != nil {
				t.Error("untouched problem leaks its correct answer")
			}
		}
	}
}

func TestGetDetailUnknownAssignment(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.assignmentSvc.GetDetailForLearner(testLearnerID, 404)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdateSortOrderOwnership(t *testing.T) {
	f := newEngineFixture(t)
	assignment := f.seedMathAssignment(t, numberProblem(1, "42"))

	if err := f.assignmentSvc.UpdateSortOrder(1, assignment.ID, 3); err != nil {
		t.Fatalf("UpdateSortOrder failed: %v", err)
	}
	reloaded, err := f.assignments.FindByID(assignment.ID)
	if err != nil {
		t.Fatalf("failed to reload assignment: %v", err)
	}
	if reloaded.SortOrder == nil || *reloaded.SortOrder != 3 {
		t.Errorf("SortOrder = %v, want 3", reloaded.SortOrder)
	}

	// Another guardian must not see or reorder this assignment.
	err = f.assignmentSvc.UpdateSortOrder(2, assignment.ID, 1)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("foreign guardian error = %v, want ErrNotFound", err)
	}
}

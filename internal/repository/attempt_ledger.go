package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"homequest/internal/apperr"
	"homequest/internal/model"
)

// AttemptLedger hides the three physical shapes attempt state can live in:
// a keyed AttemptRecord row for package problems, or inline fields on a
// legacy math/reading row. Callers branch on business rules (content kind,
// attempt caps) only, never on storage location.
type AttemptLedger interface {
	// ResolveProblem loads the problem behind (assignment, problemID) and
	// tags it with an explicit source discriminant and attempt cap.
	ResolveProblem(assignment *model.Assignment, problemID uint) (*model.Problem, error)
	// LoadState returns the attempt state for (assignment, problem); the
	// zero state means "never attempted".
	LoadState(assignment *model.Assignment, problem *model.Problem) (model.AttemptState, error)
	// SaveState persists a state whose Attempts was incremented exactly once
	// from the previously loaded state. A concurrent writer that got there
	// first surfaces as ErrTxConflict.
	SaveState(assignment *model.Assignment, problem *model.Problem, state model.AttemptState) error
	// SetHintPurchased flips the hint flag, guarded against double purchase.
	SetHintPurchased(assignment *model.Assignment, problem *model.Problem) error
	// LoadAll resolves every problem of the assignment with its state, in
	// display order.
	LoadAll(assignment *model.Assignment) ([]model.ProblemWithState, error)
	// Progress returns (answered, total) problem counts for the assignment.
	Progress(assignment *model.Assignment) (answered, total int64, err error)
	WithTx(tx *gorm.DB) AttemptLedger
}

type attemptLedger struct {
	db *gorm.DB
}

func NewAttemptLedger(db *gorm.DB) AttemptLedger {
	return &attemptLedger{db: db}
}

func (l *attemptLedger) WithTx(tx *gorm.DB) AttemptLedger {
	return &attemptLedger{db: tx}
}

func maxAttemptsFor(kind string) int {
	if kind == model.ContentKindReading {
		return model.MaxReadingAttempts
	}
	return model.MaxMathAttempts
}

func (l *attemptLedger) ResolveProblem(assignment *model.Assignment, problemID uint) (*model.Problem, error) {
	if assignment.UsesPackage() {
		var row model.PackageProblem
		err := l.db.Where("id = ? AND package_id = ?", problemID, *assignment.PackageID).First(&row).Error
		if err != nil {
			return nil, translateNotFound(err)
		}
		return &model.Problem{
			Source:        model.ProblemSourcePackage,
			ID:            row.ID,
			Position:      row.Position,
			Prompt:        row.Prompt,
			AnswerKind:    row.AnswerKind,
			CorrectAnswer: row.CorrectAnswer,
			Options:       row.Options,
			Explanation:   row.Explanation,
			Hint:          row.Hint,
			HintPrice:     row.HintPrice,
			MaxAttempts:   maxAttemptsFor(assignment.ContentKind),
		}, nil
	}

	if assignment.ContentKind == model.ContentKindReading {
		var row model.LegacyReadingQuestion
		err := l.db.Where("id = ? AND assignment_id = ?", problemID, assignment.ID).First(&row).Error
		if err != nil {
			return nil, translateNotFound(err)
		}
		return legacyReadingProblem(&row), nil
	}

	var row model.LegacyMathProblem
	err := l.db.Where("id = ? AND assignment_id = ?", problemID, assignment.ID).First(&row).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return legacyMathProblem(&row), nil
}

func legacyMathProblem(row *model.LegacyMathProblem) *model.Problem {
	return &model.Problem{
		Source:        model.ProblemSourceLegacyMath,
		ID:            row.ID,
		Position:      row.Position,
		Prompt:        row.Prompt,
		AnswerKind:    row.AnswerKind,
		CorrectAnswer: row.CorrectAnswer,
		Options:       row.Options,
		Explanation:   row.Explanation,
		Hint:          row.Hint,
		HintPrice:     row.HintPrice,
		MaxAttempts:   model.MaxMathAttempts,
	}
}

func legacyReadingProblem(row *model.LegacyReadingQuestion) *model.Problem {
	return &model.Problem{
		Source:        model.ProblemSourceLegacyReading,
		ID:            row.ID,
		Position:      row.Position,
		Prompt:        row.Prompt,
		AnswerKind:    row.AnswerKind,
		CorrectAnswer: row.CorrectAnswer,
		Options:       row.Options,
		Explanation:   row.Explanation,
		MaxAttempts:   model.MaxReadingAttempts,
	}
}

func (l *attemptLedger) LoadState(assignment *model.Assignment, problem *model.Problem) (model.AttemptState, error) {
	switch problem.Source {
	case model.ProblemSourcePackage:
		var record model.AttemptRecord
		err := l.db.Where("assignment_id = ? AND problem_id = ?", assignment.ID, problem.ID).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.AttemptState{}, nil
		}
		if err != nil {
			return model.AttemptState{}, err
		}
		return model.AttemptState{
			SubmittedAnswer: record.SubmittedAnswer,
			IsCorrect:       record.IsCorrect,
			Attempts:        record.Attempts,
			HintPurchased:   record.HintPurchased,
			WorkImagePaths:  record.WorkImagePaths,
		}, nil

	case model.ProblemSourceLegacyReading:
		var row model.LegacyReadingQuestion
		if err := l.db.First(&row, problem.ID).Error; err != nil {
			return model.AttemptState{}, translateNotFound(err)
		}
		return model.AttemptState{
			SubmittedAnswer: row.SubmittedAnswer,
			IsCorrect:       row.IsCorrect,
			Attempts:        row.Attempts,
		}, nil

	default:
		var row model.LegacyMathProblem
		if err := l.db.First(&row, problem.ID).Error; err != nil {
			return model.AttemptState{}, translateNotFound(err)
		}
		return model.AttemptState{
			SubmittedAnswer: row.SubmittedAnswer,
			IsCorrect:       row.IsCorrect,
			Attempts:        row.Attempts,
			HintPurchased:   row.HintPurchased,
			WorkImagePaths:  row.WorkImagePaths,
		}, nil
	}
}

func (l *attemptLedger) SaveState(assignment *model.Assignment, problem *model.Problem, state model.AttemptState) error {
	expectedPrev := state.Attempts - 1
	if expectedPrev < 0 {
		return fmt.Errorf("attempt state for problem %d was never incremented", problem.ID)
	}

	updates := map[string]interface{}{
		"submitted_answer": state.SubmittedAnswer,
		"is_correct":       state.IsCorrect,
		"attempts":         state.Attempts,
	}

	switch problem.Source {
	case model.ProblemSourcePackage:
		if expectedPrev == 0 {
			record := model.AttemptRecord{
				AssignmentID:    assignment.ID,
				ProblemID:       problem.ID,
				SubmittedAnswer: state.SubmittedAnswer,
				IsCorrect:       state.IsCorrect,
				Attempts:        state.Attempts,
				HintPurchased:   state.HintPurchased,
				WorkImagePaths:  state.WorkImagePaths,
			}
			// First attempt usually creates the record, but a hint purchase
			// may have left a placeholder behind; fall through to the guarded
			// update in that case.
			var existing int64
			if err := l.db.Model(&model.AttemptRecord{}).
				Where("assignment_id = ? AND problem_id = ?", assignment.ID, problem.ID).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing == 0 {
				if err := l.db.Create(&record).Error; err != nil {
					// The unique (assignment, problem) index turns a creation
					// race into a conflict the caller can retry.
					return apperr.ErrTxConflict
				}
				return nil
			}
		}
		updates["work_image_paths"] = state.WorkImagePaths
		res := l.db.Model(&model.AttemptRecord{}).
			Where("assignment_id = ? AND problem_id = ? AND attempts = ?", assignment.ID, problem.ID, expectedPrev).
			Updates(updates)
		return checkAffected(res)

	case model.ProblemSourceLegacyReading:
		res := l.db.Model(&model.LegacyReadingQuestion{}).
			Where("id = ? AND attempts = ?", problem.ID, expectedPrev).
			Updates(updates)
		return checkAffected(res)

	default:
		updates["work_image_paths"] = state.WorkImagePaths
		res := l.db.Model(&model.LegacyMathProblem{}).
			Where("id = ? AND attempts = ?", problem.ID, expectedPrev).
			Updates(updates)
		return checkAffected(res)
	}
}

func (l *attemptLedger) SetHintPurchased(assignment *model.Assignment, problem *model.Problem) error {
	switch problem.Source {
	case model.ProblemSourcePackage:
		res := l.db.Model(&model.AttemptRecord{}).
			Where("assignment_id = ? AND problem_id = ? AND hint_purchased = ?", assignment.ID, problem.ID, false).
			Update("hint_purchased", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			return nil
		}
		// No record yet: a purchase ahead of any graded attempt leaves a
		// placeholder behind.
		record := model.AttemptRecord{
			AssignmentID:  assignment.ID,
			ProblemID:     problem.ID,
			HintPurchased: true,
		}
		if err := l.db.Create(&record).Error; err != nil {
			return apperr.ErrTxConflict
		}
		return nil

	case model.ProblemSourceLegacyReading:
		// Reading content has no hints; the broker rejects earlier.
		return apperr.ErrHintNotEligible

	default:
		res := l.db.Model(&model.LegacyMathProblem{}).
			Where("id = ? AND hint_purchased = ?", problem.ID, false).
			Update("hint_purchased", true)
		return checkAffected(res)
	}
}

func (l *attemptLedger) LoadAll(assignment *model.Assignment) ([]model.ProblemWithState, error) {
	if assignment.UsesPackage() {
		var rows []model.PackageProblem
		err := l.db.Where("package_id = ?", *assignment.PackageID).Order("position ASC").Find(&rows).Error
		if err != nil {
			return nil, err
		}
		var records []model.AttemptRecord
		err = l.db.Where("assignment_id = ?", assignment.ID).Find(&records).Error
		if err != nil {
			return nil, err
		}
		byProblem := make(map[uint]model.AttemptRecord, len(records))
		for _, rec := range records {
			byProblem[rec.ProblemID] = rec
		}
		result := make([]model.ProblemWithState, 0, len(rows))
		for i := range rows {
			problem := model.Problem{
				Source:        model.ProblemSourcePackage,
				ID:            rows[i].ID,
				Position:      rows[i].Position,
				Prompt:        rows[i].Prompt,
				AnswerKind:    rows[i].AnswerKind,
				CorrectAnswer: rows[i].CorrectAnswer,
				Options:       rows[i].Options,
				Explanation:   rows[i].Explanation,
				Hint:          rows[i].Hint,
				HintPrice:     rows[i].HintPrice,
				MaxAttempts:   maxAttemptsFor(assignment.ContentKind),
			}
			state := model.AttemptState{}
			if rec, ok := byProblem[rows[i].ID]; ok {
				state = model.AttemptState{
					SubmittedAnswer: rec.SubmittedAnswer,
					IsCorrect:       rec.IsCorrect,
					Attempts:        rec.Attempts,
					HintPurchased:   rec.HintPurchased,
					WorkImagePaths:  rec.WorkImagePaths,
				}
			}
			result = append(result, model.ProblemWithState{Problem: problem, State: state})
		}
		return result, nil
	}

	if assignment.ContentKind == model.ContentKindReading {
		var rows []model.LegacyReadingQuestion
		err := l.db.Where("assignment_id = ?", assignment.ID).Order("position ASC").Find(&rows).Error
		if err != nil {
			return nil, err
		}
		result := make([]model.ProblemWithState, 0, len(rows))
		for i := range rows {
			result = append(result, model.ProblemWithState{
				Problem: *legacyReadingProblem(&rows[i]),
				State: model.AttemptState{
					SubmittedAnswer: rows[i].SubmittedAnswer,
					IsCorrect:       rows[i].IsCorrect,
					Attempts:        rows[i].Attempts,
				},
			})
		}
		return result, nil
	}

	var rows []model.LegacyMathProblem
	err := l.db.Where("assignment_id = ?", assignment.ID).Order("position ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make([]model.ProblemWithState, 0, len(rows))
	for i := range rows {
		result = append(result, model.ProblemWithState{
			Problem: *legacyMathProblem(&rows[i]),
			State: model.AttemptState{
				SubmittedAnswer: rows[i].SubmittedAnswer,
				IsCorrect:       rows[i].IsCorrect,
				Attempts:        rows[i].Attempts,
				HintPurchased:   rows[i].HintPurchased,
				WorkImagePaths:  rows[i].WorkImagePaths,
			},
		})
	}
	return result, nil
}

func (l *attemptLedger) Progress(assignment *model.Assignment) (int64, int64, error) {
	if assignment.UsesPackage() {
		var total int64
		err := l.db.Model(&model.PackageProblem{}).
			Where("package_id = ?", *assignment.PackageID).Count(&total).Error
		if err != nil {
			return 0, 0, err
		}
		var answered int64
		err = l.db.Model(&model.AttemptRecord{}).
			Where("assignment_id = ? AND submitted_answer IS NOT NULL", assignment.ID).
			Count(&answered).Error
		return answered, total, err
	}

	if assignment.ContentKind == model.ContentKindReading {
		var total, answered int64
		if err := l.db.Model(&model.LegacyReadingQuestion{}).
			Where("assignment_id = ?", assignment.ID).Count(&total).Error; err != nil {
			return 0, 0, err
		}
		err := l.db.Model(&model.LegacyReadingQuestion{}).
			Where("assignment_id = ? AND submitted_answer IS NOT NULL", assignment.ID).
			Count(&answered).Error
		return answered, total, err
	}

	var total, answered int64
	if err := l.db.Model(&model.LegacyMathProblem{}).
		Where("assignment_id = ?", assignment.ID).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err := l.db.Model(&model.LegacyMathProblem{}).
		Where("assignment_id = ? AND submitted_answer IS NOT NULL", assignment.ID).
		Count(&answered).Error
	return answered, total, err
}

// checkAffected verifies that a guarded write touched exactly one row and
// surfaces a retriable conflict otherwise.
func checkAffected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return apperr.ErrTxConflict
	}
	return nil
}

package repository

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"homequest/internal/apperr"
	"homequest/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&model.Assignment{},
		&model.ProblemPackage{},
		&model.PackageProblem{},
		&model.LegacyMathProblem{},
		&model.LegacyReadingQuestion{},
		&model.AttemptRecord{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func ptr[T any](v T) *T { return &v }

// seedOneOfEachShape creates one assignment per storage shape, each holding a
// single problem, and returns them keyed by shape name.
func seedOneOfEachShape(t *testing.T, db *gorm.DB) map[string]*model.Assignment {
	t.Helper()

	pkg := &model.ProblemPackage{
		Title:       "shared set",
		ContentKind: model.ContentKindMath,
		Problems: []model.PackageProblem{
			{Position: 1, Prompt: "2+2?", AnswerKind: model.AnswerKindNumber, CorrectAnswer: "4", Hint: ptr("count on fingers")},
		},
	}
	if err := db.Create(pkg).Error; err != nil {
		t.Fatalf("failed to seed package: %v", err)
	}

	assignments := map[string]*model.Assignment{
		"package": {
			GuardianID: 1, LearnerID: 2, Title: "pkg", ContentKind: model.ContentKindMath,
			Status: model.AssignmentStatusPending, HintsAllowed: true, PackageID: &pkg.ID,
		},
		"legacy_math": {
			GuardianID: 1, LearnerID: 2, Title: "math", ContentKind: model.ContentKindMath,
			Status: model.AssignmentStatusPending, HintsAllowed: true,
			MathProblems: []model.LegacyMathProblem{
				{Position: 1, Prompt: "3+3?", AnswerKind: model.AnswerKindNumber, CorrectAnswer: "6", Hint: ptr("double it")},
			},
		},
		"legacy_reading": {
			GuardianID: 1, LearnerID: 2, Title: "reading", ContentKind: model.ContentKindReading,
			Status: model.AssignmentStatusPending, HintsAllowed: true,
			ReadingQuestions: []model.LegacyReadingQuestion{
				{Position: 1, Prompt: "Who?", AnswerKind: model.AnswerKindText, CorrectAnswer: "the cook"},
			},
		},
	}
	for name, a := range assignments {
		if err := db.Create(a).Error; err != nil {
			t.Fatalf("failed to seed %s assignment: %v", name, err)
		}
	}
	return assignments
}

func onlyProblemID(t *testing.T, db *gorm.DB, a *model.Assignment) uint {
	t.Helper()
	if a.UsesPackage() {
		var row model.PackageProblem
		if err := db.Where("package_id = ?", *a.PackageID).First(&row).Error; err != nil {
			t.Fatalf("failed to load package problem: %v", err)
		}
		return row.ID
	}
	if a.ContentKind == model.ContentKindReading {
		return a.ReadingQuestions[0].ID
	}
	return a.MathProblems[0].ID
}

func TestLedgerSameSemanticsAcrossShapes(t *testing.T) {
	db := newTestDB(t)
	ledger := NewAttemptLedger(db)
	assignments := seedOneOfEachShape(t, db)

	wantSource := map[string]model.ProblemSource{
		"package":        model.ProblemSourcePackage,
		"legacy_math":    model.ProblemSourceLegacyMath,
		"legacy_reading": model.ProblemSourceLegacyReading,
	}
	wantMaxAttempts := map[string]int{
		"package":        model.MaxMathAttempts,
		"legacy_math":    model.MaxMathAttempts,
		"legacy_reading": model.MaxReadingAttempts,
	}

	for shape, assignment := range assignments {
		t.Run(shape, func(t *testing.T) {
			problemID := onlyProblemID(t, db, assignment)

			problem, err := ledger.ResolveProblem(assignment, problemID)
			if err != nil {
				t.Fatalf("ResolveProblem failed: %v", err)
			}
			if problem.Source != wantSource[shape] {
				t.Errorf("Source = %q, want %q", problem.Source, wantSource[shape])
			}
			if problem.MaxAttempts != wantMaxAttempts[shape] {
				t.Errorf("MaxAttempts = %d, want %d", problem.MaxAttempts, wantMaxAttempts[shape])
			}

			state, err := ledger.LoadState(assignment, problem)
			if err != nil {
				t.Fatalf("LoadState failed: %v", err)
			}
			if state.Answered() || state.Attempts != 0 {
				t.Fatalf("fresh state not zero: %+v", state)
			}

			answered, total, err := ledger.Progress(assignment)
			if err != nil {
				t.Fatalf("Progress failed: %v", err)
			}
			if answered != 0 || total != 1 {
				t.Fatalf("Progress = (%d, %d), want (0, 1)", answered, total)
			}

			state.Attempts = 1
			state.SubmittedAnswer = ptr("wrong")
			state.IsCorrect = ptr(false)
			if err := ledger.SaveState(assignment, problem, state); err != nil {
				t.Fatalf("SaveState failed: %v", err)
			}

			reloaded, err := ledger.LoadState(assignment, problem)
			if err != nil {
				t.Fatalf("LoadState after save failed: %v", err)
			}
			if !reloaded.Answered() || reloaded.Attempts != 1 {
				t.Fatalf("state not persisted: %+v", reloaded)
			}
			if reloaded.IsCorrect == nil || *reloaded.IsCorrect {
				t.Errorf("IsCorrect = %v, want false", reloaded.IsCorrect)
			}

			answered, total, err = ledger.Progress(assignment)
			if err != nil {
				t.Fatalf("Progress failed: %v", err)
			}
			if answered != 1 || total != 1 {
				t.Fatalf("Progress = (%d, %d), want (1, 1)", answered, total)
			}
		})
	}
}

func TestLedgerStaleSaveConflicts(t *testing.T) {
	db := newTestDB(t)
	ledger := NewAttemptLedger(db)
	assignments := seedOneOfEachShape(t, db)

	for shape, assignment := range assignments {
		t.Run(shape, func(t *testing.T) {
			problemID := onlyProblemID(t, db, assignment)
			problem, err := ledger.ResolveProblem(assignment, problemID)
			if err != nil {
				t.Fatalf("ResolveProblem failed: %v", err)
			}

			state, err := ledger.LoadState(assignment, problem)
			if err != nil {
				t.Fatalf("LoadState failed: %v", err)
			}
			state.Attempts++
			state.SubmittedAnswer = ptr("first")
			state.IsCorrect = ptr(false)
			if err := ledger.SaveState(assignment, problem, state); err != nil {
				t.Fatalf("first SaveState failed: %v", err)
			}

			// Writing the same attempt number again means the writer loaded
			// state that a concurrent submission has since advanced.
			if err := ledger.SaveState(assignment, problem, state); !errors.Is(err, apperr.ErrTxConflict) {
				t.Fatalf("stale SaveState error = %v, want ErrTxConflict", err)
			}
		})
	}
}

func TestLedgerHintFlag(t *testing.T) {
	db := newTestDB(t)
	ledger := NewAttemptLedger(db)
	assignments := seedOneOfEachShape(t, db)

	t.Run("package creates a placeholder record", func(t *testing.T) {
		assignment := assignments["package"]
		problemID := onlyProblemID(t, db, assignment)
		problem, err := ledger.ResolveProblem(assignment, problemID)
		if err != nil {
			t.Fatalf("ResolveProblem failed: %v", err)
		}

		if err := ledger.SetHintPurchased(assignment, problem); err != nil {
			t.Fatalf("SetHintPurchased failed: %v", err)
		}
		state, err := ledger.LoadState(assignment, problem)
		if err != nil {
			t.Fatalf("LoadState failed: %v", err)
		}
		if !state.HintPurchased {
			t.Error("hint flag not persisted")
		}
		if state.Answered() {
			t.Error("placeholder record must not count as answered")
		}

		if err := ledger.SetHintPurchased(assignment, problem); !errors.Is(err, apperr.ErrTxConflict) {
			t.Fatalf("double purchase error = %v, want ErrTxConflict", err)
		}
	})

	t.Run("legacy math flips inline and guards double purchase", func(t *testing.T) {
		assignment := assignments["legacy_math"]
		problemID := onlyProblemID(t, db, assignment)
		problem, err := ledger.ResolveProblem(assignment, problemID)
		if err != nil {
			t.Fatalf("ResolveProblem failed: %v", err)
		}

		if err := ledger.SetHintPurchased(assignment, problem); err != nil {
			t.Fatalf("SetHintPurchased failed: %v", err)
		}
		if err := ledger.SetHintPurchased(assignment, problem); !errors.Is(err, apperr.ErrTxConflict) {
			t.Fatalf("double purchase error = %v, want ErrTxConflict", err)
		}
	})

	t.Run("reading refuses the flag outright", func(t *testing.T) {
		assignment := assignments["legacy_reading"]
		problemID := onlyProblemID(t, db, assignment)
		problem, err := ledger.ResolveProblem(assignment, problemID)
		if err != nil {
			t.Fatalf("ResolveProblem failed: %v", err)
		}

		if err := ledger.SetHintPurchased(assignment, problem); !errors.Is(err, apperr.ErrHintNotEligible) {
			t.Fatalf("error = %v, want ErrHintNotEligible", err)
		}
	})
}

func TestLedgerResolveUnknownProblem(t *testing.T) {
	db := newTestDB(t)
	ledger := NewAttemptLedger(db)
	assignments := seedOneOfEachShape(t, db)

	for shape, assignment := range assignments {
		t.Run(shape, func(t *testing.T) {
			if _, err := ledger.ResolveProblem(assignment, 9999); !errors.Is(err, apperr.ErrNotFound) {
				t.Fatalf("error = %v, want ErrNotFound", err)
			}
		})
	}
}

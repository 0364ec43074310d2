package service

import (
	"errors"
	"testing"

	"homequest/internal/apperr"
	"homequest/internal/model"
)

func TestIsCorrectNumber(t *testing.T) {
	checker := NewAnswerCheckerService()

	tests := []struct {
		name      string
		submitted string
		correct   string
		want      bool
	}{
		{"exact match", "42", "42", true},
		{"surrounding whitespace ignored", "  42  ", "42", true},
		{"comma decimal separator matches period", "12,5", "12.5", true},
		{"trailing percent sign stripped", "12.5%", "12.5", true},
		{"comma and percent together", "12,5%", "12.5", true},
		{"stored answer normalized too", "12.5", "12,5%", true},
		{"different values", "12.4", "12.5", false},
		{"empty submission", "", "42", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checker.IsCorrect(model.AnswerKindNumber, tt.submitted, tt.correct, nil)
			if err != nil {
				t.Fatalf("IsCorrect returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsCorrect(%q, %q) = %v, want %v", tt.submitted, tt.correct, got, tt.want)
			}
		})
	}
}

func TestIsCorrectMultipleChoice(t *testing.T) {
	checker := NewAnswerCheckerService()
	options := []string{"A) Paris", "B) London", "C) Berlin"}

	tests := []struct {
		name      string
		submitted string
		correct   string
		want      bool
	}{
		{"matching letter", "B", "B", true},
		{"lowercase submission", "b", "B", true},
		{"lowercase stored answer", "B", "b", true},
		{"whitespace around submission", " B ", "B", true},
		{"wrong letter", "A", "B", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checker.IsCorrect(model.AnswerKindMultipleChoice, tt.submitted, tt.correct, options)
			if err != nil {
				t.Fatalf("IsCorrect returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsCorrect(%q, %q) = %v, want %v", tt.submitted, tt.correct, got, tt.want)
			}
		})
	}
}

func TestIsCorrectMultipleChoiceInvalidConfig(t *testing.T) {
	checker := NewAnswerCheckerService()

	tests := []struct {
		name    string
		correct string
		options []string
	}{
		{"correct letter matches no option", "D", []string{"A) one", "B) two", "C) three"}},
		{"empty correct answer", "", []string{"A) one", "B) two"}},
		{"no options at all", "A", nil},
		{"options are all blank", "A", []string{"", "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checker.IsCorrect(model.AnswerKindMultipleChoice, "A", tt.correct, tt.options)
			if !errors.Is(err, apperr.ErrConfigInvalid) {
				t.Fatalf("IsCorrect error = %v, want ErrConfigInvalid", err)
			}
			if got {
				t.Error("IsCorrect = true despite invalid configuration")
			}
		})
	}
}

func TestIsCorrectText(t *testing.T) {
	checker := NewAnswerCheckerService()

	tests := []struct {
		name      string
		submitted string
		correct   string
		want      bool
	}{
		{"case insensitive", "Photosynthesis", "photosynthesis", true},
		{"whitespace trimmed", "  photosynthesis ", "photosynthesis", true},
		{"different words", "respiration", "photosynthesis", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checker.IsCorrect(model.AnswerKindText, tt.submitted, tt.correct, nil)
			if err != nil {
				t.Fatalf("IsCorrect returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsCorrect(%q, %q) = %v, want %v", tt.submitted, tt.correct, got, tt.want)
			}
		})
	}
}

func TestIsCorrectUnknownKindFailsClosed(t *testing.T) {
	checker := NewAnswerCheckerService()

	got, err := checker.IsCorrect("essay", "anything", "anything", nil)
	if err != nil {
		t.Fatalf("IsCorrect returned error: %v", err)
	}
	if got {
		t.Error("unknown answer kind graded as correct; must fail closed")
	}
}

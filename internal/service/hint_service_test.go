package service

import (
	"testing"

	"homequest/internal/model"
)

func hintQuoteService() HintService {
	return NewHintService(nil, nil, nil, NewRewardService(), nil, nil)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func mathAssignment() *model.Assignment {
	return &model.Assignment{ID: 1, ContentKind: model.ContentKindMath, HintsAllowed: true}
}

func mathProblemWithHint() *model.Problem {
	return &model.Problem{
		Source:      model.ProblemSourceLegacyMath,
		ID:          10,
		AnswerKind:  model.AnswerKindNumber,
		Hint:        strPtr("try long division"),
		MaxAttempts: model.MaxMathAttempts,
	}
}

func TestQuoteEligibility(t *testing.T) {
	hints := hintQuoteService()

	tests := []struct {
		name       string
		assignment func() *model.Assignment
		problem    func() *model.Problem
		state      model.AttemptState
		wantCanBuy bool
	}{
		{
			"eligible after one failed attempt",
			mathAssignment, mathProblemWithHint,
			model.AttemptState{Attempts: 1, SubmittedAnswer: strPtr("41"), IsCorrect: boolPtr(false)},
			true,
		},
		{
			"no attempts yet",
			mathAssignment, mathProblemWithHint,
			model.AttemptState{},
			false,
		},
		{
			"hint already purchased",
			mathAssignment, mathProblemWithHint,
			model.AttemptState{Attempts: 1, HintPurchased: true},
			false,
		},
		{
			"question solved",
			mathAssignment, mathProblemWithHint,
			model.AttemptState{Attempts: 2, SubmittedAnswer: strPtr("42"), IsCorrect: boolPtr(true)},
			false,
		},
		{
			"attempt cap reached",
			mathAssignment, mathProblemWithHint,
			model.AttemptState{Attempts: model.MaxMathAttempts, IsCorrect: boolPtr(false)},
			false,
		},
		{
			"hints disabled on the assignment",
			func() *model.Assignment {
				a := mathAssignment()
				a.HintsAllowed = false
				return a
			},
			mathProblemWithHint,
			model.AttemptState{Attempts: 1},
			false,
		},
		{
			"no hint authored",
			mathAssignment,
			func() *model.Problem {
				p := mathProblemWithHint()
				p.Hint = nil
				return p
			},
			model.AttemptState{Attempts: 1},
			false,
		},
		{
			"reading assignment never sells hints",
			func() *model.Assignment {
				return &model.Assignment{ID: 2, ContentKind: model.ContentKindReading, HintsAllowed: true}
			},
			func() *model.Problem {
				p := mathProblemWithHint()
				p.Source = model.ProblemSourceLegacyReading
				p.MaxAttempts = model.MaxReadingAttempts
				return p
			},
			model.AttemptState{},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canBuy, price := hints.Quote(tt.assignment(), tt.problem(), tt.state)
			if canBuy != tt.wantCanBuy {
				t.Errorf("Quote canBuy = %v, want %v", canBuy, tt.wantCanBuy)
			}
			if !canBuy && price != 0 {
				t.Errorf("Quote price = %d for an ineligible hint, want 0", price)
			}
		})
	}
}

func TestQuotePricing(t *testing.T) {
	hints := hintQuoteService()

	tests := []struct {
		name      string
		attempts  int
		hintPrice int
		want      int
	}{
		{"half of the second-attempt reward", 1, 0, 3},
		{"floored and never below one coin", 2, 0, 1},
		{"authored price overrides the formula", 1, 8, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := mathProblemWithHint()
			problem.HintPrice = tt.hintPrice
			state := model.AttemptState{
				Attempts:        tt.attempts,
				SubmittedAnswer: strPtr("wrong"),
				IsCorrect:       boolPtr(false),
			}
			canBuy, price := hints.Quote(mathAssignment(), problem, state)
			if !canBuy {
				t.Fatal("Quote refused an eligible hint")
			}
			if price != tt.want {
				t.Errorf("Quote price = %d, want %d", price, tt.want)
			}
		})
	}
}

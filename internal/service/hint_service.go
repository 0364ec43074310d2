package service

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"homequest/internal/apperr"
	"homequest/internal/cache"
	"homequest/internal/dto"
	"homequest/internal/model"
	"homequest/internal/repository"
)

// HintService gates the hint-purchase economy: eligibility, pricing, and the
// atomic debit-then-flag purchase.
type HintService interface {
	// Quote returns hint eligibility and price for the given state without
	// mutating anything.
	Quote(assignment *model.Assignment, problem *model.Problem, state model.AttemptState) (bool, int)
	Purchase(learnerID, assignmentID, problemID uint) (*dto.HintResponse, error)
}

type hintService struct {
	assignmentRepo repository.AssignmentRepository
	ledger         repository.AttemptLedger
	coinRepo       repository.CoinAccountRepository
	rewards        RewardService
	cache          *cache.Cache
	db             *gorm.DB
}

func NewHintService(
	assignmentRepo repository.AssignmentRepository,
	ledger repository.AttemptLedger,
	coinRepo repository.CoinAccountRepository,
	rewards RewardService,
	c *cache.Cache,
	db *gorm.DB,
) HintService {
	return &hintService{
		assignmentRepo: assignmentRepo,
		ledger:         ledger,
		coinRepo:       coinRepo,
		rewards:        rewards,
		cache:          c,
		db:             db,
	}
}

func (s *hintService) Quote(assignment *model.Assignment, problem *model.Problem, state model.AttemptState) (bool, int) {
	if refusalReason(assignment, problem, state) != "" {
		return false, 0
	}
	return true, s.price(problem, state)
}

// price is half the next attempt's potential reward, floored, never below
// one coin. An authored per-problem price overrides the formula.
func (s *hintService) price(problem *model.Problem, state model.AttemptState) int {
	if problem.HintPrice > 0 {
		return problem.HintPrice
	}
	preview := s.rewards.PreviewNextReward(state.Attempts)
	price := preview / 2
	if price < 1 {
		price = 1
	}
	return price
}

// refusalReason returns "" when the hint can be bought, or the user-facing
// reason it cannot.
func refusalReason(assignment *model.Assignment, problem *model.Problem, state model.AttemptState) string {
	switch {
	case assignment.ContentKind == model.ContentKindReading || problem.Source == model.ProblemSourceLegacyReading:
		return "hints are not available for reading questions"
	case !assignment.HintsAllowed:
		return "hints are not enabled for this assignment"
	case !problem.HasHint():
		return "this question has no hint"
	case state.HintPurchased:
		return "hint already purchased"
	case state.Terminal(problem.MaxAttempts):
		return "question already completed"
	case state.Attempts < 1:
		return "you must attempt the question first"
	}
	return ""
}

func (s *hintService) Purchase(learnerID, assignmentID, problemID uint) (*dto.HintResponse, error) {
	assignment, err := s.assignmentRepo.FindByIDForLearner(assignmentID, learnerID)
	if err != nil {
		return nil, err
	}
	problem, err := s.ledger.ResolveProblem(assignment, problemID)
	if err != nil {
		return nil, err
	}

	if _, err := s.coinRepo.GetOrCreate(learnerID); err != nil {
		return nil, fmt.Errorf("failed to load wallet for learner %d: %w", learnerID, err)
	}

	var price int
	err = s.db.Transaction(func(tx *gorm.DB) error {
		ledger := s.ledger.WithTx(tx)

		// Re-validate inside the transaction so a concurrent submission
		// cannot slip a purchase past a now-terminal state.
		state, err := ledger.LoadState(assignment, problem)
		if err != nil {
			return err
		}
		if reason := refusalReason(assignment, problem, state); reason != "" {
			return &apperr.HintError{Reason: reason}
		}
		price = s.price(problem, state)

		if err := s.coinRepo.WithTx(tx).Debit(learnerID, price); err != nil {
			return err
		}
		return ledger.SetHintPurchased(assignment, problem)
	})
	if err != nil {
		return nil, err
	}

	// Defense against a storage layer that reports success without applying
	// the write: confirm the flag after commit.
	if state, verifyErr := s.ledger.LoadState(assignment, problem); verifyErr != nil || !state.HintPurchased {
		log.Error().Err(verifyErr).
			Uint("assignmentID", assignmentID).
			Uint("problemID", problemID).
			Msg("Hint purchase committed but flag not observable on re-read")
	}

	// Fire-and-forget relative to the purchase transaction.
	s.cache.Invalidate(assignment.GuardianID, assignment.LearnerID, assignment.ID)

	account, err := s.coinRepo.Find(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload wallet after hint purchase: %w", err)
	}

	return &dto.HintResponse{
		Hint:       *problem.Hint,
		CoinsSpent: price,
		NewBalance: account.Balance,
	}, nil
}

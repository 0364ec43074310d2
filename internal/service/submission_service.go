package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"homequest/internal/apperr"
	"homequest/internal/cache"
	"homequest/internal/dto"
	"homequest/internal/model"
	"homequest/internal/repository"
)

// SubmissionService is the answer submission engine. One call grades an
// answer, advances the per-question state machine, adjusts the wallet and
// detects assignment completion, all within a single transaction.
type SubmissionService interface {
	SubmitAnswer(learnerID, assignmentID, problemID uint, answer string, workRefs []string) (*dto.SubmitAnswerResponse, error)
}

type submissionService struct {
	assignmentRepo repository.AssignmentRepository
	ledger         repository.AttemptLedger
	coinRepo       repository.CoinAccountRepository
	checker        AnswerCheckerService
	rewards        RewardService
	hints          HintService
	cache          *cache.Cache
	db             *gorm.DB
}

func NewSubmissionService(
	assignmentRepo repository.AssignmentRepository,
	ledger repository.AttemptLedger,
	coinRepo repository.CoinAccountRepository,
	checker AnswerCheckerService,
	rewards RewardService,
	hints HintService,
	c *cache.Cache,
	db *gorm.DB,
) SubmissionService {
	return &submissionService{
		assignmentRepo: assignmentRepo,
		ledger:         ledger,
		coinRepo:       coinRepo,
		checker:        checker,
		rewards:        rewards,
		hints:          hints,
		cache:          c,
		db:             db,
	}
}

// gradeOutcome carries everything one committed grading transaction decided.
type gradeOutcome struct {
	problem            *model.Problem
	state              model.AttemptState
	attemptNumber      int
	isCorrect          bool
	coinsEarned        int
	assignmentComplete bool
}

func (s *submissionService) SubmitAnswer(learnerID, assignmentID, problemID uint, answer string, workRefs []string) (*dto.SubmitAnswerResponse, error) {
	assignment, err := s.assignmentRepo.FindByIDForLearner(assignmentID, learnerID)
	if err != nil {
		return nil, err
	}

	// The wallet row must exist before the guarded in-transaction updates.
	if _, err := s.coinRepo.GetOrCreate(learnerID); err != nil {
		return nil, fmt.Errorf("failed to load wallet for learner %d: %w", learnerID, err)
	}

	outcome, err := s.grade(assignment, problemID, answer, workRefs)
	if errors.Is(err, apperr.ErrTxConflict) {
		// One internal retry; a second conflict surfaces to the caller.
		log.Warn().Uint("assignmentID", assignmentID).Uint("problemID", problemID).
			Msg("Submission hit a write conflict, retrying once")
		outcome, err = s.grade(assignment, problemID, answer, workRefs)
	}
	if err != nil {
		return nil, err
	}

	// Fire-and-forget relative to the grading transaction.
	s.cache.Invalidate(assignment.GuardianID, assignment.LearnerID, assignment.ID)

	account, err := s.coinRepo.Find(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload wallet after grading: %w", err)
	}

	return s.buildResponse(assignment, outcome, account), nil
}

// grade runs steps 2-7 of the submission algorithm as one transaction.
func (s *submissionService) grade(assignment *model.Assignment, problemID uint, answer string, workRefs []string) (*gradeOutcome, error) {
	problem, err := s.ledger.ResolveProblem(assignment, problemID)
	if err != nil {
		return nil, err
	}

	state, err := s.ledger.LoadState(assignment, problem)
	if err != nil {
		return nil, err
	}
	if state.Terminal(problem.MaxAttempts) {
		return nil, apperr.ErrAlreadyTerminal
	}

	attemptNumber := state.Attempts + 1

	// Grading happens before any mutation: a corrupt multiple-choice
	// configuration halts here with no AttemptRecord created.
	isCorrect, err := s.checker.IsCorrect(problem.AnswerKind, answer, problem.CorrectAnswer, problem.Options)
	if errors.Is(err, apperr.ErrConfigInvalid) {
		log.Error().
			Uint("assignmentID", assignment.ID).
			Uint("problemID", problem.ID).
			Str("answerKind", problem.AnswerKind).
			Msg("Unanswerable question: correct answer matches no option letter")
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	coinsEarned := 0
	if isCorrect {
		coinsEarned = s.rewards.RewardForAttempt(attemptNumber)
	}

	newState := state
	newState.Attempts = attemptNumber
	newState.SubmittedAnswer = &answer
	newState.IsCorrect = &isCorrect
	newState.WorkImagePaths = append(newState.WorkImagePaths, workRefs...)

	outcome := &gradeOutcome{
		problem:       problem,
		state:         newState,
		attemptNumber: attemptNumber,
		isCorrect:     isCorrect,
		coinsEarned:   coinsEarned,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		ledger := s.ledger.WithTx(tx)
		coins := s.coinRepo.WithTx(tx)
		assignments := s.assignmentRepo.WithTx(tx)

		if err := ledger.SaveState(assignment, problem, newState); err != nil {
			return err
		}

		if coinsEarned > 0 {
			if err := coins.Credit(assignment.LearnerID, coinsEarned); err != nil {
				return err
			}
		} else if newState.Terminal(problem.MaxAttempts) {
			// Final failed attempt (or a single-attempt miss) breaks the
			// streak; an intermediate wrong attempt does not.
			if err := coins.ResetStreak(assignment.LearnerID); err != nil {
				return err
			}
		}

		if err := assignments.MarkInProgress(assignment.ID); err != nil {
			return err
		}

		answered, total, err := ledger.Progress(assignment)
		if err != nil {
			return err
		}
		if total > 0 && answered == total {
			outcome.assignmentComplete = true
			if err := assignments.MarkCompleted(assignment.ID, time.Now()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (s *submissionService) buildResponse(assignment *model.Assignment, outcome *gradeOutcome, account *model.CoinAccount) *dto.SubmitAnswerResponse {
	problem := outcome.problem
	terminal := outcome.state.Terminal(problem.MaxAttempts)

	resp := &dto.SubmitAnswerResponse{
		IsCorrect:          outcome.isCorrect,
		CoinsEarned:        outcome.coinsEarned,
		TotalCoins:         account.Balance,
		Streak:             account.Streak,
		AttemptNumber:      outcome.attemptNumber,
		CanRetry:           !terminal,
		MaxAttempts:        problem.MaxAttempts,
		QuestionComplete:   terminal,
		AssignmentComplete: outcome.assignmentComplete,
	}

	// The correct answer and explanation are revealed only once the question
	// is terminal, for every content kind.
	if terminal {
		resp.CorrectAnswer = &problem.CorrectAnswer
		if problem.Explanation != "" {
			explanation := problem.Explanation
			resp.Explanation = &explanation
		}
	} else {
		resp.PotentialReward = s.rewards.PreviewNextReward(outcome.attemptNumber)
	}

	resp.CanBuyHint, resp.HintCost = s.hints.Quote(assignment, problem, outcome.state)
	return resp
}

package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"homequest/internal/cache"
	"homequest/internal/dto"
	"homequest/internal/model"
	"homequest/internal/repository"
)

// AssignmentService serves the list/detail surfaces for learners and
// guardians, with a read-through cache in front of the list queries, and the
// guardian authoring operations.
type AssignmentService interface {
	ListForLearner(learnerID uint) ([]dto.AssignmentSummaryDTO, error)
	GetDetailForLearner(learnerID, assignmentID uint) (*dto.AssignmentDetailDTO, error)
	ListForGuardian(guardianID, learnerID uint) ([]dto.AssignmentSummaryDTO, error)
	CreateLegacy(guardianID uint, req dto.CreateAssignmentRequest) (*dto.AssignmentDetailDTO, error)
	UpdateSortOrder(guardianID, assignmentID uint, order int) error
}

type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	ledger         repository.AttemptLedger
	hints          HintService
	cache          *cache.Cache
}

func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	ledger repository.AttemptLedger,
	hints HintService,
	c *cache.Cache,
) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		ledger:         ledger,
		hints:          hints,
		cache:          c,
	}
}

func (s *assignmentService) ListForLearner(learnerID uint) ([]dto.AssignmentSummaryDTO, error) {
	key := cache.LearnerAssignmentsKey(learnerID)
	if cached, ok := s.cache.Get(key); ok {
		if dtos, ok := cached.([]dto.AssignmentSummaryDTO); ok {
			return dtos, nil
		}
	}

	assignments, err := s.assignmentRepo.FindAllByLearner(learnerID)
	if err != nil {
		return nil, fmt.Errorf("error fetching assignments for learner %d: %w", learnerID, err)
	}
	dtos, err := s.summarize(assignments)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, dtos)
	return dtos, nil
}

func (s *assignmentService) ListForGuardian(guardianID, learnerID uint) ([]dto.AssignmentSummaryDTO, error) {
	key := cache.GuardianAssignmentsKey(guardianID, learnerID)
	if cached, ok := s.cache.Get(key); ok {
		if dtos, ok := cached.([]dto.AssignmentSummaryDTO); ok {
			return dtos, nil
		}
	}

	assignments, err := s.assignmentRepo.FindAllByLearner(learnerID)
	if err != nil {
		return nil, fmt.Errorf("error fetching assignments for learner %d: %w", learnerID, err)
	}
	owned := make([]model.Assignment, 0, len(assignments))
	for _, a := range assignments {
		if a.GuardianID == guardianID {
			owned = append(owned, a)
		}
	}
	dtos, err := s.summarize(owned)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, dtos)
	return dtos, nil
}

func (s *assignmentService) summarize(assignments []model.Assignment) ([]dto.AssignmentSummaryDTO, error) {
	dtos := make([]dto.AssignmentSummaryDTO, 0, len(assignments))
	for i := range assignments {
		var summary dto.AssignmentSummaryDTO
		if err := copier.Copy(&summary, &assignments[i]); err != nil {
			log.Error().Err(err).Uint("assignmentID", assignments[i].ID).Msg("Error copying assignment to summary DTO")
			continue
		}
		answered, total, err := s.ledger.Progress(&assignments[i])
		if err != nil {
			return nil, fmt.Errorf("error counting progress for assignment %d: %w", assignments[i].ID, err)
		}
		summary.AnsweredCount = int(answered)
		summary.ProblemCount = int(total)
		dtos = append(dtos, summary)
	}
	return dtos, nil
}

func (s *assignmentService) GetDetailForLearner(learnerID, assignmentID uint) (*dto.AssignmentDetailDTO, error) {
	key := cache.AssignmentDetailKey(assignmentID, learnerID)
	if cached, ok := s.cache.Get(key); ok {
		if detail, ok := cached.(*dto.AssignmentDetailDTO); ok {
			return detail, nil
		}
	}

	assignment, err := s.assignmentRepo.FindByIDForLearner(assignmentID, learnerID)
	if err != nil {
		return nil, err
	}
	detail, err := s.detail(assignment)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, detail)
	return detail, nil
}

func (s *assignmentService) detail(assignment *model.Assignment) (*dto.AssignmentDetailDTO, error) {
	var detail dto.AssignmentDetailDTO
	if err := copier.Copy(&detail.AssignmentSummaryDTO, assignment); err != nil {
		return nil, fmt.Errorf("error preparing assignment detail: %w", err)
	}

	items, err := s.ledger.LoadAll(assignment)
	if err != nil {
		return nil, fmt.Errorf("error loading problems for assignment %d: %w", assignment.ID, err)
	}

	detail.Problems = make([]dto.ProblemStateDTO, 0, len(items))
	answered := 0
	for i := range items {
		problem := &items[i].Problem
		state := items[i].State
		terminal := state.Terminal(problem.MaxAttempts)

		p := dto.ProblemStateDTO{
			ID:            problem.ID,
			Position:      problem.Position,
			Prompt:        problem.Prompt,
			AnswerKind:    problem.AnswerKind,
			Options:       problem.Options,
			Attempts:      state.Attempts,
			MaxAttempts:   problem.MaxAttempts,
			Answered:      state.Answered(),
			CanRetry:      !terminal,
			HintPurchased: state.HintPurchased,
		}
		if state.Answered() {
			answered++
		}
		if terminal {
			p.IsCorrect = state.IsCorrect
			p.CorrectAnswer = &problem.CorrectAnswer
			if problem.Explanation != "" {
				explanation := problem.Explanation
				p.Explanation = &explanation
			}
		}
		p.CanBuyHint, p.HintCost = s.hints.Quote(assignment, problem, state)
		detail.Problems = append(detail.Problems, p)
	}
	detail.ProblemCount = len(items)
	detail.AnsweredCount = answered
	return &detail, nil
}

func (s *assignmentService) CreateLegacy(guardianID uint, req dto.CreateAssignmentRequest) (*dto.AssignmentDetailDTO, error) {
	hintsAllowed := true
	if req.HintsAllowed != nil {
		hintsAllowed = *req.HintsAllowed
	}

	assignment := model.Assignment{
		GuardianID:   guardianID,
		LearnerID:    req.LearnerID,
		Title:        req.Title,
		ContentKind:  req.ContentKind,
		Status:       model.AssignmentStatusPending,
		HintsAllowed: hintsAllowed,
	}

	if req.ContentKind == model.ContentKindReading {
		for i, input := range req.Problems {
			assignment.ReadingQuestions = append(assignment.ReadingQuestions, model.LegacyReadingQuestion{
				Position:      i + 1,
				Prompt:        input.Prompt,
				AnswerKind:    input.AnswerKind,
				CorrectAnswer: input.CorrectAnswer,
				Options:       input.Options,
				Explanation:   input.Explanation,
			})
		}
	} else {
		for i, input := range req.Problems {
			assignment.MathProblems = append(assignment.MathProblems, model.LegacyMathProblem{
				Position:      i + 1,
				Prompt:        input.Prompt,
				AnswerKind:    input.AnswerKind,
				CorrectAnswer: input.CorrectAnswer,
				Options:       input.Options,
				Explanation:   input.Explanation,
				Hint:          input.Hint,
				HintPrice:     input.HintPrice,
			})
		}
	}

	if err := s.assignmentRepo.Create(&assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	s.cache.Invalidate(guardianID, req.LearnerID, 0)
	return s.detail(&assignment)
}

func (s *assignmentService) UpdateSortOrder(guardianID, assignmentID uint, order int) error {
	assignment, err := s.assignmentRepo.FindByIDForGuardian(assignmentID, guardianID)
	if err != nil {
		return err
	}
	if err := s.assignmentRepo.UpdateSortOrder(assignment.ID, order); err != nil {
		return err
	}
	s.cache.Invalidate(assignment.GuardianID, assignment.LearnerID, assignment.ID)
	return nil
}

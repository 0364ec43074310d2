package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"homequest/config"
	"homequest/internal/apperr"
	"homequest/internal/cache"
	"homequest/internal/dto"
	"homequest/internal/model"
	"homequest/internal/repository"
)

// GeneratorService builds a shared ProblemPackage from a topic via Gemini and
// creates an assignment referencing it.
type GeneratorService interface {
	GenerateAssignment(guardianID uint, req dto.GenerateAssignmentRequest) (*dto.AssignmentDetailDTO, error)
}

type generatorService struct {
	client         *genai.GenerativeModel
	cfg            *config.Config
	packageRepo    repository.PackageRepository
	assignmentRepo repository.AssignmentRepository
	checker        AnswerCheckerService
	cache          *cache.Cache
	db             *gorm.DB
}

func NewGeneratorService(
	cfg *config.Config,
	packageRepo repository.PackageRepository,
	assignmentRepo repository.AssignmentRepository,
	checker AnswerCheckerService,
	c *cache.Cache,
	db *gorm.DB,
) (GeneratorService, error) {
	svc := &generatorService{
		cfg:            cfg,
		packageRepo:    packageRepo,
		assignmentRepo: assignmentRepo,
		checker:        checker,
		cache:          c,
		db:             db,
	}

	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GeneratorService will not function.")
		return svc, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Gemini client")
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	svc.client = client.GenerativeModel("gemini-1.5-flash")
	return svc, nil
}

// generatedProblem is the JSON shape we ask the model to produce.
type generatedProblem struct {
	Prompt        string   `json:"prompt"`
	AnswerKind    string   `json:"answer_kind"`
	CorrectAnswer string   `json:"correct_answer"`
	Options       []string `json:"options,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	Hint          string   `json:"hint,omitempty"`
}

func (s *generatorService) GenerateAssignment(guardianID uint, req dto.GenerateAssignmentRequest) (*dto.AssignmentDetailDTO, error) {
	if s.client == nil {
		return nil, fmt.Errorf("problem generation is unavailable: no API key configured")
	}

	problems, err := s.generateProblems(req)
	if err != nil {
		return nil, err
	}

	hintsAllowed := true
	if req.HintsAllowed != nil {
		hintsAllowed = *req.HintsAllowed
	}

	pkg := model.ProblemPackage{
		Title:       req.Title,
		ContentKind: req.ContentKind,
	}
	for i, gp := range problems {
		var hint *string
		if gp.Hint != "" && req.ContentKind != model.ContentKindReading {
			h := gp.Hint
			hint = &h
		}
		pkg.Problems = append(pkg.Problems, model.PackageProblem{
			Position:      i + 1,
			Prompt:        gp.Prompt,
			AnswerKind:    gp.AnswerKind,
			CorrectAnswer: gp.CorrectAnswer,
			Options:       gp.Options,
			Explanation:   gp.Explanation,
			Hint:          hint,
		})
	}

	var assignment model.Assignment
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.packageRepo.WithTx(tx).Create(&pkg); err != nil {
			return fmt.Errorf("failed to persist generated package: %w", err)
		}
		assignment = model.Assignment{
			GuardianID:   guardianID,
			LearnerID:    req.LearnerID,
			Title:        req.Title,
			ContentKind:  req.ContentKind,
			Status:       model.AssignmentStatusPending,
			PackageID:    &pkg.ID,
			HintsAllowed: hintsAllowed,
		}
		return s.assignmentRepo.WithTx(tx).Create(&assignment)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(guardianID, req.LearnerID, 0)

	log.Info().Uint("assignmentID", assignment.ID).Uint("packageID", pkg.ID).
		Int("problems", len(pkg.Problems)).Msg("Generated package-backed assignment")

	detail := dto.AssignmentDetailDTO{}
	detail.ID = assignment.ID
	detail.Title = assignment.Title
	detail.ContentKind = assignment.ContentKind
	detail.Status = assignment.Status
	detail.HintsAllowed = assignment.HintsAllowed
	detail.ProblemCount = len(pkg.Problems)
	detail.CreatedAt = assignment.CreatedAt
	for _, p := range pkg.Problems {
		detail.Problems = append(detail.Problems, dto.ProblemStateDTO{
			ID:          p.ID,
			Position:    p.Position,
			Prompt:      p.Prompt,
			AnswerKind:  p.AnswerKind,
			Options:     p.Options,
			MaxAttempts: maxAttemptsForKind(req.ContentKind),
			CanRetry:    true,
		})
	}
	return &detail, nil
}

func maxAttemptsForKind(kind string) int {
	if kind == model.ContentKindReading {
		return model.MaxReadingAttempts
	}
	return model.MaxMathAttempts
}

func (s *generatorService) generateProblems(req dto.GenerateAssignmentRequest) ([]generatedProblem, error) {
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}

	prompt := fmt.Sprintf(`You are authoring exercises for a children's education portal.
Produce exactly %d %s problems about "%s" at %s difficulty.

Respond with ONLY a JSON array, no prose, where each element is:
{
  "prompt": "the question text",
  "answer_kind": "number" | "multiple_choice" | "text",
  "correct_answer": "...",
  "options": ["A: ...", "B: ...", "C: ...", "D: ..."],
  "explanation": "why the answer is correct",
  "hint": "a nudge that does not give the answer away"
}

Rules:
- For "multiple_choice", correct_answer MUST be the single letter of one of the options.
- For "number", correct_answer is the bare numeric value.
- Omit "options" unless answer_kind is "multiple_choice".
`, req.ProblemCount, req.ContentKind, req.Topic, difficulty)

	resp, err := s.client.GenerateContent(context.Background(), genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Str("topic", req.Topic).Msg("Gemini generation failed")
		return nil, fmt.Errorf("problem generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("problem generation returned no candidates")
	}

	var raw strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			raw.WriteString(string(text))
		}
	}

	payload := strings.TrimSpace(raw.String())
	payload = strings.TrimPrefix(payload, "```json")
	payload = strings.TrimPrefix(payload, "```")
	payload = strings.TrimSuffix(payload, "```")

	var problems []generatedProblem
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &problems); err != nil {
		log.Error().Err(err).Msg("Failed to parse generated problems JSON")
		return nil, fmt.Errorf("failed to parse generated problems: %w", err)
	}
	if len(problems) == 0 {
		return nil, fmt.Errorf("problem generation returned an empty set")
	}

	// Reject unanswerable output before anything is persisted: the same
	// configuration check the grader applies.
	for i, gp := range problems {
		if gp.AnswerKind == model.AnswerKindMultipleChoice {
			if _, err := s.checker.IsCorrect(gp.AnswerKind, "", gp.CorrectAnswer, gp.Options); err != nil {
				log.Warn().Int("index", i).Str("correct", gp.CorrectAnswer).
					Msg("Discarding generated multiple-choice problem with unmatched answer letter")
				return nil, fmt.Errorf("generated problem %d is unanswerable: %w", i+1, apperr.ErrConfigInvalid)
			}
		}
	}
	return problems, nil
}

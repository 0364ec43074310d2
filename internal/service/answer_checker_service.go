package service

import (
	"strings"

	"homequest/internal/apperr"
	"homequest/internal/model"
)

// AnswerCheckerService decides whether a submitted answer equals the stored
// correct answer, per answer kind. Pure; it fails closed (false, nil) on
// malformed input, except for the multiple-choice configuration check which
// must halt grading instead of silently mis-grading.
type AnswerCheckerService interface {
	IsCorrect(kind, submitted, correctAnswer string, options []string) (bool, error)
}

type answerCheckerService struct{}

func NewAnswerCheckerService() AnswerCheckerService {
	return &answerCheckerService{}
}

func (s *answerCheckerService) IsCorrect(kind, submitted, correctAnswer string, options []string) (bool, error) {
	switch kind {
	case model.AnswerKindNumber:
		return normalizeNumber(submitted) == normalizeNumber(correctAnswer), nil

	case model.AnswerKindMultipleChoice:
		letter, err := choiceLetter(correctAnswer, options)
		if err != nil {
			return false, err
		}
		return strings.ToUpper(strings.TrimSpace(submitted)) == letter, nil

	case model.AnswerKindText:
		return normalizeText(submitted) == normalizeText(correctAnswer), nil

	default:
		return false, nil
	}
}

// normalizeNumber compares numeric answers as normalized strings rather than
// parsed floats, so "12,5%" and "12.5" match without precision drift.
func normalizeNumber(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.ReplaceAll(v, ",", ".")
	v = strings.TrimSuffix(v, "%")
	return strings.TrimSpace(v)
}

func normalizeText(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// choiceLetter validates that the authored correct answer matches the leading
// letter of at least one option. A miss means the question is unanswerable:
// corrupt authoring data, not a user error.
func choiceLetter(correctAnswer string, options []string) (string, error) {
	letter := strings.ToUpper(strings.TrimSpace(correctAnswer))
	if letter == "" {
		return "", apperr.ErrConfigInvalid
	}
	for _, option := range options {
		trimmed := strings.TrimSpace(option)
		if trimmed == "" {
			continue
		}
		if strings.EqualFold(trimmed[:1], letter) {
			return letter, nil
		}
	}
	return "", apperr.ErrConfigInvalid
}

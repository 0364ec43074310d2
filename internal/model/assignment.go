package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	ContentKindMath    = "math"
	ContentKindReading = "reading"
)

const (
	AssignmentStatusPending    = "pending"
	AssignmentStatusInProgress = "in_progress"
	AssignmentStatusCompleted  = "completed"
)

// Assignment is one exercise sheet given to one learner by one guardian.
// Problems come either from a shared ProblemPackage (PackageID set) or from
// legacy rows embedded directly on the assignment.
type Assignment struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	GuardianID   uint            `json:"guardian_id" gorm:"not null;index"`
	LearnerID    uint            `json:"learner_id" gorm:"not null;index"`
	Title        string          `json:"title" gorm:"not null"`
	ContentKind  string          `json:"content_kind" gorm:"not null"` // "math", "reading"
	Status       string          `json:"status" gorm:"default:'pending'"`
	PackageID    *uint           `json:"package_id,omitempty" gorm:"index"`
	Package      *ProblemPackage `json:"package,omitempty" gorm:"foreignKey:PackageID"`
	HintsAllowed bool            `json:"hints_allowed" gorm:"default:true"`
	SortOrder    *int            `json:"sort_order,omitempty"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`

	MathProblems     []LegacyMathProblem     `json:"math_problems,omitempty" gorm:"foreignKey:AssignmentID"`
	ReadingQuestions []LegacyReadingQuestion `json:"reading_questions,omitempty" gorm:"foreignKey:AssignmentID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// UsesPackage reports whether problems live in a shared package rather than
// on legacy embedded rows.
func (a *Assignment) UsesPackage() bool { return a.PackageID != nil }

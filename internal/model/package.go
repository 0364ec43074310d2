package model

import (
	"time"

	"gorm.io/gorm"
)

// ProblemPackage is a reusable set of problems that multiple assignments may
// reference. Per-learner attempt state for its problems lives in
// AttemptRecord, never on the problem rows.
type ProblemPackage struct {
	ID          uint             `gorm:"primarykey" json:"id"`
	Title       string           `json:"title" gorm:"not null"`
	ContentKind string           `json:"content_kind" gorm:"not null"`
	Problems    []PackageProblem `json:"problems,omitempty" gorm:"foreignKey:PackageID"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}

// PackageProblem is one shared exercise item inside a package.
type PackageProblem struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	PackageID     uint           `json:"package_id" gorm:"not null;index"`
	Position      int            `json:"position" gorm:"not null"`
	Prompt        string         `json:"prompt" gorm:"type:text;not null"`
	AnswerKind    string         `json:"answer_kind" gorm:"not null"` // "number", "multiple_choice", "text"
	CorrectAnswer string         `json:"-" gorm:"not null"`
	Options       []string       `json:"options,omitempty" gorm:"serializer:json"`
	Explanation   string         `json:"-" gorm:"type:text"`
	Hint          *string        `json:"-" gorm:"type:text"`
	HintPrice     int            `json:"hint_price" gorm:"default:0"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

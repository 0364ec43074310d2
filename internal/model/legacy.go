package model

import (
	"time"

	"gorm.io/gorm"
)

// LegacyMathProblem is an assignment-private math exercise. Attempt state is
// stored inline on the row; supports multi-attempt retry.
type LegacyMathProblem struct {
	ID            uint     `gorm:"primarykey" json:"id"`
	AssignmentID  uint     `json:"assignment_id" gorm:"not null;index"`
	Position      int      `json:"position" gorm:"not null"`
	Prompt        string   `json:"prompt" gorm:"type:text;not null"`
	AnswerKind    string   `json:"answer_kind" gorm:"not null"`
	CorrectAnswer string   `json:"-" gorm:"not null"`
	Options       []string `json:"options,omitempty" gorm:"serializer:json"`
	Explanation   string   `json:"-" gorm:"type:text"`
	Hint          *string  `json:"-" gorm:"type:text"`
	HintPrice     int      `json:"hint_price" gorm:"default:0"`

	SubmittedAnswer *string  `json:"submitted_answer,omitempty"`
	IsCorrect       *bool    `json:"is_correct,omitempty"`
	Attempts        int      `json:"attempts" gorm:"default:0"`
	HintPurchased   bool     `json:"hint_purchased" gorm:"default:false"`
	WorkImagePaths  []string `json:"work_image_paths,omitempty" gorm:"serializer:json"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// LegacyReadingQuestion is an assignment-private reading comprehension
// question. Attempt state is inline; single-attempt only, no hints.
type LegacyReadingQuestion struct {
	ID            uint     `gorm:"primarykey" json:"id"`
	AssignmentID  uint     `json:"assignment_id" gorm:"not null;index"`
	Position      int      `json:"position" gorm:"not null"`
	Prompt        string   `json:"prompt" gorm:"type:text;not null"`
	AnswerKind    string   `json:"answer_kind" gorm:"not null"`
	CorrectAnswer string   `json:"-" gorm:"not null"`
	Options       []string `json:"options,omitempty" gorm:"serializer:json"`
	Explanation   string   `json:"-" gorm:"type:text"`

	SubmittedAnswer *string `json:"submitted_answer,omitempty"`
	IsCorrect       *bool   `json:"is_correct,omitempty"`
	Attempts        int     `json:"attempts" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

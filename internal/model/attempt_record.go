package model

import "time"

// AttemptRecord holds per-learner attempt state for a package problem, keyed
// by (assignment, problem). Legacy content stores the same state inline on
// the problem row instead; the attempt ledger hides the difference.
type AttemptRecord struct {
	ID           uint `gorm:"primarykey" json:"id"`
	AssignmentID uint `json:"assignment_id" gorm:"not null;uniqueIndex:idx_attempt_assignment_problem"`
	ProblemID    uint `json:"problem_id" gorm:"not null;uniqueIndex:idx_attempt_assignment_problem"`

	SubmittedAnswer *string  `json:"submitted_answer,omitempty"`
	IsCorrect       *bool    `json:"is_correct,omitempty"`
	Attempts        int      `json:"attempts" gorm:"default:0"`
	HintPurchased   bool     `json:"hint_purchased" gorm:"default:false"`
	WorkImagePaths  []string `json:"work_image_paths,omitempty" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package model

import "time"

// CoinAccount is the learner's wallet. Balance never goes below zero (the
// debit is guarded), TotalEarned is monotonic, Streak counts consecutive
// questions answered correctly without an intervening terminal failure.
type CoinAccount struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	LearnerID   uint      `json:"learner_id" gorm:"not null;uniqueIndex"`
	Balance     int       `json:"balance" gorm:"default:0"`
	TotalEarned int       `json:"total_earned" gorm:"default:0"`
	Streak      int       `json:"streak" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

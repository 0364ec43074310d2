package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"homequest/internal/apperr"
	"homequest/internal/model"
)

// CoinAccountRepository is the learner's wallet: balance, lifetime earned and
// the consecutive-correct streak. Mutations are single guarded UPDATEs so two
// concurrent transactions cannot under- or over-credit.
type CoinAccountRepository interface {
	GetOrCreate(learnerID uint) (*model.CoinAccount, error)
	Find(learnerID uint) (*model.CoinAccount, error)
	// Credit adds amount to balance and lifetime earnings and bumps the
	// streak. Only ever called with amount > 0.
	Credit(learnerID uint, amount int) error
	// ResetStreak zeroes the streak; called when a question reaches its
	// terminal state without being correct.
	ResetStreak(learnerID uint) error
	// Debit subtracts amount, guarded by balance >= amount.
	Debit(learnerID uint, amount int) error
	WithTx(tx *gorm.DB) CoinAccountRepository
}

type coinAccountRepository struct {
	db *gorm.DB
}

func NewCoinAccountRepository(db *gorm.DB) CoinAccountRepository {
	return &coinAccountRepository{db: db}
}

func (r *coinAccountRepository) WithTx(tx *gorm.DB) CoinAccountRepository {
	return &coinAccountRepository{db: tx}
}

func (r *coinAccountRepository) GetOrCreate(learnerID uint) (*model.CoinAccount, error) {
	account := model.CoinAccount{LearnerID: learnerID}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "learner_id"}},
		DoNothing: true,
	}).Create(&account).Error
	if err != nil {
		return nil, err
	}
	return r.Find(learnerID)
}

func (r *coinAccountRepository) Find(learnerID uint) (*model.CoinAccount, error) {
	var account model.CoinAccount
	if err := r.db.Where("learner_id = ?", learnerID).First(&account).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &account, nil
}

func (r *coinAccountRepository) Credit(learnerID uint, amount int) error {
	res := r.db.Model(&model.CoinAccount{}).
		Where("learner_id = ?", learnerID).
		Updates(map[string]interface{}{
			"balance":      gorm.Expr("balance + ?", amount),
			"total_earned": gorm.Expr("total_earned + ?", amount),
			"streak":       gorm.Expr("streak + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *coinAccountRepository) ResetStreak(learnerID uint) error {
	res := r.db.Model(&model.CoinAccount{}).
		Where("learner_id = ?", learnerID).
		Update("streak", 0)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *coinAccountRepository) Debit(learnerID uint, amount int) error {
	res := r.db.Model(&model.CoinAccount{}).
		Where("learner_id = ? AND balance >= ?", learnerID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return apperr.ErrInsufficientFunds
	}
	return nil
}

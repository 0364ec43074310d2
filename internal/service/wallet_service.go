package service

import (
	"homequest/internal/dto"
	"homequest/internal/repository"
)

// WalletService exposes the learner's coin account to the API surface.
// Mutations happen inside the submission and hint transactions, not here.
type WalletService interface {
	GetWallet(learnerID uint) (*dto.WalletDTO, error)
}

type walletService struct {
	coinRepo repository.CoinAccountRepository
}

func NewWalletService(coinRepo repository.CoinAccountRepository) WalletService {
	return &walletService{coinRepo: coinRepo}
}

func (s *walletService) GetWallet(learnerID uint) (*dto.WalletDTO, error) {
	account, err := s.coinRepo.GetOrCreate(learnerID)
	if err != nil {
		return nil, err
	}
	return &dto.WalletDTO{
		Balance:     account.Balance,
		TotalEarned: account.TotalEarned,
		Streak:      account.Streak,
	}, nil
}

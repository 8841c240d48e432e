package service

import (
	"context"

	"github.com/google/uuid"

	"payswitch/internal/domain"
	"payswitch/internal/repository"
)

type bankService struct {
	bankRepo repository.BankRepository
}

func NewBankService(bankRepo repository.BankRepository) BankService {
	return &bankService{bankRepo: bankRepo}
}

func (s *bankService) RegisterBank(ctx context.Context, name, code string) (*domain.Bank, error) {
	bank := domain.NewBank(name, code)
	if err := s.bankRepo.Create(ctx, bank); err != nil {
		return nil, err
	}
	return bank, nil
}

func (s *bankService) GetBank(ctx context.Context, id uuid.UUID) (*domain.Bank, error) {
	return s.bankRepo.GetByID(ctx, id)
}

func (s *bankService) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	return s.bankRepo.List(ctx)
}

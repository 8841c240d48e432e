package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"payswitch/internal/domain"
	"payswitch/internal/repository"
)

var errBankNotFound = errors.New("bank not found")

type bankRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*domain.Bank
}

func NewBankRepository() repository.BankRepository {
	return &bankRepository{byID: make(map[uuid.UUID]*domain.Bank)}
}

func (r *bankRepository) Create(_ context.Context, bank *domain.Bank) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[bank.ID] = bank
	return nil
}

func (r *bankRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Bank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, errBankNotFound
	}
	return b, nil
}

func (r *bankRepository) List(_ context.Context) ([]domain.Bank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	banks := make([]domain.Bank, 0, len(r.byID))
	for _, b := range r.byID {
		banks = append(banks, *b)
	}
	return banks, nil
}

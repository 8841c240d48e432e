package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"payswitch/internal/domain"
	"payswitch/internal/repository"
)

type accountRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*domain.Account
	// bankNumberIndex enforces one account per bank/account-number pair.
	bankNumberIndex map[string]uuid.UUID
}

func NewAccountRepository() repository.AccountRepository {
	return &accountRepository{
		byID:            make(map[uuid.UUID]*domain.Account),
		bankNumberIndex: make(map[string]uuid.UUID),
	}
}

func bankNumberKey(bankID uuid.UUID, number string) string {
	return bankID.String() + ":" + number
}

func (r *accountRepository) Create(_ context.Context, userID, bankID uuid.UUID, accountNumber string, initialBalance decimal.Decimal) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := bankNumberKey(bankID, accountNumber)
	if existing, ok := r.bankNumberIndex[key]; ok {
		return r.byID[existing], nil
	}
	acct := domain.NewAccount(userID, bankID, accountNumber, initialBalance)
	r.byID[acct.ID] = acct
	r.bankNumberIndex[key] = acct.ID
	return acct, nil
}

func (r *accountRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return a, nil
}

func (r *accountRepository) GetByBankAndNumber(_ context.Context, bankID uuid.UUID, accountNumber string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bankNumberIndex[bankNumberKey(bankID, accountNumber)]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return r.byID[id], nil
}

func (r *accountRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var accts []*domain.Account
	for _, a := range r.byID {
		if a.UserID == userID {
			accts = append(accts, a)
		}
	}
	return accts, nil
}

func (r *accountRepository) List(_ context.Context) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	accts := make([]*domain.Account, 0, len(r.byID))
	for _, a := range r.byID {
		accts = append(accts, a)
	}
	return accts, nil
}

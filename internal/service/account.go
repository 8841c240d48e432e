package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"payswitch/internal/domain"
	"payswitch/internal/lock"
	"payswitch/internal/repository"
)

type accountService struct {
	accountRepo repository.AccountRepository
	userRepo    repository.UserRepository
	locks       *lock.Coordinator
}

func NewAccountService(accountRepo repository.AccountRepository, userRepo repository.UserRepository, locks *lock.Coordinator) AccountService {
	return &accountService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		locks:       locks,
	}
}

func (s *accountService) LinkAccount(ctx context.Context, userID, bankID uuid.UUID, accountNumber string, initialBalance decimal.Decimal) (*domain.Account, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Status != domain.UserStatusActive {
		return nil, fmt.Errorf("user %s is not active", userID)
	}
	if initialBalance.Sign() < 0 {
		return nil, domain.ErrInvalidAmount
	}
	return s.accountRepo.Create(ctx, userID, bankID, accountNumber, initialBalance)
}

// SetPrimaryAccount flips the primary flag across all of the user's accounts
// as one atomic step. Every involved lock is acquired up front in sorted
// order and released only after all mutations complete.
func (s *accountService) SetPrimaryAccount(ctx context.Context, userID, accountID uuid.UUID) error {
	accounts, err := s.accountRepo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	var target *domain.Account
	ids := make([]uuid.UUID, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.ID)
		if a.ID == accountID {
			target = a
		}
	}
	if target == nil {
		return domain.ErrAccountNotFound
	}

	release := s.locks.AcquireOrdered(ids...)
	defer release()
	for _, a := range accounts {
		a.IsPrimary = a.ID == accountID
	}
	return nil
}

// GetAccount returns a point-in-time copy taken under the account lock, so a
// reader never observes a half-applied ledger mutation.
func (s *accountService) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	acct, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	l := s.locks.For(id)
	l.Lock()
	defer l.Unlock()
	snapshot := *acct
	return &snapshot, nil
}

func (s *accountService) ListUserAccounts(ctx context.Context, userID uuid.UUID) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Account, 0, len(accounts))
	for _, a := range accounts {
		l := s.locks.For(a.ID)
		l.Lock()
		out = append(out, *a)
		l.Unlock()
	}
	return out, nil
}

func (s *accountService) Reserve(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) error {
	return s.withLock(ctx, accountID, func(acct *domain.Account) error {
		return acct.Reserve(amount)
	})
}

func (s *accountService) Release(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) error {
	return s.withLock(ctx, accountID, func(acct *domain.Account) error {
		acct.Release(amount)
		return nil
	})
}

func (s *accountService) Settle(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) error {
	return s.withLock(ctx, accountID, func(acct *domain.Account) error {
		return acct.Settle(amount)
	})
}

func (s *accountService) Credit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) error {
	return s.withLock(ctx, accountID, func(acct *domain.Account) error {
		return acct.Credit(amount)
	})
}

func (s *accountService) withLock(ctx context.Context, accountID uuid.UUID, op func(*domain.Account) error) error {
	acct, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	l := s.locks.For(accountID)
	l.Lock()
	defer l.Unlock()
	return op(acct)
}

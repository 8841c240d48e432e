package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"payswitch/internal/domain"
)

type UserService interface {
	OnboardUser(ctx context.Context, name, phone string) (*domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*domain.User, error)
}

type BankService interface {
	RegisterBank(ctx context.Context, name, code string) (*domain.Bank, error)
	GetBank(ctx context.Context, id uuid.UUID) (*domain.Bank, error)
	ListBanks(ctx context.Context) ([]domain.Bank, error)
}

// AccountService owns every mutation of account balances. The four ledger
// operations run under the account's coordinator lock; nothing else in the
// codebase mutates an account.
type AccountService interface {
	LinkAccount(ctx context.Context, userID, bankID uuid.UUID, accountNumber string, initialBalance decimal.Decimal) (*domain.Account, error)
	SetPrimaryAccount(ctx context.Context, userID, accountID uuid.UUID) error
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ListUserAccounts(ctx context.Context, userID uuid.UUID) ([]domain.Account, error)

	Reserve(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) error
	Release(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) error
	Settle(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) error
	Credit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) error
}

// BankHealthRegistry reports whether a bank is currently accepting transfers.
type BankHealthRegistry interface {
	IsDown(bankID uuid.UUID) bool
	MarkDown(bankID uuid.UUID)
	MarkUp(bankID uuid.UUID)
}

// RecipientResolver maps a destination identifier (phone, account number) to
// an internal account when possible. A nil result means the destination is
// external to the switch. Best effort, no concurrency concerns.
type RecipientResolver interface {
	Resolve(ctx context.Context, identifier string) (*uuid.UUID, error)
}

type PaymentService interface {
	// CreatePayment validates, reserves funds, persists a PENDING transaction
	// and schedules the PSP dispatch asynchronously. It never blocks on the
	// PSP; repeated calls with the same idempotency key return the original
	// transaction with no further side effects.
	CreatePayment(ctx context.Context, idempotencyKey string, fromAccountID uuid.UUID, toAccountID *uuid.UUID, toIdentifier string, amount decimal.Decimal) (*domain.Transaction, error)
	// ReconcileOnce drives one PENDING transaction toward a terminal state.
	// No-op unless the snapshot's status is PENDING.
	ReconcileOnce(ctx context.Context, txn *domain.Transaction, maxPendingDuration time.Duration, maxAttempts int) error

	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListAccountTransactions(ctx context.Context, accountID uuid.UUID) ([]*domain.Transaction, error)
	SearchByPayerOrPayee(ctx context.Context, payerAccountID *uuid.UUID, payeeIdentifier string) ([]*domain.Transaction, error)
	ListPending(ctx context.Context) ([]*domain.Transaction, error)
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"payswitch/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

type BankRepository interface {
	Create(ctx context.Context, bank *domain.Bank) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bank, error)
	List(ctx context.Context) ([]domain.Bank, error)
}

type AccountRepository interface {
	// Create registers a new account, reusing the existing one when the same
	// bank/account-number pair is linked twice.
	Create(ctx context.Context, userID, bankID uuid.UUID, accountNumber string, initialBalance decimal.Decimal) (*domain.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByBankAndNumber(ctx context.Context, bankID uuid.UUID, accountNumber string) (*domain.Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
}

type TransactionRepository interface {
	// SaveNew stores a freshly created transaction. When the transaction
	// carries an idempotency key the key -> id binding is inserted atomically;
	// a second insert for the same key fails with ErrDuplicateIdempotencyKey
	// and stores nothing.
	SaveNew(ctx context.Context, txn *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error)
	// Update overwrites the stored record. Last writer wins: terminal
	// transitions must go through FinalizeIfPending instead.
	Update(ctx context.Context, txn *domain.Transaction) error
	// FinalizeIfPending atomically moves the stored record to the given
	// terminal status only if its status is still PENDING at write time. It
	// reports whether this caller won the transition; a false return means
	// another path already resolved the transaction and the caller must not
	// touch the ledger.
	FinalizeIfPending(ctx context.Context, id uuid.UUID, status domain.TransactionStatus, pspRef, errorCode string) (*domain.Transaction, bool, error)
	ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]*domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Transaction, error)
	Search(ctx context.Context, match func(*domain.Transaction) bool) ([]*domain.Transaction, error)
}

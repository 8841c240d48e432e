package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"payswitch/internal/domain"
	"payswitch/internal/repository"
)

type transactionRepository struct {
	mu              sync.RWMutex
	byID            map[uuid.UUID]*domain.Transaction
	idempotencyKeys map[string]uuid.UUID
}

func NewTransactionRepository() repository.TransactionRepository {
	return &transactionRepository{
		byID:            make(map[uuid.UUID]*domain.Transaction),
		idempotencyKeys: make(map[string]uuid.UUID),
	}
}

func (r *transactionRepository) SaveNew(_ context.Context, txn *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if txn.IdempotencyKey != "" {
		if existing, ok := r.idempotencyKeys[txn.IdempotencyKey]; ok && existing != txn.ID {
			return domain.ErrDuplicateIdempotencyKey
		}
		r.idempotencyKeys[txn.IdempotencyKey] = txn.ID
	}
	r.byID[txn.ID] = txn.Clone()
	return nil
}

func (r *transactionRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return t.Clone(), nil
}

func (r *transactionRepository) GetByIdempotencyKey(_ context.Context, key string) (*domain.Transaction, error) {
	if key == "" {
		return nil, domain.ErrTransactionNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idempotencyKeys[key]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return r.byID[id].Clone(), nil
}

func (r *transactionRepository) Update(_ context.Context, txn *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[txn.ID]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	// Status transitions are monotone: a stale PENDING snapshot written by a
	// slow dispatch path must not resurrect a transaction the reconciler has
	// already resolved.
	if stored.IsTerminal() {
		return nil
	}
	r.byID[txn.ID] = txn.Clone()
	return nil
}

func (r *transactionRepository) FinalizeIfPending(_ context.Context, id uuid.UUID, status domain.TransactionStatus, pspRef, errorCode string) (*domain.Transaction, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok {
		return nil, false, domain.ErrTransactionNotFound
	}
	if stored.Status != domain.TransactionStatusPending {
		return stored.Clone(), false, nil
	}
	stored.Status = status
	if pspRef != "" {
		stored.PSPReference = pspRef
	}
	stored.ErrorCode = errorCode
	stored.UpdatedAt = time.Now().UTC()
	return stored.Clone(), true, nil
}

func (r *transactionRepository) ListByStatus(_ context.Context, status domain.TransactionStatus) ([]*domain.Transaction, error) {
	return r.snapshot(func(t *domain.Transaction) bool { return t.Status == status })
}

func (r *transactionRepository) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*domain.Transaction, error) {
	return r.snapshot(func(t *domain.Transaction) bool {
		return t.FromAccountID == accountID || (t.ToAccountID != nil && *t.ToAccountID == accountID)
	})
}

func (r *transactionRepository) Search(_ context.Context, match func(*domain.Transaction) bool) ([]*domain.Transaction, error) {
	return r.snapshot(match)
}

func (r *transactionRepository) snapshot(match func(*domain.Transaction) bool) ([]*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Transaction
	for _, t := range r.byID {
		if match(t) {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payswitch/internal/domain"
)

func newPendingTxn(key string) *domain.Transaction {
	return domain.NewTransaction(key, uuid.New(), nil, "9999000011", decimal.RequireFromString("10.00"))
}

func TestTransactionRepository_SaveNewIdempotency(t *testing.T) {
	ctx := context.Background()

	t.Run("DuplicateKeyRejected", func(t *testing.T) {
		repo := NewTransactionRepository()
		first := newPendingTxn("idem-1")
		second := newPendingTxn("idem-1")

		require.NoError(t, repo.SaveNew(ctx, first))
		err := repo.SaveNew(ctx, second)
		assert.ErrorIs(t, err, domain.ErrDuplicateIdempotencyKey)

		// Loser must not have been stored.
		_, err = repo.GetByID(ctx, second.ID)
		assert.ErrorIs(t, err, domain.ErrTransactionNotFound)

		got, err := repo.GetByIdempotencyKey(ctx, "idem-1")
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
	})

	t.Run("EmptyKeyNeverIndexed", func(t *testing.T) {
		repo := NewTransactionRepository()
		require.NoError(t, repo.SaveNew(ctx, newPendingTxn("")))
		require.NoError(t, repo.SaveNew(ctx, newPendingTxn("")))
		_, err := repo.GetByIdempotencyKey(ctx, "")
		assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	})

	t.Run("ConcurrentSameKeyExactlyOneWins", func(t *testing.T) {
		repo := NewTransactionRepository()
		var wins, dups atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := repo.SaveNew(ctx, newPendingTxn("idem-race"))
				switch {
				case err == nil:
					wins.Add(1)
				case err == domain.ErrDuplicateIdempotencyKey:
					dups.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
		assert.Equal(t, int32(31), dups.Load())
	})
}

func TestTransactionRepository_FinalizeIfPending(t *testing.T) {
	ctx := context.Background()

	t.Run("WinnerTakesTerminalStatus", func(t *testing.T) {
		repo := NewTransactionRepository()
		txn := newPendingTxn("idem-fin")
		require.NoError(t, repo.SaveNew(ctx, txn))

		got, won, err := repo.FinalizeIfPending(ctx, txn.ID, domain.TransactionStatusSuccess, "psp-1", "")
		require.NoError(t, err)
		assert.True(t, won)
		assert.Equal(t, domain.TransactionStatusSuccess, got.Status)
		assert.Equal(t, "psp-1", got.PSPReference)
	})

	t.Run("SecondFinalizerLoses", func(t *testing.T) {
		repo := NewTransactionRepository()
		txn := newPendingTxn("idem-fin2")
		require.NoError(t, repo.SaveNew(ctx, txn))

		_, won, err := repo.FinalizeIfPending(ctx, txn.ID, domain.TransactionStatusFailed, "", "PSP_FAILURE")
		require.NoError(t, err)
		require.True(t, won)

		got, won, err := repo.FinalizeIfPending(ctx, txn.ID, domain.TransactionStatusSuccess, "psp-2", "")
		require.NoError(t, err)
		assert.False(t, won)
		assert.Equal(t, domain.TransactionStatusFailed, got.Status)
		assert.Equal(t, "PSP_FAILURE", got.ErrorCode)
	})

	t.Run("ConcurrentFinalizersExactlyOneWins", func(t *testing.T) {
		repo := NewTransactionRepository()
		txn := newPendingTxn("idem-fin3")
		require.NoError(t, repo.SaveNew(ctx, txn))

		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, won, err := repo.FinalizeIfPending(ctx, txn.ID, domain.TransactionStatusSuccess, "psp-x", "")
				if err == nil && won {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := NewTransactionRepository()
		_, _, err := repo.FinalizeIfPending(ctx, uuid.New(), domain.TransactionStatusFailed, "", "X")
		assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	})
}

func TestTransactionRepository_UpdateCannotResurrectTerminal(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()
	txn := newPendingTxn("idem-upd")
	require.NoError(t, repo.SaveNew(ctx, txn))

	stale, err := repo.GetByID(ctx, txn.ID) // PENDING snapshot
	require.NoError(t, err)

	_, won, err := repo.FinalizeIfPending(ctx, txn.ID, domain.TransactionStatusFailed, "", "PSP_FAILURE")
	require.NoError(t, err)
	require.True(t, won)

	stale.ReconcileAttempts = 7
	require.NoError(t, repo.Update(ctx, stale))

	got, err := repo.GetByID(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusFailed, got.Status)
	assert.Equal(t, 0, got.ReconcileAttempts)
}

func TestTransactionRepository_Queries(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()

	from := uuid.New()
	to := uuid.New()
	internal := domain.NewTransaction("k1", from, &to, "phone-1", decimal.RequireFromString("5"))
	external := domain.NewTransaction("k2", uuid.New(), nil, "ext-acct", decimal.RequireFromString("7"))
	require.NoError(t, repo.SaveNew(ctx, internal))
	require.NoError(t, repo.SaveNew(ctx, external))
	_, won, err := repo.FinalizeIfPending(ctx, external.ID, domain.TransactionStatusSuccess, "psp-9", "")
	require.NoError(t, err)
	require.True(t, won)

	pending, err := repo.ListByStatus(ctx, domain.TransactionStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, internal.ID, pending[0].ID)

	byAcct, err := repo.ListByAccount(ctx, to)
	require.NoError(t, err)
	require.Len(t, byAcct, 1)
	assert.Equal(t, internal.ID, byAcct[0].ID)

	found, err := repo.Search(ctx, func(t *domain.Transaction) bool { return t.ToIdentifier == "ext-acct" })
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, external.ID, found[0].ID)
}

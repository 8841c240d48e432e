package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"payswitch/internal/config"
	"payswitch/internal/domain"
)

// stubPaymentService scripts the reconciliation outcome per transaction ID.
type stubPaymentService struct {
	mu        sync.Mutex
	pending   []*domain.Transaction
	outcomes  map[uuid.UUID]error
	panics    map[uuid.UUID]bool
	attempted []uuid.UUID
}

func (s *stubPaymentService) CreatePayment(context.Context, string, uuid.UUID, *uuid.UUID, string, decimal.Decimal) (*domain.Transaction, error) {
	panic("not used")
}

func (s *stubPaymentService) ReconcileOnce(_ context.Context, txn *domain.Transaction, _ time.Duration, _ int) error {
	s.mu.Lock()
	s.attempted = append(s.attempted, txn.ID)
	s.mu.Unlock()
	if s.panics[txn.ID] {
		panic("reconcile blew up")
	}
	return s.outcomes[txn.ID]
}

func (s *stubPaymentService) GetTransaction(context.Context, uuid.UUID) (*domain.Transaction, error) {
	panic("not used")
}

func (s *stubPaymentService) ListAccountTransactions(context.Context, uuid.UUID) ([]*domain.Transaction, error) {
	panic("not used")
}

func (s *stubPaymentService) SearchByPayerOrPayee(context.Context, *uuid.UUID, string) ([]*domain.Transaction, error) {
	panic("not used")
}

func (s *stubPaymentService) ListPending(context.Context) ([]*domain.Transaction, error) {
	return s.pending, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Reconciler.CronSpec = "@every 10s"
	cfg.Reconciler.MaxPendingSeconds = 120
	cfg.Reconciler.MaxAttempts = 5
	return cfg
}

func TestReconcilePending_FailureIsolation(t *testing.T) {
	txns := []*domain.Transaction{
		domain.NewTransaction("k1", uuid.New(), nil, "a", decimal.NewFromInt(1)),
		domain.NewTransaction("k2", uuid.New(), nil, "b", decimal.NewFromInt(2)),
		domain.NewTransaction("k3", uuid.New(), nil, "c", decimal.NewFromInt(3)),
	}

	stub := &stubPaymentService{
		pending:  txns,
		outcomes: map[uuid.UUID]error{txns[1].ID: assert.AnError},
		panics:   map[uuid.UUID]bool{txns[0].ID: true},
	}

	jr := NewJobRunner(stub, testConfig())
	jr.ReconcilePending()

	// The panicking first transaction and the erroring second one do not stop
	// the third from being attempted.
	assert.Equal(t, []uuid.UUID{txns[0].ID, txns[1].ID, txns[2].ID}, stub.attempted)
}

func TestReconcilePending_EmptyQueue(t *testing.T) {
	stub := &stubPaymentService{}
	jr := NewJobRunner(stub, testConfig())
	jr.ReconcilePending()
	assert.Empty(t, stub.attempted)
}

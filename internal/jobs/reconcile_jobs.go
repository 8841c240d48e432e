package jobs

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"payswitch/internal/domain"
	"payswitch/internal/logger"
)

var (
	reconcileCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payswitch_reconcile_cycles_total",
		Help: "Reconciliation cycles executed",
	})

	reconcileErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payswitch_reconcile_errors_total",
		Help: "Transactions whose reconciliation attempt errored or panicked",
	})
)

// ReconcilePending lists every PENDING transaction and re-drives each one
// through the orchestrator's reconciliation path. A failure on one
// transaction never aborts the cycle for the others.
func (jr *JobRunner) ReconcilePending() {
	jr.runWithRecovery("ReconcilePending", func() {
		ctx := context.Background()
		reconcileCycles.Inc()

		pending, err := jr.payments.ListPending(ctx)
		if err != nil {
			logger.Error("Failed to list pending transactions", "error", err)
			return
		}
		if len(pending) == 0 {
			return
		}

		maxPending := jr.config.MaxPendingDuration()
		maxAttempts := jr.config.Reconciler.MaxAttempts
		for _, txn := range pending {
			jr.reconcileOne(ctx, txn, maxPending, maxAttempts)
		}
		logger.Info("Reconciliation cycle completed", "pending_seen", len(pending))
	})
}

func (jr *JobRunner) reconcileOne(ctx context.Context, txn *domain.Transaction, maxPending time.Duration, maxAttempts int) {
	defer func() {
		if r := recover(); r != nil {
			reconcileErrors.Inc()
			logger.Error("Reconciliation panicked for transaction", "transaction_id", txn.ID, "panic", r)
		}
	}()
	if err := jr.payments.ReconcileOnce(ctx, txn, maxPending, maxAttempts); err != nil {
		reconcileErrors.Inc()
		logger.Error("Reconciliation failed for transaction", "transaction_id", txn.ID, "error", err)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"payswitch/internal/dispatch"
	"payswitch/internal/domain"
	"payswitch/internal/logger"
	"payswitch/internal/psp"
	"payswitch/internal/repository"
)

type paymentService struct {
	txnRepo     repository.TransactionRepository
	accountRepo repository.AccountRepository
	accounts    AccountService
	gateway     psp.Gateway
	dispatcher  dispatch.Submitter
	bankHealth  BankHealthRegistry
}

func NewPaymentService(
	txnRepo repository.TransactionRepository,
	accountRepo repository.AccountRepository,
	accounts AccountService,
	gateway psp.Gateway,
	dispatcher dispatch.Submitter,
	bankHealth BankHealthRegistry,
) PaymentService {
	return &paymentService{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		accounts:    accounts,
		gateway:     gateway,
		dispatcher:  dispatcher,
		bankHealth:  bankHealth,
	}
}

func (s *paymentService) CreatePayment(ctx context.Context, idempotencyKey string, fromAccountID uuid.UUID, toAccountID *uuid.UUID, toIdentifier string, amount decimal.Decimal) (*domain.Transaction, error) {
	if amount.Sign() <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	// Idempotent replay: same key, same transaction, no side effects.
	if idempotencyKey != "" {
		if existing, err := s.txnRepo.GetByIdempotencyKey(ctx, idempotencyKey); err == nil {
			return existing, nil
		}
	}

	fromAcct, err := s.accountRepo.GetByID(ctx, fromAccountID)
	if err != nil {
		return nil, err
	}

	// Bank health is checked before any funds are touched.
	if s.bankHealth.IsDown(fromAcct.BankID) {
		return nil, fmt.Errorf("source bank %s: %w", fromAcct.BankID, domain.ErrBankUnavailable)
	}
	if toAccountID != nil {
		toAcct, err := s.accountRepo.GetByID(ctx, *toAccountID)
		if err != nil {
			return nil, err
		}
		if s.bankHealth.IsDown(toAcct.BankID) {
			return nil, fmt.Errorf("destination bank %s: %w", toAcct.BankID, domain.ErrBankUnavailable)
		}
	}

	if err := s.accounts.Reserve(ctx, fromAccountID, amount); err != nil {
		return nil, err
	}

	txn := domain.NewTransaction(idempotencyKey, fromAccountID, toAccountID, toIdentifier, amount)
	if err := s.txnRepo.SaveNew(ctx, txn); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
			// A concurrent identical request won the race. Undo our
			// reservation and hand back the winner's transaction so at most
			// one side effect survives.
			if relErr := s.accounts.Release(ctx, fromAccountID, amount); relErr != nil {
				logger.Error("Failed to release reservation after idempotency race",
					"account_id", fromAccountID, "error", relErr)
			}
			winner, lookupErr := s.txnRepo.GetByIdempotencyKey(ctx, idempotencyKey)
			if lookupErr != nil {
				return nil, err
			}
			return winner, nil
		}
		// Persistence failed outright; the reservation must not leak.
		if relErr := s.accounts.Release(ctx, fromAccountID, amount); relErr != nil {
			logger.Error("Failed to release reservation after save failure",
				"account_id", fromAccountID, "error", relErr)
		}
		return nil, err
	}

	paymentsCreated.Inc()
	logger.Info("Payment created", "transaction_id", txn.ID, "from_account_id", fromAccountID, "amount", amount)

	txnID := txn.ID
	s.dispatcher.Submit(func() {
		s.dispatchToPSP(context.Background(), txnID)
	})
	return txn, nil
}

// dispatchToPSP performs the asynchronous initiate-transfer call and applies
// its outcome. Failures here are never surfaced to the payment's creator;
// they land on the transaction record for the reconciler to pick up.
func (s *paymentService) dispatchToPSP(ctx context.Context, txnID uuid.UUID) {
	txn, err := s.txnRepo.GetByID(ctx, txnID)
	if err != nil {
		logger.Error("Dispatch could not load transaction", "transaction_id", txnID, "error", err)
		return
	}
	if txn.Status != domain.TransactionStatusPending {
		return
	}
	fromAcct, err := s.accountRepo.GetByID(ctx, txn.FromAccountID)
	if err != nil {
		logger.Error("Dispatch could not load source account", "transaction_id", txnID, "error", err)
		return
	}

	logger.ExternalServiceCall("psp", "InitiateTransfer", "transaction_id", txn.ID)
	resp, err := s.gateway.InitiateTransfer(ctx, fromAcct.MaskedNumber, txn.ToIdentifier, txn.Amount)
	logger.ExternalServiceResult("psp", "InitiateTransfer", err, "transaction_id", txn.ID)
	if err != nil {
		// Transport failure: transfer state at the provider is unknown.
		// Leave the transaction PENDING for the reconciler.
		pspDispatchFailures.Inc()
		s.recordAttempt(ctx, txn)
		return
	}

	switch resp.Status {
	case psp.StatusSuccess:
		s.finalizeSuccess(ctx, txn, resp.Reference)
	case psp.StatusPending:
		// Trackable at the provider now; the reconciler polls it.
		txn.PSPReference = resp.Reference
		txn.UpdatedAt = time.Now().UTC()
		if err := s.txnRepo.Update(ctx, txn); err != nil {
			logger.Error("Failed to record PSP reference", "transaction_id", txn.ID, "error", err)
		}
	case psp.StatusFailed:
		s.finalizeFailed(ctx, txn, resp.ErrorCode)
	}
}

// ReconcileOnce re-drives one PENDING transaction. Safe to call from multiple
// reconciler instances: FinalizeIfPending guarantees only one caller applies
// the terminal ledger effects.
func (s *paymentService) ReconcileOnce(ctx context.Context, txn *domain.Transaction, maxPendingDuration time.Duration, maxAttempts int) error {
	if txn.Status != domain.TransactionStatusPending {
		return nil
	}

	if txn.PSPReference == "" {
		// The PSP was never reached; re-run the dispatch path.
		s.recordAttempt(ctx, txn)
		txnID := txn.ID
		s.dispatcher.Submit(func() {
			s.dispatchToPSP(context.Background(), txnID)
		})
		return nil
	}

	logger.ExternalServiceCall("psp", "QueryStatus", "transaction_id", txn.ID, "psp_reference", txn.PSPReference)
	resp, err := s.gateway.QueryStatus(ctx, txn.PSPReference)
	logger.ExternalServiceResult("psp", "QueryStatus", err, "transaction_id", txn.ID)
	if err != nil {
		// Try again next cycle.
		s.recordAttempt(ctx, txn)
		return nil
	}

	switch resp.Status {
	case psp.StatusSuccess:
		s.finalizeSuccess(ctx, txn, resp.Reference)
	case psp.StatusFailed:
		s.finalizeFailed(ctx, txn, resp.ErrorCode)
	case psp.StatusPending:
		s.recordAttempt(ctx, txn)
		if txn.ReconcileAttempts > maxAttempts || time.Since(txn.CreatedAt) > maxPendingDuration {
			logger.Warn("Reconciliation budget exhausted, failing transaction",
				"transaction_id", txn.ID, "attempts", txn.ReconcileAttempts)
			s.finalizeFailed(ctx, txn, domain.ErrCodeReconcileTimeout)
		}
	}
	return nil
}

// finalizeSuccess claims the PENDING -> SUCCESS transition and, only having
// won it, settles the reservation and credits an internal destination.
func (s *paymentService) finalizeSuccess(ctx context.Context, txn *domain.Transaction, pspRef string) {
	updated, won, err := s.txnRepo.FinalizeIfPending(ctx, txn.ID, domain.TransactionStatusSuccess, pspRef, "")
	if err != nil {
		logger.Error("Failed to finalize transaction", "transaction_id", txn.ID, "error", err)
		return
	}
	if !won {
		return
	}
	if err := s.accounts.Settle(ctx, txn.FromAccountID, txn.Amount); err != nil {
		logger.Error("Settlement failed after successful PSP transfer",
			"transaction_id", txn.ID, "account_id", txn.FromAccountID, "error", err)
	}
	if txn.ToAccountID != nil {
		if err := s.accounts.Credit(ctx, *txn.ToAccountID, txn.Amount); err != nil {
			logger.Error("Destination credit failed",
				"transaction_id", txn.ID, "account_id", *txn.ToAccountID, "error", err)
		}
	}
	paymentsResolved.WithLabelValues(string(domain.TransactionStatusSuccess)).Inc()
	logger.Info("Payment settled", "transaction_id", updated.ID, "psp_reference", updated.PSPReference)
}

// finalizeFailed claims the PENDING -> FAILED transition and, only having won
// it, releases the reservation. The CAS makes the release exactly-once even
// with a racing reconciler.
func (s *paymentService) finalizeFailed(ctx context.Context, txn *domain.Transaction, errorCode string) {
	if errorCode == "" {
		errorCode = "PSP_FAILURE"
	}
	updated, won, err := s.txnRepo.FinalizeIfPending(ctx, txn.ID, domain.TransactionStatusFailed, txn.PSPReference, errorCode)
	if err != nil {
		logger.Error("Failed to finalize transaction", "transaction_id", txn.ID, "error", err)
		return
	}
	if !won {
		return
	}
	if err := s.accounts.Release(ctx, txn.FromAccountID, txn.Amount); err != nil {
		logger.Error("Release failed for failed payment",
			"transaction_id", txn.ID, "account_id", txn.FromAccountID, "error", err)
	}
	paymentsResolved.WithLabelValues(string(domain.TransactionStatusFailed)).Inc()
	logger.Info("Payment failed", "transaction_id", updated.ID, "error_code", updated.ErrorCode)
}

// recordAttempt bumps the reconciliation counter on both the caller's
// snapshot and the stored record.
func (s *paymentService) recordAttempt(ctx context.Context, txn *domain.Transaction) {
	txn.ReconcileAttempts++
	txn.UpdatedAt = time.Now().UTC()
	if err := s.txnRepo.Update(ctx, txn); err != nil {
		logger.Error("Failed to record reconcile attempt", "transaction_id", txn.ID, "error", err)
	}
}

func (s *paymentService) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	return s.txnRepo.GetByID(ctx, id)
}

func (s *paymentService) ListAccountTransactions(ctx context.Context, accountID uuid.UUID) ([]*domain.Transaction, error) {
	return s.txnRepo.ListByAccount(ctx, accountID)
}

func (s *paymentService) SearchByPayerOrPayee(ctx context.Context, payerAccountID *uuid.UUID, payeeIdentifier string) ([]*domain.Transaction, error) {
	return s.txnRepo.Search(ctx, func(t *domain.Transaction) bool {
		if payerAccountID != nil && t.FromAccountID == *payerAccountID {
			return true
		}
		return payeeIdentifier != "" && t.ToIdentifier == payeeIdentifier
	})
}

func (s *paymentService) ListPending(ctx context.Context) ([]*domain.Transaction, error) {
	return s.txnRepo.ListByStatus(ctx, domain.TransactionStatusPending)
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// Transaction is the record of one payment attempt. Amount never changes
// after creation and status transitions are monotone: once SUCCESS or FAILED
// a transaction never moves again (the store's FinalizeIfPending enforces
// this for the terminal transitions).
type Transaction struct {
	ID             uuid.UUID         `json:"id"`
	IdempotencyKey string            `json:"idempotency_key,omitempty"`
	FromAccountID  uuid.UUID         `json:"from_account_id"`
	// ToAccountID is nil when the destination is external to the switch.
	ToAccountID  *uuid.UUID        `json:"to_account_id,omitempty"`
	ToIdentifier string            `json:"to_identifier"`
	Amount       decimal.Decimal   `json:"amount"`
	Status       TransactionStatus `json:"status"`
	PSPReference string            `json:"psp_reference,omitempty"`
	ErrorCode    string            `json:"error_code,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	// ReconcileAttempts counts dispatch retries and still-pending PSP polls.
	ReconcileAttempts int `json:"reconcile_attempts"`
}

func NewTransaction(idempotencyKey string, fromAccountID uuid.UUID, toAccountID *uuid.UUID, toIdentifier string, amount decimal.Decimal) *Transaction {
	now := time.Now().UTC()
	return &Transaction{
		ID:             uuid.New(),
		IdempotencyKey: idempotencyKey,
		FromAccountID:  fromAccountID,
		ToAccountID:    toAccountID,
		ToIdentifier:   toIdentifier,
		Amount:         amount,
		Status:         TransactionStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusSuccess || t.Status == TransactionStatusFailed
}

// Clone returns a shallow copy so that store snapshots handed to callers are
// never aliased with the stored record.
func (t *Transaction) Clone() *Transaction {
	c := *t
	if t.ToAccountID != nil {
		to := *t.ToAccountID
		c.ToAccountID = &to
	}
	return &c
}

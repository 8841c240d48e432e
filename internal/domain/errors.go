package domain

import "errors"

var (
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrUserNotFound            = errors.New("user not found")
	ErrAccountNotFound         = errors.New("account not found")
	ErrAccountInactive         = errors.New("account is not active")
	ErrInsufficientFunds       = errors.New("insufficient available balance")
	ErrInsufficientReserve     = errors.New("insufficient reserved balance")
	ErrBankUnavailable         = errors.New("bank is currently unavailable")
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already exists")
	ErrTransactionNotFound     = errors.New("transaction not found")
)

// ErrCodeReconcileTimeout is recorded on a transaction forced to FAILED by the
// reconciler after exhausting its attempt or pending-duration budget. It is a
// transaction error code, not a Go error: the caller of CreatePayment never
// sees it synchronously.
const ErrCodeReconcileTimeout = "RECONCILE_TIMEOUT"

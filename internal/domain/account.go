package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
)

// Account is one bank account on the switch. Balance is the total funds,
// Reserved the portion earmarked for in-flight payments; what a new payment
// may draw on is Available() = Balance - Reserved.
//
// The four mutating operations (Reserve, Release, Settle, Credit) must run
// while holding the account's lock from lock.Coordinator. They maintain the
// invariants Reserved >= 0 and Available() >= 0 and bump Revision on every
// mutation.
type Account struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	BankID        uuid.UUID       `json:"bank_id"`
	AccountNumber string          `json:"account_number"`
	MaskedNumber  string          `json:"masked_number"`
	Balance       decimal.Decimal `json:"balance"`
	Reserved      decimal.Decimal `json:"reserved"`
	IsPrimary     bool            `json:"is_primary"`
	Status        AccountStatus   `json:"status"`
	Revision      int64           `json:"revision"`
}

func NewAccount(userID, bankID uuid.UUID, accountNumber string, initialBalance decimal.Decimal) *Account {
	return &Account{
		ID:            uuid.New(),
		UserID:        userID,
		BankID:        bankID,
		AccountNumber: accountNumber,
		MaskedNumber:  MaskAccountNumber(accountNumber),
		Balance:       initialBalance,
		Reserved:      decimal.Zero,
		Status:        AccountStatusActive,
	}
}

// MaskAccountNumber keeps only the last four digits visible.
func MaskAccountNumber(number string) string {
	if len(number) <= 4 {
		return "****"
	}
	return "****" + number[len(number)-4:]
}

func (a *Account) Available() decimal.Decimal {
	return a.Balance.Sub(a.Reserved)
}

// Reserve earmarks amount against a future settlement without reducing the
// balance yet.
func (a *Account) Reserve(amount decimal.Decimal) error {
	if a.Status != AccountStatusActive {
		return ErrAccountInactive
	}
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if a.Available().LessThan(amount) {
		return ErrInsufficientFunds
	}
	a.Reserved = a.Reserved.Add(amount)
	a.Revision++
	return nil
}

// Release cancels a reservation without touching the balance. A non-positive
// amount is a no-op. Reserved is clamped at zero so that reconciling a
// double-release can never drive it negative.
func (a *Account) Release(amount decimal.Decimal) {
	if amount.Sign() <= 0 {
		return
	}
	a.Reserved = a.Reserved.Sub(amount)
	if a.Reserved.Sign() < 0 {
		a.Reserved = decimal.Zero
	}
	a.Revision++
}

// Settle finalizes a previously reserved debit, reducing reserved and balance
// together.
func (a *Account) Settle(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if a.Reserved.LessThan(amount) {
		return ErrInsufficientReserve
	}
	a.Reserved = a.Reserved.Sub(amount)
	a.Balance = a.Balance.Sub(amount)
	a.Revision++
	return nil
}

// Credit adds funds to the balance. Credited funds are immediately available;
// the receiving side of an internal transfer has no reservation step.
func (a *Account) Credit(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	a.Balance = a.Balance.Add(amount)
	a.Revision++
	return nil
}

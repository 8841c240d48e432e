// Package memory provides the in-memory repository implementations backing
// the switch. Records live for the lifetime of the process; durability across
// restarts is out of scope.
package memory

import "payswitch/internal/repository"

// Store aggregates all repositories, mirroring how callers receive them.
type Store struct {
	UserRepository        repository.UserRepository
	BankRepository        repository.BankRepository
	AccountRepository     repository.AccountRepository
	TransactionRepository repository.TransactionRepository
}

func NewStore() *Store {
	return &Store{
		UserRepository:        NewUserRepository(),
		BankRepository:        NewBankRepository(),
		AccountRepository:     NewAccountRepository(),
		TransactionRepository: NewTransactionRepository(),
	}
}

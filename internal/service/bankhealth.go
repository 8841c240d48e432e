package service

import (
	"sync"

	"github.com/google/uuid"
)

// bankHealthRegistry is an in-memory health oracle. Real deployments would
// back this with monitoring data; the interface is the contract.
type bankHealthRegistry struct {
	mu   sync.RWMutex
	down map[uuid.UUID]bool
}

func NewBankHealthRegistry() BankHealthRegistry {
	return &bankHealthRegistry{down: make(map[uuid.UUID]bool)}
}

func (r *bankHealthRegistry) IsDown(bankID uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.down[bankID]
}

func (r *bankHealthRegistry) MarkDown(bankID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.down[bankID] = true
}

func (r *bankHealthRegistry) MarkUp(bankID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.down[bankID] = false
}

// Package lock hands out one exclusive lock per account identifier.
//
// Sorting identifiers before acquisition is the sole deadlock-avoidance
// mechanism: any two operations needing overlapping sets of account locks
// always request them in the same relative order.
package lock

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

type Coordinator struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewCoordinator() *Coordinator {
	return &Coordinator{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// For returns the lock for accountID, creating it on first use. Safe under
// concurrent first use: all callers observe the same mutex.
func (c *Coordinator) For(accountID uuid.UUID) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[accountID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[accountID] = l
	}
	return l
}

// AcquireOrdered deduplicates accountIDs, sorts them by their canonical
// string form and acquires each lock in that order. The returned release
// function unlocks in reverse acquisition order.
func (c *Coordinator) AcquireOrdered(accountIDs ...uuid.UUID) (release func()) {
	seen := make(map[uuid.UUID]struct{}, len(accountIDs))
	ids := make([]uuid.UUID, 0, len(accountIDs))
	for _, id := range accountIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	held := make([]*sync.Mutex, 0, len(ids))
	for _, id := range ids {
		l := c.For(id)
		l.Lock()
		held = append(held, l)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

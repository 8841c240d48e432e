package psp

import (
	"context"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	errCodeFailure          = "PSP_FAILURE"
	errCodeUnknownReference = "UNKNOWN"
	errCodeReconciledFailed = "PSP_RECONCILED_FAILED"
)

// MockGateway simulates a provider with configurable outcome probabilities.
// It remembers every initiated transfer by reference so that QueryStatus can
// resolve transfers that first answered PENDING; an unresolved PENDING
// finalizes to SUCCESS 60% of the time on query.
type MockGateway struct {
	mu          sync.Mutex
	rng         *rand.Rand
	outcomes    map[string]Status
	successProb float64
	pendingProb float64
}

func NewMockGateway(successProb, pendingProb float64, seed int64) *MockGateway {
	if successProb < 0 || pendingProb < 0 || successProb+pendingProb > 1.0 {
		panic("psp: invalid mock gateway probabilities")
	}
	return &MockGateway{
		rng:         rand.New(rand.NewSource(seed)),
		outcomes:    make(map[string]Status),
		successProb: successProb,
		pendingProb: pendingProb,
	}
}

func (g *MockGateway) InitiateTransfer(_ context.Context, _, _ string, _ decimal.Decimal) (*Response, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	ref := uuid.NewString()
	switch v := g.rng.Float64(); {
	case v < g.successProb:
		g.outcomes[ref] = StatusSuccess
		return &Response{Status: StatusSuccess, Reference: ref}, nil
	case v < g.successProb+g.pendingProb:
		g.outcomes[ref] = StatusPending
		return &Response{Status: StatusPending, Reference: ref}, nil
	default:
		return &Response{Status: StatusFailed, ErrorCode: errCodeFailure}, nil
	}
}

func (g *MockGateway) QueryStatus(_ context.Context, reference string) (*Response, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	status, ok := g.outcomes[reference]
	if !ok {
		return &Response{Status: StatusFailed, Reference: reference, ErrorCode: errCodeUnknownReference}, nil
	}
	if status == StatusPending {
		if g.rng.Float64() < 0.6 {
			status = StatusSuccess
		} else {
			status = StatusFailed
		}
		g.outcomes[reference] = status
	}
	if status == StatusSuccess {
		return &Response{Status: StatusSuccess, Reference: reference}, nil
	}
	return &Response{Status: StatusFailed, Reference: reference, ErrorCode: errCodeReconciledFailed}, nil
}

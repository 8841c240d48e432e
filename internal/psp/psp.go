// Package psp defines the narrow capability through which the switch talks to
// an external payment service provider.
package psp

import (
	"context"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusPending Status = "PENDING"
	StatusFailed  Status = "FAILED"
)

type Response struct {
	Status    Status
	Reference string
	ErrorCode string
}

// Gateway is the transfer capability of a PSP. InitiateTransfer returns the
// provider's immediate outcome; QueryStatus resolves a previously initiated
// transfer. A provider may answer PENDING from either call: that means "not
// yet resolved", never an error, and a later QueryStatus must be expected to
// terminate it.
//
// A returned error means the call itself could not complete (transport
// failure); the transfer state at the provider is then unknown and the
// caller retries via reconciliation.
type Gateway interface {
	InitiateTransfer(ctx context.Context, maskedSource, destinationIdentifier string, amount decimal.Decimal) (*Response, error)
	QueryStatus(ctx context.Context, reference string) (*Response, error)
}

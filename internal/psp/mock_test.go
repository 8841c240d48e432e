package psp

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGateway_AlwaysSuccess(t *testing.T) {
	g := NewMockGateway(1.0, 0.0, 1)
	resp, err := g.InitiateTransfer(context.Background(), "****0300", "9999", decimal.RequireFromString("10"))
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, resp.Status)
	assert.NotEmpty(t, resp.Reference)
}

func TestMockGateway_AlwaysFailed(t *testing.T) {
	g := NewMockGateway(0.0, 0.0, 1)
	resp, err := g.InitiateTransfer(context.Background(), "****0300", "9999", decimal.RequireFromString("10"))
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, resp.Status)
	assert.Equal(t, "PSP_FAILURE", resp.ErrorCode)
	assert.Empty(t, resp.Reference)
}

func TestMockGateway_PendingResolvesOnQuery(t *testing.T) {
	g := NewMockGateway(0.0, 1.0, 42)
	resp, err := g.InitiateTransfer(context.Background(), "****0300", "9999", decimal.RequireFromString("10"))
	require.NoError(t, err)
	require.Equal(t, StatusPending, resp.Status)
	require.NotEmpty(t, resp.Reference)

	final, err := g.QueryStatus(context.Background(), resp.Reference)
	require.NoError(t, err)
	assert.Contains(t, []Status{StatusSuccess, StatusFailed}, final.Status)

	// Once resolved the answer is stable.
	again, err := g.QueryStatus(context.Background(), resp.Reference)
	require.NoError(t, err)
	assert.Equal(t, final.Status, again.Status)
}

func TestMockGateway_UnknownReference(t *testing.T) {
	g := NewMockGateway(0.5, 0.3, 1)
	resp, err := g.QueryStatus(context.Background(), "no-such-ref")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, resp.Status)
	assert.Equal(t, "UNKNOWN", resp.ErrorCode)
}

func TestNewMockGateway_InvalidProbabilities(t *testing.T) {
	assert.Panics(t, func() { NewMockGateway(0.8, 0.5, 1) })
}

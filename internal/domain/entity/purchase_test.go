package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPurchaseStatus_Valid(t *testing.T) {
	for _, status := range []PurchaseStatus{
		PurchasePending, PurchaseConfirmed, PurchaseProcessing,
		PurchaseShipped, PurchaseDelivered, PurchaseCancelled, PurchaseRefunded,
	} {
		assert.True(t, status.Valid(), "expected %q to be valid", status)
	}

	assert.False(t, PurchaseStatus("unknown").Valid())
	assert.False(t, PurchaseStatus("").Valid())
}

func TestPurchaseStatus_HappyPath(t *testing.T) {
	path := []PurchaseStatus{
		PurchasePending, PurchaseConfirmed, PurchaseProcessing, PurchaseShipped, PurchaseDelivered,
	}
	for i := 0; i < len(path)-1; i++ {
		assert.True(t, path[i].CanTransitionTo(path[i+1]),
			"expected %s -> %s to be allowed", path[i], path[i+1])
	}
}

func TestPurchaseStatus_SideExits(t *testing.T) {
	assert.True(t, PurchasePending.CanTransitionTo(PurchaseCancelled))
	assert.True(t, PurchaseConfirmed.CanTransitionTo(PurchaseCancelled))
	assert.True(t, PurchaseProcessing.CanTransitionTo(PurchaseCancelled))
	assert.True(t, PurchaseDelivered.CanTransitionTo(PurchaseRefunded))

	// Shipped orders can no longer be cancelled, only delivered.
	assert.False(t, PurchaseShipped.CanTransitionTo(PurchaseCancelled))
}

func TestPurchaseStatus_NoBackwardsOrSkippingMoves(t *testing.T) {
	assert.False(t, PurchasePending.CanTransitionTo(PurchaseShipped))
	assert.False(t, PurchasePending.CanTransitionTo(PurchaseDelivered))
	assert.False(t, PurchaseConfirmed.CanTransitionTo(PurchasePending))
	assert.False(t, PurchaseDelivered.CanTransitionTo(PurchaseShipped))
}

func TestPurchaseStatus_TerminalStatesAreDeadEnds(t *testing.T) {
	for _, terminal := range []PurchaseStatus{PurchaseCancelled, PurchaseRefunded} {
		for _, next := range []PurchaseStatus{
			PurchasePending, PurchaseConfirmed, PurchaseProcessing,
			PurchaseShipped, PurchaseDelivered, PurchaseCancelled, PurchaseRefunded,
		} {
			assert.False(t, terminal.CanTransitionTo(next),
				"expected %s -> %s to be rejected", terminal, next)
		}
	}
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIsValidOrderStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled} {
		assert.True(t, IsValidOrderStatus(s), "expected %q to be valid", s)
	}
	assert.False(t, IsValidOrderStatus("shipped"))
	assert.False(t, IsValidOrderStatus(""))
	assert.False(t, IsValidOrderStatus("PENDING"))
}

func TestCanTransition_HappyPath(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusPreparing))
	assert.True(t, CanTransition(StatusPreparing, StatusReady))
	assert.True(t, CanTransition(StatusReady, StatusDelivered))
}

func TestCanTransition_CancelFromNonTerminal(t *testing.T) {
	for _, from := range []string{StatusPending, StatusPreparing, StatusReady} {
		assert.True(t, CanTransition(from, StatusCancelled), "cancel from %s", from)
	}
}

func TestCanTransition_TerminalStatesAreFinal(t *testing.T) {
	targets := []string{StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled}
	for _, from := range []string{StatusDelivered, StatusCancelled} {
		for _, to := range targets {
			assert.False(t, CanTransition(from, to), "%s -> %s must be rejected", from, to)
		}
	}
}

func TestCanTransition_NoSkippingOrRewinding(t *testing.T) {
	assert.False(t, CanTransition(StatusPending, StatusReady))
	assert.False(t, CanTransition(StatusPending, StatusDelivered))
	assert.False(t, CanTransition(StatusPreparing, StatusDelivered))
	assert.False(t, CanTransition(StatusReady, StatusPreparing))
	assert.False(t, CanTransition(StatusPreparing, StatusPending))
}

func TestCanTransition_SameStatusIsNotATransition(t *testing.T) {
	for _, s := range []string{StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled} {
		assert.False(t, CanTransition(s, s))
	}
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(StatusDelivered))
	assert.True(t, IsTerminalStatus(StatusCancelled))
	assert.False(t, IsTerminalStatus(StatusPending))
	assert.False(t, IsTerminalStatus(StatusReady))
}

func TestOrderTotal(t *testing.T) {
	items := []OrderItem{
		{Name: "Margherita", Quantity: 2, Price: 9.99},
		{Name: "Tiramisu", Quantity: 1, Price: 5.25},
	}
	assert.InDelta(t, 25.23, OrderTotal(items), 1e-9)
}

func TestOrderTotal_SingleItem(t *testing.T) {
	items := []OrderItem{{Name: "Margherita", Quantity: 1, Price: 9.99}}
	assert.InDelta(t, 9.99, OrderTotal(items), 1e-9)
}

func TestOrderTotal_Empty(t *testing.T) {
	assert.Zero(t, OrderTotal(nil))
}

func TestShortID(t *testing.T) {
	id, err := primitive.ObjectIDFromHex("507f1f77bcf86cd799439011")
	assert.NoError(t, err)
	o := Order{ID: id}
	assert.Equal(t, "99439011", o.ShortID())
}

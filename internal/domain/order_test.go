package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderTransitions(t *testing.T) {
	allowed := []struct {
		from, to OrderStatus
	}{
		{OrderStatusPending, OrderStatusConfirmed},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusConfirmed, OrderStatusProcessing},
		{OrderStatusConfirmed, OrderStatusCancelled},
		{OrderStatusProcessing, OrderStatusShipping},
		{OrderStatusProcessing, OrderStatusCancelled},
		{OrderStatusShipping, OrderStatusDelivered},
		{OrderStatusDelivered, OrderStatusCompleted},
		{OrderStatusDelivered, OrderStatusRefunded},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s should be legal", tc.from, tc.to)
	}

	denied := []struct {
		from, to OrderStatus
	}{
		{OrderStatusPending, OrderStatusShipping},
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusConfirmed, OrderStatusDelivered},
		{OrderStatusShipping, OrderStatusCancelled},
		{OrderStatusDelivered, OrderStatusCancelled},
		{OrderStatusCompleted, OrderStatusRefunded},
		{OrderStatusCancelled, OrderStatusPending},
		{OrderStatusRefunded, OrderStatusCompleted},
		{OrderStatusDelivered, OrderStatusPending},
	}
	for _, tc := range denied {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s should be illegal", tc.from, tc.to)
	}
}

func TestOrderTerminalStates(t *testing.T) {
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.True(t, OrderStatusRefunded.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusDelivered.IsTerminal())
}

func TestPaymentTransitions(t *testing.T) {
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusPaid))
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusFailed))
	assert.True(t, PaymentStatusPaid.CanTransitionTo(PaymentStatusRefunded))

	assert.False(t, PaymentStatusPaid.CanTransitionTo(PaymentStatusPending))
	assert.False(t, PaymentStatusFailed.CanTransitionTo(PaymentStatusPaid))
	assert.False(t, PaymentStatusRefunded.CanTransitionTo(PaymentStatusPaid))

	assert.True(t, PaymentStatusFailed.IsTerminal())
	assert.True(t, PaymentStatusRefunded.IsTerminal())
	assert.False(t, PaymentStatusPending.IsTerminal())
}

func TestPaymentExpiry(t *testing.T) {
	now := time.Now()

	assert.Nil(t, PaymentExpiry(PaymentMethodCOD, now))

	bank := PaymentExpiry(PaymentMethodBankTransfer, now)
	assert.Equal(t, now.Add(60*time.Minute), *bank)

	wallet := PaymentExpiry(PaymentMethodEWallet, now)
	assert.Equal(t, now.Add(15*time.Minute), *wallet)

	card := PaymentExpiry(PaymentMethodCreditCard, now)
	assert.Equal(t, now.Add(15*time.Minute), *card)
}

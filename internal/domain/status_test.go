package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []OrderStatus{
	StatusPending, StatusProcessing, StatusShipped,
	StatusDelivered, StatusCompleted, StatusCancelled,
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	allowed := map[OrderStatus]map[OrderStatus]bool{
		StatusPending:    {StatusProcessing: true, StatusShipped: true, StatusCancelled: true, StatusCompleted: true},
		StatusProcessing: {StatusShipped: true, StatusDelivered: true, StatusCancelled: true},
		StatusShipped:    {StatusDelivered: true, StatusCompleted: true},
		StatusDelivered:  {StatusCompleted: true},
		StatusCompleted:  {},
		StatusCancelled:  {},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			assert.Equal(t, allowed[from][to], from.CanTransitionTo(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestOrderStatus_NoSelfTransitions(t *testing.T) {
	for _, s := range allStatuses {
		assert.False(t, s.CanTransitionTo(s), "status %s must not transition to itself", s)
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	for _, s := range allStatuses {
		terminal := s == StatusCompleted || s == StatusCancelled
		assert.Equal(t, terminal, s.IsTerminal(), "status %s", s)
		if terminal {
			assert.Empty(t, s.AllowedTransitions())
		} else {
			assert.NotEmpty(t, s.AllowedTransitions())
		}
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range allStatuses {
		assert.True(t, s.Valid())
	}
	assert.False(t, OrderStatus("lost").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestOrderStatus_AllowedTransitionsReturnsCopy(t *testing.T) {
	first := StatusPending.AllowedTransitions()
	first[0] = StatusCancelled
	assert.Equal(t, StatusProcessing, StatusPending.AllowedTransitions()[0])
}

func TestPaymentMethod_Valid(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentCreditCard, PaymentPaypal, PaymentUPI, PaymentCOD} {
		assert.True(t, m.Valid())
	}
	assert.False(t, PaymentMethod("bitcoin").Valid())
	assert.False(t, PaymentMethod("").Valid())
}

package order_test

import (
	"testing"

	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []order.Status{
	order.Draft,
	order.PendingApproval,
	order.Approved,
	order.InTransit,
	order.Received,
	order.Dispatched,
	order.Cancelled,
}

func TestStatus_Validate(t *testing.T) {
	for _, s := range allStatuses {
		require.NoError(t, s.Validate(), s)
	}

	err := order.Status("SHIPPED").Validate()
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		move    func(order.Status) (order.Status, error)
		allowed map[order.Status]order.Status
	}{
		{
			name: "approve",
			move: order.Status.Approve,
			allowed: map[order.Status]order.Status{
				order.Draft:           order.Approved,
				order.PendingApproval: order.Approved,
			},
		},
		{
			name: "receive",
			move: order.Status.Receive,
			allowed: map[order.Status]order.Status{
				order.Approved:  order.Received,
				order.InTransit: order.Received,
			},
		},
		{
			name: "dispatch",
			move: order.Status.Dispatch,
			allowed: map[order.Status]order.Status{
				order.Approved: order.Dispatched,
			},
		},
		{
			name: "cancel",
			move: order.Status.Cancel,
			allowed: map[order.Status]order.Status{
				order.Draft:           order.Cancelled,
				order.PendingApproval: order.Cancelled,
				order.Approved:        order.Cancelled,
				order.InTransit:       order.Cancelled,
			},
		},
	}

	for _, tt := range tests {
		for _, from := range allStatuses {
			t.Run(tt.name+"_from_"+from.String(), func(t *testing.T) {
				next, err := tt.move(from)

				want, ok := tt.allowed[from]
				if ok {
					require.NoError(t, err)
					assert.Equal(t, want, next)
					return
				}
				require.ErrorIs(t, err, errs.ErrBusinessRuleViolated)
				assert.Empty(t, next)
			})
		}
	}
}

func TestStatus_ErrorMessagesNameTheRule(t *testing.T) {
	_, err := order.Dispatched.Dispatch()
	assert.Contains(t, err.Error(), "invalid transition")
	assert.Contains(t, err.Error(), "DISPATCHED -> DISPATCHED")

	_, err = order.Received.Cancel()
	assert.Contains(t, err.Error(), "cannot cancel in this status")
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.Received.IsTerminal())
	assert.True(t, order.Dispatched.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
	assert.False(t, order.Approved.IsTerminal())
	assert.False(t, order.InTransit.IsTerminal())
}

package effect_test

import (
	"testing"
	"time"

	"orders/internal/core/domain/model/effect"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffect_Lifecycle(t *testing.T) {
	now := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	orderID := kernel.NewUUID()

	t.Run("new effect is pending", func(t *testing.T) {
		e, err := effect.NewEffect(orderID, effect.ReserveInventory, now)

		require.NoError(t, err)
		assert.Equal(t, effect.Pending, e.Status())
		assert.Nil(t, e.ResolvedAt())
		assert.True(t, e.OrderID().IsEqual(orderID))
	})

	t.Run("complete resolves once", func(t *testing.T) {
		e, _ := effect.NewEffect(orderID, effect.CreatePurchaseOrder, now)

		require.NoError(t, e.Complete(now.Add(time.Second)))
		assert.Equal(t, effect.Completed, e.Status())
		require.NotNil(t, e.ResolvedAt())

		require.ErrorIs(t, e.MarkUnresolved(now), errs.ErrBusinessRuleViolated)
	})

	t.Run("pending can be flagged unresolved", func(t *testing.T) {
		e, _ := effect.NewEffect(orderID, effect.RegisterReceipt, now)

		require.NoError(t, e.MarkUnresolved(now.Add(time.Hour)))
		assert.Equal(t, effect.Unresolved, e.Status())
	})

	t.Run("rejects unknown kind and status", func(t *testing.T) {
		_, err := effect.NewEffect(orderID, effect.Kind("REFUND"), now)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		_, err = effect.RestoreEffect(kernel.NewUUID(), orderID, effect.ReserveInventory, effect.Status("DONE"), now, nil)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

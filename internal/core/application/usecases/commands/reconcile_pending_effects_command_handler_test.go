package commands_test

import (
	"testing"
	"time"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/effect"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEffect(t *testing.T, store *memStore, orderID kernel.UUID, kind effect.Kind, status effect.Status, age time.Duration) *effect.Effect {
	t.Helper()
	e, err := effect.RestoreEffect(kernel.NewUUID(), orderID, kind, status, fixedNow.Add(-age), nil)
	require.NoError(t, err)
	store.state.effects[e.ID()] = e
	return e
}

func TestReconcilePendingEffectsCommandHandler_Handle(t *testing.T) {
	store := newMemStore()
	o := storedOrder(t, store, order.Sale, order.Approved)
	stale := seedEffect(t, store, o.ID(), effect.ReserveInventory, effect.Pending, 2*time.Hour)
	fresh := seedEffect(t, store, o.ID(), effect.ReserveInventory, effect.Pending, time.Minute)
	done := seedEffect(t, store, o.ID(), effect.ReserveInventory, effect.Completed, 3*time.Hour)
	orphan := seedEffect(t, store, kernel.NewUUID(), effect.RegisterReceipt, effect.Pending, 5*time.Hour)

	handler := commands.NewReconcilePendingEffectsCommandHandler(store, newAuditor(), testSettings())
	cmd, err := commands.NewReconcilePendingEffectsCommand("co", 30*time.Minute, 10)
	require.NoError(t, err)

	flagged, err := handler.Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, 2, flagged)
	assert.Equal(t, effect.Unresolved, store.state.effects[stale.ID()].Status())
	assert.Equal(t, effect.Unresolved, store.state.effects[orphan.ID()].Status())
	assert.Equal(t, effect.Pending, store.state.effects[fresh.ID()].Status())
	assert.Equal(t, effect.Completed, store.state.effects[done.ID()].Status())

	events := store.eventsOf(o.ID())
	require.Len(t, events, 1)
	assert.Equal(t, order.Approved, events[0].Status())
	rec := decodeDetail(t, events[0])
	assert.Equal(t, order.EventEffectUnresolved, rec["event"])
	assert.Equal(t, stale.ID().String(), rec["detail"].(map[string]any)["effect_id"])

	again, err := handler.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestReconcilePendingEffectsCommandHandler_Limit(t *testing.T) {
	store := newMemStore()
	o := storedOrder(t, store, order.Purchase, order.Approved)
	oldest := seedEffect(t, store, o.ID(), effect.CreatePurchaseOrder, effect.Pending, 10*time.Hour)
	seedEffect(t, store, o.ID(), effect.RegisterReceipt, effect.Pending, 2*time.Hour)

	handler := commands.NewReconcilePendingEffectsCommandHandler(store, newAuditor(), testSettings())
	cmd, err := commands.NewReconcilePendingEffectsCommand("co", time.Hour, 1)
	require.NoError(t, err)

	flagged, err := handler.Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, flagged)
	assert.Equal(t, effect.Unresolved, store.state.effects[oldest.ID()].Status())
}

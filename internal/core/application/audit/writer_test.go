package audit_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"orders/internal/core/application/audit"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var fixedNow = time.Date(2026, 10, 17, 10, 30, 0, 0, time.UTC)

type eventStore struct {
	events []*order.Event
	err    error
}

func (s *eventStore) Append(_ context.Context, e *order.Event) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, e)
	return nil
}

func (s *eventStore) ListByOrder(_ context.Context, id kernel.UUID) ([]*order.Event, error) {
	var out []*order.Event
	for _, e := range s.events {
		if e.OrderID().IsEqual(id) {
			out = append(out, e)
		}
	}
	return out, nil
}

func ptr[T any](v T) *T { return &v }

func saleOrder(t *testing.T) *order.Order {
	t.Helper()
	price := decimal.NewFromInt(5)
	line, err := order.NewLine(order.LineSpec{ProductID: kernel.NewUUID(), Quantity: 1, UnitPrice: &price})
	require.NoError(t, err)
	o, err := order.NewOrder(
		kernel.NewUUID(), "SO-2026-A1B2C3", order.Sale,
		order.References{CustomerID: ptr(int64(77)), SalespersonID: ptr(int64(5)), OriginWarehouseID: ptr(kernel.NewUUID())},
		"", fixedNow, []order.Line{line}, fixedNow,
	)
	require.NoError(t, err)
	return o
}

func newWriter() (*audit.Writer, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return audit.NewWriter(zap.New(core), func() time.Time { return fixedNow }), logs
}

func decode(t *testing.T, e *order.Event) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(e.Detail()), &m))
	return m
}

func TestWriter_Append(t *testing.T) {
	t.Run("should store the normalized record", func(t *testing.T) {
		w, logs := newWriter()
		store := &eventStore{}
		o := saleOrder(t)

		err := w.Append(t.Context(), store, o, audit.Entry{
			Event:   order.EventApproved,
			Status:  order.Approved,
			From:    order.Draft,
			Detail:  audit.Text("approved on create"),
			Context: audit.Context{RequestID: "req-1", Country: "co", IP: "10.0.0.1"},
			Extra:   map[string]any{"source": "api"},
		})

		require.NoError(t, err)
		require.Len(t, store.events, 1)
		ev := store.events[0]
		assert.Equal(t, order.Approved, ev.Status())
		assert.Equal(t, fixedNow, ev.OccurredAt())
		require.NotNil(t, ev.ActorUserID())
		assert.Equal(t, int64(77), *ev.ActorUserID())

		rec := decode(t, ev)
		assert.Equal(t, "pedido_aprobado", rec["event"])
		assert.Equal(t, o.ID().String(), rec["order_id"])
		assert.Equal(t, "SO-2026-A1B2C3", rec["code"])
		assert.Equal(t, "SALE", rec["kind"])
		assert.Equal(t, "DRAFT", rec["from"])
		assert.Equal(t, "APPROVED", rec["to"])
		assert.Equal(t, map[string]any{"message": "approved on create"}, rec["detail"])
		assert.InDelta(t, 77, rec["who"], 0)
		assert.Equal(t, map[string]any{"request_id": "req-1", "country": "co", "ip": "10.0.0.1", "user_id": nil}, rec["ctx"])
		assert.Equal(t, map[string]any{"source": "api"}, rec["extra"])

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "audit", entry.Message)
		assert.Equal(t, "pedido_aprobado", entry.ContextMap()["event"])
	})

	t.Run("should prefer the request user over the customer", func(t *testing.T) {
		w, _ := newWriter()
		store := &eventStore{}
		entry := audit.Entry{Status: order.Draft, Detail: audit.Text("x"), Context: audit.Context{UserID: ptr(int64(3))}}

		require.NoError(t, w.Append(t.Context(), store, saleOrder(t), entry))

		assert.Equal(t, int64(3), *store.events[0].ActorUserID())
		rec := decode(t, store.events[0])
		assert.Equal(t, "state_change", rec["event"])
		assert.Nil(t, rec["from"])
		assert.NotContains(t, rec, "extra")
	})

	t.Run("explicit actor wins", func(t *testing.T) {
		w, _ := newWriter()
		store := &eventStore{}

		require.NoError(t, w.Append(t.Context(), store, saleOrder(t), audit.Entry{Status: order.Draft, Actor: ptr(int64(9))}))

		assert.Equal(t, int64(9), *store.events[0].ActorUserID())
	})

	t.Run("should fall back to the detail text when the record cannot be serialized", func(t *testing.T) {
		w, _ := newWriter()
		store := &eventStore{}

		err := w.Append(t.Context(), store, saleOrder(t), audit.Entry{
			Status: order.Approved,
			Detail: audit.Text("tokens issued"),
			Extra:  map[string]any{"callback": func() {}},
		})

		require.NoError(t, err)
		assert.JSONEq(t, `{"detail":"tokens issued"}`, store.events[0].Detail())
	})

	t.Run("should keep structured details", func(t *testing.T) {
		w, _ := newWriter()
		store := &eventStore{}

		require.NoError(t, w.Append(t.Context(), store, saleOrder(t), audit.Entry{
			Status: order.Approved,
			Detail: audit.Fields(map[string]any{"message": "FEFO issue completed", "items": 2}),
		}))

		rec := decode(t, store.events[0])
		assert.Equal(t, map[string]any{"message": "FEFO issue completed", "items": float64(2)}, rec["detail"])
	})

	t.Run("should return persistence errors", func(t *testing.T) {
		w, logs := newWriter()
		store := &eventStore{err: errors.New("connection reset")}

		err := w.Append(t.Context(), store, saleOrder(t), audit.Entry{Event: order.EventCancelled, Status: order.Cancelled})

		require.ErrorContains(t, err, "connection reset")
		assert.Zero(t, logs.Len())
	})

	t.Run("should reject an unconstructed order", func(t *testing.T) {
		w, _ := newWriter()

		err := w.Append(t.Context(), &eventStore{}, &order.Order{}, audit.Entry{})

		require.ErrorIs(t, err, order.ErrOrderIsNotConstructed)
	})
}

func TestDetail_Normalize(t *testing.T) {
	assert.Equal(t, map[string]any{"message": "hi"}, audit.Text("hi").Normalize())
	assert.Equal(t, map[string]any{"a": 1}, audit.Fields(map[string]any{"a": 1}).Normalize())
}

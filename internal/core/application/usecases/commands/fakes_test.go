package commands_test

import (
	"context"
	"encoding/json"
	"slices"
	"testing"
	"time"

	"orders/internal/core/application/audit"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/effect"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 10, 17, 15, 0, 0, 0, time.UTC)

func testSettings() commands.Settings {
	return commands.Settings{
		DefaultPurchaseLeadDays: 7,
		DefaultSaleLeadDays:     2,
		Currency:                "COP",
		Now:                     func() time.Time { return fixedNow },
	}
}

func ptr[T any](v T) *T { return &v }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// memState is the committed content of the in-memory store.
type memState struct {
	orders  map[kernel.UUID]order.Snapshot
	events  []*order.Event
	effects map[kernel.UUID]*effect.Effect
}

func (s memState) clone() memState {
	out := memState{
		orders:  make(map[kernel.UUID]order.Snapshot, len(s.orders)),
		events:  slices.Clone(s.events),
		effects: make(map[kernel.UUID]*effect.Effect, len(s.effects)),
	}
	for k, v := range s.orders {
		out.orders[k] = v
	}
	for k, v := range s.effects {
		out.effects[k] = copyEffect(v)
	}
	return out
}

func copyEffect(e *effect.Effect) *effect.Effect {
	c, err := effect.RestoreEffect(e.ID(), e.OrderID(), e.Kind(), e.Status(), e.CreatedAt(), e.ResolvedAt())
	if err != nil {
		panic(err)
	}
	return c
}

// memStore is an in-memory unit of work factory with transactional rollback.
type memStore struct {
	state     memState
	countries []string
	commits   int
}

func newMemStore() *memStore {
	return &memStore{state: memState{
		orders:  map[kernel.UUID]order.Snapshot{},
		effects: map[kernel.UUID]*effect.Effect{},
	}}
}

func (s *memStore) Create(country string) commands.UoW {
	s.countries = append(s.countries, country)
	return &memUoW{store: s}
}

func (s *memStore) order(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	snap, ok := s.state.orders[id]
	require.True(t, ok, "order %s not stored", id)
	o, err := order.RestoreOrder(snap)
	require.NoError(t, err)
	return o
}

func (s *memStore) eventsOf(id kernel.UUID) []*order.Event {
	var out []*order.Event
	for _, e := range s.state.events {
		if e.OrderID().IsEqual(id) {
			out = append(out, e)
		}
	}
	return out
}

func (s *memStore) effectsOf(id kernel.UUID) []*effect.Effect {
	var out []*effect.Effect
	for _, e := range s.state.effects {
		if e.OrderID().IsEqual(id) {
			out = append(out, e)
		}
	}
	return out
}

func (s *memStore) seed(o *order.Order) {
	s.state.orders[o.ID()] = o.Snapshot()
}

type memUoW struct {
	store  *memStore
	backup *memState
}

func (u *memUoW) Begin(context.Context) error {
	b := u.store.state.clone()
	u.backup = &b
	return nil
}

func (u *memUoW) Commit(context.Context) error {
	if u.backup == nil {
		return errs.NewBusinessRuleViolatedError("no transaction")
	}
	u.backup = nil
	u.store.commits++
	return nil
}

func (u *memUoW) Rollback(context.Context) error {
	if u.backup == nil {
		return errs.NewBusinessRuleViolatedError("no transaction")
	}
	u.store.state = *u.backup
	u.backup = nil
	return nil
}

func (u *memUoW) OrderRepository() ports.OrderRepository   { return memOrders{u.store} }
func (u *memUoW) EventRepository() ports.EventRepository   { return memEvents{u.store} }
func (u *memUoW) EffectRepository() ports.EffectRepository { return memEffects{u.store} }

type memOrders struct{ store *memStore }

func (r memOrders) Add(_ context.Context, o *order.Order) error {
	for _, s := range r.store.state.orders {
		if s.Code == o.Code() {
			return errs.NewObjectAlreadyExistsErrorWithCause("order code", o.Code(), nil)
		}
	}
	r.store.state.orders[o.ID()] = o.Snapshot()
	return nil
}

func (r memOrders) Update(_ context.Context, o *order.Order) error {
	stored, ok := r.store.state.orders[o.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("order", o.ID().String())
	}
	if stored.Version != o.Version() {
		return errs.NewVersionIsInvalidError("order version")
	}
	o.AdvanceVersion()
	r.store.state.orders[o.ID()] = o.Snapshot()
	return nil
}

func (r memOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	snap, ok := r.store.state.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(snap)
}

type memEvents struct{ store *memStore }

func (r memEvents) Append(_ context.Context, e *order.Event) error {
	r.store.state.events = append(r.store.state.events, e)
	return nil
}

func (r memEvents) ListByOrder(_ context.Context, id kernel.UUID) ([]*order.Event, error) {
	return r.store.eventsOf(id), nil
}

type memEffects struct{ store *memStore }

func (r memEffects) Add(_ context.Context, e *effect.Effect) error {
	r.store.state.effects[e.ID()] = copyEffect(e)
	return nil
}

func (r memEffects) Update(_ context.Context, e *effect.Effect) error {
	stored, ok := r.store.state.effects[e.ID()]
	if !ok || stored.Status() != effect.Pending {
		return errs.NewVersionIsInvalidError("effect status")
	}
	r.store.state.effects[e.ID()] = copyEffect(e)
	return nil
}

func (r memEffects) HasPending(_ context.Context, orderID kernel.UUID, kind effect.Kind) (bool, error) {
	for _, e := range r.store.state.effects {
		if e.OrderID().IsEqual(orderID) && e.Kind() == kind && e.Status() == effect.Pending {
			return true, nil
		}
	}
	return false, nil
}

func (r memEffects) ListPendingBefore(_ context.Context, before time.Time, limit int) ([]*effect.Effect, error) {
	var out []*effect.Effect
	for _, e := range r.store.state.effects {
		if e.Status() == effect.Pending && e.CreatedAt().Before(before) {
			out = append(out, copyEffect(e))
		}
	}
	slices.SortFunc(out, func(a, b *effect.Effect) int { return a.CreatedAt().Compare(b.CreatedAt()) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type MockGateway struct{ mock.Mock }

func (m *MockGateway) CreatePurchaseOrder(ctx context.Context, req ports.PurchaseOrderRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) IssueFEFO(ctx context.Context, productID kernel.UUID, quantity int) ([]string, error) {
	args := m.Called(ctx, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockGateway) CreateLot(ctx context.Context, productID kernel.UUID, code string) (string, error) {
	args := m.Called(ctx, productID, code)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) CreateLocation(ctx context.Context, req ports.LocationRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) RegisterReceipt(ctx context.Context, req ports.ReceiptRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockGateway) SupplierLeadTimes(ctx context.Context, productID kernel.UUID) ([]ports.SupplierLeadTime, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.SupplierLeadTime), args.Error(1)
}

func (m *MockGateway) AssertNoCalls(t *testing.T) {
	t.Helper()
	for _, method := range []string{
		"CreatePurchaseOrder", "IssueFEFO", "CreateLot", "CreateLocation", "RegisterReceipt", "SupplierLeadTimes",
	} {
		m.AssertNumberOfCalls(t, method, 0)
	}
}

type gatewayFactory struct {
	gateway   ports.ServiceGateway
	countries []string
}

func (f *gatewayFactory) ForCountry(country string) ports.ServiceGateway {
	f.countries = append(f.countries, country)
	return f.gateway
}

func newAuditor() *audit.Writer {
	return audit.NewWriter(zap.NewNop(), func() time.Time { return fixedNow })
}

func purchaseRefs() order.References {
	return order.References{
		SupplierID:             ptr(kernel.NewUUID()),
		DestinationWarehouseID: ptr(kernel.NewUUID()),
	}
}

func saleRefs() order.References {
	return order.References{
		CustomerID:        ptr(int64(501)),
		SalespersonID:     ptr(int64(12)),
		OriginWarehouseID: ptr(kernel.NewUUID()),
	}
}

// storedOrder builds an order in the given status and stores it.
func storedOrder(t *testing.T, store *memStore, kind order.Kind, status order.Status, specs ...order.LineSpec) *order.Order {
	t.Helper()
	refs := purchaseRefs()
	if kind == order.Sale {
		refs = saleRefs()
	}
	if len(specs) == 0 {
		specs = []order.LineSpec{{ProductID: kernel.NewUUID(), Quantity: 3, UnitPrice: dec("10")}}
	}
	lines := make([]order.Line, 0, len(specs))
	for _, s := range specs {
		l, err := order.NewLine(s)
		require.NoError(t, err)
		lines = append(lines, l)
	}
	o, err := order.NewOrder(kernel.NewUUID(), order.NewCode(kind, fixedNow), kind, refs, "", fixedNow, lines, fixedNow)
	require.NoError(t, err)

	snap := o.Snapshot()
	snap.Status = status
	restored, err := order.RestoreOrder(snap)
	require.NoError(t, err)
	store.seed(restored)
	return restored
}

func eventNames(t *testing.T, events []*order.Event) []string {
	t.Helper()
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, decodeDetail(t, e)["event"].(string))
	}
	return names
}

func decodeDetail(t *testing.T, e *order.Event) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(e.Detail()), &m))
	return m
}

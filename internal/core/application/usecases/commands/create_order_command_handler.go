package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orders/internal/core/application/audit"
	"orders/internal/core/domain/model/effect"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/domain/services"
	"orders/internal/core/ports"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateOrderCommandHandler creates an order, approves it and runs the
// external effects of its kind.
//
// The work is split into three steps:
//  1. one transaction stores the DRAFT order, its audit trail, the approval
//     and a PENDING effect marker;
//  2. the sibling services are called (purchase order creation for PURCHASE,
//     one FEFO issue per line for SALE);
//  3. a second transaction links the external result and completes the marker.
//
// A failure in step 2 is returned to the caller. The approved order stays
// committed and its marker PENDING.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, gateways, auditor, settings, logger)
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	gateways   ports.GatewayFactory
	auditor    *audit.Writer
	calculator services.TotalsCalculator
	settings   Settings
	logger     *zap.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	gateways ports.GatewayFactory,
	auditor *audit.Writer,
	settings Settings,
	logger *zap.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		gateways:   gateways,
		auditor:    auditor,
		calculator: services.NewTotalsCalculator(),
		settings:   settings,
		logger:     logger.With(zap.String("component", "create_order")),
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.settings.now()
	gateway := h.gateways.ForCountry(cmd.Country())

	lines, err := buildLines(cmd.Lines())
	if err != nil {
		return nil, err
	}

	if err = order.ValidateReferences(cmd.Kind(), cmd.References()); err != nil {
		return nil, err
	}

	commitment, note := h.commitmentDate(ctx, gateway, cmd, lines, now)

	o, err := order.NewOrder(
		kernel.NewUUID(),
		order.NewCode(cmd.Kind(), now),
		cmd.Kind(),
		cmd.References(),
		cmd.Notes(),
		commitment,
		lines,
		now,
	)
	if err != nil {
		return nil, err
	}

	if err = h.calculator.Apply(o); err != nil {
		return nil, err
	}

	marker, err := h.persistApproved(ctx, cmd, o, note, now)
	if err != nil {
		return nil, err
	}

	var apply outcome
	switch o.Kind() {
	case order.Purchase:
		apply, err = h.createPurchaseOrder(ctx, gateway, o, cmd.Audit())
	case order.Sale:
		apply, err = h.issueFEFO(ctx, gateway, o, cmd.Audit())
	}
	if err != nil {
		return nil, err
	}

	if err = resolveEffect(ctx, h.uowFactory, h.auditor, cmd.Country(), o, marker, h.settings.now(), apply); err != nil {
		return nil, err
	}

	return o, nil
}

func (h CreateOrderCommandHandler) persistApproved(
	ctx context.Context,
	cmd CreateOrderCommand,
	o *order.Order,
	note audit.Detail,
	now time.Time,
) (*effect.Effect, error) {
	uow := h.uowFactory.Create(cmd.Country())
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	events := uow.EventRepository()

	if err := orders.Add(ctx, o); err != nil {
		return nil, err
	}

	if err := h.auditor.Append(ctx, events, o, audit.Entry{
		Event:   order.EventCommitmentDate,
		Status:  o.Status(),
		Detail:  note,
		Context: cmd.Audit(),
	}); err != nil {
		return nil, err
	}

	if err := h.auditor.Append(ctx, events, o, audit.Entry{
		Event:   order.EventCreated,
		Status:  o.Status(),
		Detail:  audit.Fields(map[string]any{"message": "created", "items": len(o.Lines())}),
		Context: cmd.Audit(),
	}); err != nil {
		return nil, err
	}

	prev := o.Status()
	if err := o.Approve(now); err != nil {
		return nil, err
	}

	if err := orders.Update(ctx, o); err != nil {
		return nil, err
	}

	if err := h.auditor.Append(ctx, events, o, audit.Entry{
		Event:   order.EventApproved,
		Status:  o.Status(),
		From:    prev,
		Detail:  audit.Text("approved on create"),
		Context: cmd.Audit(),
	}); err != nil {
		return nil, err
	}

	kind := effect.CreatePurchaseOrder
	if o.Kind() == order.Sale {
		kind = effect.ReserveInventory
	}

	marker, err := effect.NewEffect(o.ID(), kind, now)
	if err != nil {
		return nil, err
	}

	if err = uow.EffectRepository().Add(ctx, marker); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return marker, nil
}

func (h CreateOrderCommandHandler) createPurchaseOrder(
	ctx context.Context,
	gateway ports.ServiceGateway,
	o *order.Order,
	actx audit.Context,
) (outcome, error) {
	items := make([]ports.PurchaseOrderItem, 0, len(o.Lines()))
	for _, l := range o.Lines() {
		items = append(items, ports.PurchaseOrderItem{
			ProductID:   l.ProductID(),
			Quantity:    l.Quantity(),
			UnitPrice:   valueOrZero(l.UnitPrice()),
			TaxPct:      valueOrZero(l.TaxPct()),
			DiscountPct: valueOrZero(l.DiscountPct()),
			SupplierSKU: l.SKU(),
		})
	}

	id, err := gateway.CreatePurchaseOrder(ctx, ports.PurchaseOrderRequest{
		SupplierID: *o.References().SupplierID,
		OrderRef:   o.ID(),
		Currency:   h.settings.Currency,
		Notes:      o.Notes(),
		Items:      items,
	})
	if err != nil {
		return nil, fmt.Errorf("create purchase order for %s: %w", o.Code(), err)
	}

	return func(o *order.Order) (audit.Entry, error) {
		if err := o.LinkPurchaseOrder(id); err != nil {
			return audit.Entry{}, err
		}
		return audit.Entry{
			Event:   order.EventPurchaseLinked,
			Status:  o.Status(),
			Detail:  audit.Fields(map[string]any{"message": "purchase order created and linked", "purchase_order_id": id}),
			Context: actx,
		}, nil
	}, nil
}

// fefoPlaceholder stands for an issue that returned no token.
const fefoPlaceholder = "OK"

func (h CreateOrderCommandHandler) issueFEFO(
	ctx context.Context,
	gateway ports.ServiceGateway,
	o *order.Order,
	actx audit.Context,
) (outcome, error) {
	var tokens []string
	for _, l := range o.Lines() {
		issued, err := gateway.IssueFEFO(ctx, l.ProductID(), l.Quantity())
		if err != nil {
			return nil, fmt.Errorf("issue FEFO for %s product %s: %w", o.Code(), l.ProductID(), err)
		}
		if len(issued) == 0 {
			issued = []string{fefoPlaceholder}
		}
		tokens = append(tokens, issued...)
	}

	return func(o *order.Order) (audit.Entry, error) {
		if err := o.ReserveInventory(tokens); err != nil {
			return audit.Entry{}, err
		}
		return audit.Entry{
			Event:  order.EventFEFOIssued,
			Status: o.Status(),
			Detail: audit.Fields(map[string]any{
				"message": "FEFO issue completed",
				"tokens":  tokens,
				"items":   len(o.Lines()),
			}),
			Context: actx,
		}, nil
	}, nil
}

// commitmentDate resolves the commitment date and describes how it was chosen.
func (h CreateOrderCommandHandler) commitmentDate(
	ctx context.Context,
	gateway ports.ServiceGateway,
	cmd CreateOrderCommand,
	lines []order.Line,
	now time.Time,
) (time.Time, audit.Detail) {
	note := func(date time.Time, source string, days *int) audit.Detail {
		fields := map[string]any{
			"message":         "commitment date set",
			"commitment_date": date.Format(kernel.DateLayout),
			"source":          source,
		}
		if days != nil {
			fields["lead_days"] = *days
		}
		return audit.Fields(fields)
	}

	if cmd.Kind() == order.Sale {
		if d := cmd.DeliveryDate(); d != nil {
			return kernel.DateOf(*d), note(kernel.DateOf(*d), "delivery_date", nil)
		}
		days := h.settings.DefaultSaleLeadDays
		date := kernel.AddDays(now, days)
		return date, note(date, "default", &days)
	}

	if d := cmd.ReceiptDate(); d != nil {
		return kernel.DateOf(*d), note(kernel.DateOf(*d), "receipt_date", nil)
	}

	if days, ok := h.maxLeadTime(ctx, gateway, cmd.References().SupplierID, lines); ok {
		date := kernel.AddDays(now, days)
		return date, note(date, "supplier_lead_time", &days)
	}

	days := h.settings.DefaultPurchaseLeadDays
	date := kernel.AddDays(now, days)
	return date, note(date, "default", &days)
}

// maxLeadTime returns the largest lead time over the products of lines. A
// product whose quotes cannot be fetched counts as unresolved.
func (h CreateOrderCommandHandler) maxLeadTime(
	ctx context.Context,
	gateway ports.ServiceGateway,
	supplierID *kernel.UUID,
	lines []order.Line,
) (int, bool) {
	best, found := 0, false
	seen := make(map[string]struct{}, len(lines))

	for _, l := range lines {
		product := l.ProductID().String()
		if _, ok := seen[product]; ok {
			continue
		}
		seen[product] = struct{}{}

		quotes, err := gateway.SupplierLeadTimes(ctx, l.ProductID())
		if err != nil {
			h.logger.Warn("supplier lead time unavailable",
				zap.String("product_id", product),
				zap.Error(err),
			)
			continue
		}

		days, ok := leadTimeFor(quotes, supplierID)
		if !ok {
			continue
		}
		if !found || days > best {
			best, found = days, true
		}
	}

	return best, found
}

// leadTimeFor prefers the quote of the order's supplier and otherwise takes
// the largest quote.
func leadTimeFor(quotes []ports.SupplierLeadTime, supplierID *kernel.UUID) (int, bool) {
	if supplierID != nil {
		for _, q := range quotes {
			if q.Days != nil && q.SupplierID == supplierID.String() {
				return *q.Days, true
			}
		}
	}

	best, found := 0, false
	for _, q := range quotes {
		if q.Days == nil {
			continue
		}
		if !found || *q.Days > best {
			best, found = *q.Days, true
		}
	}
	return best, found
}

func buildLines(specs []order.LineSpec) ([]order.Line, error) {
	lines := make([]order.Line, 0, len(specs))
	var errList []error
	for i, spec := range specs {
		l, err := order.NewLine(spec)
		if err != nil {
			errList = append(errList, fmt.Errorf("line %d: %w", i+1, err))
			continue
		}
		lines = append(lines, l)
	}
	if len(errList) > 0 {
		return nil, errors.Join(errList...)
	}
	return lines, nil
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

package commands

import (
	"context"
	"fmt"

	"orders/internal/core/application/audit"
	"orders/internal/core/domain/model/effect"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
)

// Default storage location created in the destination warehouse for lines
// without a location.
const (
	defaultAisle    = "A"
	defaultShelf    = "1"
	defaultPosition = "1"
)

// MarkOrderReceivedCommandHandler registers the goods of a purchase order in
// inventory and moves the order to RECEIVED.
//
// Kind and status are checked, and the order claimed, before any call to
// inventory. For every line it
// creates a lot, resolves a storage location (the line's own, or a default one
// created in the destination warehouse) and registers the receipt as AVAILABLE.
// The status change and the effect marker resolution commit together after
// the last call.
type MarkOrderReceivedCommandHandler struct {
	uowFactory UoWFactory
	gateways   ports.GatewayFactory
	auditor    *audit.Writer
	settings   Settings
}

func NewMarkOrderReceivedCommandHandler(
	uowFactory UoWFactory,
	gateways ports.GatewayFactory,
	auditor *audit.Writer,
	settings Settings,
) MarkOrderReceivedCommandHandler {
	return MarkOrderReceivedCommandHandler{
		uowFactory: uowFactory,
		gateways:   gateways,
		auditor:    auditor,
		settings:   settings,
	}
}

func (h MarkOrderReceivedCommandHandler) Handle(ctx context.Context, cmd MarkOrderReceivedCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, marker, err := h.reserveEffect(ctx, cmd)
	if err != nil {
		return nil, err
	}

	lots, err := h.registerReceipt(ctx, h.gateways.ForCountry(cmd.Country()), o)
	if err != nil {
		return nil, err
	}

	now := h.settings.now()
	apply := func(o *order.Order) (audit.Entry, error) {
		prev := o.Status()
		if err := o.MarkReceived(now); err != nil {
			return audit.Entry{}, err
		}
		return audit.Entry{
			Event:   order.EventReceived,
			Status:  o.Status(),
			From:    prev,
			Detail:  audit.Text("receipt confirmed"),
			Context: cmd.Audit(),
			Extra:   map[string]any{"lots": lots},
		}, nil
	}

	if err = resolveEffect(ctx, h.uowFactory, h.auditor, cmd.Country(), o, marker, now, apply); err != nil {
		return nil, err
	}

	return o, nil
}

// reserveEffect checks and claims the order and commits a PENDING marker.
func (h MarkOrderReceivedCommandHandler) reserveEffect(
	ctx context.Context,
	cmd MarkOrderReceivedCommand,
) (*order.Order, *effect.Effect, error) {
	uow := h.uowFactory.Create(cmd.Country())
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := loadOrder(ctx, uow, cmd.OrderID())
	if err != nil {
		return nil, nil, err
	}

	if err = o.CanMarkReceived(); err != nil {
		return nil, nil, err
	}

	if err = claimOrder(ctx, uow, o, effect.RegisterReceipt); err != nil {
		return nil, nil, err
	}

	marker, err := effect.NewEffect(o.ID(), effect.RegisterReceipt, h.settings.now())
	if err != nil {
		return nil, nil, err
	}

	if err = uow.EffectRepository().Add(ctx, marker); err != nil {
		return nil, nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return o, marker, nil
}

// receivedLot is the audit record of one registered line.
type receivedLot struct {
	LotID      string `json:"lot_id"`
	LotCode    string `json:"lot_code"`
	LocationID string `json:"location_id"`
	Quantity   int    `json:"quantity"`
}

func (h MarkOrderReceivedCommandHandler) registerReceipt(
	ctx context.Context,
	gateway ports.ServiceGateway,
	o *order.Order,
) ([]receivedLot, error) {
	lots := make([]receivedLot, 0, len(o.Lines()))

	for idx, l := range o.Lines() {
		code := LotCode(o.Code(), idx+1)
		lotID, err := gateway.CreateLot(ctx, l.ProductID(), code)
		if err != nil {
			return nil, fmt.Errorf("create lot %s: %w", code, err)
		}

		var locationID string
		if loc := l.LocationID(); loc != nil {
			locationID = loc.String()
		} else {
			locationID, err = gateway.CreateLocation(ctx, ports.LocationRequest{
				WarehouseID: *o.References().DestinationWarehouseID,
				Aisle:       defaultAisle,
				Shelf:       defaultShelf,
				Position:    defaultPosition,
			})
			if err != nil {
				return nil, fmt.Errorf("create default location for %s: %w", code, err)
			}
		}

		if err = gateway.RegisterReceipt(ctx, ports.ReceiptRequest{
			LotID:      lotID,
			LocationID: locationID,
			Quantity:   l.Quantity(),
			Status:     ports.ReceiptStatusAvailable,
		}); err != nil {
			return nil, fmt.Errorf("register receipt of lot %s: %w", code, err)
		}

		lots = append(lots, receivedLot{LotID: lotID, LotCode: code, LocationID: locationID, Quantity: l.Quantity()})
	}

	return lots, nil
}

// LotCode is the code of the lot created for the idx-th line (1-based) of an order.
func LotCode(orderCode string, idx int) string {
	return fmt.Sprintf("LOTE-%s-%02d", orderCode, idx)
}


package commands

import (
	"context"

	"orders/internal/core/application/audit"
	"orders/internal/core/domain/model/order"
)

// CancelOrderCommandHandler cancels an order that is not yet RECEIVED,
// DISPATCHED or CANCELLED. External effects already performed are not undone.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	auditor    *audit.Writer
	settings   Settings
}

func NewCancelOrderCommandHandler(uowFactory UoWFactory, auditor *audit.Writer, settings Settings) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		auditor:    auditor,
		settings:   settings,
	}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.settings.now()
	return applyTransition(ctx, h.uowFactory, h.auditor, cmd.transition,
		order.EventCancelled, "cancelled",
		func(o *order.Order) error { return o.Cancel(now) },
	)
}

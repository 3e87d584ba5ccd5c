package commands

import (
	"context"

	"orders/internal/core/application/audit"
	"orders/internal/core/domain/model/order"
)

// MarkOrderDispatchedCommandHandler moves an APPROVED sale order to DISPATCHED.
// It has no external effects.
type MarkOrderDispatchedCommandHandler struct {
	uowFactory UoWFactory
	auditor    *audit.Writer
	settings   Settings
}

func NewMarkOrderDispatchedCommandHandler(
	uowFactory UoWFactory,
	auditor *audit.Writer,
	settings Settings,
) MarkOrderDispatchedCommandHandler {
	return MarkOrderDispatchedCommandHandler{
		uowFactory: uowFactory,
		auditor:    auditor,
		settings:   settings,
	}
}

func (h MarkOrderDispatchedCommandHandler) Handle(ctx context.Context, cmd MarkOrderDispatchedCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.settings.now()
	return applyTransition(ctx, h.uowFactory, h.auditor, cmd.transition,
		order.EventDispatched, "dispatch confirmed",
		func(o *order.Order) error { return o.MarkDispatched(now) },
	)
}

package commands

import (
	"context"
	"errors"

	"orders/internal/core/application/audit"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
)

// ReconcilePendingEffectsCommandHandler marks stale PENDING effect markers
// UNRESOLVED and records it in the audit trail of their order. Nothing is
// compensated: whether the external call happened is left to an operator.
type ReconcilePendingEffectsCommandHandler struct {
	uowFactory UoWFactory
	auditor    *audit.Writer
	settings   Settings
}

func NewReconcilePendingEffectsCommandHandler(
	uowFactory UoWFactory,
	auditor *audit.Writer,
	settings Settings,
) ReconcilePendingEffectsCommandHandler {
	return ReconcilePendingEffectsCommandHandler{
		uowFactory: uowFactory,
		auditor:    auditor,
		settings:   settings,
	}
}

// Handle returns the number of markers flagged.
func (h ReconcilePendingEffectsCommandHandler) Handle(ctx context.Context, cmd ReconcilePendingEffectsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	now := h.settings.now()

	uow := h.uowFactory.Create(cmd.Country())
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	effects := uow.EffectRepository()
	stale, err := effects.ListPendingBefore(ctx, now.Add(-cmd.OlderThan()), cmd.Limit())
	if err != nil {
		return 0, err
	}

	flagged := 0
	for _, marker := range stale {
		if err = marker.MarkUnresolved(now); err != nil {
			return 0, err
		}
		err = effects.Update(ctx, marker)
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			continue
		}
		if err != nil {
			return 0, err
		}
		flagged++

		o, err := uow.OrderRepository().Get(ctx, marker.OrderID())
		if errors.Is(err, errs.ErrObjectNotFound) {
			continue
		}
		if err != nil {
			return 0, err
		}

		if err = h.auditor.Append(ctx, uow.EventRepository(), o, audit.Entry{
			Event:  order.EventEffectUnresolved,
			Status: o.Status(),
			Detail: audit.Fields(map[string]any{
				"message":     "external effect outcome unknown",
				"effect_id":   marker.ID().String(),
				"effect_kind": string(marker.Kind()),
				"pending_at":  marker.CreatedAt(),
			}),
			Context: audit.Context{Country: cmd.Country()},
		}); err != nil {
			return 0, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return flagged, nil
}

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
	"orders/internal/pkg/errs"
)

// outcome applies the result of external calls to the order and describes
// the audit entry of the change.
type outcome func(o *order.Order) (audit.Entry, error)

// resolveEffect stores the outcome of a finished external call sequence and
// completes its marker in one transaction. When it fails the marker stays
// PENDING for the reconciler.
func resolveEffect(
	ctx context.Context,
	uowFactory UoWFactory,
	auditor *audit.Writer,
	country string,
	o *order.Order,
	marker *effect.Effect,
	now time.Time,
	apply outcome,
) error {
	uow := uowFactory.Create(country)
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	entry, err := apply(o)
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = auditor.Append(ctx, uow.EventRepository(), o, entry); err != nil {
		return err
	}

	if err = marker.Complete(now); err != nil {
		return err
	}

	err = uow.EffectRepository().Update(ctx, marker)
	if errors.Is(err, errs.ErrVersionIsInvalid) {
		// The reconciler flagged the marker while the calls were running. It
		// stays UNRESOLVED and the trail records the late outcome.
		err = auditor.Append(ctx, uow.EventRepository(), o, audit.Entry{
			Event:  order.EventEffectLate,
			Status: o.Status(),
			Detail: audit.Fields(map[string]any{
				"message":     "external effect confirmed after it was flagged",
				"effect_id":   marker.ID().String(),
				"effect_kind": string(marker.Kind()),
				"pending_at":  marker.CreatedAt(),
			}),
			Context: entry.Context,
		})
	}
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// claimOrder stores o unchanged to take its version, so that a concurrent
// writer of the same order conflicts, and refuses to start while a marker of
// kind is still PENDING for it.
func claimOrder(ctx context.Context, uow UoW, o *order.Order, kind effect.Kind) error {
	busy, err := uow.EffectRepository().HasPending(ctx, o.ID(), kind)
	if err != nil {
		return err
	}
	if busy {
		return errs.NewBusinessRuleViolatedErrorWithCause(
			"external effect already in progress",
			fmt.Errorf("order %s has a pending %s", o.Code(), kind),
		)
	}
	return uow.OrderRepository().Update(ctx, o)
}

// loadOrder names the rule when the order does not exist.
func loadOrder(ctx context.Context, uow UoW, id kernel.UUID) (*order.Order, error) {
	o, err := uow.OrderRepository().Get(ctx, id)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, fmt.Errorf("order not found: %w", err)
	}
	return o, err
}

package commands

import (
	"context"

	"orders/internal/core/application/audit"
	"orders/internal/core/domain/model/order"
)

// applyTransition loads an order, applies change and stores it with its audit
// entry in one transaction.
func applyTransition(
	ctx context.Context,
	uowFactory UoWFactory,
	auditor *audit.Writer,
	t transition,
	event, message string,
	change func(o *order.Order) error,
) (*order.Order, error) {
	uow := uowFactory.Create(t.Country())
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := loadOrder(ctx, uow, t.OrderID())
	if err != nil {
		return nil, err
	}

	prev := o.Status()
	if err = change(o); err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}

	if err = auditor.Append(ctx, uow.EventRepository(), o, audit.Entry{
		Event:   event,
		Status:  o.Status(),
		From:    prev,
		Detail:  audit.Text(message),
		Context: t.Audit(),
	}); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

// Package effect models pending external effects: markers written before the
// service calls a sibling service, so that a call whose outcome was never
// recorded can be found later.
package effect

import (
	"errors"
	"fmt"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
)

type Kind string

const (
	CreatePurchaseOrder Kind = "CREATE_PURCHASE_ORDER"
	ReserveInventory    Kind = "RESERVE_INVENTORY"
	RegisterReceipt     Kind = "REGISTER_RECEIPT"
)

func (k Kind) Validate() error {
	switch k {
	case CreatePurchaseOrder, ReserveInventory, RegisterReceipt:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("effect kind", fmt.Errorf("%q is unknown", string(k)))
}

type Status string

const (
	Pending    Status = "PENDING"
	Completed  Status = "COMPLETED"
	Unresolved Status = "UNRESOLVED"
)

// Effect is a marker for one external call sequence on one order.
type Effect struct {
	id         kernel.UUID
	orderID    kernel.UUID
	kind       Kind
	status     Status
	createdAt  time.Time
	resolvedAt *time.Time
}

func NewEffect(orderID kernel.UUID, kind Kind, createdAt time.Time) (*Effect, error) {
	return RestoreEffect(kernel.NewUUID(), orderID, kind, Pending, createdAt, nil)
}

func RestoreEffect(
	id, orderID kernel.UUID,
	kind Kind,
	status Status,
	createdAt time.Time,
	resolvedAt *time.Time,
) (*Effect, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), kind.Validate()); err != nil {
		return nil, err
	}
	switch status {
	case Pending, Completed, Unresolved:
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("effect status", fmt.Errorf("%q is unknown", string(status)))
	}
	return &Effect{
		id:         id,
		orderID:    orderID,
		kind:       kind,
		status:     status,
		createdAt:  createdAt.UTC(),
		resolvedAt: resolvedAt,
	}, nil
}

func (e *Effect) ID() kernel.UUID        { return e.id }
func (e *Effect) OrderID() kernel.UUID   { return e.orderID }
func (e *Effect) Kind() Kind             { return e.kind }
func (e *Effect) Status() Status         { return e.status }
func (e *Effect) CreatedAt() time.Time   { return e.createdAt }
func (e *Effect) ResolvedAt() *time.Time { return e.resolvedAt }

// Complete records that the external calls finished and their result was stored.
func (e *Effect) Complete(now time.Time) error {
	return e.resolve(Completed, now)
}

// MarkUnresolved flags a marker whose outcome nobody recorded in time.
func (e *Effect) MarkUnresolved(now time.Time) error {
	return e.resolve(Unresolved, now)
}

func (e *Effect) resolve(to Status, now time.Time) error {
	if e.status != Pending {
		return errs.NewBusinessRuleViolatedErrorWithCause(
			"effect is already resolved",
			fmt.Errorf("%s -> %s", e.status, to),
		)
	}
	at := now.UTC()
	e.status = to
	e.resolvedAt = &at
	return nil
}

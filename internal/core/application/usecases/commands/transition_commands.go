package commands

import (
	"errors"
	"strings"

	"orders/internal/core/application/audit"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var (
	ErrMarkOrderReceivedCommandIsNotConstructed = errors.New(
		"MarkOrderReceivedCommand must be created via NewMarkOrderReceivedCommand constructor",
	)
	ErrMarkOrderDispatchedCommandIsNotConstructed = errors.New(
		"MarkOrderDispatchedCommand must be created via NewMarkOrderDispatchedCommand constructor",
	)
	ErrCancelOrderCommandIsNotConstructed = errors.New(
		"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
	)
)

// transition holds what every transition command carries: the order, the
// country whose data it lives in and the audit context.
type transition struct {
	orderID kernel.UUID
	country string
	audit   audit.Context

	guard guard.ConstructorGuard
}

func newTransition(orderID kernel.UUID, country string, actx audit.Context) (transition, error) {
	var errList []error
	if err := orderID.Validate(); err != nil {
		errList = append(errList, err)
	}
	country = strings.TrimSpace(country)
	if country == "" {
		errList = append(errList, errs.NewValueIsRequiredError("country"))
	}
	if len(errList) > 0 {
		return transition{}, errors.Join(errList...)
	}

	return transition{
		orderID: orderID,
		country: country,
		audit:   actx,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (t transition) OrderID() kernel.UUID { return t.orderID }
func (t transition) Country() string      { return t.country }
func (t transition) Audit() audit.Context { return t.audit }

// MarkOrderReceivedCommand confirms the receipt of a purchase order.
type MarkOrderReceivedCommand struct {
	transition
}

func NewMarkOrderReceivedCommand(orderID kernel.UUID, country string, actx audit.Context) (MarkOrderReceivedCommand, error) {
	t, err := newTransition(orderID, country, actx)
	if err != nil {
		return MarkOrderReceivedCommand{}, err
	}
	return MarkOrderReceivedCommand{t}, nil
}

func (c MarkOrderReceivedCommand) Validate() error {
	return c.guard.Validate(ErrMarkOrderReceivedCommandIsNotConstructed)
}

// MarkOrderDispatchedCommand confirms the dispatch of a sale order.
type MarkOrderDispatchedCommand struct {
	transition
}

func NewMarkOrderDispatchedCommand(orderID kernel.UUID, country string, actx audit.Context) (MarkOrderDispatchedCommand, error) {
	t, err := newTransition(orderID, country, actx)
	if err != nil {
		return MarkOrderDispatchedCommand{}, err
	}
	return MarkOrderDispatchedCommand{t}, nil
}

func (c MarkOrderDispatchedCommand) Validate() error {
	return c.guard.Validate(ErrMarkOrderDispatchedCommandIsNotConstructed)
}

type CancelOrderCommand struct {
	transition
}

func NewCancelOrderCommand(orderID kernel.UUID, country string, actx audit.Context) (CancelOrderCommand, error) {
	t, err := newTransition(orderID, country, actx)
	if err != nil {
		return CancelOrderCommand{}, err
	}
	return CancelOrderCommand{t}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

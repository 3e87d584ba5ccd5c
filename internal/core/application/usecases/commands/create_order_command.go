package commands

import (
	"errors"
	"strings"
	"time"

	"orders/internal/core/application/audit"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderParams are the caller-supplied values of a new order.
// ReceiptDate applies to purchase orders and DeliveryDate to sale orders.
type CreateOrderParams struct {
	Country      string
	Kind         order.Kind
	References   order.References
	Notes        string
	Lines        []order.LineSpec
	ReceiptDate  *time.Time
	DeliveryDate *time.Time
	Audit        audit.Context
}

// CreateOrderCommand represents a request to create and approve a new order.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(CreateOrderParams{
//	    Country:    "co",
//	    Kind:       order.Sale,
//	    References: refs,
//	    Lines:      lines,
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	params CreateOrderParams

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(p CreateOrderParams) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCountry(p.Country),
		cmd.setKind(p.Kind),
		cmd.setLines(p.Lines),
		cmd.setDates(p.Kind, p.ReceiptDate, p.DeliveryDate),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.params.References = p.References
	cmd.params.Notes = p.Notes
	cmd.params.Audit = p.Audit
	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Country() string              { return c.params.Country }
func (c CreateOrderCommand) Kind() order.Kind             { return c.params.Kind }
func (c CreateOrderCommand) References() order.References { return c.params.References }
func (c CreateOrderCommand) Notes() string                { return c.params.Notes }
func (c CreateOrderCommand) ReceiptDate() *time.Time      { return c.params.ReceiptDate }
func (c CreateOrderCommand) DeliveryDate() *time.Time     { return c.params.DeliveryDate }
func (c CreateOrderCommand) Audit() audit.Context         { return c.params.Audit }

// Lines returns a copy of the line specs.
func (c CreateOrderCommand) Lines() []order.LineSpec {
	out := make([]order.LineSpec, len(c.params.Lines))
	copy(out, c.params.Lines)
	return out
}

func (c *CreateOrderCommand) setCountry(country string) error {
	country = strings.TrimSpace(country)
	if country == "" {
		return errs.NewValueIsRequiredError("country")
	}

	c.params.Country = country
	return nil
}

func (c *CreateOrderCommand) setKind(kind order.Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}

	c.params.Kind = kind
	return nil
}

func (c *CreateOrderCommand) setLines(lines []order.LineSpec) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("lines")
	}

	c.params.Lines = make([]order.LineSpec, len(lines))
	copy(c.params.Lines, lines)
	return nil
}

func (c *CreateOrderCommand) setDates(kind order.Kind, receipt, delivery *time.Time) error {
	if receipt != nil && kind != order.Purchase {
		return errs.NewValueIsInvalidErrorWithCause("receipt date", errors.New("applies to purchase orders only"))
	}
	if delivery != nil && kind != order.Sale {
		return errs.NewValueIsInvalidErrorWithCause("delivery date", errors.New("applies to sale orders only"))
	}

	c.params.ReceiptDate = receipt
	c.params.DeliveryDate = delivery
	return nil
}

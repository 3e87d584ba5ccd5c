package queries

import (
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/guard"
	"orders/internal/pkg/tenant"
)

var (
	ErrGetOrderEventsQueryIsNotConstructed = errors.New(
		"GetOrderEventsQuery must be created via NewGetOrderEventsQuery constructor",
	)
)

// GetOrderEventsQuery loads the audit trail of one order.
type GetOrderEventsQuery struct {
	orderID kernel.UUID
	country string
	guard   guard.ConstructorGuard
}

func NewGetOrderEventsQuery(orderID kernel.UUID, country string) (GetOrderEventsQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderEventsQuery{}, err
	}
	if _, err := tenant.Schema(country); err != nil {
		return GetOrderEventsQuery{}, err
	}
	return GetOrderEventsQuery{orderID: orderID, country: country, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderEventsQuery) OrderID() kernel.UUID { return q.orderID }
func (q GetOrderEventsQuery) Country() string      { return q.country }

func (q GetOrderEventsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderEventsQueryIsNotConstructed)
}

package queries

import (
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/guard"
	"orders/internal/pkg/tenant"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery loads one order with its lines.
type GetOrderQuery struct {
	orderID kernel.UUID
	country string
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, country string) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	if _, err := tenant.Schema(country); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, country: country, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }
func (q GetOrderQuery) Country() string      { return q.country }

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

package order

import (
	"time"

	"orders/internal/core/domain/model/kernel"
)

// DomainEvent records a status change of an order. The aggregate buffers them
// and the unit of work hands them to the publisher after a successful commit.
type DomainEvent struct {
	Name       string
	OrderID    kernel.UUID
	Code       string
	Kind       Kind
	From       Status
	To         Status
	OccurredAt time.Time
}

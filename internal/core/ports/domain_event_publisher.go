package ports

import (
	"context"

	"orders/internal/core/domain/model/order"
)

// DomainEventPublisher delivers order status changes to other services.
// Delivery is at most once.
type DomainEventPublisher interface {
	Publish(ctx context.Context, events ...order.DomainEvent) error
}

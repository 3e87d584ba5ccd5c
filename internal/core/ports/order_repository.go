// Package ports defines the contracts between the order core and its
// infrastructure: persistence, the sibling-service gateway and the outbound
// event publisher.
package ports

import (
	"context"
	"time"

	"orders/internal/core/domain/model/effect"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order together with its lines.
	// A duplicate code fails with an errs.ObjectAlreadyExistsError.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the mutable state of an existing order. The write is
	// conditional on the version the aggregate was loaded with; when another
	// writer got there first it fails with an errs.VersionIsInvalidError.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its lines.
	// Returns errs.ObjectNotFoundError when the order does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// EventRepository stores the append-only audit trail.
type EventRepository interface {
	Append(ctx context.Context, event *order.Event) error
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*order.Event, error)
}

// EffectRepository stores pending external effect markers.
type EffectRepository interface {
	Add(ctx context.Context, e *effect.Effect) error
	// Update resolves a marker that is still PENDING in storage. It fails with
	// errs.ErrVersionIsInvalid when the marker was resolved meanwhile.
	Update(ctx context.Context, e *effect.Effect) error
	// HasPending reports whether order has a PENDING marker of kind.
	HasPending(ctx context.Context, orderID kernel.UUID, kind effect.Kind) (bool, error)

	// ListPendingBefore returns at most limit PENDING markers created before the
	// given instant, oldest first. The rows stay locked until the transaction
	// ends; rows locked by another transaction are skipped.
	ListPendingBefore(ctx context.Context, before time.Time, limit int) ([]*effect.Effect, error)
}

// Package eventrepo persists the append-only audit trail of orders.
package eventrepo

import (
	"time"

	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	"github.com/google/uuid"
)

type EventDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;index:idx_order_events_order_time,priority:1;not null"`
	Status      string    `gorm:"size:32;not null"`
	Detail      string    `gorm:"type:text;not null"`
	ActorUserID *int64
	OccurredAt  time.Time `gorm:"index:idx_order_events_order_time,priority:2;not null"`

	Order *orderrepo.OrderDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (EventDTO) TableName() string {
	return "order_events"
}

func fromDomain(e *order.Event) EventDTO {
	return EventDTO{
		ID:          e.ID().Bytes(),
		OrderID:     e.OrderID().Bytes(),
		Status:      e.Status().String(),
		Detail:      e.Detail(),
		ActorUserID: e.ActorUserID(),
		OccurredAt:  e.OccurredAt(),
	}
}

func toDomain(dto EventDTO) (*order.Event, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromGoogle(dto.OrderID)
	if err != nil {
		return nil, err
	}
	return order.RestoreEvent(id, orderID, order.Status(dto.Status), dto.Detail, dto.ActorUserID, dto.OccurredAt)
}

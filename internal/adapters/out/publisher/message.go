// Package publisher delivers order domain events to other services over
// Google Pub/Sub or Kafka.
package publisher

import (
	"context"
	"time"

	"orders/internal/core/domain/model/order"

	"github.com/oklog/ulid/v2"
)

// Message is the wire contract of an outbound order event.
type Message struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	Code       string    `json:"code"`
	Kind       string    `json:"kind"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newMessage(e order.DomainEvent, eventID string) Message {
	return Message{
		EventID:    eventID,
		Type:       e.Name,
		OrderID:    e.OrderID.String(),
		Code:       e.Code,
		Kind:       e.Kind.String(),
		From:       e.From.String(),
		To:         e.To.String(),
		OccurredAt: e.OccurredAt,
	}
}

func newEventID() string {
	return ulid.Make().String()
}

// Noop drops every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, ...order.DomainEvent) error {
	return nil
}

package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"orders/internal/core/domain/model/order"

	"cloud.google.com/go/pubsub"
)

// PubSub publishes order events to a Pub/Sub topic with the eventType and
// orderId attributes set.
type PubSub struct {
	topic   *pubsub.Topic
	marshal func(any) ([]byte, error)
	newID   func() string
}

func NewPubSub(topic *pubsub.Topic) (*PubSub, error) {
	if topic == nil {
		return nil, errors.New("pubsub publisher: topic is required")
	}
	return &PubSub{
		topic:   topic,
		marshal: json.Marshal,
		newID:   newEventID,
	}, nil
}

// Publish waits for the server to acknowledge every message. The first
// failure is returned after all results are collected.
func (p *PubSub) Publish(ctx context.Context, events ...order.DomainEvent) error {
	results := make([]*pubsub.PublishResult, 0, len(events))
	for _, e := range events {
		data, err := p.marshal(newMessage(e, p.newID()))
		if err != nil {
			return fmt.Errorf("marshal %s: %w", e.Name, err)
		}
		results = append(results, p.topic.Publish(ctx, &pubsub.Message{
			Data: data,
			Attributes: map[string]string{
				"eventType": e.Name,
				"orderId":   e.OrderID.String(),
			},
		}))
	}

	var errList []error
	for i, result := range results {
		if _, err := result.Get(ctx); err != nil {
			errList = append(errList, fmt.Errorf("publish %s: %w", events[i].Name, err))
		}
	}
	return errors.Join(errList...)
}

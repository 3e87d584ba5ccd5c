package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"orders/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Kafka publishes order events keyed by order id, so that the events of one
// order land on one partition in order.
type Kafka struct {
	writer messageWriter
	newID  func() string
}

// NewKafkaWriter builds the writer for a comma-separated broker list.
func NewKafkaWriter(brokersCSV, topic string) *kafka.Writer {
	var brokers []string
	for _, b := range strings.Split(brokersCSV, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

func NewKafka(writer messageWriter) *Kafka {
	return &Kafka{writer: writer, newID: newEventID}
}

func (k *Kafka) Publish(ctx context.Context, events ...order.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		data, err := json.Marshal(newMessage(e, k.newID()))
		if err != nil {
			return fmt.Errorf("marshal %s: %w", e.Name, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.OrderID.String()),
			Value: data,
			Time:  e.OccurredAt,
			Headers: []kafka.Header{
				{Key: "eventType", Value: []byte(e.Name)},
			},
		})
	}

	if err := k.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d order events: %w", len(msgs), err)
	}
	return nil
}

package events

import (
	"context"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
)

// Subscriber pulls messages from a Pub/Sub subscription and hands their data
// to the dispatcher.
type Subscriber struct {
	sub        *pubsub.Subscription
	dispatcher *Dispatcher
	logger     *zap.Logger
}

func NewSubscriber(sub *pubsub.Subscription, dispatcher *Dispatcher, logger *zap.Logger) *Subscriber {
	return &Subscriber{
		sub:        sub,
		dispatcher: dispatcher,
		logger:     logger.With(zap.String("component", "pubsub_subscriber"), zap.String("subscription", sub.ID())),
	}
}

// Run blocks until ctx is cancelled or the subscription fails.
func (s *Subscriber) Run(ctx context.Context) error {
	s.logger.Info("receiving")
	return s.sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		outcome := s.dispatcher.HandleData(ctx, m.Data)
		s.logger.Debug("message handled", zap.String("message_id", m.ID), zap.String("outcome", string(outcome)))
		m.Ack()
	})
}

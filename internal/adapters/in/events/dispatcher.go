// Package events consumes order events published by sibling services, either
// pushed by Pub/Sub over HTTP or pulled from a subscription, and routes them to
// the lifecycle commands.
//
// Every message is acknowledged. A message that cannot be applied is logged:
// business failures as warnings, anything else as an error.
package events

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"

	"orders/internal/core/application/audit"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/metrics"
	"orders/internal/pkg/tenant"

	"go.uber.org/zap"
)

// Outcome tells how a message was handled.
type Outcome string

const (
	OutcomeApplied       Outcome = "applied"
	OutcomeIgnored       Outcome = "ignored"
	OutcomeMalformed     Outcome = "malformed"
	OutcomeBusinessError Outcome = "business_error"
	OutcomeError         Outcome = "error"
)

type commandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) (*order.Order, error)
}

// Envelope is the body of a Pub/Sub push request.
type Envelope struct {
	Message *struct {
		Data       string            `json:"data"`
		Attributes map[string]string `json:"attributes"`
		MessageID  string            `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// Event is the decoded message data.
type Event struct {
	Event   string       `json:"event"`
	OrderID string       `json:"pedido_id"`
	Country string       `json:"country"`
	Ctx     EventContext `json:"ctx"`
}

type EventContext struct {
	Country   string          `json:"country"`
	RequestID string          `json:"request_id"`
	IP        string          `json:"ip"`
	UserID    json.RawMessage `json:"user_id"`
}

type Dispatcher struct {
	received       commandHandler[commands.MarkOrderReceivedCommand]
	dispatched     commandHandler[commands.MarkOrderDispatchedCommand]
	cancelled      commandHandler[commands.CancelOrderCommand]
	defaultCountry string
	countries      tenant.Countries
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

func NewDispatcher(
	received commandHandler[commands.MarkOrderReceivedCommand],
	dispatched commandHandler[commands.MarkOrderDispatchedCommand],
	cancelled commandHandler[commands.CancelOrderCommand],
	defaultCountry string,
	countries tenant.Countries,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		received:       received,
		dispatched:     dispatched,
		cancelled:      cancelled,
		defaultCountry: defaultCountry,
		countries:      countries,
		metrics:        m,
		logger:         logger.With(zap.String("component", "inbound_events")),
	}
}

// HandleEnvelope decodes a push envelope and dispatches its data.
func (d *Dispatcher) HandleEnvelope(ctx context.Context, body []byte) Outcome {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		d.logger.Error("invalid envelope", zap.Error(err))
		return d.count("", OutcomeMalformed)
	}
	if env.Message == nil {
		d.logger.Warn("envelope without message")
		return d.count("", OutcomeMalformed)
	}
	if env.Message.Data == "" {
		d.logger.Warn("message without data", zap.String("message_id", env.Message.MessageID))
		return d.count("", OutcomeMalformed)
	}

	data, err := base64.StdEncoding.DecodeString(env.Message.Data)
	if err != nil {
		d.logger.Error("decode message data", zap.String("message_id", env.Message.MessageID), zap.Error(err))
		return d.count("", OutcomeMalformed)
	}
	return d.HandleData(ctx, data)
}

// HandleData dispatches the JSON data of one message.
func (d *Dispatcher) HandleData(ctx context.Context, data []byte) Outcome {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		d.logger.Error("decode event", zap.Error(err))
		return d.count("", OutcomeMalformed)
	}
	if ev.Event == "" {
		d.logger.Warn("event without name", zap.ByteString("data", data))
		return d.count("", OutcomeMalformed)
	}

	country := d.countryOf(ev)
	logger := d.logger.With(
		zap.String("event", ev.Event),
		zap.String("order_id", ev.OrderID),
		zap.String("country", country),
	)

	var run func() error
	switch ev.Event {
	case order.EventReceived:
		run = func() error { return dispatch(ctx, d.received, ev, country, commands.NewMarkOrderReceivedCommand) }
	case order.EventDispatched:
		run = func() error { return dispatch(ctx, d.dispatched, ev, country, commands.NewMarkOrderDispatchedCommand) }
	case order.EventCancelled:
		run = func() error { return dispatch(ctx, d.cancelled, ev, country, commands.NewCancelOrderCommand) }
	default:
		logger.Info("event not handled")
		return d.count(ev.Event, OutcomeIgnored)
	}

	_, err := d.countries.Resolve(country)
	if err == nil {
		err = run()
	}

	switch {
	case err == nil:
		logger.Info("event applied")
		return d.count(ev.Event, OutcomeApplied)
	case errs.IsBusinessError(err):
		logger.Warn("event rejected", zap.Error(err))
		return d.count(ev.Event, OutcomeBusinessError)
	default:
		logger.Error("event failed", zap.Error(err))
		return d.count(ev.Event, OutcomeError)
	}
}

func dispatch[C any](
	ctx context.Context,
	h commandHandler[C],
	ev Event,
	country string,
	build func(kernel.UUID, string, audit.Context) (C, error),
) error {
	id, err := kernel.UUIDFromString(strings.TrimSpace(ev.OrderID))
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("pedido_id", err)
	}
	cmd, err := build(id, country, auditContext(ev.Ctx, country))
	if err != nil {
		return err
	}
	_, err = h.Handle(ctx, cmd)
	return err
}

// countryOf resolves the country from ctx.country, then the top-level
// country, then the default.
func (d *Dispatcher) countryOf(ev Event) string {
	if c := strings.TrimSpace(ev.Ctx.Country); c != "" {
		return c
	}
	if c := strings.TrimSpace(ev.Country); c != "" {
		return c
	}
	return d.defaultCountry
}

func (d *Dispatcher) count(event string, outcome Outcome) Outcome {
	d.metrics.InboundEvents.WithLabelValues(event, string(outcome)).Inc()
	return outcome
}

func auditContext(c EventContext, country string) audit.Context {
	return audit.Context{
		RequestID: c.RequestID,
		Country:   country,
		IP:        c.IP,
		UserID:    userID(c.UserID),
	}
}

// userID accepts a JSON number or a numeric string.
func userID(raw json.RawMessage) *int64 {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return nil
	}
	text = strings.Trim(text, `"`)
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

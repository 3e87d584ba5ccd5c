package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"

	"go.uber.org/zap"
)

// Entry describes one audit trail entry.
type Entry struct {
	Event   string
	Status  order.Status
	From    order.Status
	Detail  Detail
	Context Context
	Extra   map[string]any
	// Actor overrides the acting user inferred from the context and the order.
	Actor *int64
}

// Record is the serialized shape of an audit entry.
type Record struct {
	Event   string         `json:"event"`
	OrderID string         `json:"order_id"`
	Code    string         `json:"code"`
	Kind    order.Kind     `json:"kind"`
	From    *order.Status  `json:"from"`
	To      order.Status   `json:"to"`
	Detail  map[string]any `json:"detail"`
	Who     *int64         `json:"who"`
	Ctx     RecordContext  `json:"ctx"`
	Extra   map[string]any `json:"extra,omitempty"`
}

type RecordContext struct {
	RequestID *string `json:"request_id"`
	Country   *string `json:"country"`
	IP        *string `json:"ip"`
	UserID    *int64  `json:"user_id"`
}

type Writer struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewWriter(logger *zap.Logger, now func() time.Time) *Writer {
	if now == nil {
		now = time.Now
	}
	return &Writer{
		logger: logger.With(zap.String("component", "audit")),
		now:    now,
	}
}

// Append stores an audit event for o and logs the same record.
func (w *Writer) Append(ctx context.Context, repo ports.EventRepository, o *order.Order, e Entry) error {
	if err := o.Validate(); err != nil {
		return err
	}

	actor := e.Actor
	if actor == nil {
		actor = o.ActorFor(e.Context.UserID)
	}

	rec := w.record(o, e, actor)
	payload := encode(rec, e.Detail)

	event, err := order.NewEvent(o.ID(), e.Status, string(payload), actor, w.now())
	if err != nil {
		return err
	}
	if err = repo.Append(ctx, event); err != nil {
		return fmt.Errorf("append audit event %s: %w", e.Event, err)
	}

	w.logger.Info("audit",
		zap.String("order_id", o.ID().String()),
		zap.String("event", rec.Event),
		zap.Reflect("audit", json.RawMessage(payload)),
	)
	return nil
}

func (w *Writer) record(o *order.Order, e Entry, actor *int64) Record {
	actx := e.Context
	name := e.Event
	if name == "" {
		name = "state_change"
	}

	var from *order.Status
	if e.From != "" {
		f := e.From
		from = &f
	}

	return Record{
		Event:   name,
		OrderID: o.ID().String(),
		Code:    o.Code(),
		Kind:    o.Kind(),
		From:    from,
		To:      e.Status,
		Detail:  e.Detail.Normalize(),
		Who:     actor,
		Ctx: RecordContext{
			RequestID: optional(actx.RequestID),
			Country:   optional(actx.Country),
			IP:        optional(actx.IP),
			UserID:    actx.UserID,
		},
		Extra: e.Extra,
	}
}

// encode never fails: a record that cannot be serialized is replaced by its
// detail text.
func encode(rec Record, detail Detail) []byte {
	payload, err := json.Marshal(rec)
	if err == nil {
		return payload
	}
	payload, _ = json.Marshal(map[string]string{"detail": detail.String()})
	return payload
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

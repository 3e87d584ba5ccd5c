package order

import (
	"errors"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
)

// Audit event names. They double as the types of the outbound domain events and
// match the names sibling services publish on the inbound topic.
const (
	EventCommitmentDate   = "fecha_compromiso"
	EventCreated          = "pedido_creado"
	EventApproved         = "pedido_aprobado"
	EventPurchaseLinked   = "oc_creada"
	EventFEFOIssued       = "salida_fefo"
	EventReceived         = "pedido_recibido"
	EventDispatched       = "pedido_despachado"
	EventCancelled        = "pedido_cancelado"
	EventEffectUnresolved = "efecto_externo_sin_confirmar"
	EventEffectLate       = "efecto_externo_confirmado_tarde"
)

// Event is one immutable entry of an order's audit trail. Detail holds the
// serialized audit record.
type Event struct {
	id          kernel.UUID
	orderID     kernel.UUID
	status      Status
	detail      string
	actorUserID *int64
	occurredAt  time.Time
}

func NewEvent(orderID kernel.UUID, status Status, detail string, actorUserID *int64, occurredAt time.Time) (*Event, error) {
	return RestoreEvent(kernel.NewUUID(), orderID, status, detail, actorUserID, occurredAt)
}

func RestoreEvent(
	id, orderID kernel.UUID,
	status Status,
	detail string,
	actorUserID *int64,
	occurredAt time.Time,
) (*Event, error) {
	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, err)
	}
	if orderID.Validate() != nil {
		errList = append(errList, errs.NewValueIsRequiredError("order id"))
	}
	if err := status.Validate(); err != nil {
		errList = append(errList, err)
	}
	if detail == "" {
		errList = append(errList, errs.NewValueIsRequiredError("detail"))
	}
	if occurredAt.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("occurred at"))
	}
	if len(errList) > 0 {
		return nil, errors.Join(errList...)
	}

	return &Event{
		id:          id,
		orderID:     orderID,
		status:      status,
		detail:      detail,
		actorUserID: actorUserID,
		occurredAt:  occurredAt.UTC(),
	}, nil
}

func (e *Event) ID() kernel.UUID      { return e.id }
func (e *Event) OrderID() kernel.UUID { return e.orderID }
func (e *Event) Status() Status       { return e.status }
func (e *Event) Detail() string       { return e.detail }
func (e *Event) ActorUserID() *int64  { return e.actorUserID }
func (e *Event) OccurredAt() time.Time {
	return e.occurredAt
}

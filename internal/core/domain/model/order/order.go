package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

const (
	RuleOnlyPurchase = "only applies to purchase orders"
	RuleOnlySale     = "only applies to sale orders"
)

// References holds the kind-specific references of an order. Purchase orders
// use SupplierID and DestinationWarehouseID; sale orders use CustomerID,
// SalespersonID and OriginWarehouseID.
type References struct {
	SupplierID             *kernel.UUID
	DestinationWarehouseID *kernel.UUID
	CustomerID             *int64
	SalespersonID          *int64
	OriginWarehouseID      *kernel.UUID
}

func (r References) hasPurchase() bool {
	return r.SupplierID != nil || r.DestinationWarehouseID != nil
}

func (r References) hasSale() bool {
	return r.CustomerID != nil || r.SalespersonID != nil || r.OriginWarehouseID != nil
}

// Order is the aggregate root of the service. All fields are private; status
// changes go through the transition methods, which enforce the kind and source
// status of each operation and buffer a DomainEvent.
type Order struct {
	id             kernel.UUID
	code           string
	kind           Kind
	status         Status
	notes          string
	commitmentDate time.Time
	totals         Totals
	refs           References

	purchaseOrderID  string
	reservationToken string

	lines     []Line
	createdAt time.Time
	version   int

	domainEvents  []DomainEvent
	isConstructed bool
}

// NewOrder creates a DRAFT order. It enforces the reference invariant: exactly
// the reference set of kind is populated.
func NewOrder(
	id kernel.UUID,
	code string,
	kind Kind,
	refs References,
	notes string,
	commitmentDate time.Time,
	lines []Line,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        Draft,
		notes:         notes,
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCode(code),
		o.setKind(kind),
		o.setReferences(kind, refs),
		o.setCommitmentDate(commitmentDate),
		o.setLines(lines),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// ValidateReferences checks the reference invariant of kind without building
// an order.
func ValidateReferences(kind Kind, refs References) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	return (&Order{}).setReferences(kind, refs)
}

// Snapshot is the full persisted state of an order.
type Snapshot struct {
	ID               kernel.UUID
	Code             string
	Kind             Kind
	Status           Status
	Notes            string
	CommitmentDate   time.Time
	Totals           Totals
	References       References
	PurchaseOrderID  string
	ReservationToken string
	Lines            []Line
	CreatedAt        time.Time
	Version          int
}

// RestoreOrder rebuilds an order loaded from storage.
func RestoreOrder(s Snapshot) (*Order, error) {
	o, err := NewOrder(s.ID, s.Code, s.Kind, s.References, s.Notes, s.CommitmentDate, s.Lines, s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err = s.Status.Validate(); err != nil {
		return nil, err
	}

	o.status = s.Status
	o.totals = s.Totals
	o.purchaseOrderID = s.PurchaseOrderID
	o.reservationToken = s.ReservationToken
	o.version = s.Version
	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID           { return o.id }
func (o *Order) Code() string              { return o.code }
func (o *Order) Kind() Kind                { return o.kind }
func (o *Order) Status() Status            { return o.status }
func (o *Order) Notes() string             { return o.notes }
func (o *Order) CommitmentDate() time.Time { return o.commitmentDate }
func (o *Order) Totals() Totals            { return o.totals }
func (o *Order) References() References    { return o.refs }
func (o *Order) PurchaseOrderID() string   { return o.purchaseOrderID }
func (o *Order) ReservationToken() string  { return o.reservationToken }
func (o *Order) CreatedAt() time.Time      { return o.createdAt }
func (o *Order) Version() int              { return o.version }

// Lines returns a copy of the order lines.
func (o *Order) Lines() []Line {
	out := make([]Line, len(o.lines))
	copy(out, o.lines)
	return out
}

// ReservationTokens splits the stored reservation token into its parts.
func (o *Order) ReservationTokens() []string {
	if o.reservationToken == "" {
		return nil
	}
	return strings.Split(o.reservationToken, ",")
}

func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:               o.id,
		Code:             o.code,
		Kind:             o.kind,
		Status:           o.status,
		Notes:            o.notes,
		CommitmentDate:   o.commitmentDate,
		Totals:           o.totals,
		References:       o.refs,
		PurchaseOrderID:  o.purchaseOrderID,
		ReservationToken: o.reservationToken,
		Lines:            o.Lines(),
		CreatedAt:        o.createdAt,
		Version:          o.version,
	}
}

// ApplyTotals stores the computed totals. Totals are fixed once the order
// leaves DRAFT.
func (o *Order) ApplyTotals(t Totals) error {
	if o.status != Draft {
		return errs.NewBusinessRuleViolatedErrorWithCause(
			"totals are computed only for draft orders",
			fmt.Errorf("order is %s", o.status),
		)
	}
	o.totals = t
	return nil
}

// Approve moves a DRAFT or PENDING_APPROVAL order to APPROVED.
func (o *Order) Approve(now time.Time) error {
	next, err := o.status.Approve()
	if err != nil {
		return err
	}
	o.changeStatus(EventApproved, next, now)
	return nil
}

// CanMarkReceived checks kind and status without changing the order, so that
// the caller can stop before any external side effect.
func (o *Order) CanMarkReceived() error {
	if o.kind != Purchase {
		return errs.NewBusinessRuleViolatedErrorWithCause(RuleOnlyPurchase, fmt.Errorf("order %s is %s", o.code, o.kind))
	}
	_, err := o.status.Receive()
	return err
}

func (o *Order) MarkReceived(now time.Time) error {
	if err := o.CanMarkReceived(); err != nil {
		return err
	}
	next, _ := o.status.Receive()
	o.changeStatus(EventReceived, next, now)
	return nil
}

func (o *Order) MarkDispatched(now time.Time) error {
	if o.kind != Sale {
		return errs.NewBusinessRuleViolatedErrorWithCause(RuleOnlySale, fmt.Errorf("order %s is %s", o.code, o.kind))
	}
	next, err := o.status.Dispatch()
	if err != nil {
		return err
	}
	o.changeStatus(EventDispatched, next, now)
	return nil
}

func (o *Order) Cancel(now time.Time) error {
	next, err := o.status.Cancel()
	if err != nil {
		return err
	}
	o.changeStatus(EventCancelled, next, now)
	return nil
}

// LinkPurchaseOrder stores the id of the purchase order created in procurement.
func (o *Order) LinkPurchaseOrder(id string) error {
	if o.kind != Purchase {
		return errs.NewBusinessRuleViolatedError(RuleOnlyPurchase)
	}
	if strings.TrimSpace(id) == "" {
		return errs.NewValueIsRequiredError("purchase order id")
	}
	o.purchaseOrderID = id
	return nil
}

// ReserveInventory stores the FEFO issue tokens, comma-joined.
func (o *Order) ReserveInventory(tokens []string) error {
	if o.kind != Sale {
		return errs.NewBusinessRuleViolatedError(RuleOnlySale)
	}
	o.reservationToken = strings.Join(tokens, ",")
	return nil
}

// ActorFor infers the user an audit entry is attributed to: the explicit user
// when given, otherwise the customer of a sale order.
func (o *Order) ActorFor(explicit *int64) *int64 {
	if explicit != nil {
		return explicit
	}
	if o.kind == Sale {
		return o.refs.CustomerID
	}
	return nil
}

// AdvanceVersion is called by the repository after a successful versioned write.
func (o *Order) AdvanceVersion() {
	o.version++
}

// PullDomainEvents returns and clears the buffered domain events.
func (o *Order) PullDomainEvents() []DomainEvent {
	events := o.domainEvents
	o.domainEvents = nil
	return events
}

func (o *Order) changeStatus(name string, next Status, now time.Time) {
	prev := o.status
	o.status = next
	o.domainEvents = append(o.domainEvents, DomainEvent{
		Name:       name,
		OrderID:    o.id,
		Code:       o.code,
		Kind:       o.kind,
		From:       prev,
		To:         next,
		OccurredAt: now.UTC(),
	})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return errs.NewValueIsRequiredError("code")
	}
	o.code = code
	return nil
}

func (o *Order) setKind(kind Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	o.kind = kind
	return nil
}

func (o *Order) setReferences(kind Kind, refs References) error {
	var errList []error
	switch kind {
	case Purchase:
		if refs.SupplierID == nil || refs.SupplierID.Validate() != nil {
			errList = append(errList, errs.NewValueIsRequiredError("supplier id"))
		}
		if refs.DestinationWarehouseID == nil || refs.DestinationWarehouseID.Validate() != nil {
			errList = append(errList, errs.NewValueIsRequiredError("destination warehouse id"))
		}
		if refs.hasSale() {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				"references", errors.New("purchase orders cannot carry sale references")))
		}
	case Sale:
		if refs.CustomerID == nil {
			errList = append(errList, errs.NewValueIsRequiredError("customer id"))
		}
		if refs.SalespersonID == nil {
			errList = append(errList, errs.NewValueIsRequiredError("salesperson id"))
		}
		if refs.OriginWarehouseID == nil || refs.OriginWarehouseID.Validate() != nil {
			errList = append(errList, errs.NewValueIsRequiredError("origin warehouse id"))
		}
		if refs.hasPurchase() {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				"references", errors.New("sale orders cannot carry purchase references")))
		}
	default:
		// reported by setKind
		return nil
	}
	if len(errList) > 0 {
		return errors.Join(errList...)
	}
	o.refs = refs
	return nil
}

func (o *Order) setCommitmentDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("commitment date")
	}
	o.commitmentDate = kernel.DateOf(date)
	return nil
}

func (o *Order) setLines(lines []Line) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("lines")
	}
	o.lines = make([]Line, len(lines))
	copy(o.lines, lines)
	return nil
}

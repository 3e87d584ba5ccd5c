package order

import (
	"fmt"

	"orders/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
type Status string

const (
	Draft           Status = "DRAFT"
	PendingApproval Status = "PENDING_APPROVAL"
	Approved        Status = "APPROVED"
	// InTransit and Received apply to purchase orders only.
	InTransit Status = "IN_TRANSIT"
	Received  Status = "RECEIVED"
	// Dispatched applies to sale orders only.
	Dispatched Status = "DISPATCHED"
	Cancelled  Status = "CANCELLED"
)

const (
	RuleInvalidTransition = "invalid transition"
	RuleCannotCancel      = "cannot cancel in this status"
)

func (s Status) Validate() error {
	switch s {
	case Draft, PendingApproval, Approved, InTransit, Received, Dispatched, Cancelled:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition can leave s.
func (s Status) IsTerminal() bool {
	return s == Received || s == Dispatched || s == Cancelled
}

func (s Status) Approve() (Status, error) {
	if s != Draft && s != PendingApproval {
		return "", invalidTransition(s, Approved)
	}
	return Approved, nil
}

func (s Status) Receive() (Status, error) {
	if s != Approved && s != InTransit {
		return "", invalidTransition(s, Received)
	}
	return Received, nil
}

func (s Status) Dispatch() (Status, error) {
	if s != Approved {
		return "", invalidTransition(s, Dispatched)
	}
	return Dispatched, nil
}

func (s Status) Cancel() (Status, error) {
	if s.IsTerminal() {
		return "", errs.NewBusinessRuleViolatedErrorWithCause(
			RuleCannotCancel,
			fmt.Errorf("order is %s", s),
		)
	}
	return Cancelled, nil
}

func invalidTransition(from, to Status) error {
	return errs.NewBusinessRuleViolatedErrorWithCause(
		RuleInvalidTransition,
		fmt.Errorf("%s -> %s", from, to),
	)
}

package queries

import (
	"errors"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
	"orders/internal/pkg/tenant"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

var (
	ErrListOrdersQueryIsNotConstructed = errors.New(
		"ListOrdersQuery must be created via NewListOrdersQuery constructor",
	)
)

// ListOrdersParams are the optional filters of a listing. A zero Limit means
// DefaultListLimit.
type ListOrdersParams struct {
	Country        string
	Kind           *order.Kind
	Status         *order.Status
	CommitmentDate *time.Time
	CommitmentFrom *time.Time
	CommitmentTo   *time.Time
	Limit          int
	Offset         int
}

// ListOrdersQuery pages through the orders of a country, newest first.
type ListOrdersQuery struct {
	params ListOrdersParams
	guard  guard.ConstructorGuard
}

func NewListOrdersQuery(p ListOrdersParams) (ListOrdersQuery, error) {
	var errList []error
	if _, err := tenant.Schema(p.Country); err != nil {
		errList = append(errList, err)
	}
	if p.Kind != nil {
		if err := p.Kind.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if p.Status != nil {
		if err := p.Status.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if p.Limit == 0 {
		p.Limit = DefaultListLimit
	}
	if p.Limit < 1 || p.Limit > MaxListLimit {
		errList = append(errList, errs.NewValueIsOutOfRangeError("limit", p.Limit, 1, MaxListLimit))
	}
	if p.Offset < 0 {
		errList = append(errList, errs.NewValueIsInvalidError("offset"))
	}
	if p.CommitmentFrom != nil && p.CommitmentTo != nil && p.CommitmentTo.Before(*p.CommitmentFrom) {
		errList = append(errList, errs.NewValueIsInvalidError("commitment date range"))
	}
	if len(errList) > 0 {
		return ListOrdersQuery{}, errors.Join(errList...)
	}

	for _, d := range []**time.Time{&p.CommitmentDate, &p.CommitmentFrom, &p.CommitmentTo} {
		if *d != nil {
			day := kernel.DateOf(**d)
			*d = &day
		}
	}
	return ListOrdersQuery{params: p, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) Params() ListOrdersParams { return q.params }

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

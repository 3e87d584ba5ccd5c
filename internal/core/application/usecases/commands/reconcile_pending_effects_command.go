package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var ErrReconcilePendingEffectsCommandIsNotConstructed = errors.New(
	"ReconcilePendingEffectsCommand must be created via NewReconcilePendingEffectsCommand constructor",
)

const maxReconcileBatch = 500

// ReconcilePendingEffectsCommand flags effect markers of one country that
// stayed PENDING for longer than olderThan.
type ReconcilePendingEffectsCommand struct {
	country   string
	olderThan time.Duration
	limit     int

	guard guard.ConstructorGuard
}

func NewReconcilePendingEffectsCommand(country string, olderThan time.Duration, limit int) (ReconcilePendingEffectsCommand, error) {
	var errList []error
	country = strings.TrimSpace(country)
	if country == "" {
		errList = append(errList, errs.NewValueIsRequiredError("country"))
	}
	if olderThan <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"older than", fmt.Errorf("%s is not positive", olderThan)))
	}
	if limit < 1 || limit > maxReconcileBatch {
		errList = append(errList, errs.NewValueIsOutOfRangeError("limit", limit, 1, maxReconcileBatch))
	}
	if len(errList) > 0 {
		return ReconcilePendingEffectsCommand{}, errors.Join(errList...)
	}

	return ReconcilePendingEffectsCommand{
		country:   country,
		olderThan: olderThan,
		limit:     limit,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ReconcilePendingEffectsCommand) Validate() error {
	return c.guard.Validate(ErrReconcilePendingEffectsCommandIsNotConstructed)
}

func (c ReconcilePendingEffectsCommand) Country() string          { return c.country }
func (c ReconcilePendingEffectsCommand) OlderThan() time.Duration { return c.olderThan }
func (c ReconcilePendingEffectsCommand) Limit() int               { return c.limit }

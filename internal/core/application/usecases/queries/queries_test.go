package queries_test

import (
	"testing"
	"time"

	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetOrderQuery(t *testing.T) {
	id := kernel.NewUUID()

	q, err := queries.NewGetOrderQuery(id, "co")
	require.NoError(t, err)
	require.NoError(t, q.Validate())
	assert.True(t, q.OrderID().IsEqual(id))

	_, err = queries.NewGetOrderQuery(kernel.UUID{}, "co")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = queries.NewGetOrderQuery(id, "")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	assert.ErrorIs(t, queries.GetOrderQuery{}.Validate(), queries.ErrGetOrderQueryIsNotConstructed)
}

func TestNewGetOrderEventsQuery(t *testing.T) {
	q, err := queries.NewGetOrderEventsQuery(kernel.NewUUID(), "MX")
	require.NoError(t, err)
	require.NoError(t, q.Validate())
	assert.Equal(t, "MX", q.Country())

	assert.ErrorIs(t, queries.GetOrderEventsQuery{}.Validate(), queries.ErrGetOrderEventsQueryIsNotConstructed)
}

func TestNewListOrdersQuery(t *testing.T) {
	t.Run("defaults limit", func(t *testing.T) {
		q, err := queries.NewListOrdersQuery(queries.ListOrdersParams{Country: "co"})

		require.NoError(t, err)
		assert.Equal(t, queries.DefaultListLimit, q.Params().Limit)
		assert.Zero(t, q.Params().Offset)
	})

	t.Run("truncates dates to the day", func(t *testing.T) {
		at := time.Date(2026, 10, 17, 18, 45, 0, 0, time.UTC)

		q, err := queries.NewListOrdersQuery(queries.ListOrdersParams{Country: "co", CommitmentDate: &at})

		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), *q.Params().CommitmentDate)
		assert.Equal(t, 18, at.Hour())
	})

	t.Run("rejects invalid filters", func(t *testing.T) {
		kind := order.Kind("RENTAL")
		status := order.Status("LOST")
		from := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 0, -1)

		_, err := queries.NewListOrdersQuery(queries.ListOrdersParams{
			Country:        "co",
			Kind:           &kind,
			Status:         &status,
			CommitmentFrom: &from,
			CommitmentTo:   &to,
			Limit:          201,
			Offset:         -1,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "offset")
		assert.Contains(t, err.Error(), "commitment date range")
	})

	t.Run("accepts the limit bounds", func(t *testing.T) {
		for _, limit := range []int{1, queries.MaxListLimit} {
			q, err := queries.NewListOrdersQuery(queries.ListOrdersParams{Country: "co", Limit: limit})
			require.NoError(t, err)
			assert.Equal(t, limit, q.Params().Limit)
		}
		_, err := queries.NewListOrdersQuery(queries.ListOrdersParams{Country: "co", Limit: -5})
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	assert.ErrorIs(t, queries.ListOrdersQuery{}.Validate(), queries.ErrListOrdersQueryIsNotConstructed)
}

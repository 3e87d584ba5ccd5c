package order_test

import (
	"testing"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNewLine(t *testing.T) {
	productID := kernel.NewUUID()

	t.Run("should create line with optional values", func(t *testing.T) {
		loc := kernel.NewUUID()
		l, err := order.NewLine(order.LineSpec{
			ProductID:   productID,
			Quantity:    3,
			UnitPrice:   dec("12.5"),
			TaxPct:      dec("19"),
			DiscountPct: dec("5"),
			SKU:         "SKU-1",
			LocationID:  &loc,
		})

		require.NoError(t, err)
		require.NoError(t, l.ID().Validate())
		assert.True(t, l.ProductID().IsEqual(productID))
		assert.Equal(t, 3, l.Quantity())
		assert.Equal(t, "12.5", l.UnitPrice().String())
		assert.Equal(t, "SKU-1", l.SKU())
		assert.True(t, l.LocationID().IsEqual(loc))
	})

	t.Run("should create line without prices", func(t *testing.T) {
		l, err := order.NewLine(order.LineSpec{ProductID: productID, Quantity: 1})

		require.NoError(t, err)
		assert.Nil(t, l.UnitPrice())
		assert.Nil(t, l.TaxPct())
		assert.Nil(t, l.DiscountPct())
	})

	t.Run("should fail with zero quantity", func(t *testing.T) {
		_, err := order.NewLine(order.LineSpec{ProductID: productID, Quantity: 0})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "0 is not greater than 0")
	})

	t.Run("should fail without product", func(t *testing.T) {
		_, err := order.NewLine(order.LineSpec{Quantity: 1})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject percentages outside 0..100", func(t *testing.T) {
		_, err := order.NewLine(order.LineSpec{ProductID: productID, Quantity: 1, DiscountPct: dec("120")})
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = order.NewLine(order.LineSpec{ProductID: productID, Quantity: 1, TaxPct: dec("-1")})
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject negative unit price", func(t *testing.T) {
		_, err := order.NewLine(order.LineSpec{ProductID: productID, Quantity: 1, UnitPrice: dec("-0.01")})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

package order

import (
	"errors"
	"fmt"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Line is an order line. Lines are created with their order and never change.
// Unit price, tax and discount percentages are optional; the calculator treats a
// missing value as zero.
type Line struct {
	id          kernel.UUID
	productID   kernel.UUID
	quantity    int
	unitPrice   *decimal.Decimal
	taxPct      *decimal.Decimal
	discountPct *decimal.Decimal
	sku         string
	locationID  *kernel.UUID
}

// LineSpec carries the caller-supplied values of a new line.
type LineSpec struct {
	ProductID   kernel.UUID
	Quantity    int
	UnitPrice   *decimal.Decimal
	TaxPct      *decimal.Decimal
	DiscountPct *decimal.Decimal
	SKU         string
	LocationID  *kernel.UUID
}

func NewLine(spec LineSpec) (Line, error) {
	return newLine(kernel.NewUUID(), spec)
}

// RestoreLine rebuilds a persisted line.
func RestoreLine(id kernel.UUID, spec LineSpec) (Line, error) {
	return newLine(id, spec)
}

func newLine(id kernel.UUID, spec LineSpec) (Line, error) {
	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, err)
	}
	if spec.ProductID.Validate() != nil {
		errList = append(errList, errs.NewValueIsRequiredError("product id"))
	}
	if spec.Quantity <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"quantity is invalid",
			fmt.Errorf("%d is not greater than 0", spec.Quantity),
		))
	}
	if err := validatePct("tax pct", spec.TaxPct); err != nil {
		errList = append(errList, err)
	}
	if err := validatePct("discount pct", spec.DiscountPct); err != nil {
		errList = append(errList, err)
	}
	if spec.UnitPrice != nil && spec.UnitPrice.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"unit price is invalid",
			fmt.Errorf("%s is negative", spec.UnitPrice),
		))
	}
	if spec.LocationID != nil && spec.LocationID.Validate() != nil {
		errList = append(errList, errs.NewValueIsInvalidError("location id"))
	}
	if len(errList) > 0 {
		return Line{}, errors.Join(errList...)
	}

	return Line{
		id:          id,
		productID:   spec.ProductID,
		quantity:    spec.Quantity,
		unitPrice:   spec.UnitPrice,
		taxPct:      spec.TaxPct,
		discountPct: spec.DiscountPct,
		sku:         spec.SKU,
		locationID:  spec.LocationID,
	}, nil
}

func (l Line) ID() kernel.UUID {
	return l.id
}

func (l Line) ProductID() kernel.UUID {
	return l.productID
}

func (l Line) Quantity() int {
	return l.quantity
}

func (l Line) UnitPrice() *decimal.Decimal {
	return l.unitPrice
}

func (l Line) TaxPct() *decimal.Decimal {
	return l.taxPct
}

func (l Line) DiscountPct() *decimal.Decimal {
	return l.discountPct
}

func (l Line) SKU() string {
	return l.sku
}

func (l Line) LocationID() *kernel.UUID {
	return l.locationID
}

// Spec returns the values the line was built from.
func (l Line) Spec() LineSpec {
	return LineSpec{
		ProductID:   l.productID,
		Quantity:    l.quantity,
		UnitPrice:   l.unitPrice,
		TaxPct:      l.taxPct,
		DiscountPct: l.discountPct,
		SKU:         l.sku,
		LocationID:  l.locationID,
	}
}

var hundred = decimal.NewFromInt(100)

func validatePct(name string, pct *decimal.Decimal) error {
	if pct == nil {
		return nil
	}
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return errs.NewValueIsOutOfRangeError(name, pct.String(), 0, 100)
	}
	return nil
}

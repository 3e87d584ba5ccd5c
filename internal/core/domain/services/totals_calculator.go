package services

import (
	"orders/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// LineTotals are the computed amounts of a single line.
type LineTotals struct {
	Amount   decimal.Decimal
	Discount decimal.Decimal
	Net      decimal.Decimal
	Tax      decimal.Decimal
}

// TotalsCalculator computes order totals.
//
// For each line:
//
//	amount   = unit_price × quantity
//	discount = amount × discount_pct / 100
//	net      = amount − discount
//	tax      = net × tax_pct / 100
//
// subtotal is the sum of net, tax total the sum of tax, total their sum.
// A missing unit price or percentage counts as zero.
type TotalsCalculator struct{}

func NewTotalsCalculator() TotalsCalculator {
	return TotalsCalculator{}
}

// Line computes the amounts of one line.
func (TotalsCalculator) Line(l order.Line) LineTotals {
	price := valueOrZero(l.UnitPrice())
	amount := price.Mul(decimal.NewFromInt(int64(l.Quantity())))
	discount := percentOf(amount, valueOrZero(l.DiscountPct()))
	net := amount.Sub(discount)
	tax := percentOf(net, valueOrZero(l.TaxPct()))

	return LineTotals{
		Amount:   amount,
		Discount: discount,
		Net:      net,
		Tax:      tax,
	}
}

// Calculate aggregates the totals of all lines.
func (c TotalsCalculator) Calculate(lines []order.Line) order.Totals {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero

	for _, l := range lines {
		lt := c.Line(l)
		subtotal = subtotal.Add(lt.Net)
		taxTotal = taxTotal.Add(lt.Tax)
	}

	return order.Totals{
		Subtotal: subtotal,
		TaxTotal: taxTotal,
		Total:    subtotal.Add(taxTotal),
	}
}

// Apply computes the totals of o and stores them on the order.
func (c TotalsCalculator) Apply(o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return o.ApplyTotals(c.Calculate(o.Lines()))
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// percentOf returns v × pct / 100. Shift keeps the division exact.
func percentOf(v, pct decimal.Decimal) decimal.Decimal {
	return v.Mul(pct).Shift(-2)
}

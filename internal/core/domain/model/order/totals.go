package order

import "github.com/shopspring/decimal"

// Totals are the monetary aggregates of an order.
type Totals struct {
	Subtotal decimal.Decimal
	TaxTotal decimal.Decimal
	Total    decimal.Decimal
}

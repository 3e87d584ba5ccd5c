package http

import (
	"errors"
	"io"
	"strings"
	"time"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	"github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

type lineRequest struct {
	ProductID   kernel.UUID      `json:"product_id"`
	Quantity    int              `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	TaxPct      *decimal.Decimal `json:"tax_pct"`
	DiscountPct *decimal.Decimal `json:"discount_pct"`
	SKU         string           `json:"sku"`
	LocationID  *kernel.UUID     `json:"location_id"`
}

// createOrderRequest is the body of POST /v1/orders. Purchase orders carry the
// supplier and destination warehouse; sale orders carry the customer,
// salesperson and origin warehouse.
type createOrderRequest struct {
	Kind                   string        `json:"kind"`
	SupplierID             *kernel.UUID  `json:"supplier_id"`
	DestinationWarehouseID *kernel.UUID  `json:"destination_warehouse_id"`
	CustomerID             *int64        `json:"customer_id"`
	SalespersonID          *int64        `json:"salesperson_id"`
	OriginWarehouseID      *kernel.UUID  `json:"origin_warehouse_id"`
	Notes                  string        `json:"notes"`
	ReceiptDate            *types.Date   `json:"receipt_date"`
	DeliveryDate           *types.Date   `json:"delivery_date"`
	Lines                  []lineRequest `json:"lines"`
}

func (r createOrderRequest) params() commands.CreateOrderParams {
	lines := make([]order.LineSpec, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = order.LineSpec{
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxPct:      l.TaxPct,
			DiscountPct: l.DiscountPct,
			SKU:         l.SKU,
			LocationID:  l.LocationID,
		}
	}

	return commands.CreateOrderParams{
		Kind: order.Kind(strings.ToUpper(strings.TrimSpace(r.Kind))),
		References: order.References{
			SupplierID:             r.SupplierID,
			DestinationWarehouseID: r.DestinationWarehouseID,
			CustomerID:             r.CustomerID,
			SalespersonID:          r.SalespersonID,
			OriginWarehouseID:      r.OriginWarehouseID,
		},
		Notes:        r.Notes,
		Lines:        lines,
		ReceiptDate:  dateOf(r.ReceiptDate),
		DeliveryDate: dateOf(r.DeliveryDate),
	}
}

// listParams reads the filters of GET /v1/orders.
func listParams(c echo.Context) (queries.ListOrdersParams, error) {
	var (
		p              queries.ListOrdersParams
		kind, status   *string
		date, from, to *types.Date
		limit, offset  *int
	)

	var errList []error
	query := c.QueryParams()
	for _, param := range []struct {
		name string
		dst  any
	}{
		{"kind", &kind},
		{"status", &status},
		{"commitment_date", &date},
		{"commitment_from", &from},
		{"commitment_to", &to},
		{"limit", &limit},
		{"offset", &offset},
	} {
		if err := runtime.BindQueryParameter("form", true, false, param.name, query, param.dst); err != nil {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(param.name, err))
		}
	}
	if len(errList) > 0 {
		return p, errors.Join(errList...)
	}

	if kind != nil {
		k := order.Kind(strings.ToUpper(*kind))
		p.Kind = &k
	}
	if status != nil {
		st := order.Status(strings.ToUpper(*status))
		p.Status = &st
	}
	p.CommitmentDate = dateOf(date)
	p.CommitmentFrom = dateOf(from)
	p.CommitmentTo = dateOf(to)
	if limit != nil {
		p.Limit = *limit
	}
	if offset != nil {
		p.Offset = *offset
	}
	return p, nil
}

func dateOf(d *types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func pathID(c echo.Context) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("order id", err)
	}
	return id, nil
}

func readBody(c echo.Context) ([]byte, error) {
	return io.ReadAll(c.Request().Body)
}

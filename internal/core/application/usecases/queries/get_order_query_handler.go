package queries

import (
	"context"
	"fmt"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError when the order does not exist in the
// country's schema.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	orders, err := tenant.Table(query.Country(), "orders")
	if err != nil {
		return OrderResponse{}, err
	}
	lines, err := tenant.Table(query.Country(), "order_lines")
	if err != nil {
		return OrderResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(
		fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, orderColumns, orders),
		query.OrderID().Bytes(),
	).Rows()
	if err != nil {
		return OrderResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return OrderResponse{}, err
		}
		return OrderResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	resp, err := scanOrder(rows)
	if err != nil {
		return OrderResponse{}, err
	}
	_ = rows.Close()

	resp.Lines, err = h.lines(ctx, lines, query.OrderID())
	if err != nil {
		return OrderResponse{}, err
	}
	return resp, nil
}

func (h GetOrderQueryHandler) lines(ctx context.Context, table string, orderID kernel.UUID) ([]LineResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(fmt.Sprintf(`
		SELECT
			id,
			product_id,
			quantity,
			unit_price,
			tax_pct,
			discount_pct,
			sku,
			location_id
		FROM %s
		WHERE order_id = ?
		ORDER BY position
	`, table), orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]LineResponse, 0)
	for rows.Next() {
		var (
			line      LineResponse
			id        uuid.UUID
			productID uuid.UUID
			location  *uuid.UUID
			sku       *string
		)
		err = rows.Scan(
			&id,
			&productID,
			&line.Quantity,
			&line.UnitPrice,
			&line.TaxPct,
			&line.DiscountPct,
			&sku,
			&location,
		)
		if err != nil {
			return nil, err
		}

		if line.ID, err = kernel.UUIDFromGoogle(id); err != nil {
			return nil, err
		}
		if line.ProductID, err = kernel.UUIDFromGoogle(productID); err != nil {
			return nil, err
		}
		if line.LocationID, err = optionalUUID(location); err != nil {
			return nil, err
		}
		if sku != nil {
			line.SKU = *sku
		}
		result = append(result, line)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

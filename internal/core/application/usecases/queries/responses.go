package queries

import (
	"database/sql"
	"time"

	"orders/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderResponse is the read model of an order. Lines are filled only by
// GetOrderQuery.
type OrderResponse struct {
	ID                     kernel.UUID     `json:"id"`
	Code                   string          `json:"code"`
	Kind                   string          `json:"kind"`
	Status                 string          `json:"status"`
	Notes                  string          `json:"notes"`
	CommitmentDate         string          `json:"commitment_date"`
	Subtotal               decimal.Decimal `json:"subtotal"`
	TaxTotal               decimal.Decimal `json:"tax_total"`
	Total                  decimal.Decimal `json:"total"`
	SupplierID             *kernel.UUID    `json:"supplier_id,omitempty"`
	DestinationWarehouseID *kernel.UUID    `json:"destination_warehouse_id,omitempty"`
	CustomerID             *int64          `json:"customer_id,omitempty"`
	SalespersonID          *int64          `json:"salesperson_id,omitempty"`
	OriginWarehouseID      *kernel.UUID    `json:"origin_warehouse_id,omitempty"`
	PurchaseOrderID        *string         `json:"purchase_order_id,omitempty"`
	ReservationToken       *string         `json:"reservation_token,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
	Version                int             `json:"version"`
	Lines                  []LineResponse  `json:"lines,omitempty"`
}

type LineResponse struct {
	ID          kernel.UUID      `json:"id"`
	ProductID   kernel.UUID      `json:"product_id"`
	Quantity    int              `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	TaxPct      *decimal.Decimal `json:"tax_pct,omitempty"`
	DiscountPct *decimal.Decimal `json:"discount_pct,omitempty"`
	SKU         string           `json:"sku,omitempty"`
	LocationID  *kernel.UUID     `json:"location_id,omitempty"`
}

// EventResponse is one audit trail entry. Detail is the stored JSON record.
type EventResponse struct {
	ID          kernel.UUID `json:"id"`
	Status      string      `json:"status"`
	Detail      string      `json:"detail"`
	ActorUserID *int64      `json:"actor_user_id,omitempty"`
	OccurredAt  time.Time   `json:"occurred_at"`
}

const orderColumns = `
	id,
	code,
	kind,
	status,
	notes,
	commitment_date,
	subtotal,
	tax_total,
	total,
	supplier_id,
	destination_warehouse_id,
	customer_id,
	salesperson_id,
	origin_warehouse_id,
	purchase_order_id,
	reservation_token,
	created_at,
	updated_at,
	version`

func scanOrder(rows *sql.Rows) (OrderResponse, error) {
	var (
		resp            OrderResponse
		id              uuid.UUID
		commitment      time.Time
		notes           sql.NullString
		supplier        *uuid.UUID
		destination     *uuid.UUID
		originWarehouse *uuid.UUID
	)

	err := rows.Scan(
		&id,
		&resp.Code,
		&resp.Kind,
		&resp.Status,
		&notes,
		&commitment,
		&resp.Subtotal,
		&resp.TaxTotal,
		&resp.Total,
		&supplier,
		&destination,
		&resp.CustomerID,
		&resp.SalespersonID,
		&originWarehouse,
		&resp.PurchaseOrderID,
		&resp.ReservationToken,
		&resp.CreatedAt,
		&resp.UpdatedAt,
		&resp.Version,
	)
	if err != nil {
		return OrderResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromGoogle(id); err != nil {
		return OrderResponse{}, err
	}
	if resp.SupplierID, err = optionalUUID(supplier); err != nil {
		return OrderResponse{}, err
	}
	if resp.DestinationWarehouseID, err = optionalUUID(destination); err != nil {
		return OrderResponse{}, err
	}
	if resp.OriginWarehouseID, err = optionalUUID(originWarehouse); err != nil {
		return OrderResponse{}, err
	}
	resp.Notes = notes.String
	resp.CommitmentDate = commitment.Format(kernel.DateLayout)
	return resp, nil
}

func optionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromGoogle(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

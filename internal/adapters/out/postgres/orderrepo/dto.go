// Package orderrepo persists the order aggregate: one row in orders plus its
// lines in order_lines.
package orderrepo

import (
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// moneyScale is the number of fraction digits stored for money and percentages.
const moneyScale = 4

// OrderDTO is the orders row. Money columns are numeric(14,4) and the row
// carries the version used for optimistic concurrency.
type OrderDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code           string          `gorm:"size:32;uniqueIndex;not null"`
	Kind           string          `gorm:"size:16;index;not null"`
	Status         string          `gorm:"size:32;index;not null"`
	Notes          string          `gorm:"type:text"`
	CommitmentDate time.Time       `gorm:"type:date;index;not null"`
	Subtotal       decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	TaxTotal       decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	Total          decimal.Decimal `gorm:"type:numeric(14,4);not null"`

	SupplierID             *uuid.UUID `gorm:"type:uuid"`
	DestinationWarehouseID *uuid.UUID `gorm:"type:uuid"`
	CustomerID             *int64
	SalespersonID          *int64
	OriginWarehouseID      *uuid.UUID `gorm:"type:uuid"`
	PurchaseOrderID        *string    `gorm:"size:64"`
	ReservationToken       *string    `gorm:"type:text"`

	CreatedAt time.Time `gorm:"index;not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Version   int       `gorm:"not null;default:0"`

	Lines []LineDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LineDTO is an order_lines row.
type LineDTO struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID        `gorm:"type:uuid;index;not null"`
	Position    int              `gorm:"not null"`
	ProductID   uuid.UUID        `gorm:"type:uuid;not null"`
	Quantity    int              `gorm:"not null"`
	UnitPrice   *decimal.Decimal `gorm:"type:numeric(14,4)"`
	TaxPct      *decimal.Decimal `gorm:"type:numeric(7,4)"`
	DiscountPct *decimal.Decimal `gorm:"type:numeric(7,4)"`
	SKU         string           `gorm:"column:sku;size:64"`
	LocationID  *uuid.UUID       `gorm:"type:uuid"`
}

func (LineDTO) TableName() string {
	return "order_lines"
}

func fromDomain(o *order.Order, updatedAt time.Time) OrderDTO {
	refs := o.References()
	totals := o.Totals()

	dto := OrderDTO{
		ID:                     o.ID().Bytes(),
		Code:                   o.Code(),
		Kind:                   o.Kind().String(),
		Status:                 o.Status().String(),
		Notes:                  o.Notes(),
		CommitmentDate:         o.CommitmentDate(),
		Subtotal:               totals.Subtotal.Round(moneyScale),
		TaxTotal:               totals.TaxTotal.Round(moneyScale),
		Total:                  totals.Total.Round(moneyScale),
		SupplierID:             rawUUID(refs.SupplierID),
		DestinationWarehouseID: rawUUID(refs.DestinationWarehouseID),
		CustomerID:             refs.CustomerID,
		SalespersonID:          refs.SalespersonID,
		OriginWarehouseID:      rawUUID(refs.OriginWarehouseID),
		PurchaseOrderID:        optional(o.PurchaseOrderID()),
		ReservationToken:       optional(o.ReservationToken()),
		CreatedAt:              o.CreatedAt(),
		UpdatedAt:              updatedAt,
		Version:                o.Version(),
	}

	for i, l := range o.Lines() {
		dto.Lines = append(dto.Lines, LineDTO{
			ID:          l.ID().Bytes(),
			OrderID:     dto.ID,
			Position:    i + 1,
			ProductID:   l.ProductID().Bytes(),
			Quantity:    l.Quantity(),
			UnitPrice:   rounded(l.UnitPrice()),
			TaxPct:      rounded(l.TaxPct()),
			DiscountPct: rounded(l.DiscountPct()),
			SKU:         l.SKU(),
			LocationID:  rawUUID(l.LocationID()),
		})
	}
	return dto
}

// toDomain rebuilds the aggregate. Lines must already be sorted by position.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}

	refs := order.References{
		CustomerID:    dto.CustomerID,
		SalespersonID: dto.SalespersonID,
	}
	if refs.SupplierID, err = domainUUID(dto.SupplierID); err != nil {
		return nil, err
	}
	if refs.DestinationWarehouseID, err = domainUUID(dto.DestinationWarehouseID); err != nil {
		return nil, err
	}
	if refs.OriginWarehouseID, err = domainUUID(dto.OriginWarehouseID); err != nil {
		return nil, err
	}

	lines := make([]order.Line, 0, len(dto.Lines))
	for _, l := range dto.Lines {
		line, lineErr := lineToDomain(l)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:             id,
		Code:           dto.Code,
		Kind:           order.Kind(dto.Kind),
		Status:         order.Status(dto.Status),
		Notes:          dto.Notes,
		CommitmentDate: dto.CommitmentDate,
		Totals: order.Totals{
			Subtotal: dto.Subtotal,
			TaxTotal: dto.TaxTotal,
			Total:    dto.Total,
		},
		References:       refs,
		PurchaseOrderID:  valueOf(dto.PurchaseOrderID),
		ReservationToken: valueOf(dto.ReservationToken),
		Lines:            lines,
		CreatedAt:        dto.CreatedAt,
		Version:          dto.Version,
	})
}

func lineToDomain(dto LineDTO) (order.Line, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return order.Line{}, err
	}
	productID, err := kernel.UUIDFromGoogle(dto.ProductID)
	if err != nil {
		return order.Line{}, err
	}
	locationID, err := domainUUID(dto.LocationID)
	if err != nil {
		return order.Line{}, err
	}

	return order.RestoreLine(id, order.LineSpec{
		ProductID:   productID,
		Quantity:    dto.Quantity,
		UnitPrice:   dto.UnitPrice,
		TaxPct:      dto.TaxPct,
		DiscountPct: dto.DiscountPct,
		SKU:         dto.SKU,
		LocationID:  locationID,
	})
}

func rawUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func domainUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromGoogle(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func rounded(v *decimal.Decimal) *decimal.Decimal {
	if v == nil {
		return nil
	}
	r := v.Round(moneyScale)
	return &r
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func valueOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

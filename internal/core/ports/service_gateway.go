package ports

import (
	"context"

	"orders/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// ReceiptStatusAvailable is the stock status of goods registered on receipt.
const ReceiptStatusAvailable = "AVAILABLE"

type PurchaseOrderItem struct {
	ProductID   kernel.UUID
	Quantity    int
	UnitPrice   decimal.Decimal
	TaxPct      decimal.Decimal
	DiscountPct decimal.Decimal
	SupplierSKU string
}

type PurchaseOrderRequest struct {
	SupplierID kernel.UUID
	OrderRef   kernel.UUID
	Currency   string
	Notes      string
	Items      []PurchaseOrderItem
}

type LocationRequest struct {
	WarehouseID kernel.UUID
	Aisle       string
	Shelf       string
	Position    string
}

type ReceiptRequest struct {
	LotID      string
	LocationID string
	Quantity   int
	Status     string
}

// SupplierLeadTime is one supplier quote for a product.
type SupplierLeadTime struct {
	SupplierID string
	Days       *int
}

// ServiceGateway issues calls to sibling services on behalf of one country.
// A non-2xx answer fails with the gateway's downstream error; no call is retried.
type ServiceGateway interface {
	// CreatePurchaseOrder creates a purchase order in procurement and returns its id.
	CreatePurchaseOrder(ctx context.Context, req PurchaseOrderRequest) (string, error)

	// IssueFEFO issues stock of a product first-expired-first-out and returns
	// the reservation tokens of the issue.
	IssueFEFO(ctx context.Context, productID kernel.UUID, quantity int) ([]string, error)

	CreateLot(ctx context.Context, productID kernel.UUID, code string) (string, error)
	CreateLocation(ctx context.Context, req LocationRequest) (string, error)
	RegisterReceipt(ctx context.Context, req ReceiptRequest) error

	// SupplierLeadTimes lists the supplier quotes of a product.
	SupplierLeadTimes(ctx context.Context, productID kernel.UUID) ([]SupplierLeadTime, error)
}

// GatewayFactory scopes a ServiceGateway to a country.
type GatewayFactory interface {
	ForCountry(country string) ServiceGateway
}

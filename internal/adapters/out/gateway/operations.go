package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/ports"

	"github.com/shopspring/decimal"
)

const (
	routePurchaseOrders = "/v1/ordenes-compra"
	routeFEFO           = "/v1/inventario/salida/fefo"
	routeLots           = "/v1/inventario/lote"
	routeLocations      = "/v1/inventario/ubicacion"
	routeReceipts       = "/v1/inventario/entrada"
	routeSuppliers      = "/v1/proveedores/{product_id}/proveedores"
)

// ErrMissingID is returned when a create call succeeds without an id in its
// answer.
var ErrMissingID = errors.New("response carries no id")

type purchaseOrderItemPayload struct {
	ProductID   string      `json:"producto_id"`
	Quantity    int         `json:"cantidad"`
	UnitPrice   json.Number `json:"precio_unitario"`
	TaxPct      json.Number `json:"impuesto_pct"`
	DiscountPct json.Number `json:"descuento_pct"`
	SupplierSKU *string     `json:"sku_proveedor"`
}

type purchaseOrderPayload struct {
	SupplierID string                     `json:"proveedor_id"`
	OrderRef   string                     `json:"pedido_ref"`
	Currency   string                     `json:"moneda"`
	Notes      string                     `json:"notas"`
	Items      []purchaseOrderItemPayload `json:"items"`
}

type lotPayload struct {
	ProductID string  `json:"producto_id"`
	Code      string  `json:"codigo"`
	ExpiresOn *string `json:"vencimiento"`
}

type locationPayload struct {
	WarehouseID string `json:"bodega_id"`
	Aisle       string `json:"pasillo"`
	Shelf       string `json:"estante"`
	Position    string `json:"posicion"`
}

type receiptPayload struct {
	LotID      string `json:"lote_id"`
	LocationID string `json:"ubicacion_id"`
	Quantity   int    `json:"cantidad"`
	Status     string `json:"estado"`
}

type idResponse struct {
	ID json.RawMessage `json:"id"`
}

type fefoIssue struct {
	Token       json.RawMessage `json:"token"`
	InventoryID json.RawMessage `json:"inventario_id"`
}

type supplierQuote struct {
	ID       json.RawMessage `json:"id"`
	LeadDays json.RawMessage `json:"lead_time_dias"`
	Terms    *struct {
		LeadDays json.RawMessage `json:"lead_time_dias"`
	} `json:"terminos"`
}

func (c *Client) CreatePurchaseOrder(ctx context.Context, req ports.PurchaseOrderRequest) (string, error) {
	payload := purchaseOrderPayload{
		SupplierID: req.SupplierID.String(),
		OrderRef:   req.OrderRef.String(),
		Currency:   req.Currency,
		Notes:      req.Notes,
		Items:      make([]purchaseOrderItemPayload, 0, len(req.Items)),
	}
	for _, it := range req.Items {
		item := purchaseOrderItemPayload{
			ProductID:   it.ProductID.String(),
			Quantity:    it.Quantity,
			UnitPrice:   number(it.UnitPrice),
			TaxPct:      number(it.TaxPct),
			DiscountPct: number(it.DiscountPct),
		}
		if sku := strings.TrimSpace(it.SupplierSKU); sku != "" {
			item.SupplierSKU = &sku
		}
		payload.Items = append(payload.Items, item)
	}

	return c.create(ctx, routePurchaseOrders, payload)
}

// IssueFEFO accepts both answer shapes of the inventory service: a single
// {"token": ...} object or a list of issued stock rows.
func (c *Client) IssueFEFO(ctx context.Context, productID kernel.UUID, quantity int) ([]string, error) {
	params := url.Values{}
	params.Set("producto_id", productID.String())
	params.Set("cantidad", strconv.Itoa(quantity))

	raw, err := c.do(ctx, http.MethodPost, routeFEFO, routeFEFO, nil, params)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		rows, err := decode[[]fefoIssue](raw, routeFEFO)
		if err != nil {
			return nil, err
		}
		tokens := make([]string, 0, len(rows))
		for _, row := range rows {
			if id := scalar(row.InventoryID); id != "" {
				tokens = append(tokens, id)
			}
		}
		return tokens, nil
	}

	issue, err := decode[fefoIssue](raw, routeFEFO)
	if err != nil {
		return nil, err
	}
	if token := scalar(issue.Token); token != "" {
		return []string{token}, nil
	}
	return nil, nil
}

func (c *Client) CreateLot(ctx context.Context, productID kernel.UUID, code string) (string, error) {
	return c.create(ctx, routeLots, lotPayload{ProductID: productID.String(), Code: code})
}

func (c *Client) CreateLocation(ctx context.Context, req ports.LocationRequest) (string, error) {
	return c.create(ctx, routeLocations, locationPayload{
		WarehouseID: req.WarehouseID.String(),
		Aisle:       req.Aisle,
		Shelf:       req.Shelf,
		Position:    req.Position,
	})
}

func (c *Client) RegisterReceipt(ctx context.Context, req ports.ReceiptRequest) error {
	_, err := c.do(ctx, http.MethodPost, routeReceipts, routeReceipts, receiptPayload{
		LotID:      req.LotID,
		LocationID: req.LocationID,
		Quantity:   req.Quantity,
		Status:     req.Status,
	}, nil)
	return err
}

// SupplierLeadTimes reads lead_time_dias from each quote, falling back to
// terminos.lead_time_dias. Quotes without a usable value have nil Days.
func (c *Client) SupplierLeadTimes(ctx context.Context, productID kernel.UUID) ([]ports.SupplierLeadTime, error) {
	path := "/v1/proveedores/" + url.PathEscape(productID.String()) + "/proveedores"
	raw, err := c.do(ctx, http.MethodGet, routeSuppliers, path, nil, nil)
	if err != nil {
		return nil, err
	}

	quotes, err := decode[[]supplierQuote](raw, routeSuppliers)
	if err != nil {
		return nil, err
	}

	result := make([]ports.SupplierLeadTime, 0, len(quotes))
	for _, q := range quotes {
		days := intValue(q.LeadDays)
		if days == nil && q.Terms != nil {
			days = intValue(q.Terms.LeadDays)
		}
		result = append(result, ports.SupplierLeadTime{SupplierID: scalar(q.ID), Days: days})
	}
	return result, nil
}

func (c *Client) create(ctx context.Context, route string, body any) (string, error) {
	raw, err := c.do(ctx, http.MethodPost, route, route, body, nil)
	if err != nil {
		return "", err
	}
	resp, err := decode[idResponse](raw, route)
	if err != nil {
		return "", err
	}
	id := scalar(resp.ID)
	if id == "" {
		return "", fmt.Errorf("POST %s: %w", route, ErrMissingID)
	}
	return id, nil
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// scalar renders a JSON string or number as text. Other values yield "".
func scalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func intValue(raw json.RawMessage) *int {
	text := scalar(raw)
	if text == "" {
		return nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	days := int(math.Ceil(f))
	return &days
}

package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is the line-item snapshot embedded on a fulfillment order. Supplier
// resolution annotates the snapshot in place, so the resolved fields start out
// empty and are filled while the order is processed.
type OrderItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	Price     decimal.Decimal `json:"price"`

	SupplierID   *uuid.UUID       `json:"supplier_id,omitempty"`
	SupplierName *string          `json:"supplier_name,omitempty"`
	SupplierSKU  *string          `json:"supplier_sku,omitempty"`
	CostPrice    *decimal.Decimal `json:"cost_price,omitempty"`
	Error        *string          `json:"error,omitempty"`
}

// Resolved reports whether a supplier was assigned to the item.
func (i OrderItem) Resolved() bool {
	return i.SupplierID != nil
}

// EffectiveSKU is the identifier sent upstream, preferring the supplier's own
// SKU over the store one.
func (i OrderItem) EffectiveSKU() string {
	if i.SupplierSKU != nil && *i.SupplierSKU != "" {
		return *i.SupplierSKU
	}
	return i.SKU
}

// SupplierOrder describes one upstream order placed for a group of items. The
// full list lives in the fulfillment order's metadata; the first entry is also
// denormalized onto the order row.
type SupplierOrder struct {
	OrderID      string  `json:"order_id"`
	SupplierID   string  `json:"supplier_id"`
	SupplierName string  `json:"supplier_name"`
	Status       string  `json:"status"`
	ItemsCount   int     `json:"items_count,omitempty"`
	Note         string  `json:"note,omitempty"`
	RawResponse  JSONMap `json:"raw_response,omitempty"`
}

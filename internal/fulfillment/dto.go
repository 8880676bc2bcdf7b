package fulfillment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopopti/fulfillment-backend/pkg/db/models"
	"github.com/shopopti/fulfillment-backend/pkg/types"
)

// OrderInput is the inbound order payload for process_order.
type OrderInput struct {
	StoreOrderID       string            `json:"store_order_id" validate:"required"`
	StorePlatform      string            `json:"store_platform" validate:"required"`
	StoreIntegrationID *uuid.UUID        `json:"store_integration_id,omitempty"`
	CustomerName       string            `json:"customer_name" validate:"required"`
	CustomerEmail      string            `json:"customer_email" validate:"required,email"`
	ShippingAddress    types.Address     `json:"shipping_address"`
	OrderItems         []types.OrderItem `json:"order_items" validate:"required,min=1,dive"`
	TotalAmount        decimal.Decimal   `json:"total_amount"`
	Currency           string            `json:"currency"`
}

// ProcessOrderResult is the wire shape returned by process_order and
// retry_order. Success reflects only that the order record was created and the
// pipeline ran; a fully failed dispatch still returns Success=true with the
// order's own status set to failed.
type ProcessOrderResult struct {
	Success          bool                     `json:"success"`
	FulfillmentOrder *models.FulfillmentOrder `json:"fulfillment_order"`
	SupplierOrders   []types.SupplierOrder    `json:"supplier_orders"`
}

// CancelOrderResult is the wire shape returned by cancel_order.
type CancelOrderResult struct {
	Success bool                     `json:"success"`
	Order   *models.FulfillmentOrder `json:"order"`
}

// OrderStatusResult is the wire shape returned by get_status.
type OrderStatusResult struct {
	Success bool                      `json:"success"`
	Order   *models.FulfillmentOrder  `json:"order"`
	Events  []models.FulfillmentEvent `json:"events"`
}

// PendingOutcome is one order's result inside a pending batch run.
type PendingOutcome struct {
	OrderID uuid.UUID `json:"order_id"`
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
}

// PendingBatchResult is the wire shape returned by process_pending.
type PendingBatchResult struct {
	Success   bool             `json:"success"`
	Processed int              `json:"processed"`
	Results   []PendingOutcome `json:"results"`
}

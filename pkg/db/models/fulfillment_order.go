package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopopti/fulfillment-backend/pkg/enums"
	"github.com/shopopti/fulfillment-backend/pkg/types"
)

// FulfillmentOrder is the central record of the auto-fulfillment pipeline. Line
// items are embedded as a jsonb snapshot and annotated in place during supplier
// resolution; the full list of upstream sub-orders lives in Metadata while the
// first one is denormalized onto the row.
type FulfillmentOrder struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID  `gorm:"column:user_id;type:uuid;not null"`
	StoreOrderID       string     `gorm:"column:store_order_id;not null"`
	StorePlatform      string     `gorm:"column:store_platform;not null"`
	StoreIntegrationID *uuid.UUID `gorm:"column:store_integration_id;type:uuid"`

	CustomerName    string            `gorm:"column:customer_name;not null"`
	CustomerEmail   string            `gorm:"column:customer_email;not null"`
	ShippingAddress types.Address     `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	OrderItems      []types.OrderItem `gorm:"column:order_items;type:jsonb;serializer:json"`
	TotalAmount     decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Currency        string            `gorm:"column:currency;not null;default:'USD'"`

	Status          enums.FulfillmentStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CostPrice       *decimal.Decimal        `gorm:"column:cost_price;type:numeric(12,2)"`
	ProfitMargin    *decimal.Decimal        `gorm:"column:profit_margin;type:numeric(12,2)"`
	SupplierID      *uuid.UUID              `gorm:"column:supplier_id;type:uuid"`
	SupplierName    *string                 `gorm:"column:supplier_name"`
	SupplierOrderID *string                 `gorm:"column:supplier_order_id"`

	RetryCount   int        `gorm:"column:retry_count;not null;default:0"`
	LastRetryAt  *time.Time `gorm:"column:last_retry_at"`
	ErrorMessage *string    `gorm:"column:error_message"`

	ProcessingStartedAt   *time.Time    `gorm:"column:processing_started_at"`
	ProcessingCompletedAt *time.Time    `gorm:"column:processing_completed_at"`
	Metadata              types.JSONMap `gorm:"column:metadata;type:jsonb;serializer:json"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

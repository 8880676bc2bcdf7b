package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierProduct is one entry of an imported supplier catalog, matched against
// store SKUs during resolution.
type SupplierProduct struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID   uuid.UUID       `gorm:"column:supplier_id;type:uuid;not null"`
	SupplierName string          `gorm:"column:supplier_name;not null"`
	SKU          string          `gorm:"column:sku;not null;index"`
	Title        *string         `gorm:"column:title"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	StockQty     int             `gorm:"column:stock_qty;not null;default:0"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

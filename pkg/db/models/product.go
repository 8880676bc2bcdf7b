package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a store listing. A product optionally carries a direct supplier
// link, which short-circuits rule-based resolution.
type Product struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID        `gorm:"column:user_id;type:uuid;not null"`
	SKU          string           `gorm:"column:sku;not null"`
	Title        string           `gorm:"column:title;not null"`
	Price        decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	SupplierID   *uuid.UUID       `gorm:"column:supplier_id;type:uuid"`
	SupplierName *string          `gorm:"column:supplier_name"`
	SupplierSKU  *string          `gorm:"column:supplier_sku"`
	CostPrice    *decimal.Decimal `gorm:"column:cost_price;type:numeric(12,2)"`
	IsActive     bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

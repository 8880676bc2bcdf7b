package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopopti/fulfillment-backend/pkg/enums"
	"github.com/shopopti/fulfillment-backend/pkg/types"
)

// FulfillmentRule is a user-authored condition set that picks a preferred
// supplier when neither a direct product link nor a catalog match exists.
type FulfillmentRule struct {
	ID                  uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID              uuid.UUID                  `gorm:"column:user_id;type:uuid;not null"`
	Name                string                     `gorm:"column:name;not null"`
	Priority            int                        `gorm:"column:priority;not null;default:0"`
	IsActive            bool                       `gorm:"column:is_active;not null;default:true"`
	Conditions          []types.RuleCondition      `gorm:"column:conditions;type:jsonb;serializer:json"`
	ConditionLogic      enums.RuleLogic            `gorm:"column:condition_logic;type:text;not null;default:'AND'"`
	SupplierPreferences []types.SupplierPreference `gorm:"column:supplier_preferences;type:jsonb;serializer:json"`
	CreatedAt           time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}

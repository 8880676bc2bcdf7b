package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopopti/fulfillment-backend/pkg/enums"
	"github.com/shopopti/fulfillment-backend/pkg/types"
)

// SupplierConnection holds a user's credentials and integration type for one
// supplier. OAuthData carries whatever the integration needs (access token,
// api key, app key) as opaque jsonb.
type SupplierConnection struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID          `gorm:"column:user_id;type:uuid;not null"`
	SupplierID   uuid.UUID          `gorm:"column:supplier_id;type:uuid;not null"`
	SupplierName string             `gorm:"column:supplier_name;not null"`
	SupplierType enums.SupplierType `gorm:"column:supplier_type;type:text;not null;default:'other'"`
	OAuthData    types.JSONMap      `gorm:"column:oauth_data;type:jsonb;serializer:json"`
	IsActive     bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// AccessToken pulls the CJ-style OAuth access token out of OAuthData.
func (c SupplierConnection) AccessToken() string {
	return c.oauthString("access_token")
}

// APIKey pulls the BigBuy-style API key out of OAuthData.
func (c SupplierConnection) APIKey() string {
	return c.oauthString("api_key")
}

// AppKey pulls the AliExpress-style app key out of OAuthData.
func (c SupplierConnection) AppKey() string {
	return c.oauthString("app_key")
}

func (c SupplierConnection) oauthString(key string) string {
	if c.OAuthData == nil {
		return ""
	}
	if value, ok := c.OAuthData[key].(string); ok {
		return value
	}
	return ""
}

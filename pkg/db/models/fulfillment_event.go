package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopopti/fulfillment-backend/pkg/enums"
	"github.com/shopopti/fulfillment-backend/pkg/types"
)

// FulfillmentEvent is one append-only audit entry for a fulfillment order.
type FulfillmentEvent struct {
	ID                 uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	FulfillmentOrderID uuid.UUID         `gorm:"column:fulfillment_order_id;type:uuid;not null;index"`
	EventType          string            `gorm:"column:event_type;not null"`
	EventStatus        enums.EventStatus `gorm:"column:event_status;type:text;not null"`
	EventData          types.JSONMap     `gorm:"column:event_data;type:jsonb;serializer:json"`
	DurationMS         *int64            `gorm:"column:duration_ms"`
	Source             string            `gorm:"column:source;not null"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
}

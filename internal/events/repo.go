package events

import (
	"context"

	"gorm.io/gorm"

	"github.com/shopopti/fulfillment-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an events repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *models.FulfillmentEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

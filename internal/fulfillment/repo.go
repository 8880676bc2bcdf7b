package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopopti/fulfillment-backend/pkg/db/models"
	"github.com/shopopti/fulfillment-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository returns a gorm-backed fulfillment order repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, order *models.FulfillmentOrder) (*models.FulfillmentOrder, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, userID, orderID uuid.UUID) (*models.FulfillmentOrder, error) {
	var order models.FulfillmentOrder
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) Update(ctx context.Context, order *models.FulfillmentOrder, fields ...string) error {
	return r.db.WithContext(ctx).
		Model(order).
		Select(fields).
		Updates(order).Error
}

func (r *repository) ClaimPending(ctx context.Context, orderID uuid.UUID, startedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.FulfillmentOrder{}).
		Where("id = ? AND status = ?", orderID, enums.FulfillmentStatusPending).
		Updates(map[string]any{
			"status":                enums.FulfillmentStatusProcessing,
			"processing_started_at": startedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) ListPending(ctx context.Context, userID *uuid.UUID, limit int) ([]models.FulfillmentOrder, error) {
	query := r.db.WithContext(ctx).
		Where("status = ?", enums.FulfillmentStatusPending).
		Order("created_at ASC").
		Limit(limit)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var orders []models.FulfillmentOrder
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListEventsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.FulfillmentEvent, error) {
	var orderEvents []models.FulfillmentEvent
	err := r.db.WithContext(ctx).
		Where("fulfillment_order_id = ?", orderID).
		Order("created_at DESC").
		Find(&orderEvents).Error
	if err != nil {
		return nil, err
	}
	return orderEvents, nil
}

package suppliers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopopti/fulfillment-backend/pkg/db/models"
)

// Repository defines the connection reads dispatch needs.
type Repository interface {
	FindActiveConnection(ctx context.Context, userID, supplierID uuid.UUID) (*models.SupplierConnection, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a supplier connections repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindActiveConnection(ctx context.Context, userID, supplierID uuid.UUID) (*models.SupplierConnection, error) {
	var connection models.SupplierConnection
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND supplier_id = ? AND is_active = ?", userID, supplierID, true).
		First(&connection).Error
	if err != nil {
		return nil, err
	}
	return &connection, nil
}

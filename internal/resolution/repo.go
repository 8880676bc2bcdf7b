package resolution

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopopti/fulfillment-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a resolution repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindProductByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindSupplierProductBySKU(ctx context.Context, sku string) (*models.SupplierProduct, error) {
	var supplierProduct models.SupplierProduct
	err := r.db.WithContext(ctx).
		Where("sku = ?", sku).
		Order("created_at ASC").
		First(&supplierProduct).Error
	if err != nil {
		return nil, err
	}
	return &supplierProduct, nil
}

func (r *repository) ListActiveRules(ctx context.Context, userID uuid.UUID) ([]models.FulfillmentRule, error) {
	var activeRules []models.FulfillmentRule
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("priority DESC").
		Find(&activeRules).Error
	if err != nil {
		return nil, err
	}
	return activeRules, nil
}

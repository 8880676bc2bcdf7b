package resolution

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopopti/fulfillment-backend/pkg/db/models"
	"github.com/shopopti/fulfillment-backend/pkg/enums"
	"github.com/shopopti/fulfillment-backend/pkg/types"
)

func setupResolutionTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  sku TEXT NOT NULL,
  title TEXT NOT NULL,
  price NUMERIC NOT NULL DEFAULT 0,
  supplier_id TEXT,
  supplier_name TEXT,
  supplier_sku TEXT,
  cost_price NUMERIC,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	supplierProducts := `
CREATE TABLE IF NOT EXISTS supplier_products (
  id TEXT PRIMARY KEY,
  supplier_id TEXT NOT NULL,
  supplier_name TEXT NOT NULL,
  sku TEXT NOT NULL,
  title TEXT,
  price NUMERIC NOT NULL DEFAULT 0,
  stock_qty INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	fulfillmentRules := `
CREATE TABLE IF NOT EXISTS fulfillment_rules (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  priority INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  conditions TEXT,
  condition_logic TEXT NOT NULL DEFAULT 'AND',
  supplier_preferences TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`

	for _, stmt := range []string{products, supplierProducts, fulfillmentRules} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func TestRepositoryFindProductByID(t *testing.T) {
	db := setupResolutionTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	supplierID := uuid.New()
	supplierName := "CJ Dropshipping"
	product := models.Product{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		SKU:          "WIDGET-X",
		Title:        "Premium Widget",
		SupplierID:   &supplierID,
		SupplierName: &supplierName,
	}
	require.NoError(t, db.Create(&product).Error)

	found, err := repo.FindProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)
	require.NotNil(t, found.SupplierID)
	assert.Equal(t, supplierID, *found.SupplierID)

	_, err = repo.FindProductByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryFindSupplierProductBySKU(t *testing.T) {
	db := setupResolutionTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	entry := models.SupplierProduct{
		ID:           uuid.New(),
		SupplierID:   uuid.New(),
		SupplierName: "BigBuy",
		SKU:          "WIDGET-X",
	}
	require.NoError(t, db.Create(&entry).Error)

	found, err := repo.FindSupplierProductBySKU(ctx, "WIDGET-X")
	require.NoError(t, err)
	assert.Equal(t, entry.SupplierID, found.SupplierID)

	_, err = repo.FindSupplierProductBySKU(ctx, "MISSING")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryListActiveRulesOrdersByPriority(t *testing.T) {
	db := setupResolutionTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	low := models.FulfillmentRule{
		ID:             uuid.New(),
		UserID:         userID,
		Name:           "low",
		Priority:       1,
		IsActive:       true,
		ConditionLogic: enums.RuleLogicAnd,
		Conditions:     []types.RuleCondition{},
	}
	high := models.FulfillmentRule{
		ID:             uuid.New(),
		UserID:         userID,
		Name:           "high",
		Priority:       9,
		IsActive:       true,
		ConditionLogic: enums.RuleLogicAnd,
	}
	inactive := models.FulfillmentRule{
		ID:             uuid.New(),
		UserID:         userID,
		Name:           "inactive",
		Priority:       99,
		IsActive:       false,
		ConditionLogic: enums.RuleLogicAnd,
	}
	otherUser := models.FulfillmentRule{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Name:           "other",
		Priority:       50,
		IsActive:       true,
		ConditionLogic: enums.RuleLogicAnd,
	}
	for _, rule := range []models.FulfillmentRule{low, high, inactive, otherUser} {
		require.NoError(t, db.Create(&rule).Error)
	}

	activeRules, err := repo.ListActiveRules(ctx, userID)
	require.NoError(t, err)
	require.Len(t, activeRules, 2)
	assert.Equal(t, "high", activeRules[0].Name)
	assert.Equal(t, "low", activeRules[1].Name)
}

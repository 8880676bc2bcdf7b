package resolution

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopopti/fulfillment-backend/internal/rules"
	"github.com/shopopti/fulfillment-backend/pkg/db/models"
	"github.com/shopopti/fulfillment-backend/pkg/types"
)

// NoSupplierFound is the marker written onto an item when every tier misses.
const NoSupplierFound = "No supplier found"

// Repository defines the catalog reads resolution needs.
type Repository interface {
	FindProductByID(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	FindSupplierProductBySKU(ctx context.Context, sku string) (*models.SupplierProduct, error)
	ListActiveRules(ctx context.Context, userID uuid.UUID) ([]models.FulfillmentRule, error)
}

// Resolution is the supplier assignment produced for one line item.
type Resolution struct {
	SupplierID   uuid.UUID
	SupplierName string
	SupplierSKU  string
	CostPrice    *decimal.Decimal
}

// Engine picks a supplier for a line item through three tiers: the product's
// direct link, a supplier catalog SKU match, then user rules in descending
// priority. The first hit wins.
type Engine struct {
	repo      Repository
	evaluator *rules.Evaluator
}

// NewEngine builds a resolution engine.
func NewEngine(repo Repository, evaluator *rules.Evaluator) *Engine {
	return &Engine{repo: repo, evaluator: evaluator}
}

// Resolve returns the supplier assignment for the item, or nil when no tier
// produces one. The active rules are fetched once per order and passed in.
func (e *Engine) Resolve(ctx context.Context, item types.OrderItem, activeRules []models.FulfillmentRule) (*Resolution, error) {
	product, err := e.repo.FindProductByID(ctx, item.ProductID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if product != nil && product.SupplierID != nil {
		supplierSKU := item.SKU
		if product.SupplierSKU != nil && *product.SupplierSKU != "" {
			supplierSKU = *product.SupplierSKU
		}
		name := ""
		if product.SupplierName != nil {
			name = *product.SupplierName
		}
		return &Resolution{
			SupplierID:   *product.SupplierID,
			SupplierName: name,
			SupplierSKU:  supplierSKU,
			CostPrice:    product.CostPrice,
		}, nil
	}

	supplierProduct, err := e.repo.FindSupplierProductBySKU(ctx, item.SKU)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if supplierProduct != nil {
		price := supplierProduct.Price
		return &Resolution{
			SupplierID:   supplierProduct.SupplierID,
			SupplierName: supplierProduct.SupplierName,
			SupplierSKU:  supplierProduct.SKU,
			CostPrice:    &price,
		}, nil
	}

	for _, rule := range activeRules {
		if !e.evaluator.MatchRule(rule, item) {
			continue
		}
		if len(rule.SupplierPreferences) == 0 {
			continue
		}
		preferred := rule.SupplierPreferences[0]
		return &Resolution{
			SupplierID:   preferred.ID,
			SupplierName: preferred.Name,
			SupplierSKU:  item.SKU,
			CostPrice:    nil,
		}, nil
	}

	return nil, nil
}

// Annotate writes the resolution onto the item snapshot, or marks it with the
// no-supplier error when resolution is nil.
func Annotate(item *types.OrderItem, resolution *Resolution) {
	if resolution == nil {
		marker := NoSupplierFound
		item.Error = &marker
		return
	}
	supplierID := resolution.SupplierID
	supplierName := resolution.SupplierName
	supplierSKU := resolution.SupplierSKU
	item.SupplierID = &supplierID
	item.SupplierName = &supplierName
	item.SupplierSKU = &supplierSKU
	item.CostPrice = resolution.CostPrice
	item.Error = nil
}

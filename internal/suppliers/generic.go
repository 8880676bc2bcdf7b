package suppliers

import (
	"context"

	"github.com/shopopti/fulfillment-backend/pkg/db/models"
	"github.com/shopopti/fulfillment-backend/pkg/enums"
	"github.com/shopopti/fulfillment-backend/pkg/types"
)

// GenericClient covers suppliers without a dedicated integration: it records a
// pending order reference for manual follow-up.
type GenericClient struct {
	now Clock
}

// NewGenericClient builds the fallback adapter with the provided clock.
func NewGenericClient(now Clock) *GenericClient {
	return &GenericClient{now: now}
}

// Type implements Adapter.
func (c *GenericClient) Type() enums.SupplierType {
	return enums.SupplierTypeOther
}

// PlaceOrder implements Adapter.
func (c *GenericClient) PlaceOrder(ctx context.Context, connection models.SupplierConnection, req PlaceOrderRequest) (*types.SupplierOrder, error) {
	return &types.SupplierOrder{
		OrderID:      syntheticID("ORD", c.now),
		SupplierID:   connection.SupplierID.String(),
		SupplierName: connection.SupplierName,
		Status:       "pending",
		ItemsCount:   len(req.Items),
	}, nil
}

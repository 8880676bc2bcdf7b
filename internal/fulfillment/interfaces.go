package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shopopti/fulfillment-backend/pkg/db/models"
)

// Repository defines persistence operations for fulfillment orders.
type Repository interface {
	Create(ctx context.Context, order *models.FulfillmentOrder) (*models.FulfillmentOrder, error)
	FindByID(ctx context.Context, userID, orderID uuid.UUID) (*models.FulfillmentOrder, error)
	// Update persists the named fields from order. Fields are selected
	// explicitly so zero values (a cleared error message) are written too.
	Update(ctx context.Context, order *models.FulfillmentOrder, fields ...string) error
	// ClaimPending flips a pending order to processing. The update is
	// conditional on the status still being pending, so concurrent workers
	// cannot claim the same order twice.
	ClaimPending(ctx context.Context, orderID uuid.UUID, startedAt time.Time) (bool, error)
	ListPending(ctx context.Context, userID *uuid.UUID, limit int) ([]models.FulfillmentOrder, error)
	ListEventsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.FulfillmentEvent, error)
}

// Service exposes the auto-fulfillment operations.
type Service interface {
	ProcessOrder(ctx context.Context, userID uuid.UUID, input OrderInput) (*ProcessOrderResult, error)
	RetryOrder(ctx context.Context, userID, orderID uuid.UUID) (*ProcessOrderResult, error)
	CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*CancelOrderResult, error)
	GetOrderStatus(ctx context.Context, userID, orderID uuid.UUID) (*OrderStatusResult, error)
	ProcessPendingBatch(ctx context.Context, userID uuid.UUID) (*PendingBatchResult, error)
}

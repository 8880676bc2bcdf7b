package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shopopti/fulfillment-backend/pkg/db/models"
	"github.com/shopopti/fulfillment-backend/pkg/enums"
	"github.com/shopopti/fulfillment-backend/pkg/logger"
	"github.com/shopopti/fulfillment-backend/pkg/types"
)

// Source tags every event written by this service.
const Source = "auto-fulfillment-processor"

// Event types emitted by the fulfillment pipeline.
const (
	TypeOrderReceived       = "order_received"
	TypeSupplierOrderPlaced = "supplier_order_placed"
	TypeSupplierOrderFailed = "supplier_order_failed"
	TypeProcessingCompleted = "processing_completed"
	TypeOrderRetry          = "order_retry"
	TypeOrderCancelled      = "order_cancelled"
)

// Repository persists events append-only.
type Repository interface {
	Create(ctx context.Context, event *models.FulfillmentEvent) error
}

// Entry is one audit record to append.
type Entry struct {
	UserID             uuid.UUID
	FulfillmentOrderID uuid.UUID
	EventType          string
	EventStatus        enums.EventStatus
	EventData          types.JSONMap
	Duration           *time.Duration
}

// Recorder appends fulfillment events. Writes are best effort: a failed insert
// is logged and swallowed so the audit trail can never fail an order.
type Recorder struct {
	repo Repository
	log  *logger.Logger
}

// NewRecorder builds an event recorder.
func NewRecorder(repo Repository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Log appends one event.
func (r *Recorder) Log(ctx context.Context, entry Entry) {
	if r == nil || r.repo == nil {
		return
	}

	event := &models.FulfillmentEvent{
		UserID:             entry.UserID,
		FulfillmentOrderID: entry.FulfillmentOrderID,
		EventType:          entry.EventType,
		EventStatus:        entry.EventStatus,
		EventData:          entry.EventData,
		Source:             Source,
	}
	if entry.Duration != nil {
		ms := entry.Duration.Milliseconds()
		event.DurationMS = &ms
	}

	if err := r.repo.Create(ctx, event); err != nil && r.log != nil {
		ctx = r.log.WithOrderID(ctx, entry.FulfillmentOrderID.String())
		ctx = r.log.WithField(ctx, "event_type", entry.EventType)
		r.log.Error(ctx, "failed to write fulfillment event", err)
	}
}

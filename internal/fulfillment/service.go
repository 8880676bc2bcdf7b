package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/shopopti/fulfillment-backend/internal/events"
	"github.com/shopopti/fulfillment-backend/internal/resolution"
	"github.com/shopopti/fulfillment-backend/internal/suppliers"
	"github.com/shopopti/fulfillment-backend/pkg/config"
	"github.com/shopopti/fulfillment-backend/pkg/db/models"
	"github.com/shopopti/fulfillment-backend/pkg/enums"
	pkgerrors "github.com/shopopti/fulfillment-backend/pkg/errors"
	"github.com/shopopti/fulfillment-backend/pkg/logger"
	"github.com/shopopti/fulfillment-backend/pkg/metrics"
	"github.com/shopopti/fulfillment-backend/pkg/types"
)

// Deps wires the service collaborators.
type Deps struct {
	Repo        Repository
	Resolution  *resolution.Engine
	Rules       resolution.Repository
	Connections suppliers.Repository
	Registry    *suppliers.Registry
	Recorder    *events.Recorder
	Metrics     *metrics.ProcessorMetrics
	Log         *logger.Logger
	Config      config.FulfillmentConfig

	// Now is injectable so order numbers and timestamps are deterministic
	// under test. Nil defaults to time.Now.
	Now func() time.Time
}

type service struct {
	repo        Repository
	resolution  *resolution.Engine
	rules       resolution.Repository
	connections suppliers.Repository
	registry    *suppliers.Registry
	recorder    *events.Recorder
	metrics     *metrics.ProcessorMetrics
	log         *logger.Logger
	cfg         config.FulfillmentConfig
	now         func() time.Time
}

// NewService builds the fulfillment service.
func NewService(deps Deps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:        deps.Repo,
		resolution:  deps.Resolution,
		rules:       deps.Rules,
		connections: deps.Connections,
		registry:    deps.Registry,
		recorder:    deps.Recorder,
		metrics:     deps.Metrics,
		log:         deps.Log,
		cfg:         deps.Config,
		now:         now,
	}
}

func (s *service) ProcessOrder(ctx context.Context, userID uuid.UUID, input OrderInput) (*ProcessOrderResult, error) {
	if err := validateOrderInput(input); err != nil {
		return nil, err
	}

	startedAt := s.now()
	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	order := &models.FulfillmentOrder{
		UserID:              userID,
		StoreOrderID:        input.StoreOrderID,
		StorePlatform:       input.StorePlatform,
		StoreIntegrationID:  input.StoreIntegrationID,
		CustomerName:        input.CustomerName,
		CustomerEmail:       input.CustomerEmail,
		ShippingAddress:     input.ShippingAddress,
		OrderItems:          input.OrderItems,
		TotalAmount:         input.TotalAmount,
		Currency:            currency,
		Status:              enums.FulfillmentStatusProcessing,
		ProcessingStartedAt: &startedAt,
		Metadata:            types.JSONMap{},
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create fulfillment order")
	}

	s.recorder.Log(ctx, events.Entry{
		UserID:             userID,
		FulfillmentOrderID: created.ID,
		EventType:          events.TypeOrderReceived,
		EventStatus:        enums.EventStatusSuccess,
		EventData: types.JSONMap{
			"store_order_id": input.StoreOrderID,
			"items_count":    len(input.OrderItems),
		},
	})

	updated, supplierOrders, err := s.runPipeline(ctx, created)
	if err != nil {
		return nil, err
	}

	return &ProcessOrderResult{
		Success:          true,
		FulfillmentOrder: updated,
		SupplierOrders:   supplierOrders,
	}, nil
}

func (s *service) RetryOrder(ctx context.Context, userID, orderID uuid.UUID) (*ProcessOrderResult, error) {
	order, err := s.findOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	// confirmed and cancelled are terminal; retry only reopens failed work.
	if order.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cannot retry a %s order", order.Status))
	}

	if order.RetryCount >= s.maxRetries() {
		return nil, pkgerrors.New(pkgerrors.CodeRetryLimit, "Maximum retry attempts exceeded")
	}

	now := s.now()
	order.Status = enums.FulfillmentStatusProcessing
	order.RetryCount++
	order.LastRetryAt = &now
	order.ErrorMessage = nil
	order.ProcessingStartedAt = &now
	if err := s.repo.Update(ctx, order, "status", "retry_count", "last_retry_at", "error_message", "processing_started_at"); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order for retry")
	}

	s.recorder.Log(ctx, events.Entry{
		UserID:             userID,
		FulfillmentOrderID: order.ID,
		EventType:          events.TypeOrderRetry,
		EventStatus:        enums.EventStatusPending,
		EventData:          types.JSONMap{"retry_count": order.RetryCount},
	})

	updated, supplierOrders, err := s.runPipeline(ctx, order)
	if err != nil {
		return nil, err
	}

	return &ProcessOrderResult{
		Success:          true,
		FulfillmentOrder: updated,
		SupplierOrders:   supplierOrders,
	}, nil
}

func (s *service) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*CancelOrderResult, error) {
	order, err := s.findOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	// Cancelling a terminal order is an idempotent no-op, but the event is
	// still appended; duplicate cancel entries are acceptable.
	if !order.Status.IsTerminal() {
		order.Status = enums.FulfillmentStatusCancelled
		if err := s.repo.Update(ctx, order, "status"); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
	}

	s.recorder.Log(ctx, events.Entry{
		UserID:             userID,
		FulfillmentOrderID: order.ID,
		EventType:          events.TypeOrderCancelled,
		EventStatus:        enums.EventStatusSuccess,
		EventData:          types.JSONMap{},
	})

	return &CancelOrderResult{Success: true, Order: order}, nil
}

func (s *service) GetOrderStatus(ctx context.Context, userID, orderID uuid.UUID) (*OrderStatusResult, error) {
	order, err := s.findOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	orderEvents, err := s.repo.ListEventsByOrder(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list fulfillment events")
	}

	return &OrderStatusResult{Success: true, Order: order, Events: orderEvents}, nil
}

func (s *service) ProcessPendingBatch(ctx context.Context, userID uuid.UUID) (*PendingBatchResult, error) {
	var filter *uuid.UUID
	if userID != uuid.Nil {
		filter = &userID
	}

	limit := s.cfg.PendingBatchSize
	if limit <= 0 {
		limit = 50
	}

	pending, err := s.repo.ListPending(ctx, filter, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending orders")
	}

	results := make([]PendingOutcome, 0, len(pending))
	for i := range pending {
		order := pending[i]

		claimed, err := s.repo.ClaimPending(ctx, order.ID, s.now())
		if err != nil {
			results = append(results, PendingOutcome{OrderID: order.ID, Success: false, Error: err.Error()})
			continue
		}
		if !claimed {
			// Another worker won the claim.
			continue
		}

		startedAt := s.now()
		order.Status = enums.FulfillmentStatusProcessing
		order.ProcessingStartedAt = &startedAt

		if _, _, err := s.runPipeline(ctx, &order); err != nil {
			s.settleBatchFailure(ctx, &order, err)
			results = append(results, PendingOutcome{OrderID: order.ID, Success: false, Error: err.Error()})
			continue
		}
		results = append(results, PendingOutcome{OrderID: order.ID, Success: true})
	}

	return &PendingBatchResult{Success: true, Processed: len(results), Results: results}, nil
}

// runPipeline resolves suppliers for every item, dispatches the per-supplier
// groups and settles the order row. Per-group failures are tolerated: they are
// logged and aggregated onto the order, never returned.
func (s *service) runPipeline(ctx context.Context, order *models.FulfillmentOrder) (*models.FulfillmentOrder, []types.SupplierOrder, error) {
	startedAt := s.now()
	ctx = s.log.WithOrderID(ctx, order.ID.String())

	activeRules, err := s.rules.ListActiveRules(ctx, order.UserID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list fulfillment rules")
	}

	items := make([]types.OrderItem, len(order.OrderItems))
	copy(items, order.OrderItems)

	totalCost := decimal.Zero
	for i := range items {
		resolved, err := s.resolution.Resolve(ctx, items[i], activeRules)
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve supplier")
		}
		resolution.Annotate(&items[i], resolved)
		if resolved != nil && resolved.CostPrice != nil {
			totalCost = totalCost.Add(resolved.CostPrice.Mul(decimal.NewFromInt(int64(items[i].Quantity))))
		}
	}

	groups := GroupBySupplier(items)
	outcomes := make([]groupOutcome, len(groups))

	g := new(errgroup.Group)
	g.SetLimit(s.dispatchConcurrency())
	for i := range groups {
		if groups[i].SupplierID == UnknownGroupKey {
			continue
		}
		i := i
		g.Go(func() error {
			outcomes[i] = s.dispatchGroup(ctx, order, groups[i])
			return nil
		})
	}
	_ = g.Wait()

	supplierOrders := make([]types.SupplierOrder, 0, len(groups))
	var dispatchErrs error
	for i := range groups {
		if groups[i].SupplierID == UnknownGroupKey {
			continue
		}
		outcome := outcomes[i]
		if outcome.err != nil {
			dispatchErrs = multierr.Append(dispatchErrs, outcome.err)
			s.recorder.Log(ctx, events.Entry{
				UserID:             order.UserID,
				FulfillmentOrderID: order.ID,
				EventType:          events.TypeSupplierOrderFailed,
				EventStatus:        enums.EventStatusError,
				EventData: types.JSONMap{
					"supplier_id": groups[i].SupplierID,
					"error":       outcome.err.Error(),
				},
			})
			continue
		}
		supplierOrders = append(supplierOrders, *outcome.supplierOrder)
		s.recorder.Log(ctx, events.Entry{
			UserID:             order.UserID,
			FulfillmentOrderID: order.ID,
			EventType:          events.TypeSupplierOrderPlaced,
			EventStatus:        enums.EventStatusSuccess,
			EventData: types.JSONMap{
				"supplier_id":       groups[i].SupplierID,
				"supplier_order_id": outcome.supplierOrder.OrderID,
				"items_count":       len(groups[i].Items),
			},
		})
	}

	profit := order.TotalAmount.Sub(totalCost)

	status := enums.FulfillmentStatusFailed
	if len(supplierOrders) > 0 {
		status = enums.FulfillmentStatusConfirmed
	}

	completedAt := s.now()
	order.Status = status
	order.OrderItems = items
	order.CostPrice = &totalCost
	order.ProfitMargin = &profit
	order.ProcessingCompletedAt = &completedAt
	order.Metadata = types.JSONMap{"supplier_orders": supplierOrders}
	order.SupplierID = nil
	order.SupplierName = nil
	order.SupplierOrderID = nil
	order.ErrorMessage = nil
	if len(supplierOrders) > 0 {
		primary := supplierOrders[0]
		if id, err := uuid.Parse(primary.SupplierID); err == nil {
			order.SupplierID = &id
		}
		name := primary.SupplierName
		orderRef := primary.OrderID
		order.SupplierName = &name
		order.SupplierOrderID = &orderRef
	}
	if status == enums.FulfillmentStatusFailed && dispatchErrs != nil {
		message := dispatchErrs.Error()
		order.ErrorMessage = &message
	}

	if err := s.repo.Update(ctx, order,
		"status", "order_items", "cost_price", "profit_margin",
		"supplier_id", "supplier_name", "supplier_order_id",
		"processing_completed_at", "metadata", "error_message",
	); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle fulfillment order")
	}

	duration := completedAt.Sub(startedAt)
	eventStatus := enums.EventStatusSuccess
	if status != enums.FulfillmentStatusConfirmed {
		eventStatus = enums.EventStatusError
	}
	s.recorder.Log(ctx, events.Entry{
		UserID:             order.UserID,
		FulfillmentOrderID: order.ID,
		EventType:          events.TypeProcessingCompleted,
		EventStatus:        eventStatus,
		EventData: types.JSONMap{
			"duration_ms":           duration.Milliseconds(),
			"supplier_orders_count": len(supplierOrders),
			"total_cost":            totalCost.InexactFloat64(),
			"profit_margin":         profit.InexactFloat64(),
		},
		Duration: &duration,
	})
	s.metrics.ObserveOrder(status.String(), duration)

	return order, supplierOrders, nil
}

type groupOutcome struct {
	supplierOrder *types.SupplierOrder
	err           error
}

func (s *service) dispatchGroup(ctx context.Context, order *models.FulfillmentOrder, group SupplierGroup) groupOutcome {
	supplierID, err := uuid.Parse(group.SupplierID)
	if err != nil {
		return groupOutcome{err: pkgerrors.Wrap(pkgerrors.CodeSupplierOrder, err, "invalid supplier id")}
	}

	connection, err := s.connections.FindActiveConnection(ctx, order.UserID, supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return groupOutcome{err: pkgerrors.New(pkgerrors.CodeSupplierOrder, fmt.Sprintf("no connection found for supplier %s", supplierID))}
		}
		return groupOutcome{err: pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier connection")}
	}

	adapter := s.registry.For(connection.SupplierType)
	supplierOrder, err := adapter.PlaceOrder(ctx, *connection, suppliers.PlaceOrderRequest{
		OrderNumber:     s.orderNumber(),
		Items:           group.Items,
		ShippingAddress: order.ShippingAddress,
	})
	if err != nil {
		s.metrics.IncDispatch(connection.SupplierType.String(), "error")
		return groupOutcome{err: err}
	}

	s.metrics.IncDispatch(connection.SupplierType.String(), "success")
	return groupOutcome{supplierOrder: supplierOrder}
}

func (s *service) findOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.FulfillmentOrder, error) {
	order, err := s.repo.FindByID(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load fulfillment order")
	}
	return order, nil
}

// settleBatchFailure parks a claimed order in failed when the pipeline errors
// out, so it does not sit in processing forever and can be retried. Best
// effort: the batch outcome already carries the error.
func (s *service) settleBatchFailure(ctx context.Context, order *models.FulfillmentOrder, cause error) {
	message := cause.Error()
	completedAt := s.now()
	order.Status = enums.FulfillmentStatusFailed
	order.ErrorMessage = &message
	order.ProcessingCompletedAt = &completedAt
	if err := s.repo.Update(ctx, order, "status", "error_message", "processing_completed_at"); err != nil {
		s.log.Error(ctx, "failed to settle batch order", err)
	}
}

// validateOrderInput enforces the money checks the struct tags cannot express.
// No order row is created when any of them fail.
func validateOrderInput(input OrderInput) error {
	if input.TotalAmount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "total_amount must not be negative")
	}
	for i := range input.OrderItems {
		if input.OrderItems[i].Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: quantity must be positive", i))
		}
		if input.OrderItems[i].Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: price must not be negative", i))
		}
	}
	return nil
}

func (s *service) orderNumber() string {
	return fmt.Sprintf("SHO-%d", s.now().UnixMilli())
}

func (s *service) maxRetries() int {
	if s.cfg.MaxRetries <= 0 {
		return 3
	}
	return s.cfg.MaxRetries
}

func (s *service) dispatchConcurrency() int {
	if s.cfg.DispatchConcurrency <= 0 {
		return 1
	}
	return s.cfg.DispatchConcurrency
}

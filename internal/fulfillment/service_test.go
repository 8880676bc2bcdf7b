package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopopti/fulfillment-backend/internal/events"
	"github.com/shopopti/fulfillment-backend/internal/resolution"
	"github.com/shopopti/fulfillment-backend/internal/rules"
	"github.com/shopopti/fulfillment-backend/internal/suppliers"
	"github.com/shopopti/fulfillment-backend/pkg/config"
	"github.com/shopopti/fulfillment-backend/pkg/db/models"
	"github.com/shopopti/fulfillment-backend/pkg/enums"
	pkgerrors "github.com/shopopti/fulfillment-backend/pkg/errors"
	"github.com/shopopti/fulfillment-backend/pkg/logger"
	"github.com/shopopti/fulfillment-backend/pkg/types"
)

type updateCall struct {
	orderID uuid.UUID
	fields  []string
}

type stubOrderRepo struct {
	orders      map[uuid.UUID]*models.FulfillmentOrder
	updates     []updateCall
	pending     []models.FulfillmentOrder
	unclaimable map[uuid.UUID]bool
	claimErrs   map[uuid.UUID]error
	events      []models.FulfillmentEvent
	createErr   error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders:      make(map[uuid.UUID]*models.FulfillmentOrder),
		unclaimable: make(map[uuid.UUID]bool),
		claimErrs:   make(map[uuid.UUID]error),
	}
}

func (s *stubOrderRepo) Create(ctx context.Context, order *models.FulfillmentOrder) (*models.FulfillmentOrder, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, userID, orderID uuid.UUID) (*models.FulfillmentOrder, error) {
	order, ok := s.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubOrderRepo) Update(ctx context.Context, order *models.FulfillmentOrder, fields ...string) error {
	s.updates = append(s.updates, updateCall{orderID: order.ID, fields: fields})
	s.orders[order.ID] = order
	return nil
}

func (s *stubOrderRepo) ClaimPending(ctx context.Context, orderID uuid.UUID, startedAt time.Time) (bool, error) {
	if err := s.claimErrs[orderID]; err != nil {
		return false, err
	}
	return !s.unclaimable[orderID], nil
}

func (s *stubOrderRepo) ListPending(ctx context.Context, userID *uuid.UUID, limit int) ([]models.FulfillmentOrder, error) {
	if len(s.pending) > limit {
		return s.pending[:limit], nil
	}
	return s.pending, nil
}

func (s *stubOrderRepo) ListEventsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.FulfillmentEvent, error) {
	return s.events, nil
}

type stubCatalogRepo struct {
	products         map[uuid.UUID]*models.Product
	productErrs      map[uuid.UUID]error
	supplierProducts map[string]*models.SupplierProduct
	rules            []models.FulfillmentRule
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{
		products:         make(map[uuid.UUID]*models.Product),
		productErrs:      make(map[uuid.UUID]error),
		supplierProducts: make(map[string]*models.SupplierProduct),
	}
}

func (s *stubCatalogRepo) FindProductByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if err := s.productErrs[productID]; err != nil {
		return nil, err
	}
	if product, ok := s.products[productID]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) FindSupplierProductBySKU(ctx context.Context, sku string) (*models.SupplierProduct, error) {
	if supplierProduct, ok := s.supplierProducts[sku]; ok {
		return supplierProduct, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) ListActiveRules(ctx context.Context, userID uuid.UUID) ([]models.FulfillmentRule, error) {
	return s.rules, nil
}

type stubConnectionsRepo struct {
	connections map[uuid.UUID]*models.SupplierConnection
}

func newStubConnectionsRepo() *stubConnectionsRepo {
	return &stubConnectionsRepo{connections: make(map[uuid.UUID]*models.SupplierConnection)}
}

func (s *stubConnectionsRepo) FindActiveConnection(ctx context.Context, userID, supplierID uuid.UUID) (*models.SupplierConnection, error) {
	if connection, ok := s.connections[supplierID]; ok && connection.UserID == userID {
		return connection, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type capturedEvents struct {
	entries []*models.FulfillmentEvent
}

func (c *capturedEvents) Create(ctx context.Context, event *models.FulfillmentEvent) error {
	c.entries = append(c.entries, event)
	return nil
}

func (c *capturedEvents) typesSeen() []string {
	seen := make([]string, 0, len(c.entries))
	for _, event := range c.entries {
		seen = append(seen, event.EventType)
	}
	return seen
}

type fakeAdapter struct {
	supplierType enums.SupplierType
	place        func(ctx context.Context, connection models.SupplierConnection, req suppliers.PlaceOrderRequest) (*types.SupplierOrder, error)
}

func (f *fakeAdapter) Type() enums.SupplierType { return f.supplierType }

func (f *fakeAdapter) PlaceOrder(ctx context.Context, connection models.SupplierConnection, req suppliers.PlaceOrderRequest) (*types.SupplierOrder, error) {
	return f.place(ctx, connection, req)
}

func fixedNow() time.Time {
	return time.UnixMilli(1717171717171).UTC()
}

type fixture struct {
	repo        *stubOrderRepo
	catalog     *stubCatalogRepo
	connections *stubConnectionsRepo
	events      *capturedEvents
	registry    *suppliers.Registry
	svc         Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	repo := newStubOrderRepo()
	catalog := newStubCatalogRepo()
	connections := newStubConnectionsRepo()
	eventSink := &capturedEvents{}
	registry := suppliers.NewRegistry(config.SuppliersConfig{HTTPTimeout: time.Second}, fixedNow)

	svc := NewService(Deps{
		Repo:        repo,
		Resolution:  resolution.NewEngine(catalog, rules.NewEvaluator(false)),
		Rules:       catalog,
		Connections: connections,
		Registry:    registry,
		Recorder:    events.NewRecorder(eventSink, log),
		Log:         log,
		Config: config.FulfillmentConfig{
			MaxRetries:          3,
			PendingBatchSize:    50,
			DispatchConcurrency: 2,
		},
		Now: fixedNow,
	})

	return &fixture{
		repo:        repo,
		catalog:     catalog,
		connections: connections,
		events:      eventSink,
		registry:    registry,
		svc:         svc,
	}
}

// addSupplier seeds a catalog SKU match plus an active connection routed to a
// stub adapter, so resolution and dispatch both succeed for that SKU.
func (f *fixture) addSupplier(userID uuid.UUID, sku, name string, cost decimal.Decimal, place func(ctx context.Context, connection models.SupplierConnection, req suppliers.PlaceOrderRequest) (*types.SupplierOrder, error)) uuid.UUID {
	supplierID := uuid.New()
	f.catalog.supplierProducts[sku] = &models.SupplierProduct{
		SupplierID:   supplierID,
		SupplierName: name,
		SKU:          sku,
		Price:        cost,
	}
	if place != nil {
		f.connections.connections[supplierID] = &models.SupplierConnection{
			UserID:       userID,
			SupplierID:   supplierID,
			SupplierName: name,
			SupplierType: enums.SupplierTypeOther,
			IsActive:     true,
		}
		f.registry.Register(&fakeAdapter{supplierType: enums.SupplierTypeOther, place: place})
	}
	return supplierID
}

func placedOrder(orderID string) func(ctx context.Context, connection models.SupplierConnection, req suppliers.PlaceOrderRequest) (*types.SupplierOrder, error) {
	return func(ctx context.Context, connection models.SupplierConnection, req suppliers.PlaceOrderRequest) (*types.SupplierOrder, error) {
		return &types.SupplierOrder{
			OrderID:      orderID,
			SupplierID:   connection.SupplierID.String(),
			SupplierName: connection.SupplierName,
			Status:       "confirmed",
			ItemsCount:   len(req.Items),
		}, nil
	}
}

func orderInput(items ...types.OrderItem) OrderInput {
	return OrderInput{
		StoreOrderID:  "1001",
		StorePlatform: "shopify",
		CustomerName:  "Grace Hopper",
		CustomerEmail: "grace@example.com",
		ShippingAddress: types.Address{
			Name:     "Grace Hopper",
			Address1: "1 Navy Way",
			City:     "Arlington",
			Country:  "US",
			Zip:      "22201",
		},
		OrderItems:  items,
		TotalAmount: decimal.NewFromFloat(99.90),
		Currency:    "USD",
	}
}

func TestProcessOrderConfirmsWhenAllGroupsSucceed(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	supplierID := f.addSupplier(userID, "WIDGET-1", "Acme Supply", decimal.NewFromFloat(20.00), placedOrder("ACME-77"))

	result, err := f.svc.ProcessOrder(context.Background(), userID, orderInput(
		types.OrderItem{ProductID: uuid.New(), SKU: "WIDGET-1", Title: "Widget", Quantity: 2, Price: decimal.NewFromFloat(49.95)},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatal("expected success")
	}

	order := result.FulfillmentOrder
	if order.Status != enums.FulfillmentStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", order.Status)
	}
	if len(result.SupplierOrders) != 1 || result.SupplierOrders[0].OrderID != "ACME-77" {
		t.Fatalf("unexpected supplier orders: %+v", result.SupplierOrders)
	}
	if order.SupplierID == nil || *order.SupplierID != supplierID {
		t.Fatal("primary supplier not denormalized onto the order")
	}
	if order.SupplierOrderID == nil || *order.SupplierOrderID != "ACME-77" {
		t.Fatal("supplier order reference not denormalized")
	}
	if order.CostPrice == nil || !order.CostPrice.Equal(decimal.NewFromFloat(40.00)) {
		t.Fatalf("expected cost 40.00, got %v", order.CostPrice)
	}
	if order.ProfitMargin == nil || !order.ProfitMargin.Equal(decimal.NewFromFloat(59.90)) {
		t.Fatalf("expected profit 59.90, got %v", order.ProfitMargin)
	}
	if order.ErrorMessage != nil {
		t.Fatalf("expected no error message, got %q", *order.ErrorMessage)
	}

	seen := f.events.typesSeen()
	want := []string{events.TypeOrderReceived, events.TypeSupplierOrderPlaced, events.TypeProcessingCompleted}
	if len(seen) != len(want) {
		t.Fatalf("expected events %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, seen)
		}
	}
}

// A fully failed dispatch still resolves the call successfully; the failure is
// carried on the order record itself.
func TestProcessOrderAllGroupsFailStillSucceeds(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	// catalog hit but no connection for the supplier
	f.addSupplier(userID, "WIDGET-1", "Acme Supply", decimal.NewFromFloat(20.00), nil)

	result, err := f.svc.ProcessOrder(context.Background(), userID, orderInput(
		types.OrderItem{ProductID: uuid.New(), SKU: "WIDGET-1", Title: "Widget", Quantity: 1, Price: decimal.NewFromFloat(49.95)},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatal("expected success=true even when every group fails")
	}

	order := result.FulfillmentOrder
	if order.Status != enums.FulfillmentStatusFailed {
		t.Fatalf("expected failed, got %s", order.Status)
	}
	if len(result.SupplierOrders) != 0 {
		t.Fatalf("expected no supplier orders, got %d", len(result.SupplierOrders))
	}
	if order.ErrorMessage == nil {
		t.Fatal("expected aggregated error message on the order")
	}

	seen := f.events.typesSeen()
	want := []string{events.TypeOrderReceived, events.TypeSupplierOrderFailed, events.TypeProcessingCompleted}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, seen)
		}
	}
	last := f.events.entries[len(f.events.entries)-1]
	if last.EventStatus != enums.EventStatusError {
		t.Fatalf("expected completion event status error, got %s", last.EventStatus)
	}
}

func TestProcessOrderPartialFailureConfirms(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	goodSupplier := f.addSupplier(userID, "GOOD-1", "Acme Supply", decimal.NewFromFloat(10.00), placedOrder("ACME-1"))
	f.addSupplier(userID, "BAD-1", "Ghost Supply", decimal.NewFromFloat(5.00), nil)

	result, err := f.svc.ProcessOrder(context.Background(), userID, orderInput(
		types.OrderItem{ProductID: uuid.New(), SKU: "GOOD-1", Quantity: 1, Price: decimal.NewFromFloat(30.00)},
		types.OrderItem{ProductID: uuid.New(), SKU: "BAD-1", Quantity: 1, Price: decimal.NewFromFloat(20.00)},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := result.FulfillmentOrder
	if order.Status != enums.FulfillmentStatusConfirmed {
		t.Fatalf("expected confirmed on partial failure, got %s", order.Status)
	}
	if len(result.SupplierOrders) != 1 || result.SupplierOrders[0].SupplierID != goodSupplier.String() {
		t.Fatalf("unexpected supplier orders: %+v", result.SupplierOrders)
	}
	if order.ErrorMessage != nil {
		t.Fatal("partial failure must not set the order error message")
	}
	// both groups still resolved, so cost covers both
	if order.CostPrice == nil || !order.CostPrice.Equal(decimal.NewFromFloat(15.00)) {
		t.Fatalf("expected cost 15.00, got %v", order.CostPrice)
	}
}

func TestProcessOrderUnresolvedItemsNeverDispatch(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	result, err := f.svc.ProcessOrder(context.Background(), userID, orderInput(
		types.OrderItem{ProductID: uuid.New(), SKU: "NOWHERE-1", Quantity: 1, Price: decimal.NewFromFloat(10.00)},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := result.FulfillmentOrder
	if order.Status != enums.FulfillmentStatusFailed {
		t.Fatalf("expected failed, got %s", order.Status)
	}
	item := order.OrderItems[0]
	if item.Error == nil || *item.Error != resolution.NoSupplierFound {
		t.Fatalf("expected item marked %q, got %v", resolution.NoSupplierFound, item.Error)
	}
	for _, event := range f.events.entries {
		if event.EventType == events.TypeSupplierOrderFailed {
			t.Fatal("unknown group must be skipped, not dispatched")
		}
	}
}

func TestProcessOrderSendsGeneratedOrderNumber(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	var gotOrderNumber string
	f.addSupplier(userID, "WIDGET-1", "Acme Supply", decimal.NewFromFloat(1.00),
		func(ctx context.Context, connection models.SupplierConnection, req suppliers.PlaceOrderRequest) (*types.SupplierOrder, error) {
			gotOrderNumber = req.OrderNumber
			return placedOrder("ACME-1")(ctx, connection, req)
		})

	_, err := f.svc.ProcessOrder(context.Background(), userID, orderInput(
		types.OrderItem{ProductID: uuid.New(), SKU: "WIDGET-1", Quantity: 1, Price: decimal.NewFromFloat(5.00)},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotOrderNumber != "SHO-1717171717171" {
		t.Fatalf("unexpected order number %q", gotOrderNumber)
	}
}

func TestProcessOrderRejectsBadMoneyInput(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	cases := []struct {
		name  string
		input OrderInput
	}{
		{
			name: "negative item price",
			input: orderInput(types.OrderItem{
				ProductID: uuid.New(), SKU: "SKU-1", Quantity: 1, Price: decimal.NewFromFloat(-1),
			}),
		},
		{
			name: "zero quantity",
			input: orderInput(types.OrderItem{
				ProductID: uuid.New(), SKU: "SKU-1", Quantity: 0, Price: decimal.NewFromFloat(10),
			}),
		},
	}
	negativeTotal := orderInput(types.OrderItem{
		ProductID: uuid.New(), SKU: "SKU-1", Quantity: 1, Price: decimal.NewFromFloat(10),
	})
	negativeTotal.TotalAmount = decimal.NewFromFloat(-5)
	cases = append(cases, struct {
		name  string
		input OrderInput
	}{name: "negative total", input: negativeTotal})

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.ProcessOrder(context.Background(), userID, tc.input)
			coded := pkgerrors.As(err)
			if coded == nil || coded.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if len(f.repo.orders) != 0 {
		t.Fatalf("no order row should be created on validation failure, got %d", len(f.repo.orders))
	}
}

func TestRetryOrderLimitExceeded(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	order := &models.FulfillmentOrder{ID: uuid.New(), UserID: userID, RetryCount: 3, Status: enums.FulfillmentStatusFailed}
	f.repo.orders[order.ID] = order

	_, err := f.svc.RetryOrder(context.Background(), userID, order.ID)
	if err == nil {
		t.Fatal("expected retry limit error")
	}
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeRetryLimit {
		t.Fatalf("expected %s, got %v", pkgerrors.CodeRetryLimit, err)
	}
	if coded.Message() != "Maximum retry attempts exceeded" {
		t.Fatalf("unexpected message %q", coded.Message())
	}
}

func TestRetryOrderRejectsTerminalStatus(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	for _, status := range []enums.FulfillmentStatus{
		enums.FulfillmentStatusCancelled,
		enums.FulfillmentStatusConfirmed,
	} {
		order := &models.FulfillmentOrder{ID: uuid.New(), UserID: userID, Status: status}
		f.repo.orders[order.ID] = order

		_, err := f.svc.RetryOrder(context.Background(), userID, order.ID)
		coded := pkgerrors.As(err)
		if coded == nil || coded.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %s order, got %v", status, err)
		}
		if order.Status != status {
			t.Fatalf("retry must not move a %s order, got %s", status, order.Status)
		}
	}
	if len(f.repo.updates) != 0 {
		t.Fatalf("terminal orders must not be written, got %d updates", len(f.repo.updates))
	}
}

func TestRetryOrderIncrementsAndReruns(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	f.addSupplier(userID, "WIDGET-1", "Acme Supply", decimal.NewFromFloat(4.00), placedOrder("ACME-2"))

	message := "no connection found"
	order := &models.FulfillmentOrder{
		ID:           uuid.New(),
		UserID:       userID,
		Status:       enums.FulfillmentStatusFailed,
		RetryCount:   1,
		ErrorMessage: &message,
		OrderItems: []types.OrderItem{
			{ProductID: uuid.New(), SKU: "WIDGET-1", Quantity: 1, Price: decimal.NewFromFloat(9.00)},
		},
		TotalAmount: decimal.NewFromFloat(9.00),
	}
	f.repo.orders[order.ID] = order

	result, err := f.svc.RetryOrder(context.Background(), userID, order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated := result.FulfillmentOrder
	if updated.RetryCount != 2 {
		t.Fatalf("expected retry count 2, got %d", updated.RetryCount)
	}
	if updated.LastRetryAt == nil || !updated.LastRetryAt.Equal(fixedNow()) {
		t.Fatal("last retry timestamp not set")
	}
	if updated.Status != enums.FulfillmentStatusConfirmed {
		t.Fatalf("expected confirmed after successful retry, got %s", updated.Status)
	}
	if updated.ErrorMessage != nil {
		t.Fatal("error message not cleared on retry")
	}

	seen := f.events.typesSeen()
	if seen[0] != events.TypeOrderRetry {
		t.Fatalf("expected order_retry first, got %v", seen)
	}
	if f.events.entries[0].EventStatus != enums.EventStatusPending {
		t.Fatalf("expected pending retry event, got %s", f.events.entries[0].EventStatus)
	}
}

func TestCancelOrderIsIdempotent(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	order := &models.FulfillmentOrder{ID: uuid.New(), UserID: userID, Status: enums.FulfillmentStatusProcessing}
	f.repo.orders[order.ID] = order

	first, err := f.svc.CancelOrder(context.Background(), userID, order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Order.Status != enums.FulfillmentStatusCancelled {
		t.Fatalf("expected cancelled, got %s", first.Order.Status)
	}
	if len(f.repo.updates) != 1 {
		t.Fatalf("expected one update, got %d", len(f.repo.updates))
	}

	second, err := f.svc.CancelOrder(context.Background(), userID, order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Success || second.Order.Status != enums.FulfillmentStatusCancelled {
		t.Fatal("second cancel must succeed without changing status")
	}
	if len(f.repo.updates) != 1 {
		t.Fatal("terminal order must not be written again")
	}
	if len(f.events.entries) != 2 {
		t.Fatalf("expected a cancel event per call, got %d", len(f.events.entries))
	}
}

func TestGetOrderStatusNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetOrderStatus(context.Background(), uuid.New(), uuid.New())
	if err == nil {
		t.Fatal("expected not found error")
	}
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected %s, got %v", pkgerrors.CodeNotFound, err)
	}
	if coded.Message() != "Order not found" {
		t.Fatalf("unexpected message %q", coded.Message())
	}
}

func TestGetOrderStatusScopedToUser(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	order := &models.FulfillmentOrder{ID: uuid.New(), UserID: owner, Status: enums.FulfillmentStatusConfirmed}
	f.repo.orders[order.ID] = order

	if _, err := f.svc.GetOrderStatus(context.Background(), uuid.New(), order.ID); err == nil {
		t.Fatal("another user's order must read as not found")
	}

	result, err := f.svc.GetOrderStatus(context.Background(), owner, order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || result.Order.ID != order.ID {
		t.Fatal("owner lookup failed")
	}
}

func TestProcessPendingBatchSkipsLostClaims(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	f.addSupplier(userID, "WIDGET-1", "Acme Supply", decimal.NewFromFloat(2.00), placedOrder("ACME-3"))

	var pending []models.FulfillmentOrder
	for i := 0; i < 3; i++ {
		order := models.FulfillmentOrder{
			ID:     uuid.New(),
			UserID: userID,
			Status: enums.FulfillmentStatusPending,
			OrderItems: []types.OrderItem{
				{ProductID: uuid.New(), SKU: "WIDGET-1", Quantity: 1, Price: decimal.NewFromFloat(8.00)},
			},
			TotalAmount: decimal.NewFromFloat(8.00),
		}
		f.repo.orders[order.ID] = &order
		pending = append(pending, order)
	}
	f.repo.pending = pending
	f.repo.unclaimable[pending[1].ID] = true

	result, err := f.svc.ProcessPendingBatch(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatal("expected success")
	}
	if result.Processed != 2 {
		t.Fatalf("expected 2 processed, got %d", result.Processed)
	}
	for _, outcome := range result.Results {
		if outcome.OrderID == pending[1].ID {
			t.Fatal("lost claim must not appear in results")
		}
		if !outcome.Success {
			t.Fatalf("unexpected failure for %s: %s", outcome.OrderID, outcome.Error)
		}
	}
}

// One order erroring mid-batch must surface as a failure outcome without
// stopping the rest of the batch.
func TestProcessPendingBatchCapturesMidBatchFailure(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	f.addSupplier(userID, "WIDGET-1", "Acme Supply", decimal.NewFromFloat(2.00), placedOrder("ACME-9"))

	var pending []models.FulfillmentOrder
	for i := 0; i < 3; i++ {
		order := models.FulfillmentOrder{
			ID:     uuid.New(),
			UserID: userID,
			Status: enums.FulfillmentStatusPending,
			OrderItems: []types.OrderItem{
				{ProductID: uuid.New(), SKU: "WIDGET-1", Quantity: 1, Price: decimal.NewFromFloat(8.00)},
			},
			TotalAmount: decimal.NewFromFloat(8.00),
		}
		f.repo.orders[order.ID] = &order
		pending = append(pending, order)
	}
	f.repo.pending = pending
	f.catalog.productErrs[pending[1].OrderItems[0].ProductID] = errors.New("catalog offline")

	result, err := f.svc.ProcessPendingBatch(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Processed != 3 {
		t.Fatalf("expected 3 processed, got %d", result.Processed)
	}
	if len(result.Results) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(result.Results))
	}

	if !result.Results[0].Success || !result.Results[2].Success {
		t.Fatalf("surrounding orders must still process: %+v", result.Results)
	}
	failed := result.Results[1]
	if failed.OrderID != pending[1].ID || failed.Success {
		t.Fatalf("expected order 2 to fail, got %+v", failed)
	}
	if failed.Error == "" {
		t.Fatal("failure outcome must carry the error")
	}

	// The claimed order is parked in failed, not stranded in processing.
	stored := f.repo.orders[pending[1].ID]
	if stored.Status != enums.FulfillmentStatusFailed {
		t.Fatalf("expected failed, got %s", stored.Status)
	}
	if stored.ErrorMessage == nil {
		t.Fatal("settled order must carry the error message")
	}
}

func TestProcessPendingBatchCountsClaimErrors(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	f.addSupplier(userID, "WIDGET-1", "Acme Supply", decimal.NewFromFloat(2.00), placedOrder("ACME-10"))

	var pending []models.FulfillmentOrder
	for i := 0; i < 3; i++ {
		order := models.FulfillmentOrder{
			ID:     uuid.New(),
			UserID: userID,
			Status: enums.FulfillmentStatusPending,
			OrderItems: []types.OrderItem{
				{ProductID: uuid.New(), SKU: "WIDGET-1", Quantity: 1, Price: decimal.NewFromFloat(8.00)},
			},
			TotalAmount: decimal.NewFromFloat(8.00),
		}
		f.repo.orders[order.ID] = &order
		pending = append(pending, order)
	}
	f.repo.pending = pending
	f.repo.claimErrs[pending[1].ID] = errors.New("db timeout")

	result, err := f.svc.ProcessPendingBatch(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Processed != 3 {
		t.Fatalf("expected 3 processed, got %d", result.Processed)
	}
	failed := result.Results[1]
	if failed.OrderID != pending[1].ID || failed.Success || failed.Error == "" {
		t.Fatalf("expected claim error outcome for order 2, got %+v", failed)
	}
	if !result.Results[0].Success || !result.Results[2].Success {
		t.Fatalf("surrounding orders must still process: %+v", result.Results)
	}

	// The order was never claimed, so it stays pending for the next sweep.
	if got := f.repo.orders[pending[1].ID].Status; got != enums.FulfillmentStatusPending {
		t.Fatalf("expected pending, got %s", got)
	}
}

func TestProcessPendingBatchHonorsLimit(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	for i := 0; i < 60; i++ {
		order := models.FulfillmentOrder{
			ID:     uuid.New(),
			UserID: userID,
			Status: enums.FulfillmentStatusPending,
			OrderItems: []types.OrderItem{
				{ProductID: uuid.New(), SKU: fmt.Sprintf("SKU-%d", i), Quantity: 1},
			},
		}
		f.repo.orders[order.ID] = &order
		f.repo.pending = append(f.repo.pending, order)
	}

	result, err := f.svc.ProcessPendingBatch(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Processed != 50 {
		t.Fatalf("expected batch capped at 50, got %d", result.Processed)
	}
}

package suppliers

import (
	"context"
	"testing"
	"time"

	"github.com/shopopti/fulfillment-backend/pkg/config"
	"github.com/shopopti/fulfillment-backend/pkg/enums"
	pkgerrors "github.com/shopopti/fulfillment-backend/pkg/errors"
	"github.com/shopopti/fulfillment-backend/pkg/types"
)

func fixedClock() Clock {
	at := time.UnixMilli(1717171717171)
	return func() time.Time { return at }
}

func TestRegistryRoutesByType(t *testing.T) {
	registry := NewRegistry(config.SuppliersConfig{HTTPTimeout: time.Second}, fixedClock())

	tests := []struct {
		supplierType enums.SupplierType
		want         enums.SupplierType
	}{
		{enums.SupplierTypeCJDropshipping, enums.SupplierTypeCJDropshipping},
		{enums.SupplierTypeBigBuy, enums.SupplierTypeBigBuy},
		{enums.SupplierTypeBTSWholesaler, enums.SupplierTypeBTSWholesaler},
		{enums.SupplierTypeAliExpress, enums.SupplierTypeAliExpress},
		{enums.SupplierTypeOther, enums.SupplierTypeOther},
		{"unheard_of", enums.SupplierTypeOther},
	}

	for _, tt := range tests {
		adapter := registry.For(tt.supplierType)
		if adapter.Type() != tt.want {
			t.Fatalf("For(%s) routed to %s, want %s", tt.supplierType, adapter.Type(), tt.want)
		}
	}
}

func TestBTSPlaceOrderSynthesizesReference(t *testing.T) {
	client := NewBTSClient(fixedClock())
	connection := testConnection(nil)
	connection.SupplierName = "BTS Wholesaler"

	order, err := client.PlaceOrder(context.Background(), connection, testPlaceOrderRequest())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if order.OrderID != "BTS-1717171717171" {
		t.Fatalf("unexpected reference %q", order.OrderID)
	}
	if order.Status != "pending_confirmation" {
		t.Fatalf("unexpected status %q", order.Status)
	}
	if order.ItemsCount != 1 {
		t.Fatalf("unexpected items count %d", order.ItemsCount)
	}
}

func TestAliExpressPlaceOrder(t *testing.T) {
	client := NewAliExpressClient(fixedClock())

	t.Run("missing app key", func(t *testing.T) {
		_, err := client.PlaceOrder(context.Background(), testConnection(nil), testPlaceOrderRequest())
		if err == nil {
			t.Fatal("expected credentials error")
		}
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeSupplierAuth {
			t.Fatalf("expected supplier auth code, got %v", err)
		}
	})

	t.Run("pending reference", func(t *testing.T) {
		connection := testConnection(types.JSONMap{"app_key": "ali-key"})
		order, err := client.PlaceOrder(context.Background(), connection, testPlaceOrderRequest())
		if err != nil {
			t.Fatalf("place order: %v", err)
		}
		if order.OrderID != "ALI-1717171717171" {
			t.Fatalf("unexpected reference %q", order.OrderID)
		}
		if order.Status != "pending" {
			t.Fatalf("unexpected status %q", order.Status)
		}
	})
}

func TestGenericPlaceOrderUsesConnectionName(t *testing.T) {
	client := NewGenericClient(fixedClock())
	connection := testConnection(nil)
	connection.SupplierName = "Acme Wholesale"

	order, err := client.PlaceOrder(context.Background(), connection, testPlaceOrderRequest())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if order.OrderID != "ORD-1717171717171" {
		t.Fatalf("unexpected reference %q", order.OrderID)
	}
	if order.SupplierName != "Acme Wholesale" {
		t.Fatalf("unexpected supplier name %q", order.SupplierName)
	}
}

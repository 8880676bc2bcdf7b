package suppliers

import (
	"net/http"
	"time"

	"github.com/shopopti/fulfillment-backend/pkg/config"
	"github.com/shopopti/fulfillment-backend/pkg/enums"
)

// Registry routes supplier connections to the adapter matching their typed
// integration. Unknown types fall back to the generic adapter.
type Registry struct {
	adapters map[enums.SupplierType]Adapter
	fallback Adapter
}

// NewRegistry wires the built-in adapters from configuration. A nil clock
// defaults to time.Now.
func NewRegistry(cfg config.SuppliersConfig, now Clock) *Registry {
	if now == nil {
		now = time.Now
	}
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	registry := &Registry{
		adapters: make(map[enums.SupplierType]Adapter),
		fallback: NewGenericClient(now),
	}
	registry.Register(NewCJClient(
		WithCJBaseURL(cfg.CJBaseURL),
		WithCJHTTPClient(httpClient),
	))
	registry.Register(NewBigBuyClient(
		WithBigBuyBaseURL(cfg.BigBuyBaseURL),
		WithBigBuyHTTPClient(httpClient),
	))
	registry.Register(NewBTSClient(now))
	registry.Register(NewAliExpressClient(now))
	return registry
}

// Register adds or replaces the adapter for its supplier type.
func (r *Registry) Register(adapter Adapter) {
	if adapter == nil {
		return
	}
	r.adapters[adapter.Type()] = adapter
}

// For returns the adapter for the supplier type, or the generic fallback.
func (r *Registry) For(supplierType enums.SupplierType) Adapter {
	if adapter, ok := r.adapters[supplierType]; ok {
		return adapter
	}
	return r.fallback
}

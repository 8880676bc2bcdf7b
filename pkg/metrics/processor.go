package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ProcessorMetrics records the outcomes of the fulfillment pipeline.
type ProcessorMetrics struct {
	duration *prometheus.HistogramVec
	orders   *prometheus.CounterVec
	dispatch *prometheus.CounterVec
}

// NewProcessorMetrics registers the fulfillment metrics on the provided registerer.
func NewProcessorMetrics(reg prometheus.Registerer) *ProcessorMetrics {
	if reg == nil {
		return &ProcessorMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fulfillment_order_duration_seconds",
		Help:    "Time spent processing a fulfillment order.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_orders_total",
		Help: "Processed fulfillment orders by final status.",
	}, []string{"outcome"})
	dispatch := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_supplier_dispatch_total",
		Help: "Upstream supplier order placements by supplier type and result.",
	}, []string{"supplier_type", "result"})
	reg.MustRegister(duration, orders, dispatch)
	return &ProcessorMetrics{
		duration: duration,
		orders:   orders,
		dispatch: dispatch,
	}
}

// ObserveOrder records one processed order with its final status.
func (p *ProcessorMetrics) ObserveOrder(outcome string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	label := normalizeLabel(outcome)
	p.duration.WithLabelValues(label).Observe(duration.Seconds())
	p.orders.WithLabelValues(label).Inc()
}

// IncDispatch records one supplier order placement attempt.
func (p *ProcessorMetrics) IncDispatch(supplierType, result string) {
	if p == nil || p.dispatch == nil {
		return
	}
	p.dispatch.WithLabelValues(normalizeLabel(supplierType), normalizeLabel(result)).Inc()
}

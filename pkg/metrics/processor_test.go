package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestProcessorMetricsExports(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewProcessorMetrics(reg)

	metrics.ObserveOrder("confirmed", 120*time.Millisecond)
	metrics.ObserveOrder("failed", 80*time.Millisecond)
	metrics.IncDispatch("cj_dropshipping", "success")
	metrics.IncDispatch("bigbuy", "error")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "fulfillment_orders_total", "outcome", "confirmed"); err != nil {
		t.Fatalf("fetch confirmed: %v", err)
	} else if got != 1 {
		t.Fatalf("expected confirmed=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "fulfillment_supplier_dispatch_total", "supplier_type", "cj_dropshipping"); err != nil {
		t.Fatalf("fetch dispatch: %v", err)
	} else if got != 1 {
		t.Fatalf("expected dispatch=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "fulfillment_order_duration_seconds", "outcome", "failed"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestProcessorMetricsNilSafe(t *testing.T) {
	var metrics *ProcessorMetrics
	metrics.ObserveOrder("confirmed", time.Second)
	metrics.IncDispatch("bigbuy", "success")
}

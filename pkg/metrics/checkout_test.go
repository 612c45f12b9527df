package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCheckoutMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.ObserveSale(5.43)
	m.ObserveSale(97.65)
	m.IncFailure("EMPTY_CART")
	m.IncFailure("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "pos_transactions_total", "", ""); err != nil {
		t.Fatalf("fetch transactions: %v", err)
	} else if got != 2 {
		t.Fatalf("expected transactions=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "pos_checkout_failures_total", "code", "EMPTY_CART"); err != nil {
		t.Fatalf("fetch failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failures=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "pos_checkout_failures_total", "code", "unknown"); err != nil {
		t.Fatalf("fetch unknown failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected unknown failures=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "pos_sale_total_dollars"); err != nil {
		t.Fatalf("fetch sale total: %v", err)
	} else if got <= 100 {
		t.Fatalf("expected sale total sum > 100, got %f", got)
	}
}

func TestCheckoutMetricsNilSafe(t *testing.T) {
	var m *CheckoutMetrics
	m.ObserveSale(1)
	m.IncFailure("VALIDATION_ERROR")

	unregistered := NewCheckoutMetrics(nil)
	unregistered.ObserveSale(1)
	unregistered.IncFailure("VALIDATION_ERROR")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if label == "" {
			return metric.GetCounter().GetValue(), nil
		}
		for _, pair := range metric.GetLabel() {
			if pair.GetName() == label && pair.GetValue() == value {
				return metric.GetCounter().GetValue(), nil
			}
		}
	}
	return 0, fmt.Errorf("metric %q with %s=%s not found", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		return metric.GetHistogram().GetSampleSum(), nil
	}
	return 0, fmt.Errorf("metric %q has no samples", name)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

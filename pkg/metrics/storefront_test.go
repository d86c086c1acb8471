package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestStorefrontMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStorefrontMetrics(reg)

	m.ObserveStorage("set", "cart", nil)
	m.ObserveStorage("set", "cart", errors.New("quota exceeded"))
	m.ObserveStorage("get", "wishlist", nil)
	m.IncMutation("cart", "add")
	m.IncMutation("cart", "add")
	m.ObserveSubmission("checkout", nil)
	m.IncDroppedEvent()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "storage_operations_total", map[string]string{"op": "set", "key": "cart", "result": ResultFailure}); err != nil {
		t.Fatalf("fetch storage failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected one failed write, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "state_mutations_total", map[string]string{"collection": "cart", "op": "add"}); err != nil {
		t.Fatalf("fetch mutations: %v", err)
	} else if got != 2 {
		t.Fatalf("expected two cart adds, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "form_submissions_total", map[string]string{"form": "checkout", "result": ResultSuccess}); err != nil {
		t.Fatalf("fetch submissions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected one checkout submission, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "wishlist_events_dropped_total", nil); err != nil {
		t.Fatalf("fetch dropped: %v", err)
	} else if got != 1 {
		t.Fatalf("expected one dropped event, got %f", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var m *StorefrontMetrics
	m.ObserveStorage("set", "cart", nil)
	m.IncMutation("cart", "add")
	m.ObserveSubmission("contact", nil)
	m.IncDroppedEvent()

	unregistered := NewStorefrontMetrics(nil)
	unregistered.IncMutation("wishlist", "toggle")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	for name, value := range want {
		found := false
		for _, pair := range pairs {
			if pair.GetName() == name && pair.GetValue() == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

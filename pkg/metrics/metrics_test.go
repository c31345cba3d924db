package metrics

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/goliatone/go-erp-dashboard/components/dashboard"
)

func TestDashboardMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDashboardMetrics(reg)
	ctx := context.Background()
	m.Record(ctx, "dashboard.page.layout", map[string]any{"page": "inventory", "duration_seconds": 0.25})
	m.Record(ctx, "dashboard.widget.provider_error", map[string]any{"definition_id": "erp.widget.kpi_cards"})
	m.Record(ctx, "dashboard.filter.apply", map[string]any{"page": "inventory", "category": "furniture"})
	m.Record(ctx, "dashboard.filter.apply", map[string]any{"page": "inventory", "category": "furniture"})

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "erp_dashboard_events_total", "event", "dashboard.filter.apply"); err != nil {
		t.Fatalf("fetch events: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 filter events, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "erp_dashboard_provider_errors_total", "definition", "erp.widget.kpi_cards"); err != nil {
		t.Fatalf("fetch provider errors: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 provider error, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "erp_dashboard_filter_changes_total", "category", "furniture"); err != nil {
		t.Fatalf("fetch filters: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 filter changes, got %f", got)
	}
	if got, err := fetchHistogramSum(mfs, "erp_dashboard_page_layout_duration_seconds", "page", "inventory"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got != 0.25 {
		t.Fatalf("expected duration sum 0.25, got %f", got)
	}
}

func TestNilRegistererDropsEvents(t *testing.T) {
	m := NewDashboardMetrics(nil)
	m.Record(context.Background(), "dashboard.page.layout", map[string]any{"duration_seconds": 1.0})
	var nilMetrics *DashboardMetrics
	nilMetrics.Record(context.Background(), "x", nil)
}

type fakeBroadcast struct{}

func (fakeBroadcast) Subscribers() int { return 3 }
func (fakeBroadcast) Dropped() uint64  { return 7 }

type fakeCache struct{}

func (fakeCache) Stats() dashboard.CacheStats {
	return dashboard.CacheStats{Hits: 5, Misses: 2, Entries: 2}
}

func TestStateCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewStateCollector(fakeCache{}, fakeBroadcast{}))
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	expect := map[string]float64{
		"erp_dashboard_chart_cache_hits_total":   5,
		"erp_dashboard_chart_cache_misses_total": 2,
		"erp_dashboard_chart_cache_entries":      2,
		"erp_dashboard_broadcast_subscribers":    3,
		"erp_dashboard_broadcast_dropped_total":  7,
	}
	for name, want := range expect {
		mf := findMetricFamily(mfs, name)
		if mf == nil {
			t.Fatalf("metric %q not found", name)
		}
		metric := mf.GetMetric()[0]
		got := metric.GetGauge().GetValue()
		if mf.GetType() == dto.MetricType_COUNTER {
			got = metric.GetCounter().GetValue()
		}
		if got != want {
			t.Fatalf("%s: expected %f, got %f", name, want, got)
		}
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}

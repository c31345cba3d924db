package metrics

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-erp-dashboard/components/dashboard"
)

const namespace = "erp_dashboard"

// DashboardMetrics records dashboard telemetry events as Prometheus series.
type DashboardMetrics struct {
	events         *prometheus.CounterVec
	layoutDuration *prometheus.HistogramVec
	providerErrors *prometheus.CounterVec
	filters        *prometheus.CounterVec
}

var _ dashboard.Telemetry = (*DashboardMetrics)(nil)

// NewDashboardMetrics registers the dashboard metrics on reg. A nil
// registerer yields a recorder that drops everything.
func NewDashboardMetrics(reg prometheus.Registerer) *DashboardMetrics {
	if reg == nil {
		return &DashboardMetrics{}
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_total",
		Help:      "Dashboard telemetry events by name.",
	}, []string{"event"})
	layoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "page_layout_duration_seconds",
		Help:      "Time spent resolving a page layout with provider data.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"page"})
	providerErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_errors_total",
		Help:      "Widget provider failures by widget definition.",
	}, []string{"definition"})
	filters := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "filter_changes_total",
		Help:      "Filter selections applied per page and category.",
	}, []string{"page", "category"})
	reg.MustRegister(events, layoutDuration, providerErrors, filters)
	return &DashboardMetrics{
		events:         events,
		layoutDuration: layoutDuration,
		providerErrors: providerErrors,
		filters:        filters,
	}
}

// Record implements dashboard.Telemetry.
func (m *DashboardMetrics) Record(_ context.Context, event string, payload map[string]any) {
	if m == nil || m.events == nil {
		return
	}
	m.events.WithLabelValues(normalizeLabel(event)).Inc()
	switch event {
	case "dashboard.page.layout":
		if seconds, ok := payload["duration_seconds"].(float64); ok {
			m.layoutDuration.WithLabelValues(label(payload, "page")).Observe(seconds)
		}
	case "dashboard.widget.provider_error":
		m.providerErrors.WithLabelValues(label(payload, "definition_id")).Inc()
	case "dashboard.filter.apply":
		m.filters.WithLabelValues(label(payload, "page"), label(payload, "category")).Inc()
	}
}

// CacheStatsSource reports chart cache counters.
type CacheStatsSource interface {
	Stats() dashboard.CacheStats
}

// BroadcastSource reports broadcast hook state.
type BroadcastSource interface {
	Subscribers() int
	Dropped() uint64
}

// StateCollector exposes chart cache and broadcast state at scrape time.
type StateCollector struct {
	mu          sync.Mutex
	cache       CacheStatsSource
	broadcast   BroadcastSource
	hits        *prometheus.Desc
	misses      *prometheus.Desc
	entries     *prometheus.Desc
	subscribers *prometheus.Desc
	dropped     *prometheus.Desc
}

var _ prometheus.Collector = (*StateCollector)(nil)

// NewStateCollector builds a collector; either source may be nil.
func NewStateCollector(cache CacheStatsSource, broadcast BroadcastSource) *StateCollector {
	return &StateCollector{
		cache:       cache,
		broadcast:   broadcast,
		hits:        prometheus.NewDesc(namespace+"_chart_cache_hits_total", "Chart renders served from cache.", nil, nil),
		misses:      prometheus.NewDesc(namespace+"_chart_cache_misses_total", "Chart renders that missed the cache.", nil, nil),
		entries:     prometheus.NewDesc(namespace+"_chart_cache_entries", "Charts currently cached.", nil, nil),
		subscribers: prometheus.NewDesc(namespace+"_broadcast_subscribers", "Open widget event subscriptions.", nil, nil),
		dropped:     prometheus.NewDesc(namespace+"_broadcast_dropped_total", "Widget events dropped for slow subscribers.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *StateCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.entries
	ch <- c.subscribers
	ch <- c.dropped
}

// Collect implements prometheus.Collector.
func (c *StateCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cache != nil {
		stats := c.cache.Stats()
		ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(stats.Hits))
		ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(stats.Misses))
		ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(stats.Entries))
	}
	if c.broadcast != nil {
		ch <- prometheus.MustNewConstMetric(c.subscribers, prometheus.GaugeValue, float64(c.broadcast.Subscribers()))
		ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(c.broadcast.Dropped()))
	}
}

func label(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return normalizeLabel(s)
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry  *prometheus.Registry
	namespace string

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Tree metrics
	NodesCreated    *prometheus.CounterVec
	EdgesCreated    prometheus.Counter
	PlaceholderHits *prometheus.CounterVec
	ActiveSessions  prometheus.GaugeFunc

	// Upstream chat-completion metrics
	UpstreamCalls    *prometheus.CounterVec
	UpstreamDuration prometheus.Histogram
}

// NewCollector creates a new metrics collector with its own registry so
// several instances can coexist in tests.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	nodesCreated := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_created_total",
			Help:      "Total number of suggestion nodes added, by category",
		},
		[]string{"category"},
	)

	edgesCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_created_total",
			Help:      "Total number of edges created",
		},
	)

	placeholderHits := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placeholder_labels_total",
			Help:      "Labels replaced by a placeholder, by reason",
		},
		[]string{"reason"},
	)

	upstreamCalls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of chat-completion requests sent upstream",
		},
		[]string{"status"},
	)

	upstreamDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream chat-completion latency in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		nodesCreated,
		edgesCreated,
		placeholderHits,
		upstreamCalls,
		upstreamDuration,
	)

	return &Collector{
		namespace:        namespace,
		registry:         registry,
		HTTPRequests:     httpRequests,
		HTTPDuration:     httpDuration,
		NodesCreated:     nodesCreated,
		EdgesCreated:     edgesCreated,
		PlaceholderHits:  placeholderHits,
		UpstreamCalls:    upstreamCalls,
		UpstreamDuration: upstreamDuration,
	}
}

// RecordNodeAdded counts one node and its edge
func (c *Collector) RecordNodeAdded(category string) {
	if c == nil {
		return
	}
	c.NodesCreated.WithLabelValues(category).Inc()
	c.EdgesCreated.Inc()
}

// RecordPlaceholder counts a label that fell back to a placeholder
func (c *Collector) RecordPlaceholder(reason string) {
	if c == nil {
		return
	}
	c.PlaceholderHits.WithLabelValues(reason).Inc()
}

// RecordUpstream records the outcome and latency of one upstream call
func (c *Collector) RecordUpstream(duration time.Duration, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.UpstreamCalls.WithLabelValues(status).Inc()
	c.UpstreamDuration.Observe(duration.Seconds())
}

// TrackActiveSessions exports count as the active_sessions gauge, read on
// every scrape
func (c *Collector) TrackActiveSessions(count func() int) {
	if c == nil {
		return
	}
	c.ActiveSessions = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: c.namespace,
			Name:      "active_sessions",
			Help:      "Number of sessions currently held in memory",
		},
		func() float64 { return float64(count()) },
	)
	c.registry.MustRegister(c.ActiveSessions)
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}

package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Operation metrics
	OperationCalls    *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// Pane metrics
	PanesOpen prometheus.Gauge
	Relayouts prometheus.Counter

	// Session metrics
	Sessions         prometheus.Gauge
	LayoutSaves      *prometheus.CounterVec
	SessionsRestored prometheus.Counter
	StoreErrors      *prometheus.CounterVec

	// Prompt metrics
	PromptDispatches *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	OpenPanes         int64   `json:"open_panes"`
	Sessions          int64   `json:"sessions"`
	ActiveConnections int64   `json:"active_connections"`
	LayoutSaves       int64   `json:"layout_saves"`
	StoreErrors       int64   `json:"store_errors"`
	AvgRequestSeconds float64 `json:"avg_request_seconds"`
	UptimeSeconds     float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a metrics collector backed by its own registry, so
// several collectors can coexist in one process (tests, CLI + server).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polychat_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "polychat_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "polychat_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "polychat_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		// Operation metrics
		OperationCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polychat_operation_calls_total",
				Help: "Total number of timed internal operations",
			},
			[]string{"component", "operation", "status"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "polychat_operation_duration_seconds",
				Help:    "Internal operation duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"component", "operation"},
		),

		// Pane metrics
		PanesOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "polychat_panes_open",
				Help: "Number of live panes",
			},
		),
		Relayouts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "polychat_relayouts_total",
				Help: "Total number of pane relayouts",
			},
		),

		// Session metrics
		Sessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "polychat_sessions",
				Help: "Number of sessions in the catalog",
			},
		),
		LayoutSaves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polychat_layout_saves_total",
				Help: "Total number of active-layout snapshots saved",
			},
			[]string{"reason"},
		),
		SessionsRestored: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "polychat_sessions_restored_total",
				Help: "Total number of layouts restored into panes",
			},
		),
		StoreErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polychat_store_errors_total",
				Help: "Total number of document store failures",
			},
			[]string{"document", "op"},
		),

		// Prompt metrics
		PromptDispatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polychat_prompt_dispatch_total",
				Help: "Prompt deliveries per provider",
			},
			[]string{"provider", "status"},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "polychat_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polychat_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "polychat_uptime_seconds",
			Help: "Core uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Snapshot returns the current values for the JSON health endpoint.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.RLock()
	s := m.snapshot
	m.mu.RUnlock()

	if s.TotalRequests > 0 {
		s.AvgRequestSeconds = s.totalDuration / float64(s.TotalRequests)
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordOperation records one timed internal operation
func (m *Metrics) RecordOperation(component, operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.OperationCalls.WithLabelValues(component, operation, status).Inc()
	m.OperationDuration.WithLabelValues(component, operation).Observe(duration.Seconds())
}

// SetPanesOpen sets the number of live panes
func (m *Metrics) SetPanesOpen(count int) {
	if m == nil {
		return
	}
	m.PanesOpen.Set(float64(count))
	m.mu.Lock()
	m.snapshot.OpenPanes = int64(count)
	m.mu.Unlock()
}

// IncRelayouts increments the relayout counter
func (m *Metrics) IncRelayouts() {
	if m == nil {
		return
	}
	m.Relayouts.Inc()
}

// SetSessions sets the catalog size
func (m *Metrics) SetSessions(count int) {
	if m == nil {
		return
	}
	m.Sessions.Set(float64(count))
	m.mu.Lock()
	m.snapshot.Sessions = int64(count)
	m.mu.Unlock()
}

// IncLayoutSaves counts a layout snapshot by trigger reason
func (m *Metrics) IncLayoutSaves(reason string) {
	if m == nil {
		return
	}
	m.LayoutSaves.WithLabelValues(reason).Inc()
	m.mu.Lock()
	m.snapshot.LayoutSaves++
	m.mu.Unlock()
}

// IncSessionsRestored increments the restore counter
func (m *Metrics) IncSessionsRestored() {
	if m == nil {
		return
	}
	m.SessionsRestored.Inc()
}

// RecordStoreError counts a failed document read or write
func (m *Metrics) RecordStoreError(document, op string) {
	if m == nil {
		return
	}
	m.StoreErrors.WithLabelValues(document, op).Inc()
	m.mu.Lock()
	m.snapshot.StoreErrors++
	m.mu.Unlock()
}

// RecordPromptDispatch counts one prompt delivery attempt
func (m *Metrics) RecordPromptDispatch(provider, status string) {
	if m == nil {
		return
	}
	m.PromptDispatches.WithLabelValues(provider, status).Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

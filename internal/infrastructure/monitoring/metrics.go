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

const namespace = "giroscopio"

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Action metrics
	ActionsTotal     *prometheus.CounterVec
	ActionResolution *prometheus.CounterVec
	CommandDuration  prometheus.Histogram

	// Device metrics
	DevicesConnected  prometheus.Gauge
	StreamSubscribers prometheus.Gauge

	// System metrics
	startTime time.Time

	mu       sync.RWMutex
	snapshot Snapshot
}

// Snapshot holds running totals for quick JSON reporting.
type Snapshot struct {
	TotalRequests  int64 `json:"total_requests"`
	TotalErrors    int64 `json:"total_errors"`
	ActionFailures int64 `json:"action_failures"`
}

// NewMetrics creates a new metrics collector on its own registry
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

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "path"},
		),

		ActionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "actions_total",
				Help:      "Total number of action attempts",
			},
			[]string{"action", "result"},
		),
		ActionResolution: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "action_resolution_total",
				Help:      "How actions reached the OS (path, shell, direct, none)",
			},
			[]string{"action", "via"},
		),
		CommandDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "command_duration_seconds",
				Help:      "Synchronous shell command duration in seconds",
				Buckets:   []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60},
			},
		),

		DevicesConnected: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "devices_connected",
				Help:      "Number of distinct devices seen since start",
			},
		),
		StreamSubscribers: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "stream_subscribers",
				Help:      "Number of live statistics stream subscribers",
			},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Agent uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordAction records one action attempt and how it was resolved
func (m *Metrics) RecordAction(action string, success bool, via string) {
	result := "success"
	if !success {
		result = "failure"
		m.mu.Lock()
		m.snapshot.ActionFailures++
		m.mu.Unlock()
	}
	m.ActionsTotal.WithLabelValues(action, result).Inc()
	if via != "" {
		m.ActionResolution.WithLabelValues(action, via).Inc()
	}
}

// ObserveCommand records a synchronous command duration
func (m *Metrics) ObserveCommand(duration time.Duration) {
	m.CommandDuration.Observe(duration.Seconds())
}

// SetDevicesConnected sets the number of distinct devices
func (m *Metrics) SetDevicesConnected(count int) {
	m.DevicesConnected.Set(float64(count))
}

// IncStreamSubscribers increments live stream subscribers
func (m *Metrics) IncStreamSubscribers() {
	m.StreamSubscribers.Inc()
}

// DecStreamSubscribers decrements live stream subscribers
func (m *Metrics) DecStreamSubscribers() {
	m.StreamSubscribers.Dec()
}

// Uptime returns time since the metrics were created
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}

// Snapshot returns the running totals
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

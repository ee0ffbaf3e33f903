package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Application metrics
	AppsRegistered prometheus.Gauge
	AppsActive     prometheus.Gauge
	Activations    *prometheus.CounterVec
	AppFailures    *prometheus.CounterVec

	// Frame metrics
	RenderDuration *prometheus.HistogramVec
	FramesTotal    prometheus.Counter

	// Input metrics
	InputEvents *prometheus.CounterVec

	// Admin HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// System metrics
	Uptime    prometheus.GaugeFunc
	startTime time.Time

	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current metric values for the JSON API
type Snapshot struct {
	RegisteredApps int64   `json:"registered_apps"`
	ActiveApps     int64   `json:"active_apps"`
	Activations    int64   `json:"activations"`
	Frames         int64   `json:"frames"`
	Failures       int64   `json:"failures"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
}

// NewMetrics creates a metrics collector registered against reg.
// Pass prometheus.DefaultRegisterer in production and a fresh
// prometheus.NewRegistry() in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),

		AppsRegistered: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tablet_apps_registered",
				Help: "Number of registered applications",
			},
		),
		AppsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tablet_apps_active",
				Help: "Number of active applications (0 or 1)",
			},
		),
		Activations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tablet_app_activations_total",
				Help: "Total number of application activations",
			},
			[]string{"app"},
		),
		AppFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tablet_app_failures_total",
				Help: "Total number of application failures by stage",
			},
			[]string{"app", "stage"},
		),

		RenderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tablet_render_duration_seconds",
				Help:    "Application render duration in seconds",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .016, .033, .05, .1, .25},
			},
			[]string{"app"},
		),
		FramesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tablet_frames_total",
				Help: "Total number of frames rendered",
			},
		),

		InputEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tablet_input_events_total",
				Help: "Total number of input events forwarded to applications",
			},
			[]string{"app", "kind"},
		),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tablet_admin_requests_total",
				Help: "Total number of admin HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tablet_admin_request_duration_seconds",
				Help:    "Admin HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),
	}

	m.Uptime = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "tablet_uptime_seconds",
			Help: "Host uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// SetAppsRegistered sets the number of registered applications
func (m *Metrics) SetAppsRegistered(count int) {
	m.AppsRegistered.Set(float64(count))
	m.mu.Lock()
	m.snapshot.RegisteredApps = int64(count)
	m.mu.Unlock()
}

// SetAppsActive sets the number of active applications
func (m *Metrics) SetAppsActive(count int) {
	m.AppsActive.Set(float64(count))
	m.mu.Lock()
	m.snapshot.ActiveApps = int64(count)
	m.mu.Unlock()
}

// IncActivations records an activation of appID
func (m *Metrics) IncActivations(appID string) {
	m.Activations.WithLabelValues(appID).Inc()
	m.mu.Lock()
	m.snapshot.Activations++
	m.mu.Unlock()
}

// RecordFailure records an application failure at the given stage
// ("init", "render", "mouse", "key")
func (m *Metrics) RecordFailure(appID, stage string) {
	m.AppFailures.WithLabelValues(appID, stage).Inc()
	m.mu.Lock()
	m.snapshot.Failures++
	m.mu.Unlock()
}

// RecordRender records one rendered frame
func (m *Metrics) RecordRender(appID string, duration time.Duration) {
	m.RenderDuration.WithLabelValues(appID).Observe(duration.Seconds())
	m.FramesTotal.Inc()
	m.mu.Lock()
	m.snapshot.Frames++
	m.mu.Unlock()
}

// RecordInput records an input event of the given kind ("mouse", "key")
func (m *Metrics) RecordInput(appID, kind string) {
	m.InputEvents.WithLabelValues(appID, kind).Inc()
}

// RecordHTTPRequest records an admin HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Snapshot returns the current metric values
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}

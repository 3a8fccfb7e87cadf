package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/GriffinCanCode/novashell/internal/domain/device"
	"github.com/GriffinCanCode/novashell/internal/shared/types"
)

const namespace = "novashell"

// Metrics holds all Prometheus metrics on a private registry
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Device metrics
	Battery         prometheus.Gauge
	Temperature     prometheus.Gauge
	NetworkSpeed    *prometheus.GaugeVec
	BlockedTrackers prometheus.Gauge
	Toggles         *prometheus.GaugeVec
	Notifications   *prometheus.CounterVec
	LiveNotices     prometheus.Gauge
	Ticks           prometheus.Counter

	// Shell metrics
	AppsRunning prometheus.Gauge
	Launches    *prometheus.CounterVec

	// Command metrics
	CommandCalls    *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

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
	ActiveConnections int64   `json:"active_connections"`
	Ticks             int64   `json:"ticks"`
	TotalDuration     float64 `json:"total_duration"` // sum of all request durations
	RequestCount      int64   `json:"request_count"`  // count for averaging
}

// NewMetrics creates a metrics collector with its own registry, so several
// servers (and tests) can coexist in one process
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
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_size_bytes",
				Help:      "HTTP request size in bytes",
				Buckets:   []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		// Device metrics
		Battery: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "device_battery_percent",
				Help:      "Simulated battery level",
			},
		),
		Temperature: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "device_temperature_celsius",
				Help:      "Simulated device temperature",
			},
		),
		NetworkSpeed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "device_network_speed_mbps",
				Help:      "Simulated network throughput in MB/s",
			},
			[]string{"direction"},
		),
		BlockedTrackers: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "device_blocked_trackers",
				Help:      "Number of tracking attempts blocked",
			},
		),
		Toggles: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "device_toggle_enabled",
				Help:      "Device toggles, 1 when enabled",
			},
			[]string{"toggle"},
		),
		Notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Notification lifecycle events",
			},
			[]string{"kind", "event"},
		),
		LiveNotices: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "notifications_live",
				Help:      "Notifications currently shown",
			},
		),
		Ticks: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "simulation_ticks_total",
				Help:      "Total number of simulation ticks",
			},
		),

		// Shell metrics
		AppsRunning: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "shell_apps_running",
				Help:      "Number of running apps",
			},
		),
		Launches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "shell_launches_total",
				Help:      "Total number of app launches",
			},
			[]string{"app"},
		),

		// Command metrics
		CommandCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Total number of store commands",
			},
			[]string{"transport", "command", "status"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "command_duration_seconds",
				Help:      "Store command duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
			[]string{"transport", "command"},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ws_connections",
				Help:      "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ws_messages_total",
				Help:      "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Backend uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the registry every metric is registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Uptime returns the time since the collector was created
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordTick implements device.Recorder
func (m *Metrics) RecordTick(snap types.Snapshot) {
	m.Ticks.Inc()
	m.Battery.Set(snap.Battery)
	m.Temperature.Set(snap.Temperature)
	m.NetworkSpeed.WithLabelValues("up").Set(snap.NetworkSpeed.Up)
	m.NetworkSpeed.WithLabelValues("down").Set(snap.NetworkSpeed.Down)
	m.BlockedTrackers.Set(float64(snap.BlockedTrackers))
	m.LiveNotices.Set(float64(len(snap.Notifications)))
	for _, name := range types.Toggles {
		on, _ := snap.Toggle(name)
		m.Toggles.WithLabelValues(string(name)).Set(boolGauge(on))
	}

	m.mu.Lock()
	m.snapshot.Ticks++
	m.mu.Unlock()
}

// RecordNotification implements device.Recorder
func (m *Metrics) RecordNotification(n types.Notification, event device.NotificationEvent) {
	m.Notifications.WithLabelValues(string(n.Kind), string(event)).Inc()
	switch event {
	case device.EventAdded:
		m.LiveNotices.Inc()
	case device.EventExpired, device.EventDismissed:
		m.LiveNotices.Dec()
	}
}

// RecordLaunch records an app launch
func (m *Metrics) RecordLaunch(app types.AppID, running int) {
	m.Launches.WithLabelValues(app.String()).Inc()
	m.AppsRunning.Set(float64(running))
}

// SetAppsRunning sets the number of running apps
func (m *Metrics) SetAppsRunning(count int) {
	m.AppsRunning.Set(float64(count))
}

// RecordCommand records a store command issued over a transport
func (m *Metrics) RecordCommand(transport, command, status string, duration time.Duration) {
	m.CommandCalls.WithLabelValues(transport, command, status).Inc()
	m.CommandDuration.WithLabelValues(transport, command).Observe(duration.Seconds())
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns the current values for the JSON API
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

func boolGauge(on bool) float64 {
	if on {
		return 1
	}
	return 0
}

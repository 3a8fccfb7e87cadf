package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/novashell/internal/domain/monitor"
	"github.com/GriffinCanCode/novashell/internal/domain/shell"
	"github.com/GriffinCanCode/novashell/internal/infrastructure/monitoring"
)

// MetricsAggregator joins transport metrics with device telemetry
type MetricsAggregator struct {
	metrics   *monitoring.Metrics
	monitor   *monitor.Monitor
	navigator *shell.Navigator
}

// NewMetricsAggregator creates a metrics aggregator
func NewMetricsAggregator(metrics *monitoring.Metrics, mon *monitor.Monitor, nav *shell.Navigator) *MetricsAggregator {
	return &MetricsAggregator{
		metrics:   metrics,
		monitor:   mon,
		navigator: nav,
	}
}

// MetricsSnapshot represents a snapshot of all service metrics
type MetricsSnapshot struct {
	Timestamp time.Time                  `json:"timestamp"`
	Backend   monitoring.MetricsSnapshot `json:"backend"`
	Device    monitor.Summary            `json:"device"`
	Shell     shell.Stats                `json:"shell"`
	Summary   MetricsSummary             `json:"summary"`
}

// MetricsSummary provides high-level metrics
type MetricsSummary struct {
	TotalRequests     int64   `json:"total_requests"`
	AverageLatencyMs  float64 `json:"average_latency_ms"`
	ErrorRate         float64 `json:"error_rate"`
	ActiveConnections int     `json:"active_connections"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// GetAggregatedMetrics returns all metrics as JSON
func (ma *MetricsAggregator) GetAggregatedMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, ma.Snapshot())
}

// Snapshot gathers every source into one value
func (ma *MetricsAggregator) Snapshot() MetricsSnapshot {
	backend := ma.metrics.Snapshot()
	return MetricsSnapshot{
		Timestamp: time.Now(),
		Backend:   backend,
		Device:    ma.monitor.Summary(),
		Shell:     ma.navigator.Stats(),
		Summary:   ma.calculateSummary(backend),
	}
}

func (ma *MetricsAggregator) calculateSummary(snapshot monitoring.MetricsSnapshot) MetricsSummary {
	// Calculate average latency
	var avgLatency float64
	if snapshot.RequestCount > 0 {
		avgLatency = (snapshot.TotalDuration / float64(snapshot.RequestCount)) * 1000 // Convert to ms
	}

	// Calculate error rate
	var errorRate float64
	if snapshot.TotalRequests > 0 {
		errorRate = float64(snapshot.TotalErrors) / float64(snapshot.TotalRequests)
	}

	return MetricsSummary{
		TotalRequests:     snapshot.TotalRequests,
		AverageLatencyMs:  avgLatency,
		ErrorRate:         errorRate,
		ActiveConnections: int(snapshot.ActiveConnections),
		UptimeSeconds:     ma.metrics.Uptime().Seconds(),
	}
}

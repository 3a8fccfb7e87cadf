package http

import (
	"github.com/GriffinCanCode/novashell/internal/infrastructure/monitoring"
)

// HandlerMetrics wraps handlers with metrics tracking
type HandlerMetrics struct {
	metrics *monitoring.Metrics
}

// NewHandlerMetrics creates a metrics wrapper. A nil collector disables tracking.
func NewHandlerMetrics(metrics *monitoring.Metrics) *HandlerMetrics {
	return &HandlerMetrics{metrics: metrics}
}

// TrackCommand times a store command issued over HTTP
func (hm *HandlerMetrics) TrackCommand(command string) func() {
	timer := monitoring.NewTimer(hm.metrics, "http", command)
	return func() { timer.Stop("done") }
}

/*
Package monitoring provides Prometheus metrics for the NovaShell backend.

# Overview

Every collector lives on a registry owned by the Metrics value, so a process
can build as many servers as it likes (tests do) without duplicate
registration panics.

# Features

- HTTP request metrics (latency, throughput, size)
- Device telemetry gauges fed by the store on every tick
- Notification lifecycle counters (added, suppressed, expired, dismissed)
- Shell launch counters and running app gauge
- WebSocket connection and message metrics
- Go runtime, process and uptime metrics

# Usage

	metrics := monitoring.NewMetrics()

	// Feed it from the device store
	store := device.New(device.WithRecorder(metrics))

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Time commands
	timer := monitoring.NewTimer(metrics, "ws", "toggle")
	// ... apply command ...
	timer.Stop("success")

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring

// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Components take a *zap.Logger; use Component to hand each one a named child
// so log lines carry "device", "shell", "http" or "ws".
//
// Example Usage:
//
//	logger, err := logging.New(logging.FromSettings(cfg.Logging))
//	store := device.New(device.WithLogger(logger.Component("device")))
//	logger.Info("Server starting", zap.String("port", "8000"))
package logging

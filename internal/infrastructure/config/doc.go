// Package config provides 12-factor configuration management for the NovaShell backend.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - GRPC: Health service settings
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - Simulation: Device store seed and timing
//   - Shell: Lock screen PIN and app catalog file
//   - Monitor: Telemetry history length
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, GRPC_PORT, GRPC_ENABLED
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - SIM_SEED, SIM_TICK_INTERVAL, SIM_TIP_DELAY
//   - SHELL_PIN, APP_CATALOG, MONITOR_HISTORY
package config

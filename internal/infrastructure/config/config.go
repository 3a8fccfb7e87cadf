package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	GRPC       GRPCConfig
	Logging    LogConfig
	RateLimit  RateLimitConfig
	Simulation SimulationConfig
	Shell      ShellConfig
	Monitor    MonitorConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	// AllowedOrigins is a comma separated list; "*" admits any origin
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
}

// GRPCConfig holds the health service configuration.
type GRPCConfig struct {
	Port    string `envconfig:"GRPC_PORT" default:"50051"`
	Enabled bool   `envconfig:"GRPC_ENABLED" default:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// SimulationConfig holds device store configuration. A zero seed picks one
// from the clock.
type SimulationConfig struct {
	Seed         uint64        `envconfig:"SIM_SEED" default:"0"`
	TickInterval time.Duration `envconfig:"SIM_TICK_INTERVAL" default:"2s"`
	TipDelay     time.Duration `envconfig:"SIM_TIP_DELAY" default:"3s"`
}

// ShellConfig holds lock screen and catalog configuration.
type ShellConfig struct {
	PIN     string `envconfig:"SHELL_PIN" default:"1234"`
	Catalog string `envconfig:"APP_CATALOG"`
}

// MonitorConfig holds telemetry history configuration.
type MonitorConfig struct {
	History int `envconfig:"MONITOR_HISTORY" default:"150"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	switch {
	case c.Simulation.TickInterval <= 0:
		return fmt.Errorf("invalid config: SIM_TICK_INTERVAL must be positive, got %s", c.Simulation.TickInterval)
	case c.Simulation.TipDelay <= 0:
		return fmt.Errorf("invalid config: SIM_TIP_DELAY must be positive, got %s", c.Simulation.TipDelay)
	case c.Shell.PIN == "":
		return fmt.Errorf("invalid config: SHELL_PIN must not be empty")
	case c.Monitor.History <= 0:
		return fmt.Errorf("invalid config: MONITOR_HISTORY must be positive, got %d", c.Monitor.History)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8000",
			Host:           "0.0.0.0",
			AllowedOrigins: []string{"*"},
		},
		GRPC: GRPCConfig{
			Port:    "50051",
			Enabled: true,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Simulation: SimulationConfig{
			TickInterval: 2 * time.Second,
			TipDelay:     3 * time.Second,
		},
		Shell: ShellConfig{
			PIN: "1234",
		},
		Monitor: MonitorConfig{
			History: 150,
		},
	}
}

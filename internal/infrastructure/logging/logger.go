package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/GriffinCanCode/novashell/internal/infrastructure/config"
)

// ServiceName is attached to every log line
const ServiceName = "novashell"

// Logger wraps zap.Logger so components can ask for named children.
type Logger struct {
	*zap.Logger
}

// Config selects level, encoding and sinks.
type Config struct {
	// Level is debug, info, warn or error. Empty means info, or debug in
	// development.
	Level       string
	Development bool
	OutputPaths []string
}

// FromSettings maps the LOG_LEVEL and LOG_DEV settings onto a Config.
func FromSettings(s config.LogConfig) Config {
	return Config{Level: s.Level, Development: s.Development}
}

// New builds a logger: JSON in production, coloured console in development.
func New(cfg Config) (*Logger, error) {
	level, err := parseLevel(cfg.Level, cfg.Development)
	if err != nil {
		return nil, err
	}

	zapCfg := productionConfig()
	if cfg.Development {
		zapCfg = developmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{"stdout"}
	if len(cfg.OutputPaths) > 0 {
		zapCfg.OutputPaths = cfg.OutputPaths
	}

	logger, err := zapCfg.Build(zap.Fields(zap.String("service", ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return &Logger{Logger: logger}, nil
}

// NewNop creates a logger that discards everything.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Component returns a child logger tagged with a component name.
func (l *Logger) Component(name string) *zap.Logger {
	return l.Named(name)
}

func parseLevel(level string, development bool) (zapcore.Level, error) {
	if level == "" {
		if development {
			return zapcore.DebugLevel, nil
		}
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

// productionConfig keeps zap's sampling and renames keys for log shippers.
func productionConfig() zap.Config {
	c := zap.NewProductionConfig()
	c.EncoderConfig.TimeKey = "timestamp"
	c.EncoderConfig.MessageKey = "message"
	c.EncoderConfig.NameKey = "logger"
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	c.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
	return c
}

func developmentConfig() zap.Config {
	c := zap.NewDevelopmentConfig()
	c.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	c.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	return c
}

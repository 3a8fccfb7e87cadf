package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/novashell/internal/infrastructure/config"
	"github.com/GriffinCanCode/novashell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/novashell/internal/infrastructure/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Parse flags; explicitly set flags override the environment
	port := flag.String("port", cfg.Server.Port, "Server port")
	host := flag.String("host", cfg.Server.Host, "Server host")
	grpcPort := flag.String("grpc-port", cfg.GRPC.Port, "gRPC health port")
	noGRPC := flag.Bool("no-grpc", !cfg.GRPC.Enabled, "Disable the gRPC health service")
	seed := flag.Uint64("seed", cfg.Simulation.Seed, "Simulation seed (0 picks one from the clock)")
	tick := flag.Duration("tick", cfg.Simulation.TickInterval, "Simulation tick interval")
	catalogPath := flag.String("catalog", cfg.Shell.Catalog, "App catalog file (yaml, toml or json)")
	dev := flag.Bool("dev", cfg.Logging.Development, "Development logging")
	level := flag.String("log-level", cfg.Logging.Level, "Log level")
	flag.Parse()

	cfg.Server.Port = *port
	cfg.Server.Host = *host
	cfg.GRPC.Port = *grpcPort
	cfg.GRPC.Enabled = !*noGRPC
	cfg.Simulation.Seed = *seed
	cfg.Simulation.TickInterval = *tick
	cfg.Shell.Catalog = *catalogPath
	cfg.Logging.Development = *dev
	cfg.Logging.Level = *level

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.FromSettings(cfg.Logging))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("NovaShell device service starting")

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error("Server error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("Shut down gracefully")
}

// Package server wires the NovaShell backend together.
//
// Server Lifecycle:
//  1. Load configuration from environment/flags
//  2. Build metrics, telemetry monitor and app catalog
//  3. Mount the single device store and the shell navigator
//  4. Setup HTTP routes and middleware
//  5. Start the simulation clock, gRPC health and HTTP servers
//  6. Graceful shutdown on context cancellation
//
// Every route except /stream is gzip compressed.
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg, logger)
//	if err := srv.Run(ctx); err != nil {
//	    logger.Fatal("Server failed", zap.Error(err))
//	}
package server

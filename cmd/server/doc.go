// Command server runs the NovaShell device service.
//
// It mounts one simulated device store for the life of the process and
// exposes it over HTTP, a WebSocket stream and the gRPC health service.
//
// Configuration comes from the environment (see package config); flags
// override it:
//
//	server -port 8000 -seed 42 -tick 2s -catalog apps.toml -dev
package main

// Package client is the Go client for the NovaShell REST API and state stream.
//
// Requests are retried with backoff by a retryablehttp transport under
// resty. A circuit breaker counts transport errors and 5xx answers; while it
// is open calls fail fast with resilience.ErrCircuitOpen.
//
// Example Usage:
//
//	c := client.New(client.DefaultConfig())
//	snap, err := c.State(ctx)
//	_, err = c.SetToggle(ctx, types.ToggleWifi, false)
//
//	stream, err := c.Dial(ctx)
//	frame, err := stream.Next()
package client

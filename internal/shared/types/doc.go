// Package types provides shared data structures for the NovaShell backend.
//
// This package defines the types exchanged between the device store, the
// shell navigator and the transport layers, so every consumer sees the same
// JSON shapes.
//
// Core Types:
//   - Snapshot: Immutable copy of the simulated device state
//   - Notification: Ephemeral overlay message with a kind
//   - AppDefinition: Static app tile configuration
//   - ShellState: Lock screen, switcher and running apps
//
// Request Types:
//   - ToggleRequest, NotificationRequest: HTTP bodies
//   - WSMessage: WebSocket command frames
//
// Example Usage:
//
//	snap := store.Snapshot()
//	if snap.WifiEnabled && snap.NetworkSpeed.Down > 5 {
//	    fmt.Printf("%.1f MB/s\n", snap.NetworkSpeed.Down)
//	}
package types

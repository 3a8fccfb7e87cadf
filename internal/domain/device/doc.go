// Package device implements the simulated device-state store behind the
// NovaOS shell.
//
// The store owns the fake telemetry (battery, temperature, network speed,
// blocked trackers), the security and privacy toggles, the foregrounded app
// and the notification overlay. Every UI consumer reads snapshots and calls
// mutators; nothing outside the store writes its fields.
//
// Time:
//
// The store runs on its own session clock. Timers (the 2000 ms simulation
// tick, notification expiry, contextual and startup tips) are entries in a
// store-owned queue keyed by session time. Advance moves the clock forward
// and fires due timers in order; Run drives Advance from the wall clock. Tests
// call Advance directly and never sleep.
//
// Concurrency:
//
// Every mutator and timer handler runs to completion under the store mutex,
// so the four steps of a tick are observed as one update. Subscribers get
// snapshots over latest-wins channels that never block the store.
//
// Example Usage:
//
//	store := device.New(device.WithSeed(42), device.WithLogger(logger))
//	defer store.Close()
//	go store.Run(ctx)
//
//	sub := store.Subscribe()
//	defer sub.Close()
//	for snap := range sub.C() {
//	    fmt.Printf("battery %.1f%%\n", snap.Battery)
//	}
package device

/*
Package resilience provides a circuit breaker for calls to the NovaShell server.

Clients run each request through Do. After Threshold consecutive failures the
breaker opens and calls fail fast with ErrCircuitOpen. Once Cooldown has passed
a single probe is let through: success closes the breaker, failure reopens it.

# Usage

	breaker := resilience.New("novashell", resilience.Settings{
		Threshold: 3,
		Cooldown:  5 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Info("Circuit breaker", zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})

	snap, err := resilience.Do(breaker, func() (types.Snapshot, error) {
		return client.State(ctx)
	})

# Pattern

	Closed --[failures]-> Open --[cooldown]-> Half-Open --[success]-> Closed
	                                            |
	                                        [failure]
	                                            v
	                                          Open
*/
package resilience

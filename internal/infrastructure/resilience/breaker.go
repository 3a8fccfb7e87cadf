package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned without calling through while the breaker is open
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures the circuit breaker behavior
type Settings struct {
	// Threshold is the number of consecutive failures that opens the circuit
	Threshold uint32
	// Cooldown is how long the circuit stays open before one probe is let through
	Cooldown time.Duration
	// IsFailure classifies call errors. Nil counts every non-nil error.
	IsFailure func(error) bool
	// OnStateChange is called whenever the state changes, under no lock
	OnStateChange func(name string, from State, to State)
	// Now replaces time.Now in tests
	Now func() time.Time
}

// Breaker stops calling a failing dependency for a cool-down period
type Breaker struct {
	name     string
	settings Settings

	mu       sync.Mutex
	state    State     // Protected by mu
	failures uint32    // Protected by mu, consecutive
	openedAt time.Time // Protected by mu
	probing  bool      // Protected by mu, a half-open probe is in flight
}

// New creates a new circuit breaker with the given settings
func New(name string, settings Settings) *Breaker {
	if settings.Threshold == 0 {
		settings.Threshold = 5
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = 30 * time.Second
	}
	if settings.IsFailure == nil {
		settings.IsFailure = func(err error) bool { return err != nil }
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}
	return &Breaker{name: name, settings: settings}
}

// Name returns the name of the circuit breaker
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state, moving open to half-open once the
// cool-down has passed
func (b *Breaker) State() State {
	b.mu.Lock()
	state, change := b.refreshLocked()
	b.mu.Unlock()

	b.notify(change)
	return state
}

// Failures returns the current run of consecutive failures
func (b *Breaker) Failures() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// Do runs fn unless the breaker is open. Only one call probes a half-open
// breaker; concurrent calls are rejected until it settles.
func Do[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	probe, err := b.before()
	if err != nil {
		return zero, err
	}

	result, err := fn()
	b.after(probe, err)
	return result, err
}

type transition struct {
	from, to State
	changed  bool
}

func (b *Breaker) before() (probe bool, err error) {
	b.mu.Lock()
	state, change := b.refreshLocked()
	switch {
	case state == StateOpen:
		err = ErrCircuitOpen
	case state == StateHalfOpen && b.probing:
		err = ErrCircuitOpen
	case state == StateHalfOpen:
		b.probing = true
		probe = true
	}
	b.mu.Unlock()

	b.notify(change)
	return probe, err
}

func (b *Breaker) after(probe bool, err error) {
	b.mu.Lock()
	var change transition
	if b.settings.IsFailure(err) {
		b.failures++
		if b.state == StateHalfOpen || b.failures >= b.settings.Threshold {
			change = b.setLocked(StateOpen)
		}
	} else {
		b.failures = 0
		if b.state == StateHalfOpen {
			change = b.setLocked(StateClosed)
		}
	}
	if probe {
		b.probing = false
	}
	b.mu.Unlock()

	b.notify(change)
}

func (b *Breaker) refreshLocked() (State, transition) {
	var change transition
	if b.state == StateOpen && b.settings.Now().Sub(b.openedAt) >= b.settings.Cooldown {
		change = b.setLocked(StateHalfOpen)
	}
	return b.state, change
}

func (b *Breaker) setLocked(state State) transition {
	if b.state == state {
		return transition{}
	}
	prev := b.state
	b.state = state

	switch state {
	case StateOpen:
		b.openedAt = b.settings.Now()
	case StateClosed:
		b.failures = 0
	}
	return transition{from: prev, to: state, changed: true}
}

func (b *Breaker) notify(t transition) {
	if t.changed && b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, t.from, t.to)
	}
}

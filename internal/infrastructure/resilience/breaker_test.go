package resilience

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("server down")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestBreaker(threshold uint32) (*Breaker, *fakeClock, *[]string) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	var changes []string
	b := New("test", Settings{
		Threshold: threshold,
		Cooldown:  time.Second,
		Now:       clock.Now,
		OnStateChange: func(_ string, from, to State) {
			changes = append(changes, from.String()+"->"+to.String())
		},
	})
	return b, clock, &changes
}

func call(b *Breaker, ok bool) error {
	_, err := Do(b, func() (int, error) {
		if ok {
			return 1, nil
		}
		return 0, errDown
	})
	return err
}

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		requests      []bool // true = success, false = failure
		expectedState State
	}{
		{"stays closed on successes", []bool{true, true, true}, StateClosed},
		{"opens after consecutive failures", []bool{false, false, false}, StateOpen},
		{"success resets the failure run", []bool{false, false, true, false, false}, StateClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _, _ := newTestBreaker(3)
			for _, ok := range tt.requests {
				call(b, ok)
			}
			assert.Equal(t, tt.expectedState, b.State())
		})
	}
}

func TestBreakerFailsFastWhenOpen(t *testing.T) {
	b, _, _ := newTestBreaker(1)
	require.ErrorIs(t, call(b, false), errDown)

	called := false
	_, err := Do(b, func() (int, error) {
		called = true
		return 0, nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	b, clock, changes := newTestBreaker(2)
	call(b, false)
	call(b, false)
	require.Equal(t, StateOpen, b.State())

	clock.Advance(time.Second)
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, call(b, true))
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, uint32(0), b.Failures())
	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, *changes)
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b, clock, _ := newTestBreaker(1)
	call(b, false)
	clock.Advance(time.Second)

	require.ErrorIs(t, call(b, false), errDown)
	assert.Equal(t, StateOpen, b.State())

	clock.Advance(500 * time.Millisecond)
	assert.ErrorIs(t, call(b, true), ErrCircuitOpen)
}

func TestBreakerSingleProbe(t *testing.T) {
	b, clock, _ := newTestBreaker(1)
	call(b, false)
	clock.Advance(time.Second)

	release := make(chan struct{})
	started := make(chan struct{})
	go Do(b, func() (int, error) {
		close(started)
		<-release
		return 1, nil
	})
	<-started

	assert.ErrorIs(t, call(b, true), ErrCircuitOpen)
	close(release)

	assert.Eventually(t, func() bool { return b.State() == StateClosed }, time.Second, time.Millisecond)
}

func TestBreakerIsFailure(t *testing.T) {
	ignored := errors.New("not found")
	b := New("test", Settings{
		Threshold: 1,
		IsFailure: func(err error) bool { return err != nil && !errors.Is(err, ignored) },
	})

	_, err := Do(b, func() (int, error) { return 0, ignored })
	assert.ErrorIs(t, err, ignored)
	assert.Equal(t, StateClosed, b.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}

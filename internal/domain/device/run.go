package device

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadyRunning is returned when a second Run loop is started on a store
var ErrAlreadyRunning = errors.New("device store already running")

// idleWait bounds how long Run sleeps when no timer is pending
const idleWait = time.Minute

// Run drives the session clock from the wall clock until ctx is done or the
// store is closed. While Run is active, mutators first catch the clock up so
// timers they schedule are relative to the current time.
func (s *Store) Run(ctx context.Context) error {
	start := time.Now()

	s.mu.Lock()
	if s.clock != nil {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	base := s.now
	s.clock = func() time.Duration { return base + time.Since(start) }
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.clock = nil
		s.mu.Unlock()
	}()

	wait := time.NewTimer(idleWait)
	defer wait.Stop()

	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return nil
		}
		s.syncLocked()
		next, ok := s.nextDueLocked()
		s.mu.Unlock()

		if !ok {
			next = idleWait
		}
		wait.Reset(next)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		case <-wait.C:
		}
	}
}

// Running reports whether a Run loop currently drives the store
func (s *Store) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock != nil
}

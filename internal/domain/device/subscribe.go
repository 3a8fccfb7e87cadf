package device

import "github.com/GriffinCanCode/novashell/internal/shared/types"

// Subscription delivers snapshots of the store. The channel holds at most one
// snapshot, always the newest; intermediate versions are skipped for slow
// readers. The channel is closed by Close or when the store shuts down.
type Subscription struct {
	store *Store
	ch    chan types.Snapshot
}

// Subscribe registers a subscriber. The current snapshot is delivered
// immediately.
func (s *Store) Subscribe() *Subscription {
	sub := &Subscription{store: s, ch: make(chan types.Snapshot, 1)}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		close(sub.ch)
		return sub
	}
	sub.ch <- s.snapshotLocked()
	s.subs[sub] = struct{}{}
	return sub
}

// C returns the snapshot channel
func (sub *Subscription) C() <-chan types.Snapshot {
	return sub.ch
}

// Close detaches the subscription and closes its channel. Safe to call twice.
func (sub *Subscription) Close() {
	s := sub.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[sub]; ok {
		delete(s.subs, sub)
		close(sub.ch)
	}
}

// Subscribers returns the number of attached subscriptions
func (s *Store) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// publishLocked replaces whatever each subscriber has not read yet
func (s *Store) publishLocked(snap types.Snapshot) {
	for sub := range s.subs {
		select {
		case <-sub.ch:
		default:
		}
		sub.ch <- snap
	}
}

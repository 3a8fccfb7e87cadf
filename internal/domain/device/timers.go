package device

import (
	"container/heap"
	"time"
)

// timer is a pending callback on the session clock. Callbacks run with
// Store.mu held and commit their own changes.
type timer struct {
	id    uint64
	due   time.Duration
	fn    func()
	index int
}

// timerQueue is a min-heap ordered by due time, then by scheduling order
type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].id < q[j].id
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

// scheduleLocked queues fn to run after delay of session time and returns its handle
func (s *Store) scheduleLocked(delay time.Duration, fn func()) uint64 {
	if s.closed {
		return 0
	}
	s.nextID++
	t := &timer{id: s.nextID, due: s.now + delay, fn: fn}
	heap.Push(&s.timers, t)
	s.pending[t.id] = t

	if s.timers[0] == t {
		s.signalWake()
	}
	return t.id
}

// cancelLocked drops a pending timer. Unknown or fired handles are ignored.
func (s *Store) cancelLocked(id uint64) {
	t, ok := s.pending[id]
	if !ok {
		return
	}
	delete(s.pending, id)
	if t.index >= 0 {
		heap.Remove(&s.timers, t.index)
	}
}

func (s *Store) signalWake() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Now returns the session time
func (s *Store) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// PendingTimers returns the number of scheduled timers
func (s *Store) PendingTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Advance moves the session clock forward by d, firing every timer that falls
// due on the way in (due, scheduling) order. Timers scheduled by a callback
// fire in the same call when they fall inside the window.
func (s *Store) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanceToLocked(s.now + d)
}

// syncLocked catches the session clock up with the wall clock while Run is
// active, so a mutation never schedules against a stale time
func (s *Store) syncLocked() {
	if s.clock != nil {
		s.advanceToLocked(s.clock())
	}
}

func (s *Store) advanceToLocked(target time.Duration) {
	for !s.closed && len(s.timers) > 0 && s.timers[0].due <= target {
		t := heap.Pop(&s.timers).(*timer)
		delete(s.pending, t.id)
		if t.due > s.now {
			s.now = t.due
		}
		t.fn()
	}
	if !s.closed && target > s.now {
		s.now = target
	}
}

// nextDueLocked reports how far the earliest timer is from the session clock
func (s *Store) nextDueLocked() (time.Duration, bool) {
	if len(s.timers) == 0 {
		return 0, false
	}
	return max(s.timers[0].due-s.now, 0), true
}

package device

import (
	"sync"

	"github.com/GriffinCanCode/novashell/internal/shared/types"
)

// recorder captures everything the store reports
type recorder struct {
	mu     sync.Mutex
	ticks  []types.Snapshot
	events []recordedEvent
}

type recordedEvent struct {
	n     types.Notification
	event NotificationEvent
}

func (r *recorder) RecordTick(snap types.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, snap)
}

func (r *recorder) RecordNotification(n types.Notification, event NotificationEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{n: n, event: event})
}

func (r *recorder) count(title string, event NotificationEvent) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, e := range r.events {
		if e.n.Title == title && e.event == event {
			total++
		}
	}
	return total
}

func (r *recorder) tickCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ticks)
}

// newTestStore builds a quiet, seeded store without startup tips
func newTestStore(opts ...Option) (*Store, *recorder) {
	rec := &recorder{}
	base := []Option{WithSeed(7), WithStartupTips(nil), WithRecorder(rec)}
	s := New(append(base, opts...)...)
	return s, rec
}

func find(list []types.Notification, title, message string) (types.Notification, bool) {
	for _, n := range list {
		if n.Title == title && n.Message == message {
			return n, true
		}
	}
	return types.Notification{}, false
}

func countTitle(list []types.Notification, title string) int {
	total := 0
	for _, n := range list {
		if n.Title == title {
			total++
		}
	}
	return total
}

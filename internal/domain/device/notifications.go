package device

import (
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/novashell/internal/shared/id"
	"github.com/GriffinCanCode/novashell/internal/shared/types"
)

const (
	titleNetwork       = "Network"
	titleDownloads     = "Downloads"
	titleSecurity      = "Security"
	titleSecurityAlert = "Security Alert"
	titleBatteryLow    = "Battery Low"
	titleProTip        = "Pro Tip"

	msgDownloadPaused = "Wi-Fi disconnected. Download paused."
	msgBatteryLow     = "Battery at 20%. Connect a charger soon."
)

// ExpiryByKind keeps warnings and errors on screen longer than info and success
func ExpiryByKind(kind types.NotificationKind) time.Duration {
	switch kind {
	case types.KindWarning, types.KindError:
		return 8000 * time.Millisecond
	default:
		return 5000 * time.Millisecond
	}
}

func newNotificationID() string {
	return id.NewNotificationID().String()
}

// AddNotification shows a notification unless one with the same title and
// message is still live. An empty kind means info. The notification removes
// itself after a kind-dependent delay.
func (s *Store) AddNotification(title, message string, kind types.NotificationKind) (types.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.Notification{}, false
	}
	s.syncLocked()
	n, added := s.addNotificationLocked(title, message, kind)
	if added {
		s.commitLocked()
	}
	return n, added
}

func (s *Store) addNotificationLocked(title, message string, kind types.NotificationKind) (types.Notification, bool) {
	if kind == "" {
		kind = types.KindInfo
	}

	for _, live := range s.state.notifications {
		if live.Title == title && live.Message == message {
			s.logger.Debug("Duplicate notification suppressed",
				zap.String("title", title),
				zap.String("live_id", live.ID),
			)
			s.record(live, EventSuppressed)
			return live, false
		}
	}

	n := types.Notification{
		ID:      s.newID(),
		Title:   title,
		Message: message,
		Kind:    kind,
	}
	s.state.notifications = append(s.state.notifications, n)

	nid := n.ID
	s.expiry[nid] = s.scheduleLocked(s.expiryFor(kind), func() {
		delete(s.expiry, nid)
		if removed, ok := s.removeLocked(nid); ok {
			s.record(removed, EventExpired)
			s.commitLocked()
		}
	})

	s.logger.Debug("Notification added",
		zap.String("id", n.ID),
		zap.String("kind", string(kind)),
		zap.String("title", title),
	)
	s.record(n, EventAdded)
	return n, true
}

// RemoveNotification dismisses a notification. Unknown ids are ignored.
func (s *Store) RemoveNotification(nid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.syncLocked()
	removed, ok := s.removeLocked(nid)
	if !ok {
		return false
	}
	s.cancelLocked(s.expiry[nid])
	delete(s.expiry, nid)
	s.record(removed, EventDismissed)
	s.commitLocked()
	return true
}

func (s *Store) removeLocked(nid string) (types.Notification, bool) {
	list := s.state.notifications
	for i, n := range list {
		if n.ID == nid {
			s.state.notifications = append(list[:i:i], list[i+1:]...)
			return n, true
		}
	}
	return types.Notification{}, false
}

// scheduleTipLocked arms the contextual tip for a freshly foregrounded app
func (s *Store) scheduleTipLocked(app types.AppID) {
	text, ok := s.tips[app]
	if !ok || s.state.shownTips[app] {
		return
	}
	s.tipTimer = s.scheduleLocked(s.tipDelay, func() {
		s.tipTimer = 0
		if s.state.activeApp != app || s.state.shownTips[app] {
			return
		}
		s.state.shownTips[app] = true
		s.addNotificationLocked(titleProTip, text, types.KindInfo)
		s.commitLocked()
	})
}

func (s *Store) record(n types.Notification, event NotificationEvent) {
	for _, r := range s.recorders {
		r.RecordNotification(n, event)
	}
}

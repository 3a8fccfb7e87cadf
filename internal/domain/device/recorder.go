package device

import "github.com/GriffinCanCode/novashell/internal/shared/types"

// NotificationEvent is a lifecycle step of a notification
type NotificationEvent string

const (
	EventAdded      NotificationEvent = "added"
	EventSuppressed NotificationEvent = "suppressed"
	EventExpired    NotificationEvent = "expired"
	EventDismissed  NotificationEvent = "dismissed"
)

// Recorder observes the store. Methods are called with the store lock held
// and must not call back into the store.
type Recorder interface {
	RecordTick(snap types.Snapshot)
	RecordNotification(n types.Notification, event NotificationEvent)
}

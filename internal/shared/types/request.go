package types

// ToggleRequest sets a device flag
type ToggleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// NotificationRequest submits a notification
type NotificationRequest struct {
	Title   string           `json:"title" binding:"required,max=120"`
	Message string           `json:"message" binding:"required,max=500"`
	Kind    NotificationKind `json:"kind"`
}

// UnlockRequest carries the lock screen PIN
type UnlockRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// WSMessage represents a WebSocket command frame
type WSMessage struct {
	Type    string           `json:"type"`
	Toggle  Toggle           `json:"toggle,omitempty"`
	Enabled bool             `json:"enabled,omitempty"`
	AppID   AppID            `json:"app_id,omitempty"`
	ID      string           `json:"id,omitempty"`
	Title   string           `json:"title,omitempty"`
	Message string           `json:"message,omitempty"`
	Kind    NotificationKind `json:"kind,omitempty"`
}

// WSFrame is a server-to-client WebSocket frame
type WSFrame struct {
	Type         string        `json:"type"`
	State        *Snapshot     `json:"state,omitempty"`
	Shell        *ShellState   `json:"shell,omitempty"`
	Notification *Notification `json:"notification,omitempty"`
	Duplicate    bool          `json:"duplicate,omitempty"`
	Command      string        `json:"command,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// WebSocket frame types
const (
	FrameState  = "state"
	FrameResult = "result"
	FrameError  = "error"
	FramePong   = "pong"
)

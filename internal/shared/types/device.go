package types

// NotificationKind selects how a notification is rendered and how long it lives
type NotificationKind string

const (
	KindInfo    NotificationKind = "info"
	KindWarning NotificationKind = "warning"
	KindSuccess NotificationKind = "success"
	KindError   NotificationKind = "error"
)

// Valid reports whether the kind is one of the four known kinds
func (k NotificationKind) Valid() bool {
	switch k {
	case KindInfo, KindWarning, KindSuccess, KindError:
		return true
	}
	return false
}

// Notification is an entry of the notification overlay
type Notification struct {
	ID      string           `json:"id"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Kind    NotificationKind `json:"type"`
}

// NetworkSpeed holds simulated throughput in MB/s
type NetworkSpeed struct {
	Up   float64 `json:"up"`
	Down float64 `json:"down"`
}

// Toggle names a boolean device flag that consumers may flip
type Toggle string

const (
	ToggleWifi        Toggle = "wifi"
	ToggleDownloading Toggle = "downloading"
	ToggleCharging    Toggle = "charging"
	ToggleFirewall    Toggle = "firewall"
	ToggleVPN         Toggle = "vpn"
	ToggleLocation    Toggle = "location"
	ToggleCamera      Toggle = "camera"
	ToggleMic         Toggle = "mic"
)

// Toggles lists every toggle in display order
var Toggles = []Toggle{
	ToggleWifi, ToggleDownloading, ToggleCharging, ToggleFirewall,
	ToggleVPN, ToggleLocation, ToggleCamera, ToggleMic,
}

// Snapshot is an immutable copy of the device state handed to readers
type Snapshot struct {
	Version   uint64 `json:"version"`
	ElapsedMS int64  `json:"elapsed_ms"`

	WifiEnabled   bool         `json:"wifi_enabled"`
	IsDownloading bool         `json:"is_downloading"`
	IsCharging    bool         `json:"is_charging"`
	Battery       float64      `json:"battery"`
	Temperature   float64      `json:"temperature"`
	NetworkSpeed  NetworkSpeed `json:"network_speed"`

	FirewallEnabled bool `json:"firewall_enabled"`
	VPNEnabled      bool `json:"vpn_enabled"`
	LocationEnabled bool `json:"location_enabled"`
	CameraEnabled   bool `json:"camera_enabled"`
	MicEnabled      bool `json:"mic_enabled"`
	BlockedTrackers int  `json:"blocked_trackers"`

	ActiveApp     AppID          `json:"active_app,omitempty"`
	Notifications []Notification `json:"notifications"`
	ShownTips     []AppID        `json:"shown_tips"`
}

// Toggle returns the value of a named flag
func (s Snapshot) Toggle(t Toggle) (bool, bool) {
	switch t {
	case ToggleWifi:
		return s.WifiEnabled, true
	case ToggleDownloading:
		return s.IsDownloading, true
	case ToggleCharging:
		return s.IsCharging, true
	case ToggleFirewall:
		return s.FirewallEnabled, true
	case ToggleVPN:
		return s.VPNEnabled, true
	case ToggleLocation:
		return s.LocationEnabled, true
	case ToggleCamera:
		return s.CameraEnabled, true
	case ToggleMic:
		return s.MicEnabled, true
	}
	return false, false
}

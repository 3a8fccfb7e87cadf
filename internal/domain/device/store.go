package device

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/novashell/internal/shared/types"
)

// ErrUnknownToggle is returned by SetToggle for names outside types.Toggles
var ErrUnknownToggle = errors.New("unknown toggle")

const (
	DefaultTickInterval = 2000 * time.Millisecond
	DefaultTipDelay     = 3000 * time.Millisecond
)

// deviceState is the mutable state owned by the store. It is only touched
// with Store.mu held.
type deviceState struct {
	wifi        bool
	downloading bool
	charging    bool
	battery     float64
	temperature float64
	network     types.NetworkSpeed

	firewall bool
	vpn      bool
	location bool
	camera   bool
	mic      bool
	trackers int

	activeApp     types.AppID
	notifications []types.Notification
	shownTips     map[types.AppID]bool
}

func initialState() deviceState {
	return deviceState{
		wifi:        true,
		battery:     84,
		temperature: 38,
		network:     types.NetworkSpeed{Up: 1.2, Down: 4.5},
		firewall:    true,
		trackers:    128,
		shownTips:   make(map[types.AppID]bool),
	}
}

// Store is the process-wide device state. Build one with New, share the
// handle, and Close it on shutdown.
type Store struct {
	mu      sync.Mutex
	state   deviceState
	version uint64
	closed  bool

	now     time.Duration // Session time
	timers  timerQueue
	pending map[uint64]*timer
	nextID  uint64
	wake    chan struct{}
	clock   func() time.Duration // Set while Run drives the session clock

	tipTimer uint64
	expiry   map[string]uint64 // Notification ID -> expiry timer

	subs map[*Subscription]struct{}

	rng          *random
	logger       *zap.Logger
	recorders    []Recorder
	tickInterval time.Duration
	tipDelay     time.Duration
	expiryFor    func(types.NotificationKind) time.Duration
	tips         map[types.AppID]string
	startupTips  []ScheduledNotification
	newID        func() string
}

// ScheduledNotification is a one-shot notification fired at a fixed session time
type ScheduledNotification struct {
	After   time.Duration
	Title   string
	Message string
	Kind    types.NotificationKind
}

// DefaultStartupTips are fired unconditionally after construction
var DefaultStartupTips = []ScheduledNotification{
	{After: 8 * time.Second, Title: "System Tip", Message: "Swipe down on the home screen to access Nova Command.", Kind: types.KindInfo},
	{After: 25 * time.Second, Title: "Privacy Active", Message: "NovaOS is blocking background tracking attempts.", Kind: types.KindSuccess},
}

// Option configures a Store
type Option func(*Store)

// WithSeed fixes the random source. Equal seeds give equal trajectories.
func WithSeed(seed uint64) Option {
	return func(s *Store) { s.rng = newRandom(seed) }
}

// WithLogger sets the store logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger.Named("device")
		}
	}
}

// WithRecorder registers an observer for ticks and notification events
func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		if r != nil {
			s.recorders = append(s.recorders, r)
		}
	}
}

// WithTickInterval overrides the simulation period
func WithTickInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithTipDelay overrides how long an app must stay foregrounded before its tip fires
func WithTipDelay(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.tipDelay = d
		}
	}
}

// WithTips sets the contextual tip text per app. Apps without an entry never get a tip.
func WithTips(tips map[types.AppID]string) Option {
	return func(s *Store) {
		s.tips = make(map[types.AppID]string, len(tips))
		for id, text := range tips {
			if text != "" {
				s.tips[id] = text
			}
		}
	}
}

// WithStartupTips replaces the startup notifications. nil disables them.
func WithStartupTips(tips []ScheduledNotification) Option {
	return func(s *Store) { s.startupTips = tips }
}

// WithExpiry overrides the notification lifetime per kind
func WithExpiry(fn func(types.NotificationKind) time.Duration) Option {
	return func(s *Store) {
		if fn != nil {
			s.expiryFor = fn
		}
	}
}

// WithBattery sets the initial battery level, clamped to [0,100]
func WithBattery(level float64) Option {
	return func(s *Store) { s.state.battery = clamp(level, 0, 100) }
}

// WithIDGenerator overrides how notification IDs are minted
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New creates a store in its initial state and schedules the simulation
// tick and the startup tips. The session clock starts at zero.
func New(opts ...Option) *Store {
	s := &Store{
		state:        initialState(),
		pending:      make(map[uint64]*timer),
		wake:         make(chan struct{}, 1),
		expiry:       make(map[string]uint64),
		subs:         make(map[*Subscription]struct{}),
		logger:       zap.NewNop(),
		tickInterval: DefaultTickInterval,
		tipDelay:     DefaultTipDelay,
		expiryFor:    ExpiryByKind,
		tips:         map[types.AppID]string{},
		startupTips:  DefaultStartupTips,
		newID:        newNotificationID,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = newRandom(uint64(time.Now().UnixNano()))
	}

	s.mu.Lock()
	s.scheduleTickLocked(s.tickInterval)
	for _, tip := range s.startupTips {
		s.scheduleLocked(tip.After, func() {
			if _, added := s.addNotificationLocked(tip.Title, tip.Message, tip.Kind); added {
				s.commitLocked()
			}
		})
	}
	s.mu.Unlock()

	s.logger.Debug("Device store created",
		zap.Duration("tick_interval", s.tickInterval),
		zap.Int("tips", len(s.tips)),
	)
	return s
}

// Close tears the store down: every pending timer is cancelled, every
// subscription channel is closed, and later mutations are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.timers = nil
	s.pending = make(map[uint64]*timer)
	s.tipTimer = 0
	s.expiry = make(map[string]uint64)
	for sub := range s.subs {
		close(sub.ch)
		delete(s.subs, sub)
	}
	s.mu.Unlock()

	s.signalWake()
	s.logger.Debug("Device store closed")
}

// Closed reports whether Close has been called
func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() types.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() types.Snapshot {
	st := &s.state

	notifications := make([]types.Notification, len(st.notifications))
	copy(notifications, st.notifications)

	shown := make([]types.AppID, 0, len(st.shownTips))
	for id := range st.shownTips {
		shown = append(shown, id)
	}
	sort.Slice(shown, func(i, j int) bool { return shown[i] < shown[j] })

	return types.Snapshot{
		Version:         s.version,
		ElapsedMS:       s.now.Milliseconds(),
		WifiEnabled:     st.wifi,
		IsDownloading:   st.downloading,
		IsCharging:      st.charging,
		Battery:         st.battery,
		Temperature:     st.temperature,
		NetworkSpeed:    st.network,
		FirewallEnabled: st.firewall,
		VPNEnabled:      st.vpn,
		LocationEnabled: st.location,
		CameraEnabled:   st.camera,
		MicEnabled:      st.mic,
		BlockedTrackers: st.trackers,
		ActiveApp:       st.activeApp,
		Notifications:   notifications,
		ShownTips:       shown,
	}
}

func read[T any](s *Store, fn func(*deviceState) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.state)
}

func (s *Store) WifiEnabled() bool     { return read(s, func(st *deviceState) bool { return st.wifi }) }
func (s *Store) IsDownloading() bool   { return read(s, func(st *deviceState) bool { return st.downloading }) }
func (s *Store) IsCharging() bool      { return read(s, func(st *deviceState) bool { return st.charging }) }
func (s *Store) Battery() float64      { return read(s, func(st *deviceState) float64 { return st.battery }) }
func (s *Store) Temperature() float64  { return read(s, func(st *deviceState) float64 { return st.temperature }) }
func (s *Store) FirewallEnabled() bool { return read(s, func(st *deviceState) bool { return st.firewall }) }
func (s *Store) VPNEnabled() bool      { return read(s, func(st *deviceState) bool { return st.vpn }) }
func (s *Store) LocationEnabled() bool { return read(s, func(st *deviceState) bool { return st.location }) }
func (s *Store) CameraEnabled() bool   { return read(s, func(st *deviceState) bool { return st.camera }) }
func (s *Store) MicEnabled() bool      { return read(s, func(st *deviceState) bool { return st.mic }) }
func (s *Store) BlockedTrackers() int  { return read(s, func(st *deviceState) int { return st.trackers }) }
func (s *Store) ActiveApp() types.AppID {
	return read(s, func(st *deviceState) types.AppID { return st.activeApp })
}
func (s *Store) NetworkSpeed() types.NetworkSpeed {
	return read(s, func(st *deviceState) types.NetworkSpeed { return st.network })
}

// Notifications returns the live notifications in display order
func (s *Store) Notifications() []types.Notification {
	return s.Snapshot().Notifications
}

// TipShown reports whether the contextual tip for id already fired
func (s *Store) TipShown(id types.AppID) bool {
	return read(s, func(st *deviceState) bool { return st.shownTips[id] })
}

// update runs fn under the lock and publishes a new snapshot when fn reports a change
func (s *Store) update(fn func(st *deviceState) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.syncLocked()
	if fn(&s.state) {
		s.commitLocked()
	}
}

// commitLocked bumps the version and pushes the new snapshot to subscribers
func (s *Store) commitLocked() types.Snapshot {
	s.version++
	snap := s.snapshotLocked()
	s.publishLocked(snap)
	return snap
}

// SetToggle flips a flag by name
func (s *Store) SetToggle(name types.Toggle, enabled bool) error {
	switch name {
	case types.ToggleWifi:
		s.SetWifiEnabled(enabled)
	case types.ToggleDownloading:
		s.SetIsDownloading(enabled)
	case types.ToggleCharging:
		s.SetIsCharging(enabled)
	case types.ToggleFirewall:
		s.SetFirewallEnabled(enabled)
	case types.ToggleVPN:
		s.SetVpnEnabled(enabled)
	case types.ToggleLocation:
		s.SetLocationEnabled(enabled)
	case types.ToggleCamera:
		s.SetCameraEnabled(enabled)
	case types.ToggleMic:
		s.SetMicEnabled(enabled)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownToggle, name)
	}
	return nil
}

// SetWifiEnabled switches Wi-Fi. Turning it off during a download always
// stops the download, even when Wi-Fi was already off.
func (s *Store) SetWifiEnabled(enabled bool) {
	s.update(func(st *deviceState) bool {
		if !enabled && st.downloading {
			st.wifi = false
			s.stopDownloadLocked()
			return true
		}
		if st.wifi == enabled {
			return false
		}
		st.wifi = enabled
		if enabled {
			s.addNotificationLocked(titleNetwork, "Wi-Fi has been enabled.", types.KindInfo)
		} else {
			s.addNotificationLocked(titleNetwork, "Wi-Fi has been disabled.", types.KindInfo)
		}
		return true
	})
}

// SetIsDownloading starts or pauses the simulated download
func (s *Store) SetIsDownloading(downloading bool) {
	s.update(func(st *deviceState) bool {
		if st.downloading == downloading {
			return false
		}
		st.downloading = downloading
		if downloading {
			s.addNotificationLocked(titleDownloads, "Download started.", types.KindInfo)
		} else {
			s.addNotificationLocked(titleDownloads, "Download paused.", types.KindInfo)
		}
		return true
	})
}

// SetIsCharging plugs or unplugs the simulated charger
func (s *Store) SetIsCharging(charging bool) {
	s.update(func(st *deviceState) bool {
		if st.charging == charging {
			return false
		}
		st.charging = charging
		return true
	})
}

// SetFirewallEnabled switches the firewall
func (s *Store) SetFirewallEnabled(enabled bool) {
	s.update(func(st *deviceState) bool {
		if st.firewall == enabled {
			return false
		}
		st.firewall = enabled
		if enabled {
			s.addNotificationLocked(titleSecurityAlert, "Firewall Enabled", types.KindSuccess)
		} else {
			s.addNotificationLocked(titleSecurityAlert, "Firewall Disabled. Device is vulnerable.", types.KindError)
		}
		return true
	})
}

// SetVpnEnabled connects or disconnects the VPN
func (s *Store) SetVpnEnabled(enabled bool) {
	s.update(func(st *deviceState) bool {
		if st.vpn == enabled {
			return false
		}
		st.vpn = enabled
		if enabled {
			s.addNotificationLocked(titleSecurity, "VPN Connected", types.KindSuccess)
		} else {
			s.addNotificationLocked(titleSecurity, "VPN Disconnected", types.KindWarning)
		}
		return true
	})
}

// SetLocationEnabled switches location services
func (s *Store) SetLocationEnabled(enabled bool) {
	s.setFlag(func(st *deviceState) *bool { return &st.location }, enabled)
}

// SetCameraEnabled switches camera access
func (s *Store) SetCameraEnabled(enabled bool) {
	s.setFlag(func(st *deviceState) *bool { return &st.camera }, enabled)
}

// SetMicEnabled switches microphone access
func (s *Store) SetMicEnabled(enabled bool) {
	s.setFlag(func(st *deviceState) *bool { return &st.mic }, enabled)
}

func (s *Store) setFlag(field func(*deviceState) *bool, value bool) {
	s.update(func(st *deviceState) bool {
		p := field(st)
		if *p == value {
			return false
		}
		*p = value
		return true
	})
}

// SetActiveApp foregrounds an app, or returns to the home screen with
// types.NoApp. Any pending contextual tip for the previous app is cancelled.
func (s *Store) SetActiveApp(id types.AppID) {
	s.update(func(st *deviceState) bool {
		if st.activeApp == id {
			return false
		}
		st.activeApp = id
		s.cancelLocked(s.tipTimer)
		s.tipTimer = 0
		if id != types.NoApp {
			s.scheduleTipLocked(id)
		}
		return true
	})
}

// stopDownloadLocked halts a download because Wi-Fi went away
func (s *Store) stopDownloadLocked() {
	s.state.downloading = false
	s.addNotificationLocked(titleNetwork, msgDownloadPaused, types.KindWarning)
}

type ctxKey struct{}

// WithStore attaches the store to a context
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the store attached to ctx, if any
func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	return s, ok && s != nil
}

// MustFromContext returns the store attached to ctx. Reading the store outside
// the scope that provides it is a programming error, so this panics.
func MustFromContext(ctx context.Context) *Store {
	s, ok := FromContext(ctx)
	if !ok {
		panic("device: no store in context; mount one with device.WithStore")
	}
	return s
}

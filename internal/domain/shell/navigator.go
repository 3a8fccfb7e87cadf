// Package shell implements the host shell around the device store: the lock
// screen, the running apps list and the app switcher.
package shell

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/GriffinCanCode/novashell/internal/domain/catalog"
	"github.com/GriffinCanCode/novashell/internal/domain/device"
	"github.com/GriffinCanCode/novashell/internal/shared/types"
)

// DefaultPIN unlocks a shell that was not given one
const DefaultPIN = "1234"

var (
	ErrUnknownApp = errors.New("unknown app")
	ErrLocked     = errors.New("shell is locked")
	ErrWrongPIN   = errors.New("wrong PIN")
)

// HashPIN prepares a PIN for NewNavigator
func HashPIN(pin string, cost int) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash PIN: %w", err)
	}
	return hash, nil
}

// Navigator tracks which apps are running and drives the store's activeApp
type Navigator struct {
	mu       sync.RWMutex
	locked   bool          // Protected by mu
	switcher bool          // Protected by mu
	running  []types.AppID // Protected by mu, launch order
	launches uint64        // Protected by mu

	store   *device.Store
	catalog *catalog.Catalog
	pinHash []byte
	logger  *zap.Logger
}

// Stats summarises navigator activity
type Stats struct {
	Running  int    `json:"running"`
	Launches uint64 `json:"launches"`
	Locked   bool   `json:"locked"`
}

// NewNavigator creates a locked navigator
func NewNavigator(store *device.Store, cat *catalog.Catalog, pinHash []byte) *Navigator {
	return &Navigator{
		locked:  true,
		store:   store,
		catalog: cat,
		pinHash: pinHash,
		logger:  zap.NewNop(),
	}
}

// WithLogger adds logging to the navigator
func (n *Navigator) WithLogger(logger *zap.Logger) *Navigator {
	if logger != nil {
		n.logger = logger.Named("shell")
	}
	return n
}

// Unlock leaves the lock screen when pin matches
func (n *Navigator) Unlock(pin string) error {
	if err := bcrypt.CompareHashAndPassword(n.pinHash, []byte(pin)); err != nil {
		n.logger.Info("Unlock rejected")
		return ErrWrongPIN
	}

	n.mu.Lock()
	n.locked = false
	n.mu.Unlock()

	n.logger.Info("Shell unlocked")
	return nil
}

// Lock returns to the lock screen. Running apps stay running.
func (n *Navigator) Lock() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.locked = true
	n.switcher = false
	n.store.SetActiveApp(types.NoApp)
}

// Launch foregrounds an app, starting it if needed
func (n *Navigator) Launch(id types.AppID) error {
	if !n.catalog.Has(id) {
		return fmt.Errorf("%w: %q", ErrUnknownApp, id)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.locked {
		return ErrLocked
	}
	if !slices.Contains(n.running, id) {
		n.running = append(n.running, id)
	}
	n.launches++
	n.switcher = false
	n.store.SetActiveApp(id)

	n.logger.Debug("App launched", zap.String("app", id.String()), zap.Int("running", len(n.running)))
	return nil
}

// Close stops a running app. If it was foregrounded the home screen is shown.
func (n *Navigator) Close(id types.AppID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	i := slices.Index(n.running, id)
	if i < 0 {
		return false
	}
	n.running = slices.Delete(n.running, i, i+1)

	if n.store.ActiveApp() == id {
		n.store.SetActiveApp(types.NoApp)
	}
	return true
}

// Home shows the home screen
func (n *Navigator) Home() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.switcher = false
	n.store.SetActiveApp(types.NoApp)
}

// Back closes the switcher if it is open, otherwise goes home
func (n *Navigator) Back() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.switcher {
		n.switcher = false
		return
	}
	n.store.SetActiveApp(types.NoApp)
}

// ToggleSwitcher opens or closes the app switcher and returns the new state
func (n *Navigator) ToggleSwitcher() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.switcher = !n.switcher
	return n.switcher
}

// State returns the current shell state
func (n *Navigator) State() types.ShellState {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return types.ShellState{
		Locked:       n.locked,
		SwitcherOpen: n.switcher,
		Running:      slices.Clone(n.running),
		ActiveApp:    n.store.ActiveApp(),
	}
}

// Running returns the running apps in launch order
func (n *Navigator) Running() []types.AppID {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Clone(n.running)
}

// Stats returns navigator statistics
func (n *Navigator) Stats() Stats {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return Stats{
		Running:  len(n.running),
		Launches: n.launches,
		Locked:   n.locked,
	}
}

package shell

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/GriffinCanCode/novashell/internal/domain/catalog"
	"github.com/GriffinCanCode/novashell/internal/domain/device"
	"github.com/GriffinCanCode/novashell/internal/shared/types"
)

func newTestNavigator(t *testing.T) (*Navigator, *device.Store) {
	t.Helper()

	store := device.New(device.WithSeed(1), device.WithStartupTips(nil))
	t.Cleanup(store.Close)

	hash, err := HashPIN(DefaultPIN, bcrypt.MinCost)
	require.NoError(t, err)

	return NewNavigator(store, catalog.Default(), hash), store
}

func unlocked(t *testing.T) (*Navigator, *device.Store) {
	t.Helper()
	n, store := newTestNavigator(t)
	require.NoError(t, n.Unlock(DefaultPIN))
	return n, store
}

func TestNewNavigator_StartsLocked(t *testing.T) {
	n, _ := newTestNavigator(t)

	state := n.State()
	assert.True(t, state.Locked)
	assert.False(t, state.SwitcherOpen)
	assert.Empty(t, state.Running)
	assert.Equal(t, types.NoApp, state.ActiveApp)
}

func TestUnlock(t *testing.T) {
	n, _ := newTestNavigator(t)

	err := n.Unlock("0000")
	assert.True(t, errors.Is(err, ErrWrongPIN))
	assert.True(t, n.State().Locked)

	require.NoError(t, n.Unlock("1234"))
	assert.False(t, n.State().Locked)
}

func TestLaunch(t *testing.T) {
	n, store := unlocked(t)

	require.NoError(t, n.Launch("settings"))
	require.NoError(t, n.Launch("terminal"))
	require.NoError(t, n.Launch("settings"))

	state := n.State()
	assert.Equal(t, []types.AppID{"settings", "terminal"}, state.Running)
	assert.Equal(t, types.AppID("settings"), state.ActiveApp)
	assert.Equal(t, types.AppID("settings"), store.ActiveApp())
	assert.Equal(t, uint64(3), n.Stats().Launches)
}

func TestLaunch_Errors(t *testing.T) {
	n, store := newTestNavigator(t)

	err := n.Launch("settings")
	assert.True(t, errors.Is(err, ErrLocked))
	assert.Equal(t, types.NoApp, store.ActiveApp())

	require.NoError(t, n.Unlock(DefaultPIN))
	err = n.Launch("browser")
	assert.True(t, errors.Is(err, ErrUnknownApp))
	assert.Empty(t, n.Running())
}

func TestLaunch_ClosesSwitcher(t *testing.T) {
	n, _ := unlocked(t)

	assert.True(t, n.ToggleSwitcher())
	require.NoError(t, n.Launch("calendar"))
	assert.False(t, n.State().SwitcherOpen)
}

func TestClose(t *testing.T) {
	n, store := unlocked(t)

	require.NoError(t, n.Launch("settings"))
	require.NoError(t, n.Launch("terminal"))

	assert.True(t, n.Close("settings"))
	assert.Equal(t, types.AppID("terminal"), store.ActiveApp(), "closing a background app keeps the foreground")

	assert.True(t, n.Close("terminal"))
	assert.Equal(t, types.NoApp, store.ActiveApp())
	assert.Empty(t, n.Running())

	assert.False(t, n.Close("terminal"))
}

func TestHomeAndBack(t *testing.T) {
	n, store := unlocked(t)

	require.NoError(t, n.Launch("settings"))
	n.ToggleSwitcher()

	n.Back()
	assert.False(t, n.State().SwitcherOpen)
	assert.Equal(t, types.AppID("settings"), store.ActiveApp())

	n.Back()
	assert.Equal(t, types.NoApp, store.ActiveApp())
	assert.Equal(t, []types.AppID{"settings"}, n.Running())

	require.NoError(t, n.Launch("settings"))
	n.ToggleSwitcher()
	n.Home()
	assert.False(t, n.State().SwitcherOpen)
	assert.Equal(t, types.NoApp, store.ActiveApp())
}

func TestLock(t *testing.T) {
	n, store := unlocked(t)

	require.NoError(t, n.Launch("settings"))
	n.Lock()

	state := n.State()
	assert.True(t, state.Locked)
	assert.Equal(t, types.NoApp, store.ActiveApp())
	assert.Equal(t, []types.AppID{"settings"}, state.Running)
}

func TestLaunch_TipFiresOnce(t *testing.T) {
	store := device.New(
		device.WithSeed(1),
		device.WithStartupTips(nil),
		device.WithTips(catalog.Default().Tips()),
	)
	defer store.Close()

	hash, err := HashPIN(DefaultPIN, bcrypt.MinCost)
	require.NoError(t, err)
	n := NewNavigator(store, catalog.Default(), hash)
	require.NoError(t, n.Unlock(DefaultPIN))

	require.NoError(t, n.Launch("settings"))
	store.Advance(3000 * time.Millisecond)
	require.True(t, store.TipShown("settings"))

	n.Close("settings")
	require.NoError(t, n.Launch("settings"))
	store.Advance(3000 * time.Millisecond)

	tips := 0
	for _, notification := range store.Notifications() {
		if notification.Title == "Pro Tip" {
			tips++
		}
	}
	assert.Equal(t, 1, tips)
}

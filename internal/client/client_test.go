package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/novashell/internal/domain/shell"
	"github.com/GriffinCanCode/novashell/internal/infrastructure/config"
	"github.com/GriffinCanCode/novashell/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/novashell/internal/infrastructure/server"
	"github.com/GriffinCanCode/novashell/internal/shared/types"
)

func testConfig(baseURL string) Config {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Timeout = 2 * time.Second
	cfg.MaxRetries = 1
	cfg.MinWait = time.Millisecond
	cfg.MaxWait = 5 * time.Millisecond
	return cfg
}

func setupClient(t *testing.T) (*Client, *server.Server) {
	t.Helper()

	cfg := config.Default()
	cfg.GRPC.Enabled = false
	cfg.RateLimit.Enabled = false
	cfg.Simulation.Seed = 9

	srv, err := server.NewServer(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return New(testConfig(ts.URL)), srv
}

func TestClient_StateAndToggle(t *testing.T) {
	c, _ := setupClient(t)
	ctx := context.Background()

	snap, err := c.State(ctx)
	require.NoError(t, err)
	assert.True(t, snap.WifiEnabled)

	snap, err = c.SetToggle(ctx, types.ToggleVPN, true)
	require.NoError(t, err)
	assert.True(t, snap.VPNEnabled)
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, "Security", snap.Notifications[0].Title)
}

func TestClient_Notifications(t *testing.T) {
	c, _ := setupClient(t)
	ctx := context.Background()

	first, err := c.Notify(ctx, "Build", "Done", types.KindSuccess)
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	second, err := c.Notify(ctx, "Build", "Done", types.KindSuccess)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)

	live, err := c.Notifications(ctx)
	require.NoError(t, err)
	assert.Len(t, live, 1)

	require.NoError(t, c.Dismiss(ctx, first.Notification.ID))

	err = c.Dismiss(ctx, first.Notification.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, resilience.StateClosed, c.BreakerState())
}

func TestClient_ShellFlow(t *testing.T) {
	c, srv := setupClient(t)
	ctx := context.Background()

	_, err := c.Launch(ctx, "settings")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusLocked, apiErr.Status)

	_, err = c.Unlock(ctx, shell.DefaultPIN)
	require.NoError(t, err)

	st, err := c.Launch(ctx, "settings")
	require.NoError(t, err)
	assert.Equal(t, types.AppID("settings"), st.ActiveApp)
	assert.Equal(t, types.AppID("settings"), srv.Store().ActiveApp())

	st, err = c.Switcher(ctx)
	require.NoError(t, err)
	assert.True(t, st.SwitcherOpen)

	st, err = c.Back(ctx)
	require.NoError(t, err)
	assert.False(t, st.SwitcherOpen)

	st, err = c.Home(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.NoApp, st.ActiveApp)

	st, err = c.CloseApp(ctx, "settings")
	require.NoError(t, err)
	assert.Empty(t, st.Running)

	st, err = c.Lock(ctx)
	require.NoError(t, err)
	assert.True(t, st.Locked)
}

func TestClient_AppsAndMonitor(t *testing.T) {
	c, _ := setupClient(t)
	ctx := context.Background()

	apps, err := c.Apps(ctx, "")
	require.NoError(t, err)
	assert.Len(t, apps.Apps, 8)

	apps, err = c.Apps(ctx, "media")
	require.NoError(t, err)
	require.Len(t, apps.Apps, 1)
	assert.Equal(t, types.AppID("media-player"), apps.Apps[0].ID)

	res, err := c.Monitor(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Summary.Samples)
}

func TestClient_Stream(t *testing.T) {
	c, srv := setupClient(t)

	stream, err := c.Dial(context.Background())
	require.NoError(t, err)
	defer stream.Close()

	frame, err := stream.Next()
	require.NoError(t, err)
	assert.Equal(t, types.FrameState, frame.Type)

	require.NoError(t, stream.Send(types.WSMessage{Type: "toggle", Toggle: types.ToggleMic, Enabled: true}))
	for {
		frame, err = stream.Next()
		require.NoError(t, err)
		if frame.Type == types.FrameResult {
			break
		}
	}
	assert.True(t, srv.Store().MicEnabled())
}

func TestClient_StreamURL(t *testing.T) {
	assert.Equal(t, "ws://localhost:8000/stream", New(DefaultConfig()).StreamURL())

	cfg := DefaultConfig()
	cfg.BaseURL = "https://nova.example/"
	assert.Equal(t, "wss://nova.example/stream", New(cfg).StreamURL())
}

func TestClient_RetriesAndBreaker(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"warming up"}`))
	}))
	defer ts.Close()

	cfg := testConfig(ts.URL)
	cfg.Threshold = 2
	cfg.Cooldown = time.Hour
	c := New(cfg)
	ctx := context.Background()

	_, err := c.State(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Equal(t, "warming up", apiErr.Message)
	assert.Equal(t, int32(2), hits.Load()) // one retry

	_, err = c.State(ctx)
	require.Error(t, err)
	assert.Equal(t, resilience.StateOpen, c.BreakerState())

	before := hits.Load()
	_, err = c.State(ctx)
	assert.True(t, errors.Is(err, resilience.ErrCircuitOpen))
	assert.Equal(t, before, hits.Load())
}

package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/GriffinCanCode/novashell/internal/api/middleware"
	"github.com/GriffinCanCode/novashell/internal/domain/catalog"
	"github.com/GriffinCanCode/novashell/internal/domain/device"
	"github.com/GriffinCanCode/novashell/internal/domain/shell"
	"github.com/GriffinCanCode/novashell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/novashell/internal/shared/types"
)

type fixture struct {
	store     *device.Store
	navigator *shell.Navigator
	metrics   *monitoring.Metrics
	conn      *websocket.Conn
}

func setupTest(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat := catalog.Default()
	store := device.New(device.WithSeed(3), device.WithStartupTips(nil))
	t.Cleanup(store.Close)

	hash, err := shell.HashPIN(shell.DefaultPIN, bcrypt.MinCost)
	require.NoError(t, err)
	nav := shell.NewNavigator(store, cat, hash)
	metrics := monitoring.NewMetrics()

	router := gin.New()
	router.Use(middleware.Store(store))
	router.GET("/stream", NewHandler(nav, metrics, nil).HandleConnection)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &fixture{store: store, navigator: nav, metrics: metrics, conn: conn}
}

// next reads frames until match accepts one
func (f *fixture) next(t *testing.T, match func(types.WSFrame) bool) types.WSFrame {
	t.Helper()
	require.NoError(t, f.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, data, err := f.conn.ReadMessage()
		require.NoError(t, err)

		var frame types.WSFrame
		require.NoError(t, json.Unmarshal(data, &frame))
		if match(frame) {
			return frame
		}
	}
}

func ofType(kind string) func(types.WSFrame) bool {
	return func(f types.WSFrame) bool { return f.Type == kind }
}

func (f *fixture) send(t *testing.T, msg types.WSMessage) {
	t.Helper()
	require.NoError(t, f.conn.WriteJSON(msg))
}

func TestConnection_InitialState(t *testing.T) {
	f := setupTest(t)

	frame := f.next(t, ofType(types.FrameState))
	require.NotNil(t, frame.State)
	assert.True(t, frame.State.WifiEnabled)
	assert.Equal(t, 128, frame.State.BlockedTrackers)

	require.Eventually(t, func() bool {
		return f.store.Subscribers() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestConnection_Ping(t *testing.T) {
	f := setupTest(t)

	f.send(t, types.WSMessage{Type: "ping"})
	f.next(t, ofType(types.FramePong))
}

func TestConnection_Toggle(t *testing.T) {
	f := setupTest(t)

	f.send(t, types.WSMessage{Type: "toggle", Toggle: types.ToggleVPN, Enabled: true})

	result := f.next(t, ofType(types.FrameResult))
	assert.Equal(t, "toggle", result.Command)

	state := f.next(t, func(fr types.WSFrame) bool {
		return fr.Type == types.FrameState && fr.State.VPNEnabled
	})
	require.Len(t, state.State.Notifications, 1)
	assert.Equal(t, "VPN Connected", state.State.Notifications[0].Message)
}

func TestConnection_NotifyDedup(t *testing.T) {
	f := setupTest(t)
	msg := types.WSMessage{Type: "notify", Title: "Hi", Message: "There"}

	f.send(t, msg)
	first := f.next(t, ofType(types.FrameResult))
	require.NotNil(t, first.Notification)
	assert.False(t, first.Duplicate)

	f.send(t, msg)
	second := f.next(t, ofType(types.FrameResult))
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Notification.ID, second.Notification.ID)

	f.send(t, types.WSMessage{Type: "dismiss", ID: first.Notification.ID})
	f.next(t, ofType(types.FrameResult))
	assert.Empty(t, f.store.Notifications())
}

func TestConnection_Errors(t *testing.T) {
	f := setupTest(t)

	tests := []struct {
		name string
		msg  types.WSMessage
	}{
		{"unknown type", types.WSMessage{Type: "reboot"}},
		{"unknown toggle", types.WSMessage{Type: "toggle", Toggle: "bluetooth"}},
		{"locked launch", types.WSMessage{Type: "launch", AppID: "settings"}},
		{"missing dismiss", types.WSMessage{Type: "dismiss", ID: "nope"}},
		{"close not running", types.WSMessage{Type: "close", AppID: "settings"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.send(t, tt.msg)
			frame := f.next(t, ofType(types.FrameError))
			assert.Equal(t, tt.msg.Type, frame.Command)
			assert.NotEmpty(t, frame.Error)
		})
	}
}

func TestConnection_LaunchAndHome(t *testing.T) {
	f := setupTest(t)
	require.NoError(t, f.navigator.Unlock(shell.DefaultPIN))

	f.send(t, types.WSMessage{Type: "launch", AppID: "settings"})
	result := f.next(t, ofType(types.FrameResult))
	require.NotNil(t, result.Shell)
	assert.Equal(t, types.AppID("settings"), result.Shell.ActiveApp)

	f.send(t, types.WSMessage{Type: "home"})
	result = f.next(t, ofType(types.FrameResult))
	assert.Equal(t, types.NoApp, result.Shell.ActiveApp)
	assert.Equal(t, []types.AppID{"settings"}, result.Shell.Running)
}

func TestConnection_StoreClose(t *testing.T) {
	f := setupTest(t)
	f.next(t, ofType(types.FrameState))

	f.store.Close()

	require.NoError(t, f.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := f.conn.ReadMessage(); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway))
			break
		}
	}
}

func TestConnection_Metrics(t *testing.T) {
	f := setupTest(t)
	f.next(t, ofType(types.FrameState))

	assert.Eventually(t, func() bool {
		return f.metrics.Snapshot().ActiveConnections == 1
	}, time.Second, 10*time.Millisecond)

	f.conn.Close()
	assert.Eventually(t, func() bool {
		return f.metrics.Snapshot().ActiveConnections == 0 && f.store.Subscribers() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestReply_LogsWriteFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	done := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(done)
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ws.Close()

		cn := &conn{ws: ws, log: zap.New(core)}
		cn.reply(types.WSFrame{Type: types.FramePong})
		cn.replyError("toggle", "boom")
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not finish")
	}

	failures := logs.FilterMessage("WebSocket write failed").All()
	require.Len(t, failures, 2)
	assert.Equal(t, types.FramePong, failures[0].ContextMap()["frame"])
	assert.Equal(t, types.FrameError, failures[1].ContextMap()["frame"])
}

package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/novashell/internal/domain/device"
	"github.com/GriffinCanCode/novashell/internal/shared/types"
)

func TestNewMetrics_Independent(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.Ticks.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Ticks))
	assert.Zero(t, testutil.ToFloat64(b.Ticks))
}

func TestRecordTick(t *testing.T) {
	m := NewMetrics()

	m.RecordTick(types.Snapshot{
		Battery:         55.5,
		Temperature:     39,
		NetworkSpeed:    types.NetworkSpeed{Up: 1.5, Down: 7},
		BlockedTrackers: 130,
		WifiEnabled:     true,
		VPNEnabled:      true,
		Notifications:   []types.Notification{{ID: "a"}},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Ticks))
	assert.Equal(t, 55.5, testutil.ToFloat64(m.Battery))
	assert.Equal(t, 39.0, testutil.ToFloat64(m.Temperature))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.NetworkSpeed.WithLabelValues("up")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.NetworkSpeed.WithLabelValues("down")))
	assert.Equal(t, 130.0, testutil.ToFloat64(m.BlockedTrackers))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Toggles.WithLabelValues("vpn")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Toggles.WithLabelValues("camera")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LiveNotices))
	assert.Equal(t, int64(1), m.Snapshot().Ticks)
}

func TestRecordNotification_FromStore(t *testing.T) {
	m := NewMetrics()
	store := device.New(device.WithSeed(1), device.WithStartupTips(nil), device.WithRecorder(m))
	defer store.Close()

	n, _ := store.AddNotification("A", "B", types.KindWarning)
	store.AddNotification("A", "B", types.KindWarning)
	store.AddNotification("C", "D", types.KindInfo)
	store.RemoveNotification(n.ID)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("warning", "added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("warning", "suppressed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("warning", "dismissed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LiveNotices))

	store.Advance(6 * time.Second)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("info", "expired")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Ticks))
	assert.Zero(t, testutil.ToFloat64(m.LiveNotices))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/apps/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	for _, path := range []string{"/apps/settings", "/apps/terminal", "/missing"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/apps/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.TotalErrors)
}

func TestTimer(t *testing.T) {
	m := NewMetrics()

	NewTimer(m, "ws", "toggle").Stop("success")
	NewTimer(nil, "ws", "toggle").Stop("success")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandCalls.WithLabelValues("ws", "toggle", "success")))
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.RecordLaunch("settings", 1)
	m.IncWSConnections()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `novashell_shell_launches_total{app="settings"} 1`))
	assert.True(t, strings.Contains(body, "novashell_ws_connections 1"))
	assert.True(t, strings.Contains(body, "novashell_uptime_seconds"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}

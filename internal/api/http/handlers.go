package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GriffinCanCode/novashell/internal/domain/catalog"
	"github.com/GriffinCanCode/novashell/internal/domain/device"
	"github.com/GriffinCanCode/novashell/internal/domain/monitor"
	"github.com/GriffinCanCode/novashell/internal/domain/shell"
	"github.com/GriffinCanCode/novashell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/novashell/internal/shared/types"
	"github.com/GriffinCanCode/novashell/internal/shared/utils"
)

// Version is reported by the root endpoint
const Version = "1.0.0"

// Handlers contains all HTTP handlers. The device store is not a field: it is
// read from the request context, where middleware.Store put it.
type Handlers struct {
	navigator *shell.Navigator
	catalog   *catalog.Catalog
	monitor   *monitor.Monitor
	metrics   *monitoring.Metrics
	tracker   *HandlerMetrics
	instance  string
	started   time.Time
}

// NewHandlers creates a new handler set
func NewHandlers(
	navigator *shell.Navigator,
	catalog *catalog.Catalog,
	monitor *monitor.Monitor,
	metrics *monitoring.Metrics,
) *Handlers {
	return &Handlers{
		navigator: navigator,
		catalog:   catalog,
		monitor:   monitor,
		metrics:   metrics,
		tracker:   NewHandlerMetrics(metrics),
		instance:  uuid.NewString(),
		started:   time.Now(),
	}
}

func storeOf(c *gin.Context) *device.Store {
	return device.MustFromContext(c.Request.Context())
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "NovaShell device service",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	store := storeOf(c)
	snap := store.Snapshot()

	status, code := "healthy", http.StatusOK
	if store.Closed() {
		status, code = "stopped", http.StatusServiceUnavailable
	}

	body := gin.H{
		"status":   status,
		"instance": h.instance,
		"uptime":   time.Since(h.started).Round(time.Second).String(),
		"store": gin.H{
			"version":       snap.Version,
			"elapsed_ms":    snap.ElapsedMS,
			"running":       store.Running(),
			"subscribers":   store.Subscribers(),
			"notifications": len(snap.Notifications),
		},
		"shell": h.navigator.Stats(),
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(code, body)
}

// GetState returns the current device snapshot
func (h *Handlers) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, storeOf(c).Snapshot())
}

// SetToggle flips a device flag
func (h *Handlers) SetToggle(c *gin.Context) {
	defer h.tracker.TrackCommand("toggle")()

	name := c.Param("name")
	if err := utils.ValidateToggle(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req types.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store := storeOf(c)
	if err := store.SetToggle(types.Toggle(name), *req.Enabled); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, store.Snapshot())
}

// ListNotifications lists the live notifications in display order
func (h *Handlers) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notifications": storeOf(c).Notifications(),
	})
}

// CreateNotification shows a notification unless an identical one is live
func (h *Handlers) CreateNotification(c *gin.Context) {
	defer h.tracker.TrackCommand("notify")()

	var req types.NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title, message, err := utils.ValidateNotification(req.Title, req.Message, req.Kind)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	n, added := storeOf(c).AddNotification(title, message, req.Kind)
	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}

	c.JSON(status, gin.H{
		"notification": n,
		"duplicate":    !added,
	})
}

// DismissNotification removes a notification by ID
func (h *Handlers) DismissNotification(c *gin.Context) {
	defer h.tracker.TrackCommand("dismiss")()

	id := c.Param("id")
	if err := utils.ValidateID(id, "notification_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !storeOf(c).RemoveNotification(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      id,
	})
}

// ListApps lists the app catalog, optionally filtered by name
func (h *Handlers) ListApps(c *gin.Context) {
	query := c.Query("q")
	if err := utils.ValidateQuery(query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"apps":  h.catalog.Search(query),
		"shell": h.navigator.State(),
	})
}

// LaunchApp foregrounds an app
func (h *Handlers) LaunchApp(c *gin.Context) {
	defer h.tracker.TrackCommand("launch")()

	appID := c.Param("id")
	if err := utils.ValidateID(appID, "app_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := types.AppID(appID)
	if err := h.navigator.Launch(id); err != nil {
		respondError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordLaunch(id, len(h.navigator.Running()))
	}

	c.JSON(http.StatusOK, gin.H{"shell": h.navigator.State()})
}

// CloseApp stops a running app
func (h *Handlers) CloseApp(c *gin.Context) {
	defer h.tracker.TrackCommand("close")()

	appID := c.Param("id")
	if err := utils.ValidateID(appID, "app_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.navigator.Close(types.AppID(appID)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "app is not running"})
		return
	}
	if h.metrics != nil {
		h.metrics.SetAppsRunning(len(h.navigator.Running()))
	}

	c.JSON(http.StatusOK, gin.H{"shell": h.navigator.State()})
}

// Home shows the home screen
func (h *Handlers) Home(c *gin.Context) {
	h.navigator.Home()
	c.JSON(http.StatusOK, gin.H{"shell": h.navigator.State()})
}

// Back closes the switcher or goes home
func (h *Handlers) Back(c *gin.Context) {
	h.navigator.Back()
	c.JSON(http.StatusOK, gin.H{"shell": h.navigator.State()})
}

// ToggleSwitcher opens or closes the app switcher
func (h *Handlers) ToggleSwitcher(c *gin.Context) {
	h.navigator.ToggleSwitcher()
	c.JSON(http.StatusOK, gin.H{"shell": h.navigator.State()})
}

// Lock returns to the lock screen
func (h *Handlers) Lock(c *gin.Context) {
	h.navigator.Lock()
	c.JSON(http.StatusOK, gin.H{"shell": h.navigator.State()})
}

// Unlock leaves the lock screen
func (h *Handlers) Unlock(c *gin.Context) {
	var req types.UnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.PIN) > utils.MaxPINLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pin is too long"})
		return
	}

	if err := h.navigator.Unlock(req.PIN); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shell": h.navigator.State()})
}

// Monitor returns telemetry statistics
func (h *Handlers) Monitor(c *gin.Context) {
	body := gin.H{"summary": h.monitor.Summary()}
	if c.Query("history") == "true" {
		body["history"] = h.monitor.History()
	}
	c.JSON(http.StatusOK, body)
}

// respondError maps domain errors to status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shell.ErrUnknownApp), errors.Is(err, device.ErrUnknownToggle):
		status = http.StatusNotFound
	case errors.Is(err, shell.ErrLocked):
		status = http.StatusLocked
	case errors.Is(err, shell.ErrWrongPIN):
		status = http.StatusUnauthorized
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

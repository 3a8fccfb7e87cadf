package ws

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/novashell/internal/domain/device"
	"github.com/GriffinCanCode/novashell/internal/domain/shell"
	"github.com/GriffinCanCode/novashell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/novashell/internal/shared/id"
	"github.com/GriffinCanCode/novashell/internal/shared/types"
	"github.com/GriffinCanCode/novashell/internal/shared/utils"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// Handler manages WebSocket connections
type Handler struct {
	navigator *shell.Navigator
	metrics   *monitoring.Metrics
	logger    *zap.Logger
}

// NewHandler creates a new WebSocket handler. metrics may be nil.
func NewHandler(navigator *shell.Navigator, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		navigator: navigator,
		metrics:   metrics,
		logger:    logger,
	}
}

// conn serialises writes; gorilla allows one concurrent writer
type conn struct {
	ws      *websocket.Conn
	mu      sync.Mutex
	metrics *monitoring.Metrics
	log     *zap.Logger
}

func (c *conn) send(frame types.WSFrame) error {
	data, err := sonic.Marshal(frame)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	if c.metrics != nil {
		c.metrics.RecordWSMessage("out", frame.Type)
	}
	return nil
}

// reply sends a response frame. A failed write is only logged: the read loop
// sees the broken connection on its next read.
func (c *conn) reply(frame types.WSFrame) {
	if err := c.send(frame); err != nil {
		c.log.Debug("WebSocket write failed", zap.String("frame", frame.Type), zap.Error(err))
	}
}

func (c *conn) replyError(command, msg string) {
	c.reply(types.WSFrame{Type: types.FrameError, Command: command, Error: msg})
}

// HandleConnection upgrades the request and streams store snapshots until
// either side goes away. The store comes from the request context.
func (h *Handler) HandleConnection(c *gin.Context) {
	store := device.MustFromContext(c.Request.Context())

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()
	ws.SetReadLimit(maxMessageSize)

	log := h.logger.With(zap.String("conn_id", id.NewConnectionID().String()))
	log.Debug("WebSocket connected", zap.String("remote", c.ClientIP()))
	defer log.Debug("WebSocket disconnected")

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	cn := &conn{ws: ws, metrics: h.metrics, log: log}
	sub := store.Subscribe()
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.pump(cn, sub, log)
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("WebSocket read error", zap.Error(err))
			}
			break
		}

		var msg types.WSMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			cn.replyError("", "malformed message")
			continue
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", msg.Type)
		}
		h.dispatch(cn, store, msg)
	}

	sub.Close()
	<-done
}

// pump forwards every snapshot as a state frame. It returns when the
// subscription closes, which happens on disconnect or store shutdown.
func (h *Handler) pump(cn *conn, sub *device.Subscription, log *zap.Logger) {
	for snap := range sub.C() {
		if err := cn.send(types.WSFrame{Type: types.FrameState, State: &snap}); err != nil {
			log.Debug("WebSocket write failed", zap.Error(err))
			return
		}
	}

	cn.mu.Lock()
	defer cn.mu.Unlock()
	_ = cn.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "store closed"),
		time.Now().Add(writeWait))
}

func (h *Handler) dispatch(cn *conn, store *device.Store, msg types.WSMessage) {
	if msg.Type == "ping" {
		cn.reply(types.WSFrame{Type: types.FramePong})
		return
	}

	timer := monitoring.NewTimer(h.metrics, "ws", msg.Type)
	frame, err := h.execute(store, msg)
	if err != nil {
		timer.Stop("error")
		cn.replyError(msg.Type, err.Error())
		return
	}
	timer.Stop("ok")

	frame.Type = types.FrameResult
	frame.Command = msg.Type
	cn.reply(frame)
}

var (
	errUnknownType          = errors.New("unknown message type")
	errNotificationNotFound = errors.New("notification not found")
	errNotRunning           = errors.New("app is not running")
)

// execute runs one command and returns the result frame body
func (h *Handler) execute(store *device.Store, msg types.WSMessage) (types.WSFrame, error) {
	switch msg.Type {
	case "toggle":
		if err := utils.ValidateToggle(string(msg.Toggle)); err != nil {
			return types.WSFrame{}, err
		}
		if err := store.SetToggle(msg.Toggle, msg.Enabled); err != nil {
			return types.WSFrame{}, err
		}
		return types.WSFrame{}, nil

	case "notify":
		title, message, err := utils.ValidateNotification(msg.Title, msg.Message, msg.Kind)
		if err != nil {
			return types.WSFrame{}, err
		}
		n, added := store.AddNotification(title, message, msg.Kind)
		return types.WSFrame{Notification: &n, Duplicate: !added}, nil

	case "dismiss":
		if err := utils.ValidateID(msg.ID, "id", true); err != nil {
			return types.WSFrame{}, err
		}
		if !store.RemoveNotification(msg.ID) {
			return types.WSFrame{}, errNotificationNotFound
		}
		return types.WSFrame{}, nil

	case "launch":
		if err := utils.ValidateID(string(msg.AppID), "app_id", true); err != nil {
			return types.WSFrame{}, err
		}
		if err := h.navigator.Launch(msg.AppID); err != nil {
			return types.WSFrame{}, err
		}
		if h.metrics != nil {
			h.metrics.RecordLaunch(msg.AppID, len(h.navigator.Running()))
		}

	case "close":
		if !h.navigator.Close(msg.AppID) {
			return types.WSFrame{}, errNotRunning
		}
		if h.metrics != nil {
			h.metrics.SetAppsRunning(len(h.navigator.Running()))
		}

	case "home":
		h.navigator.Home()

	case "back":
		h.navigator.Back()

	default:
		return types.WSFrame{}, errUnknownType
	}

	state := h.navigator.State()
	return types.WSFrame{Shell: &state}, nil
}

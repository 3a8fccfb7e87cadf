package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/GriffinCanCode/novashell/internal/shared/types"
)

// ReconnectDelay is how long the model waits before dialing again
const ReconnectDelay = 2 * time.Second

// Conn is a live state stream
type Conn interface {
	Next() (types.WSFrame, error)
	Send(msg types.WSMessage) error
	Close() error
}

// Dialer opens a state stream
type Dialer func(ctx context.Context) (Conn, error)

// ConnectedEvent carries a freshly dialed stream into the update loop
type ConnectedEvent struct {
	Conn Conn
}

// FrameEvent carries one frame read from the stream
type FrameEvent struct {
	Frame types.WSFrame
}

// StreamErrorEvent reports a dial, read or write failure. Conn is the stream
// that failed, nil for dial errors.
type StreamErrorEvent struct {
	Conn Conn
	Err  error
}

// reconnectEvent asks the model to dial again
type reconnectEvent struct{}

// DialCmd returns a Cmd that opens a stream
func DialCmd(dial Dialer) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		conn, err := dial(ctx)
		if err != nil {
			return StreamErrorEvent{Err: err}
		}
		return ConnectedEvent{Conn: conn}
	}
}

// ListenCmd returns a Cmd that reads the next frame
func ListenCmd(conn Conn) tea.Cmd {
	return func() tea.Msg {
		frame, err := conn.Next()
		if err != nil {
			return StreamErrorEvent{Conn: conn, Err: err}
		}
		return FrameEvent{Frame: frame}
	}
}

// SendCmd returns a Cmd that writes one command
func SendCmd(conn Conn, msg types.WSMessage) tea.Cmd {
	return func() tea.Msg {
		if err := conn.Send(msg); err != nil {
			return StreamErrorEvent{Conn: conn, Err: err}
		}
		return nil
	}
}

func reconnectCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return reconnectEvent{}
	})
}

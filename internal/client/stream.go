package client

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/GriffinCanCode/novashell/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/novashell/internal/shared/types"
)

// Stream is a live WebSocket connection to /stream
type Stream struct {
	conn *websocket.Conn
	mu   sync.Mutex // Serialises writes
}

// StreamURL converts the base URL to the WebSocket endpoint
func (c *Client) StreamURL() string {
	u := c.baseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/stream"
}

// Dial opens the state stream. It goes through the breaker like every call.
func (c *Client) Dial(ctx context.Context) (*Stream, error) {
	conn, err := resilience.Do(c.breaker, func() (*websocket.Conn, error) {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.StreamURL(), nil)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", c.StreamURL(), err)
		}
		return conn, nil
	})
	if err != nil {
		return nil, err
	}
	return &Stream{conn: conn}, nil
}

// Next blocks until the server sends a frame
func (s *Stream) Next() (types.WSFrame, error) {
	var frame types.WSFrame
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return frame, err
	}
	if err := sonic.Unmarshal(data, &frame); err != nil {
		return frame, fmt.Errorf("decode frame: %w", err)
	}
	return frame, nil
}

// Send writes one command
func (s *Stream) Send(msg types.WSMessage) error {
	data, err := sonic.Marshal(msg)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Close ends the stream
func (s *Stream) Close() error {
	s.mu.Lock()
	_ = s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	s.mu.Unlock()
	return s.conn.Close()
}

package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/GriffinCanCode/novashell/internal/shared/types"
)

// Model is the watch screen: live device state plus app launcher
type Model struct {
	dial      Dialer
	conn      Conn
	connected bool

	snap  *types.Snapshot
	shell types.ShellState
	apps  []types.AppDefinition

	cursor   int
	status   string
	err      error
	quitting bool

	width, height int
	keys          keyMap
	help          help.Model
}

// New creates the model. apps is the launcher list, usually fetched once
// over REST before the program starts.
func New(dial Dialer, apps []types.AppDefinition) Model {
	return Model{
		dial: dial,
		apps: apps,
		keys: defaultKeyMap(),
		help: help.New(),
	}
}

// Init dials the stream
func (m Model) Init() tea.Cmd {
	return DialCmd(m.dial)
}

// Update handles one message
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ConnectedEvent:
		if m.quitting {
			msg.Conn.Close()
			return m, nil
		}
		m.conn = msg.Conn
		m.connected = true
		m.err = nil
		return m, ListenCmd(m.conn)

	case FrameEvent:
		m.applyFrame(msg.Frame)
		if m.conn == nil {
			return m, nil
		}
		return m, ListenCmd(m.conn)

	case StreamErrorEvent:
		// A stale stream already replaced by a newer one
		if msg.Conn != nil && msg.Conn != m.conn {
			return m, nil
		}
		if m.quitting {
			return m, nil
		}
		m.err = msg.Err
		m.connected = false
		if m.conn != nil {
			m.conn.Close()
			m.conn = nil
		}
		return m, reconnectCmd(ReconnectDelay)

	case reconnectEvent:
		if m.quitting {
			return m, nil
		}
		return m, DialCmd(m.dial)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) applyFrame(frame types.WSFrame) {
	switch frame.Type {
	case types.FrameState:
		if frame.State != nil {
			snap := *frame.State
			m.snap = &snap
		}
	case types.FrameResult:
		if frame.Shell != nil {
			m.shell = *frame.Shell
		}
		m.status = frame.Command + " ok"
		if frame.Duplicate {
			m.status = "duplicate notification suppressed"
		}
	case types.FrameError:
		m.status = frame.Command + ": " + frame.Error
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if m.conn != nil {
			m.conn.Close()
			m.conn = nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.apps)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		idx := int(msg.String()[0] - '1')
		if m.snap == nil || idx < 0 || idx >= len(types.Toggles) {
			return m, nil
		}
		name := types.Toggles[idx]
		on, _ := m.snap.Toggle(name)
		return m.send(types.WSMessage{Type: "toggle", Toggle: name, Enabled: !on})

	case key.Matches(msg, m.keys.Launch):
		if app, ok := m.selected(); ok {
			return m.send(types.WSMessage{Type: "launch", AppID: app.ID})
		}
		return m, nil

	case key.Matches(msg, m.keys.Close):
		if app, ok := m.selected(); ok {
			return m.send(types.WSMessage{Type: "close", AppID: app.ID})
		}
		return m, nil

	case key.Matches(msg, m.keys.Home):
		return m.send(types.WSMessage{Type: "home"})

	case key.Matches(msg, m.keys.Back):
		return m.send(types.WSMessage{Type: "back"})
	}

	return m, nil
}

func (m Model) send(msg types.WSMessage) (tea.Model, tea.Cmd) {
	if m.conn == nil {
		m.status = "not connected"
		return m, nil
	}
	return m, SendCmd(m.conn, msg)
}

func (m Model) selected() (types.AppDefinition, bool) {
	if m.cursor < 0 || m.cursor >= len(m.apps) {
		return types.AppDefinition{}, false
	}
	return m.apps[m.cursor], true
}

// Snapshot returns the latest state frame, if any
func (m Model) Snapshot() (types.Snapshot, bool) {
	if m.snap == nil {
		return types.Snapshot{}, false
	}
	return *m.snap, true
}

// Connected reports whether a stream is open
func (m Model) Connected() bool {
	return m.connected
}

// Status returns the last command outcome
func (m Model) Status() string {
	return m.status
}

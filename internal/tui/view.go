package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/GriffinCanCode/novashell/internal/shared/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	onStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80"))
	offStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#374151")).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9FAFB"))

	kindStyles = map[types.NotificationKind]lipgloss.Style{
		types.KindInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA")),
		types.KindSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80")),
		types.KindWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24")),
		types.KindError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")),
	}
)

// View renders the watch screen
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	if m.snap == nil {
		b.WriteString(dimStyle.Render("Waiting for device state..."))
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(m.telemetryView()),
		panelStyle.Render(m.togglesView()),
		panelStyle.Render(m.appsView()),
	))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(m.notificationsView()))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(dimStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) header() string {
	conn := onStyle.Render("● live")
	if !m.connected {
		conn = offStyle.Render("○ reconnecting")
		if m.err != nil {
			conn += dimStyle.Render(" (" + m.err.Error() + ")")
		}
	}
	return titleStyle.Render("NovaShell") + "  " + conn
}

func (m Model) telemetryView() string {
	s := m.snap
	charging := ""
	if s.IsCharging {
		charging = " ⚡"
	}
	active := "home"
	if s.ActiveApp != types.NoApp {
		active = string(s.ActiveApp)
	}

	lines := []string{
		titleStyle.Render("Device"),
		fmt.Sprintf("Battery      %5.1f%%%s", s.Battery, charging),
		fmt.Sprintf("Temperature  %5.1f°C", s.Temperature),
		fmt.Sprintf("Network      ↑%.1f ↓%.1f Mb/s", s.NetworkSpeed.Up, s.NetworkSpeed.Down),
		fmt.Sprintf("Trackers     %d blocked", s.BlockedTrackers),
		fmt.Sprintf("Foreground   %s", active),
		dimStyle.Render(fmt.Sprintf("v%d  %ds", s.Version, s.ElapsedMS/1000)),
	}
	return strings.Join(lines, "\n")
}

func (m Model) togglesView() string {
	lines := []string{titleStyle.Render("Flags")}
	for i, name := range types.Toggles {
		on, _ := m.snap.Toggle(name)
		mark := offStyle.Render("○")
		if on {
			mark = onStyle.Render("●")
		}
		lines = append(lines, fmt.Sprintf("%d %s %s", i+1, mark, name))
	}
	return strings.Join(lines, "\n")
}

func (m Model) appsView() string {
	running := make(map[types.AppID]bool, len(m.shell.Running))
	for _, id := range m.shell.Running {
		running[id] = true
	}

	lines := []string{titleStyle.Render("Apps")}
	if m.shell.Locked {
		lines[0] += dimStyle.Render(" (locked)")
	}
	for i, app := range m.apps {
		line := "  " + app.Name
		if running[app.ID] {
			line += onStyle.Render(" •")
		}
		if i == m.cursor {
			line = cursorStyle.Render("> " + app.Name)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) notificationsView() string {
	lines := []string{titleStyle.Render("Notifications")}
	if len(m.snap.Notifications) == 0 {
		lines = append(lines, dimStyle.Render("none"))
	}
	for _, n := range m.snap.Notifications {
		style, ok := kindStyles[n.Kind]
		if !ok {
			style = kindStyles[types.KindInfo]
		}
		lines = append(lines, style.Render(n.Title)+"  "+n.Message)
	}
	return strings.Join(lines, "\n")
}

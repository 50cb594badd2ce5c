package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/todosync/internal/logtail"
)

const logTailLines = 500

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

// readLogsCmd loads the tail of the client log file.
func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := logtail.Read(path, logTailLines)
		return logsMsg{entries: entries, err: err}
	}
}

func (m *Model) handleLogs(msg logsMsg) {
	m.logView.SetContent(m.formatLogs(msg))
	m.logView.GotoBottom()
}

func (m Model) formatLogs(msg logsMsg) string {
	styles := m.theme.Styles()
	if msg.err != nil {
		return styles.WarningText.Render("log unavailable: " + msg.err.Error())
	}
	if len(msg.entries) == 0 {
		return styles.FaintText.Render("No log entries yet.")
	}

	lines := make([]string, 0, len(msg.entries))
	for _, e := range msg.entries {
		line := e.Format()
		switch e.Level {
		case "error", "dpanic", "panic", "fatal":
			line = styles.WarningText.Bold(true).Render(line)
		case "warn":
			line = styles.WarningText.Render(line)
		case "debug":
			line = styles.FaintText.Render(line)
		default:
			line = styles.Text.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Logs), msg.String() == "q":
		m.currentView = ViewList
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, readLogsCmd(m.logFile)
	case key.Matches(msg, m.keys.Top):
		m.logView.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logView.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

// logViewHeight leaves room for the header and footer lines.
func (m Model) logViewHeight() int {
	h := m.height - 4
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) resizeLogView() {
	m.logView.Width = m.width
	m.logView.Height = m.logViewHeight()
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	header := styles.Logo.Render("todosync") + "  " + styles.MutedText.Render("log · "+m.logFile)
	footer := styles.FaintText.Render("r reload · g/G top/bottom · esc back")
	return strings.Join([]string{header, "", m.logView.View(), footer}, "\n")
}

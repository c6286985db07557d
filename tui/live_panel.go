// ABOUTME: Implements a scrollable live event panel using the bubbles viewport component.
// ABOUTME: Displays pipeline progress events with color-coded formatting based on stage status.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/masserfx/kovoterm/live"
)

// LivePanelModel is a scrollable log that displays pipeline progress events
// as they arrive over the websocket.
type LivePanelModel struct {
	entries  []liveLine
	max      int
	viewport viewport.Model
	focused  bool
	width    int
	height   int
}

// liveLine pairs an entry with the inbox message it belongs to.
type liveLine struct {
	key   string
	entry live.Entry
}

// NewLivePanelModel creates a new live panel with a maximum number of entries.
// If maxEntries is <= 0, it defaults to 200.
func NewLivePanelModel(maxEntries int) LivePanelModel {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	vp := viewport.New(80, 10)
	return LivePanelModel{
		entries:  make([]liveLine, 0, maxEntries),
		max:      maxEntries,
		viewport: vp,
	}
}

// Append adds an event to the panel, evicting the oldest entry if at capacity.
func (m *LivePanelModel) Append(key string, entry live.Entry) {
	if len(m.entries) >= m.max {
		m.entries = m.entries[1:]
	}
	m.entries = append(m.entries, liveLine{key: key, entry: entry})
	m.syncViewport()
}

// Len returns the number of entries in the panel.
func (m LivePanelModel) Len() int {
	return len(m.entries)
}

// SetFocused sets whether this panel accepts keyboard input.
func (m *LivePanelModel) SetFocused(focused bool) {
	m.focused = focused
}

// IsFocused returns whether the panel is focused.
func (m LivePanelModel) IsFocused() bool {
	return m.focused
}

// SetSize sets the available dimensions and updates the viewport.
func (m *LivePanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	// Reserve space for the border (2 lines top/bottom) and title (1 line)
	vpWidth := w - 2
	vpHeight := h - 3
	if vpWidth < 1 {
		vpWidth = 1
	}
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = vpWidth
	m.viewport.Height = vpHeight
	m.syncViewport()
}

// Update forwards messages to the embedded viewport so its own key bindings
// handle scrolling while the panel is focused.
func (m LivePanelModel) Update(msg tea.Msg) LivePanelModel {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	_ = cmd // viewport cmds are ignored in sub-model updates
	return m
}

// View renders the live panel.
func (m LivePanelModel) View() string {
	title := "LIVE PIPELINE"
	if m.focused {
		title = "LIVE PIPELINE (focused)"
	}

	var content string
	if len(m.entries) == 0 {
		content = "Waiting for events"
	} else {
		content = m.viewport.View()
	}

	rendered := TitleStyle.Render(title) + "\n" + content

	return BorderStyle.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(rendered)
}

// syncViewport rebuilds the viewport content from entries and scrolls to the bottom.
func (m *LivePanelModel) syncViewport() {
	if len(m.entries) == 0 {
		m.viewport.SetContent("")
		return
	}
	var lines []string
	for _, line := range m.entries {
		lines = append(lines, formatLiveLine(line))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

// formatLiveLine formats a single progress event as a log line.
func formatLiveLine(line liveLine) string {
	e := line.entry
	ts := LogTimestampStyle.Render(e.Timestamp.Format("15:04:05"))
	stage := statusLineStyle(e.Status).Render(fmt.Sprintf("%s/%s", e.Stage, e.Status))

	parts := []string{ts, stage, fmt.Sprintf("[%s]", line.key)}
	if len(e.Data) > 0 {
		parts = append(parts, formatData(e.Data))
	}
	return strings.Join(parts, " ")
}

// formatData formats event data as compact sorted key=value pairs.
func formatData(data map[string]any) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(data))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, data[k]))
	}
	return strings.Join(pairs, " ")
}

// statusLineStyle returns the appropriate lipgloss style for a stage status.
func statusLineStyle(status string) lipgloss.Style {
	switch ParseTaskStatus(status) {
	case TaskCompleted:
		return LogSuccessStyle
	case TaskFailed:
		return LogErrorStyle
	default:
		return LogStageStyle
	}
}

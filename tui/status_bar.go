// ABOUTME: Implements a single-line status bar for the bottom of the TUI showing connection state.
// ABOUTME: Displays backend host, live websocket status, last refresh age, and the last action or error.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// StatusBarModel displays connection and refresh status in a single line.
type StatusBarModel struct {
	backend     string
	liveOnline  bool
	lastRefresh time.Time
	notice      string
	noticeIsErr bool
	width       int
}

// NewStatusBarModel creates a StatusBarModel for the given backend host.
func NewStatusBarModel(backend string) StatusBarModel {
	return StatusBarModel{backend: backend}
}

// SetLive records whether the websocket connection is up.
func (m *StatusBarModel) SetLive(online bool) {
	m.liveOnline = online
}

// MarkRefreshed records a successful data refresh.
func (m *StatusBarModel) MarkRefreshed() {
	m.lastRefresh = time.Now()
}

// SetNotice shows a transient message; isErr styles it as a failure.
func (m *StatusBarModel) SetNotice(msg string, isErr bool) {
	m.notice = msg
	m.noticeIsErr = isErr
}

// SetWidth sets the bar width for rendering.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// refreshAge formats the time since the last refresh.
func (m StatusBarModel) refreshAge() string {
	if m.lastRefresh.IsZero() {
		return "-"
	}
	d := time.Since(m.lastRefresh).Truncate(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) - minutes*60
	return fmt.Sprintf("%dm%ds", minutes, seconds)
}

// View renders the status bar as a single styled line.
func (m StatusBarModel) View() string {
	liveStr := "live: offline"
	if m.liveOnline {
		liveStr = "live: online"
	}

	content := fmt.Sprintf("%s | %s | refresh: %s", m.backend, liveStr, m.refreshAge())
	if m.notice != "" {
		notice := m.notice
		if m.noticeIsErr {
			notice = FailedStyle.Render(notice)
		} else {
			notice = CompletedStyle.Render(notice)
		}
		content += " | " + notice
	}

	style := StatusBarStyle.Width(m.width)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Left, style.Render(content))
}

// ABOUTME: Bubble Tea sub-model for the inbox view: a selectable message table with a detail pane.
// ABOUTME: Shows sender, subject, classification with confidence, and the live history of the selection.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/masserfx/kovoterm/client"
	"github.com/masserfx/kovoterm/live"
)

// InboxPanelModel displays inbox messages and the detail of the selection.
type InboxPanelModel struct {
	messages []client.InboxMessage
	table    table.Model
	history  []live.Entry
	width    int
	height   int
}

// NewInboxPanelModel creates an inbox panel with an empty table.
func NewInboxPanelModel() InboxPanelModel {
	columns := []table.Column{
		{Title: "od", Width: 24},
		{Title: "předmět", Width: 36},
		{Title: "klasifikace", Width: 18},
		{Title: "stav", Width: 10},
	}
	t := table.New(table.WithColumns(columns), table.WithFocused(true), table.WithHeight(8))

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(TitleStyle.GetForeground())
	styles.Selected = styles.Selected.Foreground(RunningStyle.GetForeground()).Bold(true)
	t.SetStyles(styles)

	return InboxPanelModel{table: t}
}

// SetMessages replaces the table contents.
func (m *InboxPanelModel) SetMessages(messages []client.InboxMessage) {
	m.messages = messages

	rows := make([]table.Row, 0, len(messages))
	for _, msg := range messages {
		classification := msg.Classification
		if classification != "" && msg.Confidence > 0 {
			classification = fmt.Sprintf("%s %.0f%%", msg.Classification, msg.Confidence*100)
		}
		rows = append(rows, table.Row{msg.Sender, msg.Subject, classification, msg.Status})
	}
	m.table.SetRows(rows)
}

// SetHistory replaces the live history shown for the selected message.
func (m *InboxPanelModel) SetHistory(entries []live.Entry) {
	m.history = entries
}

// SelectedMessage returns the message under the cursor, or nil when empty.
func (m InboxPanelModel) SelectedMessage() *client.InboxMessage {
	if len(m.messages) == 0 {
		return nil
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(m.messages) {
		return nil
	}
	msg := m.messages[i]
	return &msg
}

// SetSize sets the available dimensions.
func (m *InboxPanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	tableHeight := h / 2
	if tableHeight < 4 {
		tableHeight = 4
	}
	m.table.SetHeight(tableHeight)
	m.table.SetWidth(w - 4)
}

// Update forwards key messages to the embedded table for cursor movement.
func (m InboxPanelModel) Update(msg tea.Msg) InboxPanelModel {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	_ = cmd
	return m
}

// View renders the inbox panel: table on top, selection detail below.
func (m InboxPanelModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("=== INBOX ==="))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n\n")

	if msg := m.SelectedMessage(); msg != nil {
		b.WriteString(row("Od:", msg.Sender))
		b.WriteString("\n")
		b.WriteString(row("Předmět:", msg.Subject))
		b.WriteString("\n")
		b.WriteString(row("Přijato:", msg.ReceivedAt.Format("2.1.2006 15:04")))
		b.WriteString("\n")
		b.WriteString(ValueStyle.Render(truncateBody(msg.Body)))
		b.WriteString("\n")

		if len(m.history) > 0 {
			b.WriteString("\n")
			b.WriteString(TitleStyle.Render("Průběh zpracování"))
			b.WriteString("\n")
			for _, e := range m.history {
				line := fmt.Sprintf("  %s %s/%s", e.Timestamp.Format("15:04:05"), e.Stage, e.Status)
				b.WriteString(statusLineStyle(e.Status).Render(line))
				b.WriteString("\n")
			}
		}
	} else {
		b.WriteString(PendingStyle.Render("žádné zprávy"))
	}

	content := strings.TrimRight(b.String(), "\n")
	if m.width > 0 {
		return BorderStyle.Width(m.width - 2).Render(content)
	}
	return BorderStyle.Render(content)
}

// maxBodyLen is the maximum number of characters shown for a message body.
const maxBodyLen = 240

func truncateBody(s string) string {
	runes := []rune(s)
	if len(runes) <= maxBodyLen {
		return s
	}
	return string(runes[:maxBodyLen]) + "..."
}

// row renders a label-value pair using the standard label and value styles.
func row(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}

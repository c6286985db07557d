// ABOUTME: Bubble Tea sub-model for the pipeline view: per-stage task counts and the dead-letter queue.
// ABOUTME: Stage rows follow the backend's fixed stage order; DLQ rows are selectable for retry/resolve.
package tui

import (
	"fmt"
	"strings"

	"github.com/masserfx/kovoterm/client"
)

// PipelinePanelModel displays pipeline stage statistics and the DLQ.
type PipelinePanelModel struct {
	stats        *client.PipelineStats
	dlq          []client.DLQEntry
	cursor       int
	spinnerIndex int
	width        int
}

// NewPipelinePanelModel creates an empty pipeline panel.
func NewPipelinePanelModel() PipelinePanelModel {
	return PipelinePanelModel{}
}

// SetStats replaces the displayed statistics.
func (m *PipelinePanelModel) SetStats(stats *client.PipelineStats) {
	m.stats = stats
}

// SetDLQ replaces the dead-letter entries, clamping the cursor.
func (m *PipelinePanelModel) SetDLQ(entries []client.DLQEntry) {
	m.dlq = entries
	if m.cursor >= len(entries) {
		m.cursor = len(entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// CursorUp and CursorDown move the DLQ selection.
func (m *PipelinePanelModel) CursorUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

func (m *PipelinePanelModel) CursorDown() {
	if m.cursor < len(m.dlq)-1 {
		m.cursor++
	}
}

// SelectedEntry returns the DLQ entry under the cursor, or nil when the
// queue is empty.
func (m PipelinePanelModel) SelectedEntry() *client.DLQEntry {
	if len(m.dlq) == 0 {
		return nil
	}
	entry := m.dlq[m.cursor]
	return &entry
}

// AdvanceSpinner increments the spinner frame index.
func (m *PipelinePanelModel) AdvanceSpinner() {
	m.spinnerIndex++
}

// SetWidth sets the available width for rendering.
func (m *PipelinePanelModel) SetWidth(w int) {
	m.width = w
}

// stageStatus summarizes a stage's counts into one display status.
func stageStatus(s client.StageStats) TaskStatus {
	switch {
	case s.Failed > 0:
		return TaskFailed
	case s.Running > 0:
		return TaskRunning
	case s.Completed > 0 && s.Pending == 0:
		return TaskCompleted
	default:
		return TaskPending
	}
}

// View renders the pipeline panel as a string.
func (m PipelinePanelModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("=== PIPELINE ==="))
	b.WriteString("\n")

	if m.stats == nil {
		b.WriteString(PendingStyle.Render("  loading stats..."))
		b.WriteString("\n")
	} else {
		for _, stage := range client.PipelineStages {
			s := m.stats.ByStage[stage]
			status := stageStatus(s)
			style := StyleForStatus(status)

			line := fmt.Sprintf("  %s %-12s pending=%d running=%d completed=%d failed=%d",
				status.Icon(), stage, s.Pending, s.Running, s.Completed, s.Failed)
			if status == TaskRunning {
				line += " " + SpinnerFrames[m.spinnerIndex%len(SpinnerFrames)]
			}
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("  celkem úloh: %d, DLQ: %d\n", m.stats.TotalTasks, m.stats.DLQDepth))
	}

	b.WriteString("\n")
	b.WriteString(TitleStyle.Render("=== DEAD LETTERS (r retry, x resolve) ==="))
	b.WriteString("\n")

	if len(m.dlq) == 0 {
		b.WriteString(CompletedStyle.Render("  fronta je prázdná"))
		b.WriteString("\n")
	}
	for i, entry := range m.dlq {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		line := fmt.Sprintf("%s%s %s attempts=%d %s",
			marker, entry.Stage, entry.FailedAt.Format("15:04:05"), entry.Attempts, entry.Error)
		if i == m.cursor {
			b.WriteString(RunningStyle.Render(line))
		} else {
			b.WriteString(FailedStyle.Render(line))
		}
		b.WriteString("\n")
	}

	content := strings.TrimRight(b.String(), "\n")
	if m.width > 0 {
		return BorderStyle.Width(m.width - 2).Render(content)
	}
	return BorderStyle.Render(content)
}

// ABOUTME: Tests for the pipeline panel covering stage summarization, DLQ cursor movement, and rendering.
// ABOUTME: Stage rows must follow the backend's fixed stage order.
package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/masserfx/kovoterm/client"
)

func TestStageStatusSummarization(t *testing.T) {
	cases := []struct {
		stats client.StageStats
		want  TaskStatus
	}{
		{client.StageStats{}, TaskPending},
		{client.StageStats{Failed: 1, Running: 2}, TaskFailed},
		{client.StageStats{Running: 1}, TaskRunning},
		{client.StageStats{Completed: 5}, TaskCompleted},
		{client.StageStats{Completed: 5, Pending: 1}, TaskPending},
	}
	for i, tc := range cases {
		if got := stageStatus(tc.stats); got != tc.want {
			t.Errorf("case %d: stageStatus = %v, want %v", i, got, tc.want)
		}
	}
}

func TestViewRendersStagesInFixedOrder(t *testing.T) {
	m := NewPipelinePanelModel()
	m.SetStats(&client.PipelineStats{
		TotalTasks: 3,
		ByStage:    map[string]client.StageStats{"ocr": {Running: 1}, "ingest": {Completed: 2}},
	})

	out := m.View()
	if strings.Index(out, "ingest") > strings.Index(out, "ocr") {
		t.Error("stages must render in pipeline order, not map order")
	}
	if !strings.Contains(out, "celkem úloh: 3") {
		t.Error("total task count missing")
	}
}

func TestDLQCursorMovesAndClamps(t *testing.T) {
	m := NewPipelinePanelModel()
	m.SetDLQ([]client.DLQEntry{
		{ID: "d1", Stage: "ocr", FailedAt: time.Now()},
		{ID: "d2", Stage: "parse", FailedAt: time.Now()},
	})

	m.CursorUp() // already at top
	if got := m.SelectedEntry(); got == nil || got.ID != "d1" {
		t.Fatalf("expected d1 selected, got %+v", got)
	}

	m.CursorDown()
	m.CursorDown() // clamp at bottom
	if got := m.SelectedEntry(); got == nil || got.ID != "d2" {
		t.Fatalf("expected d2 selected, got %+v", got)
	}

	// Shrinking the queue clamps the cursor.
	m.SetDLQ([]client.DLQEntry{{ID: "d3", Stage: "ocr", FailedAt: time.Now()}})
	if got := m.SelectedEntry(); got == nil || got.ID != "d3" {
		t.Fatalf("cursor not clamped after shrink, got %+v", got)
	}
}

func TestSelectedEntryOnEmptyQueue(t *testing.T) {
	m := NewPipelinePanelModel()
	if m.SelectedEntry() != nil {
		t.Error("empty queue must yield nil selection")
	}
	if !strings.Contains(m.View(), "fronta je prázdná") {
		t.Error("empty queue placeholder missing")
	}
}

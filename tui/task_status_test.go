// ABOUTME: Tests for the TaskStatus enum string/icon mappings and backend status parsing.
// ABOUTME: Verifies unknown backend states degrade to the pending marker.
package tui

import "testing"

func TestTaskStatusStringAndIcon(t *testing.T) {
	cases := []struct {
		status TaskStatus
		str    string
		icon   string
	}{
		{TaskPending, "pending", "[ ]"},
		{TaskRunning, "running", "[~]"},
		{TaskCompleted, "completed", "[*]"},
		{TaskFailed, "failed", "[!]"},
	}
	for _, tc := range cases {
		if got := tc.status.String(); got != tc.str {
			t.Errorf("String() = %q, want %q", got, tc.str)
		}
		if got := tc.status.Icon(); got != tc.icon {
			t.Errorf("Icon() = %q, want %q", got, tc.icon)
		}
	}
}

func TestParseTaskStatus(t *testing.T) {
	cases := map[string]TaskStatus{
		"running":     TaskRunning,
		"processing":  TaskRunning,
		"completed":   TaskCompleted,
		"done":        TaskCompleted,
		"failed":      TaskFailed,
		"error":       TaskFailed,
		"pending":     TaskPending,
		"novy-status": TaskPending,
		"":            TaskPending,
	}
	for in, want := range cases {
		if got := ParseTaskStatus(in); got != want {
			t.Errorf("ParseTaskStatus(%q) = %v, want %v", in, got, want)
		}
	}
}

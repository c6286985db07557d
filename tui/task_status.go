// ABOUTME: Defines the TaskStatus enum representing pipeline task execution states.
// ABOUTME: Provides String/Icon methods, status parsing, and spinner frames for TUI rendering.
package tui

// TaskStatus represents the execution state of a pipeline task.
type TaskStatus int

const (
	TaskPending   TaskStatus = iota // Task has not started
	TaskRunning                     // Task is currently executing
	TaskCompleted                   // Task finished successfully
	TaskFailed                      // Task finished with an error
)

// String returns the lowercase name of the status.
func (s TaskStatus) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskRunning:
		return "running"
	case TaskCompleted:
		return "completed"
	case TaskFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Icon returns a bracket-style status marker for TUI display.
func (s TaskStatus) Icon() string {
	switch s {
	case TaskPending:
		return "[ ]"
	case TaskRunning:
		return "[~]"
	case TaskCompleted:
		return "[*]"
	case TaskFailed:
		return "[!]"
	default:
		return "[?]"
	}
}

// ParseTaskStatus maps the backend's status strings onto the enum. Unknown
// strings map to TaskPending so a new backend state degrades to a neutral
// marker instead of crashing the display.
func ParseTaskStatus(s string) TaskStatus {
	switch s {
	case "running", "processing", "in_progress":
		return TaskRunning
	case "completed", "done", "success":
		return TaskCompleted
	case "failed", "error":
		return TaskFailed
	default:
		return TaskPending
	}
}

// SpinnerFrames contains the Braille-dot animation frames for indicating
// active stages in the TUI.
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

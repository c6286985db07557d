// ABOUTME: Defines lipgloss style constants for the TUI layout panels, status colors, and log formatting.
// ABOUTME: Provides StyleForStatus to map TaskStatus values to their corresponding display styles.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Panel borders
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("37"))

	// Tab bar
	TabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
	TabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("37")).
			Bold(true).
			Padding(0, 1).
			Underline(true)

	// Status colors
	PendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	RunningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	CompletedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	FailedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	// Log event colors
	LogTimestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	LogStageStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	LogErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	LogSuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	// Detail panel labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// Form styling
	FormErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
	FormStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 2)
)

// StyleForStatus returns the appropriate lipgloss style for a TaskStatus.
func StyleForStatus(status TaskStatus) lipgloss.Style {
	switch status {
	case TaskPending:
		return PendingStyle
	case TaskRunning:
		return RunningStyle
	case TaskCompleted:
		return CompletedStyle
	case TaskFailed:
		return FailedStyle
	default:
		return PendingStyle
	}
}

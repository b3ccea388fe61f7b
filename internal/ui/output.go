package ui

import "github.com/charmbracelet/lipgloss"

var (
	successMark = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("✓")
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnMark    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render("!")
)

// Success prefixes msg with a green check mark.
func Success(msg string) string {
	return successMark + " " + msg
}

// Error renders a failure line in red.
func Error(msg string) string {
	return errorStyle.Render(msg)
}

// Warning prefixes msg with a yellow marker.
func Warning(msg string) string {
	return warnMark + " " + msg
}

// Header renders a title shown above a table.
func Header(msg string) string {
	return Accent.Bold(true).Render(msg)
}

// Hint renders secondary advice after an error.
func Hint(msg string) string {
	return Muted.Render(msg)
}

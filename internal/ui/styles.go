package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for CLI output
var (
	PrimaryColor = lipgloss.Color("#00A0D6") // Cyan - headers, highlights
	SuccessColor = lipgloss.Color("#43BF6D") // Green - device on, success
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors, device unreachable
	WarningColor = lipgloss.Color("#FFA500") // Orange - warnings
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
)

// Shared styles
var (
	// HeaderStyle is for table column headers.
	HeaderStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// SeparatorStyle is for the rule under the header row.
	SeparatorStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// OnStyle marks a device that is powered on.
	OnStyle = lipgloss.NewStyle().
		Foreground(SuccessColor)

	// OffStyle marks a device that is powered off.
	OffStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// ErrorStyle is for error lines printed to stderr.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)
)

// TerminalWidth returns the current terminal width, or a sane default
// when stdout is not a terminal (pipes, CI).
func TerminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 100
}

// Package style renders the short human-facing output of the CLI.
// Diagnostics go through the logger; only run results are styled here.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Status styles
var (
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	PathStyle = lipgloss.NewStyle().
			Foreground(PathColor).
			Italic(true)
)

// Indicators
const (
	SuccessMark = "✓"
	ErrorMark   = "✗"
	DryRunMark  = "○"
)

// DisableColor forces plain output regardless of the terminal
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

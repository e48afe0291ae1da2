// Package ui centralizes terminal styling for cadence command output.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	ColorPrimary   = lipgloss.Color("75")  // Blue
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray

	// Base styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)

	// StyleHeader renders section headers in status output.
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	// StyleCell renders one table cell with breathing room.
	StyleCell = lipgloss.NewStyle().PaddingRight(2)
)

// StatusStyle returns the style for an execution status string.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "running":
		return StylePrimary
	case "blocked":
		return StyleWarning
	case "completed":
		return StyleSuccess
	case "aborted":
		return StyleError
	default:
		return StyleSubtle
	}
}

// BandStyle returns the style for a complexity band.
func BandStyle(band string) lipgloss.Style {
	switch band {
	case "TRIVIAL", "SIMPLE":
		return StyleSuccess
	case "MEDIUM":
		return StyleWarning
	case "COMPLEX":
		return StyleError
	default:
		return StyleSubtle
	}
}

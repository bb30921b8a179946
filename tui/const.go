package tui

import (
	lp "github.com/charmbracelet/lipgloss"
)

// Color constants shared with the launcher diagnostics
const (
	colorSuccess = "10" // Green for success states
	colorWarning = "11" // Yellow for warnings
	colorInfo    = "12" // Blue for info
	colorError   = "9"  // Red for errors
)

// Styles using lipgloss
var (
	titleStyle   = lp.NewStyle().Bold(true).Padding(0, 1)
	stateStyle   = lp.NewStyle().Foreground(lp.Color(colorInfo))
	successStyle = lp.NewStyle().Foreground(lp.Color(colorSuccess))
	errorStyle   = lp.NewStyle().Foreground(lp.Color(colorError))
	footerStyle  = lp.NewStyle().Faint(true).MarginTop(1)
)

// Severity styles for plain (non-interactive) diagnostics printed by main.
var (
	// ErrorStyle renders fatal diagnostics
	ErrorStyle = lp.NewStyle().Bold(true).Foreground(lp.Color(colorError))
	// WarnStyle renders warnings that never abort the launch
	WarnStyle = lp.NewStyle().Foreground(lp.Color(colorWarning))
	// InfoStyle renders informational progress lines
	InfoStyle = lp.NewStyle().Foreground(lp.Color(colorInfo))
	// SuccessStyle renders the final spawn confirmation
	SuccessStyle = lp.NewStyle().Bold(true).Foreground(lp.Color(colorSuccess))
)

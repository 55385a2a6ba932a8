// Package render formats Schedule/Curves/Timeline/burndown output for the
// CLI: a gruvbox-inspired color palette plus table rendering for
// schedule/demand reports.
package render

import "github.com/charmbracelet/lipgloss"

// Gruvbox-inspired palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
)

// Header renders text as a bold section header in the header color.
func Header(text string) string {
	return StyleHeader.Render(text)
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// CriticalBadge marks a critical-path row.
func CriticalBadge(onCriticalPath bool) string {
	if onCriticalPath {
		return StyleRed.Render("● CRITICAL")
	}
	return StyleGreen.Render("○ float")
}

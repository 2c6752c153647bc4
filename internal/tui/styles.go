// Package tui provides shared styles for the zenview terminal UI.
package tui

import "github.com/charmbracelet/lipgloss"

// Tokyo Night inspired color palette
var (
	ColorFg      = lipgloss.Color("#c0caf5")
	ColorFgMuted = lipgloss.Color("#565f89")
	ColorNew     = lipgloss.Color("#e0af68")
	ColorOpen    = lipgloss.Color("#f7768e")
	ColorPending = lipgloss.Color("#7aa2f7")
	ColorSolved  = lipgloss.Color("#9ece6a")
	ColorAccent  = lipgloss.Color("#d4a373")
)

// StatusColor returns the color for a ticket status.
func StatusColor(status string) lipgloss.Color {
	switch status {
	case "new":
		return ColorNew
	case "open":
		return ColorOpen
	case "pending", "hold":
		return ColorPending
	case "solved", "closed":
		return ColorSolved
	default:
		return ColorFgMuted
	}
}

// Common styles
var (
	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorFg).
			Bold(true)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			Bold(true)

	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorFgMuted)

	StyleSelected = lipgloss.NewStyle().
			Foreground(ColorFg).
			Background(lipgloss.Color("#24283b")).
			Bold(true)

	StyleID = lipgloss.NewStyle().
		Foreground(ColorPending)

	StyleTag = lipgloss.NewStyle().
			Foreground(ColorAccent)
)


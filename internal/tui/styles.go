package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by every page.
var (
	ColorNavy   = lipgloss.Color("#1B2A41")
	ColorBlue   = lipgloss.Color("39")
	ColorGray   = lipgloss.Color("244")
	ColorWhite  = lipgloss.Color("255")
	ColorGreen  = lipgloss.Color("42")
	ColorYellow = lipgloss.Color("220")
	ColorOrange = lipgloss.Color("208")
	ColorRed    = lipgloss.Color("196")
)

var (
	barStyle = lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(ColorWhite)

	helpStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	headingStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	filterActiveStyle = lipgloss.NewStyle().
				Foreground(ColorYellow).
				Bold(true)

	filterFocusStyle = lipgloss.NewStyle().
				Underline(true)

	pageCurrentStyle = lipgloss.NewStyle().
				Background(ColorBlue).
				Foreground(ColorNavy).
				Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(ColorGreen)

	menuStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBlue)

	menuSelectedStyle = lipgloss.NewStyle().
				Background(ColorBlue).
				Foreground(ColorNavy).
				Bold(true)

	destructiveStyle = lipgloss.NewStyle().
				Foreground(ColorRed)
)

// statusColor maps a record status to a color for table cells and details.
func statusColor(status string) lipgloss.Color {
	switch status {
	case "active", "approved", "filled", "enabled", "applied", "accepted":
		return ColorGreen
	case "pending", "open", "paused":
		return ColorYellow
	case "suspended", "declined", "disabled":
		return ColorOrange
	case "cancelled", "refunded", "reversed":
		return ColorRed
	default:
		return ColorWhite
	}
}

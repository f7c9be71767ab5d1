package tui

import "github.com/charmbracelet/lipgloss"

var (
	waterColor   = lipgloss.Color("#2196F3")
	murkyColor   = lipgloss.Color("#8D6E63")
	sandColor    = lipgloss.Color("#FFD54F")
	successColor = lipgloss.Color("#8BC34A")
	warningColor = lipgloss.Color("#FFC107")
	dangerColor  = lipgloss.Color("#e53935")
	mutedColor   = lipgloss.Color("#78909C")
)

// Styles holds the rendered look of the terminal tank.
type Styles struct {
	Title  lipgloss.Style
	Tank   lipgloss.Style
	Murky  lipgloss.Style
	Sand   lipgloss.Style
	Label  lipgloss.Style
	Good   lipgloss.Style
	Warn   lipgloss.Style
	Bad    lipgloss.Style
	Muted  lipgloss.Style
	Panel  lipgloss.Style
	Flavor lipgloss.Style
	Help   lipgloss.Style
}

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(successColor),
		Tank:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(waterColor).Foreground(waterColor),
		Murky:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(murkyColor).Foreground(murkyColor),
		Sand:   lipgloss.NewStyle().Foreground(sandColor),
		Label:  lipgloss.NewStyle().Width(8).Foreground(mutedColor),
		Good:   lipgloss.NewStyle().Foreground(successColor),
		Warn:   lipgloss.NewStyle().Foreground(warningColor),
		Bad:    lipgloss.NewStyle().Foreground(dangerColor),
		Muted:  lipgloss.NewStyle().Foreground(mutedColor),
		Panel:  lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(mutedColor).Padding(0, 1),
		Flavor: lipgloss.NewStyle().Italic(true),
		Help:   lipgloss.NewStyle().Foreground(mutedColor),
	}
}

// level picks a style for a 0-100 gauge.
func (s Styles) level(v, warn, bad float64) lipgloss.Style {
	switch {
	case v < bad:
		return s.Bad
	case v < warn:
		return s.Warn
	default:
		return s.Good
	}
}

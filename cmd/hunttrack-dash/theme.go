package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Theme defines the visual styling for the hunttrack dashboard.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
}

// DefaultTheme returns the default theme for hunttrack dash.
func DefaultTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("12"),  // Blue
		Secondary: lipgloss.Color("14"),  // Cyan
		Success:   lipgloss.Color("10"),  // Green
		Warning:   lipgloss.Color("11"),  // Yellow
		Error:     lipgloss.Color("9"),   // Red
		Muted:     lipgloss.Color("240"), // Gray
	}
}

// panel returns the bordered box style used for every dashboard section.
func (t Theme) panel(width int) lipgloss.Style {
	s := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Muted).
		Padding(0, 1)
	if width > 0 {
		s = s.Width(width)
	}
	return s
}

func (t Theme) title() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
}

// profit colors v green when positive and red when negative.
func (t Theme) profit(v decimal.Decimal) lipgloss.Style {
	switch v.Sign() {
	case 1:
		return lipgloss.NewStyle().Foreground(t.Success)
	case -1:
		return lipgloss.NewStyle().Foreground(t.Error)
	default:
		return lipgloss.NewStyle()
	}
}

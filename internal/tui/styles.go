package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/xalt/visitcal/internal/domain"
)

var (
	// TitleStyle is used for screen titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")). // Purple
			MarginBottom(1)

	// SelectedItemStyle is used for highlighted/selected items.
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")). // Light purple
				Bold(true)

	// NormalItemStyle is used for non-selected items.
	NormalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")) // Light gray

	// ErrorStyle is used for error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// HelpStyle is used for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // Dark gray
			MarginTop(1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true)

	fadedDayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	dayNumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	todayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	selectedDayStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("237")).
				Bold(true)
)

// categoryStyles maps each status category to its event bar style.
// Built once at startup; lookups during render are just map reads.
var categoryStyles = map[domain.StatusCategory]lipgloss.Style{
	domain.CategoryNew:           lipgloss.NewStyle().Foreground(lipgloss.Color("39")),  // Blue
	domain.CategoryIndeterminate: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // Amber
	domain.CategoryDone:          lipgloss.NewStyle().Foreground(lipgloss.Color("34")),  // Green
	domain.CategoryUndefined:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")), // Gray
}

// eventStyle returns the bar style for an event's status category,
// inverted when the event is under the cursor.
func eventStyle(category domain.StatusCategory, selected bool) lipgloss.Style {
	s, ok := categoryStyles[category]
	if !ok {
		s = categoryStyles[domain.CategoryUndefined]
	}
	if selected {
		return s.Reverse(true).Bold(true)
	}
	return s
}

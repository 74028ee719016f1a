package tui

import "github.com/charmbracelet/lipgloss"

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

	// dimStyle is used for secondary text.
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	// accentStyle marks the active element.
	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // Pink
			Bold(true)

	// successStyle is used for completed progress.
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")) // Green
)

// colorSwatch renders a small block in a Linear hex color, or a dim dot when
// the color is unknown.
func colorSwatch(hex string) string {
	if hex == "" {
		return dimStyle.Render("•")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("●")
}

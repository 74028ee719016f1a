package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/robby/lpi/internal/criteria"
)

var (
	// HelpOverlayStyle defines the style for the help overlay container.
	HelpOverlayStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		MarginTop(1)
)

// filterFields lists the filters in the order the keymap binds them.
var filterFields = []criteria.Field{
	criteria.FieldSearch,
	criteria.FieldLabels,
	criteria.FieldStates,
	criteria.FieldCycles,
	criteria.FieldMilestone,
}

// HelpModel wraps the bubbles help component and explains where each
// filter is applied.
type HelpModel struct {
	help   help.Model
	keymap KeyMap
}

// NewHelpModel creates a new help overlay model.
func NewHelpModel(keymap KeyMap) HelpModel {
	h := help.New()
	h.ShowAll = true

	return HelpModel{
		help:   h,
		keymap: keymap,
	}
}

// View renders the help overlay. The cycle binding and its legend entry are
// hidden unless the cycle filter is enabled.
func (m HelpModel) View(width int, cycleAware bool) string {
	m.help.Width = width - 8 // Account for padding and border

	keymap := m.keymap
	keymap.Cycles.SetEnabled(cycleAware)

	sections := []string{
		TitleStyle.Render("Keyboard shortcuts"),
		m.help.View(keymap),
		"",
		TitleStyle.Render("Filters"),
		filterLegend(cycleAware),
	}
	return HelpOverlayStyle.Render(strings.Join(sections, "\n"))
}

// filterLegend describes, per filter, whether a change reloads the project
// from Linear or only narrows the loaded issues.
func filterLegend(cycleAware bool) string {
	lines := make([]string, 0, len(filterFields))
	for _, f := range filterFields {
		if f == criteria.FieldCycles && !cycleAware {
			continue
		}
		var where string
		switch {
		case f.Site() == criteria.Remote:
			where = "sent to Linear, reloads issues"
		case f.TriggersRefetch(cycleAware):
			where = "applied locally, reloads issues"
		case f.Debounced():
			where = "applied locally"
		default:
			where = "applied locally, immediately"
		}
		lines = append(lines, fmt.Sprintf("%-10s %s", f, dimStyle.Render(where)))
	}
	return strings.Join(lines, "\n")
}

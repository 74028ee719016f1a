package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/robby/lpi/internal/domain"
	"github.com/robby/lpi/internal/engine"
)

// pickerKind identifies which filter criterion an option picker edits.
type pickerKind int

const (
	pickLabels pickerKind = iota
	pickStates
	pickCycles
	pickMilestone
)

func (k pickerKind) title() string {
	switch k {
	case pickLabels:
		return "Filter by Label"
	case pickStates:
		return "Filter by State"
	case pickCycles:
		return "Filter by Cycle"
	default:
		return "Select Milestone"
	}
}

// multi reports whether the picker edits a set rather than a single choice.
func (k pickerKind) multi() bool {
	return k != pickMilestone
}

// optionItem is a single selectable filter value.
type optionItem struct {
	value    string // label/state name, cycle label or milestone ID
	label    string
	color    string // hex, optional
	note     string // trailing detail, e.g. milestone completion
	selected bool
}

func (i optionItem) FilterValue() string {
	return i.label
}

// optionDelegate renders option items with a checkbox or radio marker.
type optionDelegate struct {
	multi bool
}

func (d optionDelegate) Height() int                             { return 1 }
func (d optionDelegate) Spacing() int                            { return 0 }
func (d optionDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d optionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(optionItem)
	if !ok {
		return
	}

	marker := "( )"
	if d.multi {
		marker = "[ ]"
	}
	if i.selected {
		marker = "(•)"
		if d.multi {
			marker = "[x]"
		}
	}

	str := fmt.Sprintf("%s %s %s", marker, colorSwatch(i.color), i.label)
	if i.note != "" {
		str += "  " + dimStyle.Render(i.note)
	}

	if index == m.Index() {
		fmt.Fprint(w, SelectedItemStyle.Render("> ")+str)
	} else {
		fmt.Fprint(w, "  "+NormalItemStyle.Render(str))
	}
}

// OptionPickerModel lets the user toggle label, state or cycle values, or pick
// a single milestone.
type OptionPickerModel struct {
	kind pickerKind
	list list.Model
}

// NewOptionPickerModel creates a picker over options.
func NewOptionPickerModel(kind pickerKind, options []optionItem, width, height int) OptionPickerModel {
	items := make([]list.Item, len(options))
	for i, o := range options {
		items[i] = o
	}

	l := list.New(items, optionDelegate{multi: kind.multi()}, pickerWidth(width), pickerHeight(height, len(options)))
	l.Title = kind.title()
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = TitleStyle

	return OptionPickerModel{
		kind: kind,
		list: l,
	}
}

func pickerWidth(width int) int {
	if width <= 0 {
		return 48
	}
	return min(48, width-4)
}

func pickerHeight(height, n int) int {
	want := n + 6 // title, filter and padding
	if height <= 0 {
		return want
	}
	return max(8, min(want, height-6))
}

// Update handles picker input. Toggles and selections are emitted as
// messages for the issues view to apply.
func (m OptionPickerModel) Update(msg tea.Msg) (OptionPickerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(pickerWidth(msg.Width))
		m.list.SetHeight(pickerHeight(msg.Height, len(m.list.Items())))
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "esc", "q":
			return m, func() tea.Msg { return closePickerMsg{} }
		case " ", "x":
			if !m.kind.multi() {
				break
			}
			if item, ok := m.list.SelectedItem().(optionItem); ok {
				kind := m.kind
				return m, func() tea.Msg {
					return optionToggledMsg{kind: kind, value: item.value}
				}
			}
			return m, nil
		case "enter":
			if m.kind.multi() {
				return m, func() tea.Msg { return closePickerMsg{} }
			}
			if item, ok := m.list.SelectedItem().(optionItem); ok {
				return m, func() tea.Msg {
					return milestoneSelectedMsg{id: item.value}
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// SetSelected marks the items whose value is in selected.
func (m *OptionPickerModel) SetSelected(selected func(value string) bool) {
	for idx, it := range m.list.Items() {
		item, ok := it.(optionItem)
		if !ok {
			continue
		}
		item.selected = selected(item.value)
		m.list.SetItem(idx, item)
	}
}

// View renders the picker box.
func (m OptionPickerModel) View() string {
	hint := "[space]toggle [enter]done [/]filter [esc]close"
	if !m.kind.multi() {
		hint = "[enter]select [/]filter [esc]close"
	}
	return pickerBoxStyle.Render(m.list.View() + "\n" + dimStyle.Render(hint))
}

var pickerBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("62")).
	Padding(0, 1)

// nameOptions builds set options from observed values, keeping selected values
// that the current dataset no longer contains so they can be deselected.
func nameOptions(observed []string, selected domain.NameSet) []optionItem {
	seen := make(map[string]bool, len(observed))
	out := make([]optionItem, 0, len(observed)+len(selected))
	for _, v := range observed {
		seen[v] = true
		out = append(out, optionItem{value: v, label: v, selected: selected.Contains(v)})
	}
	for _, v := range selected {
		if !seen[v] {
			out = append(out, optionItem{value: v, label: v, selected: true})
		}
	}
	return out
}

// labelOptions builds options from the team's label vocabulary.
func labelOptions(vocabulary []domain.Label, selected domain.NameSet) []optionItem {
	out := make([]optionItem, 0, len(vocabulary))
	seen := make(map[string]bool, len(vocabulary))
	for _, l := range vocabulary {
		seen[l.Name] = true
		out = append(out, optionItem{value: l.Name, label: l.Name, color: l.Color, selected: selected.Contains(l.Name)})
	}
	for _, v := range selected {
		if !seen[v] {
			out = append(out, optionItem{value: v, label: v, selected: true})
		}
	}
	return out
}

// milestoneOptions lists the "All issues" entry followed by the milestones.
func milestoneOptions(milestones []engine.MilestoneProgress, current string) []optionItem {
	out := make([]optionItem, 0, len(milestones)+1)
	out = append(out, optionItem{
		value:    domain.AllMilestones,
		label:    "All issues",
		selected: current == domain.AllMilestones,
	})
	for _, mp := range milestones {
		out = append(out, optionItem{
			value:    mp.Milestone.ID,
			label:    mp.Milestone.Name,
			note:     fmt.Sprintf("%d%%", mp.Percent),
			selected: current == mp.Milestone.ID,
		})
	}
	return out
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/pkg/browser"

	"github.com/robby/lpi/internal/domain"
	"github.com/robby/lpi/internal/format"
)

// Layout constants
const (
	leftPanelRatio = 0.35 // Left panel takes 35% of width
	minLeftWidth   = 30
	maxLeftWidth   = 50
	headerHeight   = 1
	footerHeight   = 1
	borderSize     = 2 // Top + bottom border
)

// Detail view styles
var (
	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))

	detailValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	panelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	focusedPanelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("205"))

	scrollIndicatorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205"))
)

// DetailModel is the issue detail modal with a split-screen layout.
type DetailModel struct {
	issue    domain.Issue
	viewport viewport.Model

	// View dimensions
	width  int
	height int
}

// NewDetailModel creates a detail view for a copy of issue.
func NewDetailModel(issue domain.Issue) DetailModel {
	vp := viewport.New(40, 10) // Will be resized in WindowSizeMsg
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	m := DetailModel{
		issue:    issue,
		viewport: vp,
	}
	m.updateViewportContent()
	return m
}

// Init initializes the detail model
func (m DetailModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Issue returns the issue being shown.
func (m DetailModel) Issue() domain.Issue {
	return m.issue
}

// SetIssue replaces the shown issue, e.g. after a refetch updated it.
func (m *DetailModel) SetIssue(issue domain.Issue) {
	m.issue = issue
	m.updateViewportContent()
}

// Update handles messages
func (m DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeComponents()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// resizeComponents calculates and sets component dimensions
func (m *DetailModel) resizeComponents() {
	leftWidth := m.leftWidth(m.width)

	rightWidth := m.width - leftWidth - 3 // 3 = gap between panels
	if rightWidth < 30 {
		rightWidth = 30
	}

	contentHeight := m.height - headerHeight - footerHeight - borderSize
	if contentHeight < 10 {
		contentHeight = 10
	}

	m.viewport.Width = rightWidth - borderSize - 2 // -2 for padding
	m.viewport.Height = contentHeight - borderSize

	m.updateViewportContent()
}

func (m DetailModel) leftWidth(width int) int {
	leftWidth := int(float64(width) * leftPanelRatio)
	if leftWidth < minLeftWidth {
		leftWidth = minLeftWidth
	}
	if leftWidth > maxLeftWidth {
		leftWidth = maxLeftWidth
	}
	return leftWidth
}

// handleKeyPress processes keyboard input
func (m DetailModel) handleKeyPress(msg tea.KeyMsg) (DetailModel, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, func() tea.Msg { return closeDetailMsg{} }
	case "o":
		if m.issue.URL != "" {
			_ = browser.OpenURL(m.issue.URL)
		}
	case "j", "down":
		m.viewport.LineDown(1)
	case "k", "up":
		m.viewport.LineUp(1)
	case "ctrl+d":
		m.viewport.HalfViewDown()
	case "ctrl+u":
		m.viewport.HalfViewUp()
	case "g":
		m.viewport.GotoTop()
	case "G":
		m.viewport.GotoBottom()
	}

	return m, nil
}

// View renders the split-screen detail view
func (m DetailModel) View() string {
	width := m.width
	height := m.height
	if width == 0 {
		width = 100
	}
	if height == 0 {
		height = 30
	}

	leftWidth := m.leftWidth(width)
	rightWidth := width - leftWidth - 1 // 1 char gap

	contentHeight := height - headerHeight - footerHeight
	if contentHeight < 10 {
		contentHeight = 10
	}

	header := dimStyle.Render("[q]back [o]open [j/k]scroll [g/G]top/bottom")

	leftPanel := panelBorderStyle.
		Width(leftWidth - borderSize).
		Height(contentHeight - borderSize).
		Render(m.renderLeftPanel(leftWidth - borderSize))

	rightPanel := focusedPanelBorderStyle.
		Width(rightWidth - borderSize).
		Height(contentHeight - borderSize).
		Render(m.renderRightPanel())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, " ", rightPanel)

	return lipgloss.JoinVertical(lipgloss.Left, header, panels, m.renderFooter(width))
}

// renderFooter renders the bottom status bar
func (m DetailModel) renderFooter(width int) string {
	left := m.issue.URL

	var right string
	if m.viewport.TotalLineCount() > m.viewport.Height {
		switch {
		case m.viewport.AtTop():
			right = "TOP"
		case m.viewport.AtBottom():
			right = "END"
		default:
			right = fmt.Sprintf("%d%%", int(m.viewport.ScrollPercent()*100))
		}
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return dimStyle.Render(left) + strings.Repeat(" ", padding) + dimStyle.Render(right)
}

// renderLeftPanel renders the issue metadata panel
func (m DetailModel) renderLeftPanel(width int) string {
	var b strings.Builder
	issue := m.issue

	b.WriteString(detailLabelStyle.Render(issue.Identifier))
	b.WriteString("\n\n")

	b.WriteString(detailTitleStyle.Render(wordwrap.String(issue.Title, width-2)))
	b.WriteString("\n\n")

	field := func(name, value string) {
		b.WriteString(detailLabelStyle.Render(name + ": "))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteString("\n")
	}

	b.WriteString(detailLabelStyle.Render("Status: "))
	b.WriteString(colorSwatch(issue.State.Color) + " ")
	b.WriteString(detailValueStyle.Render(orPlaceholder(issue.State.Name)))
	b.WriteString("\n")

	field("Priority", fmt.Sprintf("%s %s", format.PriorityBars(issue.Priority), issue.Priority))
	field("Estimate", format.Estimate(issue.Estimate))

	cycle := format.Placeholder
	if issue.Cycle != nil {
		cycle = issue.Cycle.Label()
		if issue.Cycle.Name != "" {
			cycle += " (" + issue.Cycle.Name + ")"
		}
	}
	field("Cycle", cycle)
	field("Milestone", orPlaceholder(issue.MilestoneName()))

	labels := format.Labels(issue.Labels)
	if labels == "" {
		labels = format.Placeholder
	}
	field("Labels", wordwrap.String(labels, max(10, width-10)))

	b.WriteString("\n")
	field("Created", format.DateTime(issue.CreatedAt.Local()))
	field("Updated", format.DateTime(issue.UpdatedAt.Local()))

	return b.String()
}

// renderRightPanel renders the description panel with viewport
func (m DetailModel) renderRightPanel() string {
	var b strings.Builder

	scrollHint := ""
	if m.viewport.TotalLineCount() > m.viewport.Height {
		switch {
		case m.viewport.AtTop():
			scrollHint = " ↓"
		case m.viewport.AtBottom():
			scrollHint = " ↑"
		default:
			scrollHint = " ↕"
		}
	}

	b.WriteString(detailLabelStyle.Render("Description"))
	b.WriteString(scrollIndicatorStyle.Render(scrollHint))
	b.WriteString("\n")

	if strings.TrimSpace(m.issue.Description) == "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("No description"))
		return b.String()
	}

	b.WriteString(m.viewport.View())
	return b.String()
}

// updateViewportContent renders the description for viewport display
func (m *DetailModel) updateViewportContent() {
	m.viewport.SetContent(renderMarkdown(m.issue.Description, m.viewport.Width-2))
}

func orPlaceholder(s string) string {
	if s == "" {
		return format.Placeholder
	}
	return s
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"

	"github.com/robby/lpi/internal/debounce"
	"github.com/robby/lpi/internal/domain"
	"github.com/robby/lpi/internal/engine"
	"github.com/robby/lpi/internal/format"
	"github.com/robby/lpi/internal/viewmodel"
)

// Layout constants
const (
	rowsPerPage   = 50
	sidebarWidth  = 38
	minTitleWidth = 16
	chromeLines   = 5 // header, filter summary, table header, footer, gap
)

// tableColumn describes one issues table column. Order matches the 1-0 sort keys.
type tableColumn struct {
	column engine.Column
	title  string
	width  int // 0 means the column takes the remaining width
}

var tableColumns = []tableColumn{
	{engine.ColumnIdentifier, "ID", 9},
	{engine.ColumnTitle, "Title", 0},
	{engine.ColumnPriority, "Pri", 5},
	{engine.ColumnStatus, "Status", 13},
	{engine.ColumnEstimate, "Est", 4},
	{engine.ColumnCycle, "Cycle", 9},
	{engine.ColumnMilestone, "Milestone", 14},
	{engine.ColumnLabels, "Labels", 16},
	{engine.ColumnCreatedAt, "Created", 10},
	{engine.ColumnUpdatedAt, "Updated", 10},
}

// Styles for the issues view
var (
	headerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))
)

// IssuesModel is the project issues dashboard: a sortable, paginated table
// with a project sidebar, filter pickers and an issue detail modal. All state
// that matters lives in the view model; this type only renders its Snapshot.
type IssuesModel struct {
	vm *viewmodel.Model

	// UI components
	keymap      KeyMap
	help        HelpModel
	spinner     spinner.Model
	searchInput textinput.Model
	table       table.Model
	paginator   paginator.Model

	// Overlays
	picker *OptionPickerModel
	detail *DetailModel

	snap viewmodel.Snapshot

	// View state
	width      int
	height     int
	showHelp   bool
	searchMode bool
}

// NewIssuesModel creates the issues view over vm.
func NewIssuesModel(vm *viewmodel.Model) IssuesModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = "Search titles..."
	ti.Prompt = "/ "

	t := table.New(
		table.WithColumns(columnsFor(100, engine.SortState{}, false)),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(styles)

	p := paginator.New()
	p.Type = paginator.Dots
	p.PerPage = rowsPerPage
	p.ActiveDot = accentStyle.Render("•")
	p.InactiveDot = dimStyle.Render("•")

	m := IssuesModel{
		vm:          vm,
		keymap:      DefaultKeyMap(),
		help:        NewHelpModel(DefaultKeyMap()),
		spinner:     sp,
		searchInput: ti,
		table:       t,
		paginator:   p,
	}
	m.refresh()
	return m
}

// Init starts the spinner and requests the window size.
func (m IssuesModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.WindowSize())
}

// Update handles messages
func (m IssuesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		(&m).resize()
		var cmds []tea.Cmd
		if m.detail != nil {
			d, cmd := m.detail.Update(msg)
			m.detail = &d
			cmds = append(cmds, cmd)
		}
		if m.picker != nil {
			p, cmd := m.picker.Update(msg)
			m.picker = &p
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case debounce.SettledMsg, viewmodel.IssuesFetchedMsg, viewmodel.LabelsFetchedMsg:
		cmd := m.vm.Update(msg)
		(&m).refresh()
		return m, cmd

	case optionToggledMsg:
		cmd := (&m).toggleOption(msg)
		(&m).refresh()
		return m, cmd

	case milestoneSelectedMsg:
		m.vm.SelectMilestone(msg.id)
		m.picker = nil
		(&m).refresh()
		return m, nil

	case closePickerMsg:
		m.picker = nil
		return m, nil

	case closeDetailMsg:
		m.vm.CloseDetail()
		m.detail = nil
		(&m).refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		if m.detail != nil {
			d, cmd := m.detail.Update(msg)
			m.detail = &d
			return m, cmd
		}
	}

	return m, nil
}

// handleKeyPress routes keys to the active overlay or the table.
func (m IssuesModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.vm.Close()
		return m, tea.Quit
	}

	if m.detail != nil {
		d, cmd := m.detail.Update(msg)
		m.detail = &d
		return m, cmd
	}

	if m.picker != nil {
		p, cmd := m.picker.Update(msg)
		m.picker = &p
		return m, cmd
	}

	if m.searchMode {
		return m.handleSearchKey(msg)
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.vm.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keymap.Search):
		m.searchMode = true
		cmd := m.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keymap.Labels):
		m.openPicker(pickLabels)
		return m, nil

	case key.Matches(msg, m.keymap.States):
		m.openPicker(pickStates)
		return m, nil

	case key.Matches(msg, m.keymap.Cycles):
		if !m.snap.CycleAware {
			return m, nil
		}
		m.openPicker(pickCycles)
		return m, nil

	case key.Matches(msg, m.keymap.Milestone):
		m.openPicker(pickMilestone)
		return m, nil

	case key.Matches(msg, m.keymap.Sort):
		if col, ok := sortColumnForKey(msg.String()); ok {
			m.vm.CycleSort(col)
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keymap.ClearSort):
		m.vm.ClearSort()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		cmd := m.vm.Refresh()
		m.refresh()
		return m, cmd

	case key.Matches(msg, m.keymap.Project):
		return m, func() tea.Msg { return switchProjectMsg{} }

	case key.Matches(msg, m.keymap.Open):
		if issue := m.cursorIssue(); issue != nil && issue.URL != "" {
			_ = browser.OpenURL(issue.URL)
		}
		return m, nil

	case key.Matches(msg, m.keymap.Detail):
		return m.openDetail()

	case key.Matches(msg, m.keymap.PrevPage):
		m.paginator.PrevPage()
		m.table.SetCursor(0)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keymap.NextPage):
		m.paginator.NextPage()
		m.table.SetCursor(0)
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// handleSearchKey edits the search text. Every keystroke updates the view
// model; the debounced value decides what the table shows.
func (m IssuesModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.vm.SetSearch(m.searchInput.Value()))
}

func (m *IssuesModel) openPicker(kind pickerKind) {
	var options []optionItem
	sel := m.snap.Selection
	switch kind {
	case pickLabels:
		options = labelOptions(m.snap.LabelOptions, sel.Labels)
	case pickStates:
		options = nameOptions(m.snap.StateOptions, sel.States)
	case pickCycles:
		options = nameOptions(m.snap.CycleOptions, sel.Cycles)
	case pickMilestone:
		options = milestoneOptions(m.snap.Milestones, sel.Milestone)
	}
	p := NewOptionPickerModel(kind, options, m.width, m.height)
	m.picker = &p
}

func (m *IssuesModel) toggleOption(msg optionToggledMsg) tea.Cmd {
	var cmd tea.Cmd
	switch msg.kind {
	case pickLabels:
		cmd = m.vm.ToggleLabel(msg.value)
	case pickStates:
		cmd = m.vm.ToggleState(msg.value)
	case pickCycles:
		cmd = m.vm.ToggleCycle(msg.value)
	}

	if m.picker != nil {
		sel := m.vm.Snapshot().Selection
		var set domain.NameSet
		switch msg.kind {
		case pickLabels:
			set = sel.Labels
		case pickStates:
			set = sel.States
		case pickCycles:
			set = sel.Cycles
		}
		m.picker.SetSelected(set.Contains)
	}
	return cmd
}

func (m IssuesModel) openDetail() (tea.Model, tea.Cmd) {
	issue := m.cursorIssue()
	if issue == nil {
		return m, nil
	}
	if err := m.vm.SelectIssue(issue.ID); err != nil {
		return m, nil
	}
	m.refresh()
	if m.snap.Selected == nil {
		return m, nil
	}
	d := NewDetailModel(*m.snap.Selected)
	m.detail = &d
	return m, d.Init()
}

// refresh re-derives the snapshot and pushes it into the table.
func (m *IssuesModel) refresh() {
	m.snap = m.vm.Snapshot()

	if len(m.snap.Rows) == 0 {
		m.paginator.TotalPages = 1
	} else {
		m.paginator.SetTotalPages(len(m.snap.Rows))
	}
	if m.paginator.Page >= m.paginator.TotalPages {
		m.paginator.Page = max(0, m.paginator.TotalPages-1)
	}

	m.table.SetColumns(columnsFor(m.tableWidth(), m.snap.Sort, m.snap.SortActive))
	m.table.SetRows(issueRows(m.pageRows()))

	// An empty table leaves the cursor at -1
	if n := len(m.table.Rows()); n > 0 {
		if c := m.table.Cursor(); c < 0 {
			m.table.SetCursor(0)
		} else if c >= n {
			m.table.SetCursor(n - 1)
		}
	}

	if m.detail != nil {
		if !m.snap.ModalOpen {
			m.detail = nil
		} else if m.snap.Selected != nil && !m.snap.Selected.UpdatedAt.Equal(m.detail.Issue().UpdatedAt) {
			m.detail.SetIssue(*m.snap.Selected)
		}
	}
}

func (m *IssuesModel) resize() {
	height := m.height - chromeLines
	if m.snap.Err != nil || m.snap.LabelsErr != nil {
		height--
	}
	m.table.SetHeight(max(3, height))
	m.table.SetWidth(m.tableWidth())
	m.table.SetColumns(columnsFor(m.tableWidth(), m.snap.Sort, m.snap.SortActive))
}

func (m IssuesModel) tableWidth() int {
	if m.width == 0 {
		return 100
	}
	return max(40, m.width-sidebarWidth-1)
}

// pageRows returns the snapshot rows on the current page.
func (m IssuesModel) pageRows() []domain.Issue {
	start, end := m.paginator.GetSliceBounds(len(m.snap.Rows))
	return m.snap.Rows[start:end]
}

// cursorIssue returns the issue under the table cursor, or nil.
func (m IssuesModel) cursorIssue() *domain.Issue {
	rows := m.pageRows()
	c := m.table.Cursor()
	if c < 0 || c >= len(rows) {
		return nil
	}
	return &rows[c]
}

// View renders the issues view
func (m IssuesModel) View() string {
	if m.detail != nil {
		return m.detail.View()
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	if errLine := m.renderErrors(); errLine != "" {
		sections = append(sections, errLine)
	}
	sections = append(sections, m.renderFilterSummary())

	var body string
	switch {
	case m.showHelp:
		body = m.help.View(m.tableWidth(), m.snap.CycleAware)
	case m.picker != nil:
		body = m.picker.View()
	default:
		body = m.renderTable()
	}

	content := lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter())
	sidebar := m.renderSidebar(lipgloss.Height(content))
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, content, " ", sidebar))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title line with loading state and help hint.
func (m IssuesModel) renderHeader() string {
	title := "Linear"
	if m.snap.Project != nil {
		title = m.snap.Project.Name
	}
	left := headerTitleStyle.Render(title)
	if m.snap.Loading {
		left += " " + m.spinner.View() + dimStyle.Render("loading...")
	}

	right := dimStyle.Render("[/]search [L]abels [S]tates [M]ilestone [?]help [q]uit")
	if m.snap.CycleAware {
		right = dimStyle.Render("[/]search [L]abels [S]tates [C]ycles [M]ilestone [?]help [q]uit")
	}

	width := m.width
	if width == 0 {
		width = 100
	}
	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}
	return left + strings.Repeat(" ", padding) + right
}

// renderErrors renders the red notification line, or "".
func (m IssuesModel) renderErrors() string {
	var parts []string
	if m.snap.Err != nil {
		parts = append(parts, m.snap.Err.Error())
	}
	if m.snap.LabelsErr != nil {
		parts = append(parts, m.snap.LabelsErr.Error())
	}
	if len(parts) == 0 {
		return ""
	}
	return ErrorStyle.Render("✗ " + strings.Join(parts, " · "))
}

// renderFilterSummary shows the search box and the active filter values.
func (m IssuesModel) renderFilterSummary() string {
	sel := m.snap.Selection
	var parts []string

	if m.searchMode || sel.Search != "" {
		parts = append(parts, m.searchInput.View())
	}
	if len(sel.Labels) > 0 {
		parts = append(parts, "labels: "+strings.Join(sel.Labels, ", "))
	}
	if len(sel.States) > 0 {
		parts = append(parts, "states: "+strings.Join(sel.States, ", "))
	}
	if m.snap.CycleAware && len(sel.Cycles) > 0 {
		parts = append(parts, "cycles: "+strings.Join(sel.Cycles, ", "))
	}
	if sel.Milestone != domain.AllMilestones {
		parts = append(parts, "milestone: "+m.milestoneName(sel.Milestone))
	}

	if len(parts) == 0 {
		return dimStyle.Render("No filters")
	}
	return dimStyle.Render(strings.Join(parts, "  "))
}

func (m IssuesModel) milestoneName(id string) string {
	for _, mp := range m.snap.Milestones {
		if mp.Milestone.ID == id {
			return mp.Milestone.Name
		}
	}
	return id
}

func (m IssuesModel) renderTable() string {
	if len(m.snap.Rows) == 0 {
		msg := "No issues match the current filters"
		switch {
		case m.snap.Project == nil && m.snap.Loading:
			msg = "Loading issues..."
		case m.snap.Project == nil:
			msg = "No project data"
		}
		return lipgloss.NewStyle().
			Width(m.tableWidth()).
			Height(m.table.Height()).
			Render(dimStyle.Render(msg))
	}
	return m.table.View()
}

// renderFooter renders pagination and sort status.
func (m IssuesModel) renderFooter() string {
	n := len(m.snap.Rows)
	start, end := m.paginator.GetSliceBounds(n)
	var left string
	if n == 0 {
		left = "0 issues"
	} else {
		left = fmt.Sprintf("%d–%d of %d issues", start+1, end, n)
	}
	if m.paginator.TotalPages > 1 {
		left += "  " + m.paginator.View()
	}

	sortDesc := "sort: default"
	if m.snap.SortActive {
		dir := "asc"
		if m.snap.Sort.Descending {
			dir = "desc"
		}
		sortDesc = fmt.Sprintf("sort: %s %s", m.snap.Sort.Column, dir)
	}

	padding := m.tableWidth() - lipgloss.Width(left) - lipgloss.Width(sortDesc)
	if padding < 1 {
		padding = 1
	}
	return statusBarStyle.Render(left + strings.Repeat(" ", padding) + sortDesc)
}

// renderSidebar renders the project overview, estimates and milestones.
func (m IssuesModel) renderSidebar(height int) string {
	inner := sidebarWidth - 4 // border + padding
	var b strings.Builder

	p := m.snap.Project
	if p == nil {
		b.WriteString(dimStyle.Render("No project loaded"))
		return sidebarStyle.Width(sidebarWidth - 2).Height(max(1, height-2)).Render(b.String())
	}

	b.WriteString(TitleStyle.UnsetMarginBottom().Render(p.Name))
	b.WriteString("\n")
	if p.State != "" {
		b.WriteString(dimStyle.Render("State: ") + p.State + "\n")
	}
	b.WriteString(dimStyle.Render("Start: ") + format.DatePtr(p.StartDate) + "\n")
	b.WriteString(dimStyle.Render("Target: ") + format.DatePtr(p.TargetDate) + "\n")

	t := m.snap.Totals
	b.WriteString("\n" + sectionStyle.Render("Estimates") + "\n")
	b.WriteString(fmt.Sprintf("Total %s  ", format.Number(t.Total)))
	b.WriteString(successStyle.Render("Done "+format.Number(t.Completed)) + "  ")
	b.WriteString("Left " + format.Number(t.Remaining) + "\n")

	b.WriteString("\n" + sectionStyle.Render("Milestones") + "\n")
	b.WriteString(m.milestoneLine("All issues", "", m.snap.Selection.Milestone == domain.AllMilestones) + "\n")
	for _, mp := range m.snap.Milestones {
		note := fmt.Sprintf("%3d%%", mp.Percent)
		if mp.Milestone.TargetDate != nil {
			note += " " + format.Date(*mp.Milestone.TargetDate)
		}
		b.WriteString(m.milestoneLine(mp.Milestone.Name, note, m.snap.Selection.Milestone == mp.Milestone.ID) + "\n")
	}

	if desc := renderMarkdown(p.Description, inner); desc != "" {
		used := lipgloss.Height(b.String())
		b.WriteString("\n" + sectionStyle.Render("Description") + "\n")
		b.WriteString(clampLines(desc, height-used-4))
	}

	return sidebarStyle.Width(sidebarWidth - 2).Height(max(1, height-2)).Render(b.String())
}

func (m IssuesModel) milestoneLine(name, note string, active bool) string {
	marker := "  "
	style := NormalItemStyle
	if active {
		marker = "> "
		style = SelectedItemStyle
	}
	line := style.Render(marker + truncate(name, sidebarWidth-18))
	if note != "" {
		line += " " + dimStyle.Render(note)
	}
	return line
}

// columnsFor lays out table columns for width, marking the sorted column.
func columnsFor(width int, s engine.SortState, active bool) []table.Column {
	fixed := 0
	for _, c := range tableColumns {
		fixed += c.width + 2 // cell padding
	}
	titleWidth := max(minTitleWidth, width-fixed-2)

	cols := make([]table.Column, len(tableColumns))
	for i, c := range tableColumns {
		title := c.title
		if active && s.Column == c.column {
			if s.Descending {
				title += " ↓"
			} else {
				title += " ↑"
			}
		}
		w := c.width
		if w == 0 {
			w = titleWidth
		}
		cols[i] = table.Column{Title: title, Width: w}
	}
	return cols
}

// issueRows converts issues into table rows in column order.
func issueRows(issues []domain.Issue) []table.Row {
	rows := make([]table.Row, len(issues))
	for i := range issues {
		issue := &issues[i]

		cycle := format.Placeholder
		if issue.Cycle != nil {
			cycle = issue.Cycle.Label()
		}
		labels := format.Labels(issue.Labels)
		if labels == "" {
			labels = format.Placeholder
		}

		rows[i] = table.Row{
			issue.Identifier,
			issue.Title,
			format.PriorityBars(issue.Priority),
			orPlaceholder(issue.State.Name),
			format.Estimate(issue.Estimate),
			cycle,
			orPlaceholder(issue.MilestoneName()),
			labels,
			format.Date(issue.CreatedAt.Local()),
			format.Date(issue.UpdatedAt.Local()),
		}
	}
	return rows
}

// sortColumnForKey maps the digit keys 1-9 and 0 onto table columns.
func sortColumnForKey(k string) (engine.Column, bool) {
	if len(k) != 1 || k[0] < '0' || k[0] > '9' {
		return "", false
	}
	idx := int(k[0]-'0') - 1
	if idx < 0 {
		idx = 9
	}
	if idx >= len(tableColumns) {
		return "", false
	}
	return tableColumns[idx].column, true
}

// truncate shortens s to n runes with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

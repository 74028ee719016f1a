package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/robby/lpi/internal/debounce"
	"github.com/robby/lpi/internal/domain"
	"github.com/robby/lpi/internal/viewmodel"
)

// Client is the Linear API surface the TUI needs. *linear.Client implements it.
type Client interface {
	viewmodel.Fetcher
	ListProjects(ctx context.Context) ([]domain.ProjectSummary, error)
}

// AppScreen represents the different screens in the application flow.
type AppScreen int

const (
	ScreenLoading AppScreen = iota
	ScreenProjectPicker
	ScreenIssues
)

// AppModel is the root Bubble Tea model that manages screen transitions.
// It orchestrates the flow from project selection to the issues view.
type AppModel struct {
	// Dependencies
	client   Client
	ctx      context.Context
	vmConfig viewmodel.Config

	// CLI flag or config value (pre-filled project)
	projectFlag string

	// Current state
	currentScreen AppScreen
	currentModel  tea.Model
	err           error
	loadingMsg    string

	// Shared across project switches so stale responses stay recognizable
	vm *viewmodel.Model
}

// NewAppModel creates a new app model. Pass an empty projectFlag to start
// with the project picker.
func NewAppModel(ctx context.Context, client Client, cfg viewmodel.Config, projectFlag string) AppModel {
	return AppModel{
		client:        client,
		ctx:           ctx,
		vmConfig:      cfg,
		projectFlag:   projectFlag,
		currentScreen: ScreenLoading,
		loadingMsg:    "Connecting to Linear...",
	}
}

// Init initializes the app model.
func (m AppModel) Init() tea.Cmd {
	if m.projectFlag != "" {
		id := m.projectFlag
		return func() tea.Msg {
			return ProjectSelectedMsg{Project: domain.ProjectSummary{ID: id}}
		}
	}
	return m.listProjects()
}

// Screen returns the active screen.
func (m AppModel) Screen() AppScreen {
	return m.currentScreen
}

// Update handles messages and transitions between screens.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global quit handler; the issues view closes its view model itself
		if msg.String() == "ctrl+c" && m.currentScreen != ScreenIssues {
			m.closeViewModel()
			return m, tea.Quit
		}

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case QuitMsg:
		m.closeViewModel()
		return m, tea.Quit

	case projectsLoadedMsg:
		m.currentScreen = ScreenProjectPicker
		pickerModel := NewProjectPickerModel(msg.projects)
		m.currentModel = pickerModel
		return m, pickerModel.Init()

	case debounce.SettledMsg, viewmodel.IssuesFetchedMsg, viewmodel.LabelsFetchedMsg:
		// Results arriving while the picker is shown still resolve their fetch
		if m.currentScreen != ScreenIssues && m.vm != nil {
			return m, m.vm.Update(msg)
		}

	case switchProjectMsg:
		m.loadingMsg = "Loading projects..."
		m.currentScreen = ScreenLoading
		m.currentModel = nil
		return m, m.listProjects()

	case ProjectSelectedMsg:
		if m.vm == nil {
			m.vm = viewmodel.New(m.client, m.vmConfig)
		}
		fetch := m.vm.SetProject(msg.Project.ID)

		m.currentScreen = ScreenIssues
		issuesModel := NewIssuesModel(m.vm)
		m.currentModel = issuesModel
		return m, tea.Batch(issuesModel.Init(), fetch)
	}

	// Delegate to current screen's model
	if m.currentModel != nil {
		var cmd tea.Cmd
		m.currentModel, cmd = m.currentModel.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v\n\nPress Ctrl+C to quit", m.err))
	}

	if m.currentModel != nil {
		return m.currentModel.View()
	}

	return m.loadingMsg + "\n\nPress Ctrl+C to quit"
}

func (m AppModel) closeViewModel() {
	if m.vm != nil {
		m.vm.Close()
	}
}

// listProjects creates a command to list the projects the API key can see.
func (m AppModel) listProjects() tea.Cmd {
	return func() tea.Msg {
		projects, err := m.client.ListProjects(m.ctx)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to list projects: %w", err)}
		}

		if len(projects) == 0 {
			return ErrorMsg{Err: fmt.Errorf("no projects found for this API key")}
		}

		return projectsLoadedMsg{projects: projects}
	}
}

// Custom messages for app transitions.
type (
	projectsLoadedMsg struct {
		projects []domain.ProjectSummary
	}
)

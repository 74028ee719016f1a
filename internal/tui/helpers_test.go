package tui

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/robby/lpi/internal/domain"
	"github.com/robby/lpi/internal/viewmodel"
)

var base = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

// mockClient serves fixed project data and records calls.
type mockClient struct {
	mu         sync.Mutex
	projects   []domain.ProjectSummary
	data       map[string]*domain.ProjectData
	labels     []domain.Label
	issueCalls [][]string // label filter per call
	fail       error
	listErr    error
}

func newMockClient() *mockClient {
	return &mockClient{
		projects: []domain.ProjectSummary{
			{ID: "proj-1", Name: "Mobile App", State: "started"},
			{ID: "proj-2", Name: "Website", State: "planned"},
		},
		data: map[string]*domain.ProjectData{
			"proj-1": createTestProject("proj-1", "Mobile App"),
			"proj-2": createTestProject("proj-2", "Website"),
		},
		labels: []domain.Label{
			{Name: "bug", Color: "#eb5757"},
			{Name: "feature", Color: "#4ea7fc"},
		},
	}
}

func (c *mockClient) GetProjectIssues(_ context.Context, projectID string, labels, _ []string) (*domain.ProjectData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issueCalls = append(c.issueCalls, slices.Clone(labels))
	if c.fail != nil {
		return nil, c.fail
	}

	src, ok := c.data[projectID]
	if !ok {
		return nil, nil
	}
	out := *src
	if len(labels) > 0 {
		out.Issues = nil
		for _, issue := range src.Issues {
			for _, name := range issue.LabelNames() {
				if slices.Contains(labels, name) {
					out.Issues = append(out.Issues, issue)
					break
				}
			}
		}
	}
	return &out, nil
}

func (c *mockClient) GetTeamLabels(context.Context, string) ([]domain.Label, error) {
	return c.labels, nil
}

func (c *mockClient) ListProjects(context.Context) ([]domain.ProjectSummary, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.projects, nil
}

func (c *mockClient) calls() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.issueCalls)
}

// createTestProject creates a project with three issues and one milestone.
func createTestProject(id, name string) *domain.ProjectData {
	return &domain.ProjectData{
		ID:          id,
		Name:        name,
		Description: "Ship the **new** onboarding.",
		State:       "started",
		StartDate:   ptr(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)),
		Issues: []domain.Issue{
			{
				ID: "i1", Identifier: "ENG-1", Title: "Fix login bug", URL: "https://linear.app/acme/issue/ENG-1",
				Priority: domain.PriorityUrgent, Estimate: ptr(3.0),
				State:     domain.State{Name: "Todo", Type: "unstarted"},
				Labels:    []domain.Label{{Name: "bug", Color: "#eb5757"}},
				Cycle:     &domain.Cycle{ID: "c1", Number: 1},
				Milestone: &domain.MilestoneRef{ID: "m1", Name: "Beta"},
				CreatedAt: base, UpdatedAt: base.Add(72 * time.Hour),
				Description: "Users cannot log in.",
			},
			{
				ID: "i2", Identifier: "ENG-2", Title: "Add dark mode",
				Priority:  domain.PriorityMedium,
				State:     domain.State{Name: "Done", Type: domain.StateTypeCompleted},
				Labels:    []domain.Label{{Name: "feature"}},
				CreatedAt: base, UpdatedAt: base.Add(48 * time.Hour),
			},
			{
				ID: "i3", Identifier: "ENG-3", Title: "Refactor api client",
				Estimate:  ptr(5.0),
				State:     domain.State{Name: "In Progress", Type: "started"},
				Milestone: &domain.MilestoneRef{ID: "m1", Name: "Beta"},
				CreatedAt: base, UpdatedAt: base.Add(24 * time.Hour),
			},
		},
		Milestones: []domain.ProjectMilestone{
			{
				ID: "m1", Name: "Beta",
				TargetDate: ptr(time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)),
				Issues: []domain.MilestoneIssue{
					{ID: "i1", StateType: "unstarted"},
					{ID: "i3", StateType: "started"},
				},
			},
		},
	}
}

// run executes cmd and flattens batches into their messages.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// feed delivers every message cmd produces to model, recursively.
// Spinner ticks are dropped so the loop terminates.
func feed(t *testing.T, model tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	for _, msg := range run(cmd) {
		switch msg.(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
			continue
		}
		var next tea.Cmd
		model, next = model.Update(msg)
		model = feed(t, model, next)
	}
	return model
}

func newTestViewModel(client *mockClient) *viewmodel.Model {
	return viewmodel.New(client, viewmodel.Config{
		Window:     time.Millisecond,
		CycleAware: true,
	})
}

// loadedIssues returns an issues view with proj-1 loaded.
func loadedIssues(t *testing.T) (IssuesModel, *mockClient) {
	t.Helper()
	client := newMockClient()
	vm := newTestViewModel(client)
	fetch := vm.SetProject("proj-1")

	m := feed(t, NewIssuesModel(vm), fetch)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})

	im, ok := m.(IssuesModel)
	require.True(t, ok)
	require.NotNil(t, im.snap.Project)
	return im, client
}

// press sends a key and feeds the resulting commands back into the model.
func press(t *testing.T, m IssuesModel, k tea.KeyMsg) IssuesModel {
	t.Helper()
	next, cmd := m.Update(k)
	next = feed(t, next, cmd)
	im, ok := next.(IssuesModel)
	require.True(t, ok)
	return im
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func rowIDs(m IssuesModel) []string {
	ids := make([]string, 0, len(m.snap.Rows))
	for _, issue := range m.snap.Rows {
		ids = append(ids, issue.Identifier)
	}
	return ids
}

package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robby/lpi/internal/viewmodel"
)

func newTestApp(client *mockClient, project string) AppModel {
	return NewAppModel(context.Background(), client, viewmodel.Config{Window: 1}, project)
}

func TestAppModel_ProjectFlagSkipsPicker(t *testing.T) {
	client := newMockClient()
	app := newTestApp(client, "proj-2")

	model := feed(t, app, app.Init())
	app = model.(AppModel)

	assert.Equal(t, ScreenIssues, app.Screen())
	require.NotNil(t, app.vm)
	assert.Equal(t, "proj-2", app.vm.ProjectID())
	assert.Contains(t, app.View(), "Website")
}

func TestAppModel_PickerFlow(t *testing.T) {
	client := newMockClient()
	app := newTestApp(client, "")

	model := feed(t, app, app.Init())
	app = model.(AppModel)
	require.Equal(t, ScreenProjectPicker, app.Screen())
	assert.Contains(t, app.View(), "Mobile App")

	// Enter selects the first project
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = feed(t, model, cmd).(AppModel)

	assert.Equal(t, ScreenIssues, app.Screen())
	assert.Equal(t, "proj-1", app.vm.ProjectID())
	snap := app.vm.Snapshot()
	require.NotNil(t, snap.Project)
	assert.Len(t, snap.Rows, 3)
}

func TestAppModel_SwitchProject(t *testing.T) {
	client := newMockClient()
	app := newTestApp(client, "proj-1")
	app = feed(t, app, app.Init()).(AppModel)
	vm := app.vm

	model, cmd := app.Update(runeKey("P"))
	app = feed(t, model, cmd).(AppModel)
	require.Equal(t, ScreenProjectPicker, app.Screen())

	model, cmd = app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app = feed(t, model, cmd).(AppModel)
	model, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = feed(t, model, cmd).(AppModel)

	assert.Equal(t, ScreenIssues, app.Screen())
	assert.Same(t, vm, app.vm, "view model is reused across projects")
	assert.Equal(t, "proj-2", app.vm.ProjectID())
	assert.Equal(t, "Website", app.vm.Snapshot().Project.Name)
}

func TestAppModel_BlankProjectSurfacesMissingIdentifier(t *testing.T) {
	client := newMockClient()
	app := newTestApp(client, "   ")

	app = feed(t, app, app.Init()).(AppModel)

	assert.Equal(t, ScreenIssues, app.Screen())
	assert.ErrorIs(t, app.vm.Snapshot().Err, viewmodel.ErrMissingIdentifier)
	assert.Empty(t, client.calls())
}

func TestAppModel_ListProjectsErrors(t *testing.T) {
	t.Run("api failure", func(t *testing.T) {
		client := newMockClient()
		client.listErr = errors.New("graphql: not authenticated")
		app := newTestApp(client, "")

		app = feed(t, app, app.Init()).(AppModel)

		assert.Contains(t, app.View(), "failed to list projects")
	})

	t.Run("no projects", func(t *testing.T) {
		client := newMockClient()
		client.projects = nil
		app := newTestApp(client, "")

		app = feed(t, app, app.Init()).(AppModel)

		assert.Contains(t, app.View(), "no projects found")
	})
}

func TestAppModel_QuitClosesViewModel(t *testing.T) {
	client := newMockClient()
	app := newTestApp(client, "proj-1")
	app = feed(t, app, app.Init()).(AppModel)

	_, cmd := app.Update(QuitMsg{})
	require.NotNil(t, cmd)
	assert.True(t, app.vm.Closed())
}

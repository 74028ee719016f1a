package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robby/lpi/internal/domain"
)

func TestDetailModel_View(t *testing.T) {
	issue := createTestProject("p", "P").Issues[0]
	d := NewDetailModel(issue)
	d, _ = d.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	view := d.View()
	assert.Contains(t, view, "ENG-1")
	assert.Contains(t, view, "Fix login bug")
	assert.Contains(t, view, "Urgent")
	assert.Contains(t, view, "Cycle 1")
	assert.Contains(t, view, "Beta")
	assert.Contains(t, view, "bug")
}

func TestDetailModel_Placeholders(t *testing.T) {
	d := NewDetailModel(domain.Issue{Identifier: "ENG-9", Title: "Bare"})

	view := d.View()
	assert.Contains(t, view, "Estimate: -")
	assert.Contains(t, view, "Cycle: -")
	assert.Contains(t, view, "No description")
}

func TestDetailModel_CloseKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{{Type: tea.KeyEsc}, runeKey("q")} {
		d := NewDetailModel(domain.Issue{Identifier: "ENG-1"})
		_, cmd := d.Update(k)
		require.NotNil(t, cmd)
		assert.Equal(t, closeDetailMsg{}, cmd())
	}
}

func TestDetailModel_SetIssue(t *testing.T) {
	d := NewDetailModel(domain.Issue{Identifier: "ENG-1", Title: "Old"})
	d.SetIssue(domain.Issue{Identifier: "ENG-1", Title: "New"})

	assert.Equal(t, "New", d.Issue().Title)
	assert.Contains(t, d.View(), "New")
}

func TestRenderMarkdown(t *testing.T) {
	assert.Empty(t, renderMarkdown("  \n", 40))
	assert.NotEmpty(t, renderMarkdown("# Heading\n\nBody text", 40))
}

func TestClampLines(t *testing.T) {
	s := "a\nb\nc\nd"

	assert.Equal(t, s, clampLines(s, 4))
	clamped := clampLines(s, 3)
	assert.Equal(t, 3, len(strings.Split(clamped, "\n")))
	assert.True(t, strings.HasPrefix(clamped, "a\nb\n"))
	assert.Empty(t, clampLines(s, 0))
}

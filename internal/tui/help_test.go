package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelpModel_View(t *testing.T) {
	h := NewHelpModel(DefaultKeyMap())

	t.Run("cycle-aware", func(t *testing.T) {
		view := h.View(120, true)
		assert.Contains(t, view, "Keyboard shortcuts")
		assert.Contains(t, view, "sort by column")
		assert.Contains(t, view, "cycles")
	})

	t.Run("without cycle filter", func(t *testing.T) {
		view := h.View(120, false)
		assert.NotContains(t, view, "cycles")
	})
}

func TestFilterLegend(t *testing.T) {
	legend := filterLegend(true)
	assert.Contains(t, legend, "labels")
	assert.Contains(t, legend, "sent to Linear, reloads issues")
	assert.Contains(t, legend, "applied locally, reloads issues")
	assert.Contains(t, legend, "applied locally, immediately")

	assert.NotContains(t, filterLegend(false), "applied locally, reloads issues")
}

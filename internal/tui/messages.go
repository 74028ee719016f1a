// Package tui provides Bubble Tea models for the interactive TUI.
package tui

import "github.com/robby/lpi/internal/domain"

// ProjectSelectedMsg is emitted when the user selects a project.
type ProjectSelectedMsg struct {
	Project domain.ProjectSummary
}

// ErrorMsg is emitted when an error occurs.
type ErrorMsg struct {
	Err error
}

// QuitMsg is emitted when the user requests to quit.
type QuitMsg struct{}

// Messages internal to the issues view.
type (
	optionToggledMsg struct {
		kind  pickerKind
		value string
	}

	milestoneSelectedMsg struct {
		id string
	}

	switchProjectMsg struct{}
	closePickerMsg   struct{}
	closeDetailMsg   struct{}
)

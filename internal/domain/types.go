// Package domain defines the normalized domain types for Linear project data.
// Values in this package have already passed ingestion: priorities are in range,
// estimates are non-negative and optional relations are explicit pointers.
package domain

import (
	"fmt"
	"time"
)

// AllMilestones is the milestone selection that disables milestone filtering.
const AllMilestones = "all"

// StateTypeCompleted is the workflow state type used for all completion arithmetic.
const StateTypeCompleted = "completed"

// ProjectData is the aggregate root returned by a project fetch.
// It is always replaced as a whole, never patched.
type ProjectData struct {
	ID          string
	Name        string
	Description string     // Markdown, may be empty
	StartDate   *time.Time // Optional
	TargetDate  *time.Time // Optional
	State       string     // planned, started, paused, completed, canceled
	TeamID      string     // First team owning the project, empty if unknown
	Issues      []Issue
	Milestones  []ProjectMilestone
}

// Issue is a single Linear issue in normalized form.
type Issue struct {
	ID          string // Linear node ID
	Identifier  string // Human-readable code (e.g., "ENG-123")
	Title       string
	Description string // Markdown, may be empty
	URL         string
	Priority    Priority
	Estimate    *float64 // nil when not estimated
	Cycle       *Cycle
	State       State
	Labels      []Label
	Milestone   *MilestoneRef
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EstimateValue returns the estimate, or 0 when the issue is not estimated.
func (i *Issue) EstimateValue() float64 {
	if i.Estimate == nil {
		return 0
	}
	return *i.Estimate
}

// CycleNumber returns the cycle sequence number, or 0 without a cycle.
func (i *Issue) CycleNumber() int {
	if i.Cycle == nil {
		return 0
	}
	return i.Cycle.Number
}

// MilestoneName returns the linked milestone name, or "" without a milestone.
func (i *Issue) MilestoneName() string {
	if i.Milestone == nil {
		return ""
	}
	return i.Milestone.Name
}

// IsCompleted reports whether the issue's state type is "completed".
func (i *Issue) IsCompleted() bool {
	return i.State.Type == StateTypeCompleted
}

// LabelNames returns the issue's label names in their stored order.
func (i *Issue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		names = append(names, l.Name)
	}
	return names
}

// Cycle is a time-boxed iteration.
type Cycle struct {
	ID       string
	Name     string
	Number   int
	StartsAt time.Time
	EndsAt   time.Time
}

// Label returns the display label used by the cycle filter ("Cycle 7").
func (c Cycle) Label() string {
	return fmt.Sprintf("Cycle %d", c.Number)
}

// State is an issue's workflow state.
type State struct {
	Name  string // Display name (e.g., "In Progress")
	Type  string // backlog, unstarted, started, completed, canceled
	Color string // Hex color (e.g., "#f2c94c")
}

// Label is an issue or team label. Names are unique within a set.
type Label struct {
	Name  string
	Color string
}

// MilestoneRef is the reference an issue carries to its milestone.
type MilestoneRef struct {
	ID   string
	Name string
}

// ProjectMilestone is a milestone with its own linked issues.
// Issues is independent of any table filter.
type ProjectMilestone struct {
	ID          string
	Name        string
	Description string
	TargetDate  *time.Time
	Issues      []MilestoneIssue
}

// MilestoneIssue is the reduced issue view used for completion computation.
type MilestoneIssue struct {
	ID        string
	StateType string
}

// ProjectSummary is a project entry in the project picker.
type ProjectSummary struct {
	ID    string
	Name  string
	State string
}

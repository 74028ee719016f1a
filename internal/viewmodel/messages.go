package viewmodel

import "github.com/robby/lpi/internal/domain"

// IssuesFetchedMsg carries the outcome of a project fetch.
type IssuesFetchedMsg struct {
	Gen       uint64
	ProjectID string
	Data      *domain.ProjectData
	Err       error
}

// LabelsFetchedMsg carries the outcome of a team label fetch.
type LabelsFetchedMsg struct {
	Gen       uint64
	ProjectID string
	Labels    []domain.Label
	Err       error
}

package viewmodel

import (
	"github.com/robby/lpi/internal/criteria"
	"github.com/robby/lpi/internal/domain"
	"github.com/robby/lpi/internal/engine"
)

// Snapshot is the derived view handed to the rendering layer.
// It is recomputed from scratch on every call and never stored.
type Snapshot struct {
	Phase     Phase
	Loading   bool
	Err       error // ErrMissingIdentifier or a FetchError for the project fetch
	LabelsErr error // FetchError for the label vocabulary

	Project *domain.ProjectData // nil before the first successful fetch

	Rows       []domain.Issue // filtered and sorted
	Sort       engine.SortState
	SortActive bool
	Totals     engine.EstimateTotals
	Milestones []engine.MilestoneProgress

	StateOptions []string
	CycleOptions []string // nil unless cycle-aware
	LabelOptions []domain.Label

	Selection  criteria.Selection
	CycleAware bool

	Selected  *domain.Issue
	ModalOpen bool
}

// Snapshot derives the current view.
func (m *Model) Snapshot() Snapshot {
	s := Snapshot{
		Phase:        m.phase,
		Loading:      m.store.InFlight(),
		Err:          m.err,
		LabelsErr:    m.labelsErr,
		Project:      m.store.Project(),
		Sort:         m.sort,
		SortActive:   m.sortActive,
		LabelOptions: m.store.Labels(m.projectID),
		Selection:    m.criteria.Immediate(),
		CycleAware:   m.criteria.CycleAware(),
		Selected:     m.selected,
		ModalOpen:    m.modalOpen && m.selected != nil,
	}

	issues := m.store.Issues()
	filtered := engine.Filter(issues, m.criteria.Local())
	s.Rows = engine.Sort(filtered, m.sort)
	s.Totals = engine.Estimates(filtered)
	s.StateOptions = engine.DistinctStates(issues)
	if s.CycleAware {
		s.CycleOptions = engine.DistinctCycles(issues)
	}
	if s.Project != nil {
		s.Milestones = engine.Milestones(s.Project.Milestones)
	}
	if s.LabelOptions == nil {
		s.LabelOptions = []domain.Label{}
	}
	return s
}

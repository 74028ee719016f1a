// Package store holds the single ProjectData slot shared by the view.
// Every fetch is stamped with a generation when it is issued; only the
// response of the most recently issued fetch may replace the slot, so a slow
// response to an older filter never overwrites a newer one.
package store

import (
	"errors"
	"fmt"

	"github.com/robby/lpi/internal/domain"
)

var (
	// ErrIssueNotFound indicates the requested issue is not in the current project.
	ErrIssueNotFound = errors.New("issue not found")
	// ErrStaleGeneration indicates a fetch result was superseded by a newer fetch.
	ErrStaleGeneration = errors.New("stale fetch generation")
	// ErrNoProject indicates no project data has been loaded.
	ErrNoProject = errors.New("no project loaded")
)

// Store manages the project slot and the team label vocabulary.
type Store struct {
	project *domain.ProjectData
	issues  map[string]int // issue ID -> index in project.Issues

	// Label vocabulary for the current project's team
	labels          []domain.Label
	labelsProjectID string

	// Generation of the most recently issued fetch; 0 means none issued
	issued uint64
	// Generation whose result currently occupies the slot
	applied uint64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		issues: make(map[string]int),
	}
}

// BeginFetch issues a new generation. Results of all earlier generations
// become stale.
func (s *Store) BeginFetch() uint64 {
	s.issued++
	return s.issued
}

// IsLatest reports whether gen is the most recently issued generation.
func (s *Store) IsLatest(gen uint64) bool {
	return gen != 0 && gen == s.issued
}

// InFlight reports whether the latest issued fetch has not been resolved.
func (s *Store) InFlight() bool {
	return s.issued != 0 && s.applied != s.issued
}

// Resolve marks gen as resolved without replacing the slot, for failed fetches.
// It returns ErrStaleGeneration if gen was superseded.
func (s *Store) Resolve(gen uint64) error {
	if !s.IsLatest(gen) {
		return fmt.Errorf("%w: got %d, latest %d", ErrStaleGeneration, gen, s.issued)
	}
	s.applied = gen
	return nil
}

// Apply replaces the project slot with data fetched under gen.
// It returns ErrStaleGeneration and leaves the slot untouched if gen was superseded.
func (s *Store) Apply(gen uint64, data *domain.ProjectData) error {
	if err := s.Resolve(gen); err != nil {
		return err
	}
	s.project = data
	s.reindex()
	return nil
}

// Project returns the current project, or nil before the first successful fetch.
func (s *Store) Project() *domain.ProjectData {
	return s.project
}

// Issues returns the issues of the current project, or nil.
func (s *Store) Issues() []domain.Issue {
	if s.project == nil {
		return nil
	}
	return s.project.Issues
}

// Issue looks up an issue by ID in the current project.
func (s *Store) Issue(id string) (*domain.Issue, error) {
	if s.project == nil {
		return nil, ErrNoProject
	}
	idx, ok := s.issues[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrIssueNotFound, id)
	}
	return &s.project.Issues[idx], nil
}

// SetLabels stores the label vocabulary fetched for projectID.
func (s *Store) SetLabels(projectID string, labels []domain.Label) {
	s.labelsProjectID = projectID
	s.labels = labels
}

// Labels returns the label vocabulary if it belongs to projectID.
func (s *Store) Labels(projectID string) []domain.Label {
	if projectID == "" || projectID != s.labelsProjectID {
		return nil
	}
	return s.labels
}

// Reset clears all project state. Generations keep counting so responses to
// fetches issued before the reset are still recognized as stale.
func (s *Store) Reset() {
	s.project = nil
	s.issues = make(map[string]int)
	s.labels = nil
	s.labelsProjectID = ""
	s.applied = s.issued
}

func (s *Store) reindex() {
	s.issues = make(map[string]int)
	if s.project == nil {
		return
	}
	for i, issue := range s.project.Issues {
		s.issues[issue.ID] = i
	}
}

// Package criteria holds the user's filter selections.
//
// Search text and the label, state and cycle sets each keep an immediate and a
// debounced copy. The milestone selection is applied immediately. Every field
// declares where it is evaluated: Local fields are applied to the fetched
// dataset, Remote fields are sent with the fetch request and change the
// dataset itself.
package criteria

import (
	"github.com/robby/lpi/internal/debounce"
	"github.com/robby/lpi/internal/domain"
)

// Field identifies a filterable dimension. Debounced fields double as
// debounce channels.
type Field int

const (
	FieldSearch Field = iota
	FieldLabels
	FieldStates
	FieldCycles
	FieldMilestone
)

// String returns the field name used in logs.
func (f Field) String() string {
	switch f {
	case FieldSearch:
		return "search"
	case FieldLabels:
		return "labels"
	case FieldStates:
		return "states"
	case FieldCycles:
		return "cycles"
	case FieldMilestone:
		return "milestone"
	default:
		return "unknown"
	}
}

// EvalSite says where a field's filter is evaluated.
type EvalSite int

const (
	// Local fields filter the already fetched issues.
	Local EvalSite = iota
	// Remote fields are query parameters of the project fetch.
	Remote
)

func (s EvalSite) String() string {
	if s == Remote {
		return "remote"
	}
	return "local"
}

// Site returns where the field is evaluated.
func (f Field) Site() EvalSite {
	switch f {
	case FieldLabels, FieldStates:
		return Remote
	default:
		return Local
	}
}

// TriggersRefetch reports whether a settled change of f must refetch the
// project. Cycles are filtered locally but, in the cycle-aware variant, a
// settled cycle change still reloads the dataset.
func (f Field) TriggersRefetch(cycleAware bool) bool {
	if f.Site() == Remote {
		return true
	}
	return f == FieldCycles && cycleAware
}

// Debounced reports whether the field goes through a debounce window.
func (f Field) Debounced() bool {
	return f != FieldMilestone
}

// LocalCriteria is the input of the local filter.
type LocalCriteria struct {
	Search    string
	Milestone string         // milestone ID or domain.AllMilestones
	Cycles    domain.NameSet // nil or empty disables the cycle filter
}

// ServerCriteria is the input of a project fetch.
type ServerCriteria struct {
	Labels domain.NameSet
	States domain.NameSet
}

// Store keeps immediate and debounced values for every field.
type Store struct {
	cycleAware bool

	search    debounce.Value[string]
	labels    debounce.Value[domain.NameSet]
	states    debounce.Value[domain.NameSet]
	cycles    debounce.Value[domain.NameSet]
	milestone string
}

// New creates an empty store. cycleAware selects the page variant with a
// cycle filter.
func New(cycleAware bool) *Store {
	return &Store{
		cycleAware: cycleAware,
		search:     debounce.NewValue(""),
		labels:     debounce.NewValue(domain.NewNameSet()),
		states:     debounce.NewValue(domain.NewNameSet()),
		cycles:     debounce.NewValue(domain.NewNameSet()),
		milestone:  domain.AllMilestones,
	}
}

// CycleAware reports whether the cycle filter is part of this store.
func (s *Store) CycleAware() bool {
	return s.cycleAware
}

// SetSearch records new search text and returns the debounce tag.
func (s *Store) SetSearch(text string) uint64 {
	return s.search.Set(text)
}

// SetLabels replaces the label selection and returns the debounce tag.
func (s *Store) SetLabels(names domain.NameSet) uint64 {
	return s.labels.Set(domain.NewNameSet(names...))
}

// ToggleLabel adds or removes one label and returns the debounce tag.
func (s *Store) ToggleLabel(name string) uint64 {
	return s.labels.Set(s.labels.Current().Toggle(name))
}

// SetStates replaces the state selection and returns the debounce tag.
func (s *Store) SetStates(names domain.NameSet) uint64 {
	return s.states.Set(domain.NewNameSet(names...))
}

// ToggleState adds or removes one state and returns the debounce tag.
func (s *Store) ToggleState(name string) uint64 {
	return s.states.Set(s.states.Current().Toggle(name))
}

// SetCycles replaces the cycle selection and returns the debounce tag.
// It returns ok=false when the store is not cycle-aware.
func (s *Store) SetCycles(labels domain.NameSet) (tag uint64, ok bool) {
	if !s.cycleAware {
		return 0, false
	}
	return s.cycles.Set(domain.NewNameSet(labels...)), true
}

// ToggleCycle adds or removes one cycle label.
// It returns ok=false when the store is not cycle-aware.
func (s *Store) ToggleCycle(label string) (tag uint64, ok bool) {
	if !s.cycleAware {
		return 0, false
	}
	return s.cycles.Set(s.cycles.Current().Toggle(label)), true
}

// SelectMilestone sets the milestone filter. An empty id selects all.
func (s *Store) SelectMilestone(id string) {
	if id == "" {
		id = domain.AllMilestones
	}
	s.milestone = id
}

// Settle applies a debounce tick. It reports whether the settled value of the
// field actually changed, which is what refetch decisions depend on.
func (s *Store) Settle(f Field, tag uint64) (changed bool) {
	switch f {
	case FieldSearch:
		before := s.search.Settled()
		return s.search.Settle(tag) && s.search.Settled() != before
	case FieldLabels:
		return settleSet(&s.labels, tag)
	case FieldStates:
		return settleSet(&s.states, tag)
	case FieldCycles:
		if !s.cycleAware {
			return false
		}
		return settleSet(&s.cycles, tag)
	default:
		return false
	}
}

func settleSet(v *debounce.Value[domain.NameSet], tag uint64) bool {
	before := v.Settled()
	return v.Settle(tag) && !v.Settled().Equal(before)
}

// CancelPending drops every pending debounce so late ticks are ignored.
func (s *Store) CancelPending() {
	s.search.Cancel()
	s.labels.Cancel()
	s.states.Cancel()
	s.cycles.Cancel()
}

// Reset clears every selection back to its default. Ticks issued before the
// reset are ignored when they arrive.
func (s *Store) Reset() {
	s.search.Reset("")
	s.labels.Reset(domain.NewNameSet())
	s.states.Reset(domain.NewNameSet())
	s.cycles.Reset(domain.NewNameSet())
	s.milestone = domain.AllMilestones
}

// Pending reports whether the field has an unsettled change.
func (s *Store) Pending(f Field) bool {
	switch f {
	case FieldSearch:
		return s.search.Pending()
	case FieldLabels:
		return s.labels.Pending()
	case FieldStates:
		return s.states.Pending()
	case FieldCycles:
		return s.cycles.Pending()
	default:
		return false
	}
}

// Local returns the criteria for the local filter: debounced search and
// cycles, immediate milestone.
func (s *Store) Local() LocalCriteria {
	c := LocalCriteria{
		Search:    s.search.Settled(),
		Milestone: s.milestone,
	}
	if s.cycleAware {
		c.Cycles = s.cycles.Settled()
	}
	return c
}

// Server returns the debounced label and state selections as they are now.
func (s *Store) Server() ServerCriteria {
	return ServerCriteria{
		Labels: s.labels.Settled(),
		States: s.states.Settled(),
	}
}

// Selection is the immediate state of every field, for rendering inputs.
type Selection struct {
	Search    string
	Labels    domain.NameSet
	States    domain.NameSet
	Cycles    domain.NameSet
	Milestone string
}

// Immediate returns what the user has currently selected.
func (s *Store) Immediate() Selection {
	return Selection{
		Search:    s.search.Current(),
		Labels:    s.labels.Current(),
		States:    s.states.Current(),
		Cycles:    s.cycles.Current(),
		Milestone: s.milestone,
	}
}

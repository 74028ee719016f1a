// Package viewmodel orchestrates the project issues view.
//
// The Model owns loading, data, error and selection state. It decides whether a
// change to the filter criteria needs a refetch or only a local recompute, and
// derives the rendered view in Snapshot. All methods run on the Bubble Tea
// event loop; fetches run as tea.Cmds and come back through Update.
package viewmodel

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/robby/lpi/internal/criteria"
	"github.com/robby/lpi/internal/debounce"
	"github.com/robby/lpi/internal/domain"
	"github.com/robby/lpi/internal/engine"
	"github.com/robby/lpi/internal/store"
)

// DefaultFetchTimeout bounds a single fetch.
const DefaultFetchTimeout = 30 * time.Second

// Fetcher loads project data. *linear.Client implements it.
type Fetcher interface {
	GetProjectIssues(ctx context.Context, projectID string, labels, states []string) (*domain.ProjectData, error)
	GetTeamLabels(ctx context.Context, projectID string) ([]domain.Label, error)
}

// Phase is the fetch lifecycle of the view.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	default:
		return "idle"
	}
}

// Config configures a Model. Zero values select defaults.
type Config struct {
	Window       time.Duration // debounce window
	CycleAware   bool          // enables the cycle filter and its refetch trigger
	FetchTimeout time.Duration
	Logger       *zap.Logger
}

// Model is the orchestrator state.
type Model struct {
	fetcher  Fetcher
	log      *zap.Logger
	window   time.Duration
	timeout  time.Duration
	criteria *criteria.Store
	store    *store.Store

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	projectID string
	phase     Phase
	err       error // missing identifier or latest fetch failure
	labelsErr error // label vocabulary failure
	labelsGen uint64

	sort       engine.SortState
	sortActive bool

	selected  *domain.Issue
	modalOpen bool
}

// New creates an idle Model.
func New(fetcher Fetcher, cfg Config) *Model {
	if cfg.Window <= 0 {
		cfg.Window = debounce.DefaultWindow
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Model{
		fetcher:  fetcher,
		log:      cfg.Logger,
		window:   cfg.Window,
		timeout:  cfg.FetchTimeout,
		criteria: criteria.New(cfg.CycleAware),
		store:    store.New(),
		ctx:      ctx,
		cancel:   cancel,
		sort:     engine.DefaultSort,
	}
}

// ProjectID returns the identifier of the project being viewed.
func (m *Model) ProjectID() string {
	return m.projectID
}

// SetProject switches the view to projectID. It resets data, criteria and
// selection, then fetches the project and its team's label vocabulary.
// An empty id surfaces ErrMissingIdentifier and fetches nothing.
func (m *Model) SetProject(projectID string) tea.Cmd {
	if m.closed {
		return nil
	}
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		m.log.Warn("missing project identifier")
		m.err = ErrMissingIdentifier
		return nil
	}

	m.projectID = projectID
	m.store.Reset()
	m.criteria.Reset()
	m.err = nil
	m.labelsErr = nil
	m.sort, m.sortActive = engine.DefaultSort, false
	m.selected, m.modalOpen = nil, false

	return tea.Batch(m.fetchIssues(), m.fetchLabels())
}

// Refresh refetches the current project with the current criteria.
func (m *Model) Refresh() tea.Cmd {
	if m.closed {
		return nil
	}
	if m.projectID == "" {
		m.log.Warn("missing project identifier")
		m.err = ErrMissingIdentifier
		return nil
	}
	return m.fetchIssues()
}

// SetSearch updates the search text. It never refetches.
func (m *Model) SetSearch(text string) tea.Cmd {
	return m.debounced(criteria.FieldSearch, m.criteria.SetSearch(text))
}

// ToggleLabel adds or removes a label from the server-side filter.
func (m *Model) ToggleLabel(name string) tea.Cmd {
	return m.debounced(criteria.FieldLabels, m.criteria.ToggleLabel(name))
}

// SetLabels replaces the label filter.
func (m *Model) SetLabels(names []string) tea.Cmd {
	return m.debounced(criteria.FieldLabels, m.criteria.SetLabels(domain.NewNameSet(names...)))
}

// ToggleState adds or removes a state from the server-side filter.
func (m *Model) ToggleState(name string) tea.Cmd {
	return m.debounced(criteria.FieldStates, m.criteria.ToggleState(name))
}

// SetStates replaces the state filter.
func (m *Model) SetStates(names []string) tea.Cmd {
	return m.debounced(criteria.FieldStates, m.criteria.SetStates(domain.NewNameSet(names...)))
}

// ToggleCycle adds or removes a cycle label. It does nothing unless the
// model is cycle-aware.
func (m *Model) ToggleCycle(label string) tea.Cmd {
	tag, ok := m.criteria.ToggleCycle(label)
	if !ok {
		return nil
	}
	return m.debounced(criteria.FieldCycles, tag)
}

// SetCycles replaces the cycle filter. It does nothing unless the model is
// cycle-aware.
func (m *Model) SetCycles(labels []string) tea.Cmd {
	tag, ok := m.criteria.SetCycles(domain.NewNameSet(labels...))
	if !ok {
		return nil
	}
	return m.debounced(criteria.FieldCycles, tag)
}

// SelectMilestone filters the table to one milestone; "" or domain.AllMilestones
// shows every issue. It takes effect immediately.
func (m *Model) SelectMilestone(id string) {
	m.criteria.SelectMilestone(id)
}

// SetSort sorts the table by s.
func (m *Model) SetSort(s engine.SortState) {
	m.sort, m.sortActive = s, true
}

// CycleSort advances col through ascending, descending and unsorted, the way
// clicking a column header does.
func (m *Model) CycleSort(col engine.Column) {
	switch {
	case !m.sortActive || m.sort.Column != col:
		m.SetSort(engine.SortState{Column: col})
	case !m.sort.Descending:
		m.SetSort(engine.SortState{Column: col, Descending: true})
	default:
		m.ClearSort()
	}
}

// ClearSort returns to the default order, most recently updated first.
func (m *Model) ClearSort() {
	m.sort, m.sortActive = engine.DefaultSort, false
}

// SelectIssue opens the detail modal for the issue with id. Selecting the
// already selected issue is a no-op. It works regardless of fetch state.
func (m *Model) SelectIssue(id string) error {
	issue, err := m.store.Issue(id)
	if err != nil {
		return err
	}
	cp := *issue
	m.selected = &cp
	m.modalOpen = true
	return nil
}

// CloseDetail hides the detail modal. The selection is kept.
func (m *Model) CloseDetail() {
	m.modalOpen = false
}

// Close tears the view down: pending debounce ticks are ignored, in-flight
// fetches are cancelled and later messages are dropped.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.criteria.CancelPending()
	m.cancel()
	m.log.Debug("view closed", zap.String("project", m.projectID))
}

// Closed reports whether Close has been called.
func (m *Model) Closed() bool {
	return m.closed
}

// Update applies debounce ticks and fetch results. The returned command is
// a follow-up fetch, if one is needed.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if m.closed {
		return nil
	}

	switch msg := msg.(type) {
	case debounce.SettledMsg:
		return m.settle(criteria.Field(msg.Channel), msg.Tag)

	case IssuesFetchedMsg:
		m.applyIssues(msg)

	case LabelsFetchedMsg:
		m.applyLabels(msg)
	}
	return nil
}

func (m *Model) debounced(f criteria.Field, tag uint64) tea.Cmd {
	if m.closed {
		return nil
	}
	return debounce.Tick(m.window, int(f), tag)
}

func (m *Model) settle(f criteria.Field, tag uint64) tea.Cmd {
	if !m.criteria.Settle(f, tag) {
		return nil
	}
	if !f.TriggersRefetch(m.criteria.CycleAware()) || m.projectID == "" {
		return nil
	}
	m.log.Debug("criteria settled", zap.Stringer("field", f))
	return m.fetchIssues()
}

// fetchIssues issues a project fetch with the criteria as they are now.
func (m *Model) fetchIssues() tea.Cmd {
	gen := m.store.BeginFetch()
	server := m.criteria.Server()
	labels, states := server.Labels.Slice(), server.States.Slice()
	projectID := m.projectID
	m.phase = PhaseLoading

	m.log.Info("fetch issued",
		zap.Uint64("generation", gen),
		zap.String("project", projectID),
		zap.Strings("labels", labels),
		zap.Strings("states", states),
	)

	ctx, fetcher, timeout := m.ctx, m.fetcher, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		data, err := fetcher.GetProjectIssues(ctx, projectID, labels, states)
		return IssuesFetchedMsg{Gen: gen, ProjectID: projectID, Data: data, Err: err}
	}
}

func (m *Model) fetchLabels() tea.Cmd {
	m.labelsGen++
	gen := m.labelsGen
	ctx, fetcher, timeout := m.ctx, m.fetcher, m.timeout
	projectID := m.projectID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		labels, err := fetcher.GetTeamLabels(ctx, projectID)
		return LabelsFetchedMsg{Gen: gen, ProjectID: projectID, Labels: labels, Err: err}
	}
}

func (m *Model) applyIssues(msg IssuesFetchedMsg) {
	if msg.ProjectID != m.projectID || !m.store.IsLatest(msg.Gen) {
		m.log.Debug("stale fetch discarded",
			zap.Uint64("generation", msg.Gen),
			zap.String("project", msg.ProjectID),
		)
		return
	}

	if msg.Err == nil && msg.Data == nil {
		msg.Err = store.ErrNoProject
	}

	if msg.Err != nil {
		// Keep whatever data we had; only the loading state resolves
		_ = m.store.Resolve(msg.Gen)
		m.phase = PhaseReady
		m.err = &FetchError{Op: "fetch project issues", Err: msg.Err}
		m.log.Error("fetch failed", zap.Uint64("generation", msg.Gen), zap.Error(msg.Err))
		return
	}

	if err := m.store.Apply(msg.Gen, msg.Data); err != nil {
		m.log.Debug("stale fetch discarded", zap.Uint64("generation", msg.Gen), zap.Error(err))
		return
	}
	m.phase = PhaseReady
	m.err = nil
	m.refreshSelection()

	m.log.Info("fetch resolved",
		zap.Uint64("generation", msg.Gen),
		zap.Int("issues", len(msg.Data.Issues)),
		zap.Int("milestones", len(msg.Data.Milestones)),
	)
}

// refreshSelection points the selection at the newly fetched copy of the
// selected issue. An issue that dropped out of the dataset stays selected
// with its last known values.
func (m *Model) refreshSelection() {
	if m.selected == nil {
		return
	}
	issue, err := m.store.Issue(m.selected.ID)
	if err != nil {
		if !errors.Is(err, store.ErrIssueNotFound) {
			m.log.Debug("selection refresh failed", zap.Error(err))
		}
		return
	}
	cp := *issue
	m.selected = &cp
}

func (m *Model) applyLabels(msg LabelsFetchedMsg) {
	// Switching A, B, A leaves two label fetches for A in flight
	if msg.ProjectID != m.projectID || msg.Gen != m.labelsGen {
		m.log.Debug("stale label vocabulary discarded",
			zap.Uint64("generation", msg.Gen),
			zap.String("project", msg.ProjectID),
		)
		return
	}
	if msg.Err != nil {
		m.labelsErr = &FetchError{Op: "fetch team labels", Err: msg.Err}
		m.log.Error("label vocabulary failed", zap.String("project", msg.ProjectID), zap.Error(msg.Err))
		return
	}
	m.labelsErr = nil
	m.store.SetLabels(msg.ProjectID, msg.Labels)
	m.log.Debug("label vocabulary loaded", zap.Int("labels", len(msg.Labels)))
}

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/robby/lpi/internal/config"
	"github.com/robby/lpi/internal/criteria"
	"github.com/robby/lpi/internal/domain"
	"github.com/robby/lpi/internal/engine"
	"github.com/robby/lpi/internal/format"
	"github.com/robby/lpi/internal/viewmodel"
)

// exportClient defines the API methods used by export.
// This allows for easier testing with mock implementations.
type exportClient interface {
	viewmodel.Fetcher
}

type exportOptions struct {
	labels    []string
	states    []string
	cycles    []string
	search    string
	milestone string
	sort      string
	desc      bool
	json      bool
}

func newExportCmd() *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the filtered issues, totals and milestones of a project",
		Long: `Print the derived project view without starting the TUI.

The same filters, sort order and aggregates as the dashboard are applied.
Labels and states are sent to Linear; search, cycles and milestone are
applied locally.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = e.log.Sync() }()
			return runExportWithDeps(cmd, opts, e.cfg, e.client)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.labels, "label", "l", nil, "Filter by label name (repeatable)")
	cmd.Flags().StringSliceVarP(&opts.states, "state", "s", nil, "Filter by workflow state name (repeatable)")
	cmd.Flags().StringSliceVarP(&opts.cycles, "cycle", "c", nil, `Filter by cycle label, e.g. "Cycle 7" (repeatable)`)
	cmd.Flags().StringVarP(&opts.search, "search", "q", "", "Search in issue titles")
	cmd.Flags().StringVarP(&opts.milestone, "milestone", "m", domain.AllMilestones, "Milestone ID, or 'all'")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Sort column: "+columnNames())
	cmd.Flags().BoolVar(&opts.desc, "desc", false, "Sort descending")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output in JSON format")

	return cmd
}

func columnNames() string {
	names := make([]string, len(engine.Columns))
	for i, c := range engine.Columns {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// runExportWithDeps is the testable implementation of export
func runExportWithDeps(cmd *cobra.Command, opts *exportOptions, cfg *config.Config, client exportClient) error {
	projectID := strings.TrimSpace(cfg.Project)
	if projectID == "" {
		return fmt.Errorf("%w: pass --project or set project in the config file", viewmodel.ErrMissingIdentifier)
	}

	sortState := engine.DefaultSort
	if opts.sort != "" {
		col := engine.Column(opts.sort)
		if _, ok := engine.ComparatorFor(col); !ok {
			return fmt.Errorf("invalid --sort value %q: expected one of %s", opts.sort, columnNames())
		}
		sortState = engine.SortState{Column: col, Descending: opts.desc}
	}

	if len(opts.cycles) > 0 && !cfg.CycleFilter {
		return fmt.Errorf("--cycle requires the cycle filter; remove --no-cycle-filter or set cycle_filter: true")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	labels := domain.NewNameSet(opts.labels...)
	states := domain.NewNameSet(opts.states...)

	var (
		data       *domain.ProjectData
		vocabulary []domain.Label
		labelsErr  error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data, err = client.GetProjectIssues(gctx, projectID, labels.Slice(), states.Slice())
		if err != nil {
			return &viewmodel.FetchError{Op: "load project issues", Err: err}
		}
		if data == nil {
			return fmt.Errorf("project %s not found", projectID)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		vocabulary, err = client.GetTeamLabels(gctx, projectID)
		if err != nil {
			// The vocabulary is informational; the issues are still exported
			labelsErr = &viewmodel.FetchError{Op: "load team labels", Err: err}
			vocabulary = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if labelsErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not fetch label vocabulary for %s: %v\n", projectID, labelsErr)
	}

	local := criteria.LocalCriteria{
		Search:    opts.search,
		Milestone: opts.milestone,
		Cycles:    domain.NewNameSet(opts.cycles...),
	}
	view := buildExport(data, vocabulary, local, sortState)

	if opts.json {
		return writeExportJSON(cmd.OutOrStdout(), view)
	}
	return writeExportText(cmd.OutOrStdout(), view)
}

// exportView is the derived view of one project.
type exportView struct {
	Project    exportProject     `json:"project"`
	Sort       exportSort        `json:"sort"`
	Totals     exportTotals      `json:"totals"`
	Milestones []exportMilestone `json:"milestones"`
	Labels     []string          `json:"labels"`
	Issues     []exportIssue     `json:"issues"`
}

type exportProject struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	State       string     `json:"state"`
	StartDate   *time.Time `json:"startDate"`
	TargetDate  *time.Time `json:"targetDate"`
	Description string     `json:"description"`
}

type exportSort struct {
	Column     string `json:"column"`
	Descending bool   `json:"descending"`
}

type exportTotals struct {
	Total     float64 `json:"total"`
	Completed float64 `json:"completed"`
	Remaining float64 `json:"remaining"`
}

type exportMilestone struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	TargetDate *time.Time `json:"targetDate"`
	Percent    int        `json:"percent"`
}

type exportIssue struct {
	Identifier string    `json:"identifier"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Priority   int       `json:"priority"`
	Status     string    `json:"status"`
	StateType  string    `json:"stateType"`
	Estimate   *float64  `json:"estimate"`
	Cycle      *int      `json:"cycle"`
	Milestone  string    `json:"milestone,omitempty"`
	Labels     []string  `json:"labels"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// buildExport applies the local filter, sort and aggregates to data. Totals
// cover the filtered issues; milestone percentages cover each milestone's
// own issues.
func buildExport(data *domain.ProjectData, vocabulary []domain.Label, local criteria.LocalCriteria, s engine.SortState) exportView {
	filtered := engine.Filter(data.Issues, local)
	rows := engine.Sort(filtered, s)
	totals := engine.Estimates(filtered)

	view := exportView{
		Project: exportProject{
			ID:          data.ID,
			Name:        data.Name,
			State:       data.State,
			StartDate:   data.StartDate,
			TargetDate:  data.TargetDate,
			Description: data.Description,
		},
		Sort:       exportSort{Column: string(s.Column), Descending: s.Descending},
		Totals:     exportTotals{Total: totals.Total, Completed: totals.Completed, Remaining: totals.Remaining},
		Milestones: make([]exportMilestone, 0, len(data.Milestones)),
		Labels:     make([]string, 0, len(vocabulary)),
		Issues:     make([]exportIssue, 0, len(rows)),
	}

	for _, mp := range engine.Milestones(data.Milestones) {
		view.Milestones = append(view.Milestones, exportMilestone{
			ID:         mp.Milestone.ID,
			Name:       mp.Milestone.Name,
			TargetDate: mp.Milestone.TargetDate,
			Percent:    mp.Percent,
		})
	}
	for _, l := range vocabulary {
		view.Labels = append(view.Labels, l.Name)
	}
	for i := range rows {
		issue := &rows[i]
		var cycle *int
		if issue.Cycle != nil {
			n := issue.Cycle.Number
			cycle = &n
		}
		view.Issues = append(view.Issues, exportIssue{
			Identifier: issue.Identifier,
			Title:      issue.Title,
			URL:        issue.URL,
			Priority:   int(issue.Priority),
			Status:     issue.State.Name,
			StateType:  issue.State.Type,
			Estimate:   issue.Estimate,
			Cycle:      cycle,
			Milestone:  issue.MilestoneName(),
			Labels:     issue.LabelNames(),
			CreatedAt:  issue.CreatedAt,
			UpdatedAt:  issue.UpdatedAt,
		})
	}
	return view
}

// writeExportJSON outputs the view in JSON format
func writeExportJSON(w io.Writer, view exportView) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(view)
}

// writeExportText outputs the view as a summary followed by an issue table
func writeExportText(w io.Writer, view exportView) error {
	fmt.Fprintf(w, "%s (%s)\n", view.Project.Name, orDash(view.Project.State))
	fmt.Fprintf(w, "Start: %s  Target: %s\n",
		format.DatePtr(view.Project.StartDate), format.DatePtr(view.Project.TargetDate))
	fmt.Fprintf(w, "Estimates: total %s, completed %s, remaining %s\n",
		format.Number(view.Totals.Total), format.Number(view.Totals.Completed), format.Number(view.Totals.Remaining))

	if len(view.Milestones) > 0 {
		fmt.Fprintln(w, "\nMilestones:")
		for _, m := range view.Milestones {
			fmt.Fprintf(w, "  %-30s %3d%%  %s\n", m.Name, m.Percent, format.DatePtr(m.TargetDate))
		}
	}

	fmt.Fprintln(w)
	if len(view.Issues) == 0 {
		fmt.Fprintln(w, "No issues found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRIORITY\tSTATUS\tEST\tCYCLE\tMILESTONE\tLABELS\tUPDATED")
	for _, issue := range view.Issues {
		title := issue.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		cycle := format.Placeholder
		if issue.Cycle != nil {
			cycle = domain.Cycle{Number: *issue.Cycle}.Label()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			issue.Identifier,
			title,
			format.PriorityBars(domain.NewPriority(issue.Priority)),
			orDash(issue.Status),
			format.Estimate(issue.Estimate),
			cycle,
			orDash(issue.Milestone),
			orDash(strings.Join(issue.Labels, ", ")),
			format.DateTime(issue.UpdatedAt.Local()),
		)
	}
	fmt.Fprintf(tw, "\n%d issues\n", len(view.Issues))
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return format.Placeholder
	}
	return s
}

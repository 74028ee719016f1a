package linear

import (
	"encoding/json"
	"time"

	"github.com/robby/lpi/internal/domain"
)

// Linear sends dates without a time component as TimelessDate.
const timelessDateLayout = "2006-01-02"

// Raw API shapes. Values are loosely typed here and tightened by the
// to* conversions below, which are the only way raw data reaches the domain.

type rawLabel struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type rawState struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
}

type rawCycle struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Number   float64 `json:"number"`
	StartsAt string  `json:"startsAt"`
	EndsAt   string  `json:"endsAt"`
}

type rawIssue struct {
	ID          string          `json:"id"`
	Identifier  string          `json:"identifier"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	URL         string          `json:"url"`
	Priority    json.RawMessage `json:"priority"`
	Estimate    *float64        `json:"estimate"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
	Cycle       *rawCycle       `json:"cycle"`
	State       *rawState       `json:"state"`
	Labels      *struct {
		Nodes []rawLabel `json:"nodes"`
	} `json:"labels"`
	ProjectMilestone *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"projectMilestone"`
}

type rawMilestone struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TargetDate  string `json:"targetDate"`
	Issues      struct {
		Nodes []struct {
			ID    string `json:"id"`
			State *struct {
				Type string `json:"type"`
			} `json:"state"`
		} `json:"nodes"`
	} `json:"issues"`
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// parseDate parses a TimelessDate or RFC 3339 timestamp. Empty or malformed
// input yields nil.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{timelessDateLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// parseTimestamp parses an RFC 3339 timestamp, returning the zero time when
// it cannot be parsed.
func parseTimestamp(s string) time.Time {
	if t := parseDate(s); t != nil {
		return *t
	}
	return time.Time{}
}

// normalizeEstimate drops negative estimates, which Linear never produces
// for a real estimate.
func normalizeEstimate(v *float64) *float64 {
	if v == nil || *v < 0 {
		return nil
	}
	est := *v
	return &est
}

func toIssue(r rawIssue) domain.Issue {
	issue := domain.Issue{
		ID:          r.ID,
		Identifier:  r.Identifier,
		Title:       r.Title,
		Description: r.Description,
		URL:         r.URL,
		Priority:    domain.ParsePriority(r.Priority),
		Estimate:    normalizeEstimate(r.Estimate),
		CreatedAt:   parseTimestamp(r.CreatedAt),
		UpdatedAt:   parseTimestamp(r.UpdatedAt),
	}

	if r.State != nil {
		issue.State = domain.State{Name: r.State.Name, Type: r.State.Type, Color: r.State.Color}
	}

	if r.Cycle != nil {
		issue.Cycle = &domain.Cycle{
			ID:       r.Cycle.ID,
			Name:     r.Cycle.Name,
			Number:   int(r.Cycle.Number),
			StartsAt: parseTimestamp(r.Cycle.StartsAt),
			EndsAt:   parseTimestamp(r.Cycle.EndsAt),
		}
	}

	if r.Labels != nil {
		issue.Labels = toLabels(r.Labels.Nodes)
	}

	if r.ProjectMilestone != nil && r.ProjectMilestone.ID != "" {
		issue.Milestone = &domain.MilestoneRef{ID: r.ProjectMilestone.ID, Name: r.ProjectMilestone.Name}
	}

	return issue
}

// toLabels converts raw labels, keeping the first occurrence of each name.
func toLabels(raw []rawLabel) []domain.Label {
	labels := make([]domain.Label, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, l := range raw {
		if seen[l.Name] {
			continue
		}
		seen[l.Name] = true
		labels = append(labels, domain.Label{Name: l.Name, Color: l.Color})
	}
	return labels
}

func toMilestone(r rawMilestone) domain.ProjectMilestone {
	m := domain.ProjectMilestone{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		TargetDate:  parseDate(r.TargetDate),
		Issues:      make([]domain.MilestoneIssue, 0, len(r.Issues.Nodes)),
	}
	for _, node := range r.Issues.Nodes {
		mi := domain.MilestoneIssue{ID: node.ID}
		if node.State != nil {
			mi.StateType = node.State.Type
		}
		m.Issues = append(m.Issues, mi)
	}
	return m
}

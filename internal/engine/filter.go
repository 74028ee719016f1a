// Package engine derives table views from fetched project data.
// Everything here is pure and synchronous: the same inputs always give the
// same rows, totals and option lists.
package engine

import (
	"strings"

	"github.com/robby/lpi/internal/criteria"
	"github.com/robby/lpi/internal/domain"
)

// Filter returns the issues matching the local criteria, in input order.
// Labels and states are not evaluated here; the fetch already applied them.
func Filter(issues []domain.Issue, c criteria.LocalCriteria) []domain.Issue {
	search := strings.ToLower(c.Search)

	out := make([]domain.Issue, 0, len(issues))
	for i := range issues {
		issue := &issues[i]

		if search != "" && !strings.Contains(strings.ToLower(issue.Title), search) {
			continue
		}

		if c.Milestone != "" && c.Milestone != domain.AllMilestones {
			if issue.Milestone == nil || issue.Milestone.ID != c.Milestone {
				continue
			}
		}

		if len(c.Cycles) > 0 {
			if issue.Cycle == nil || !c.Cycles.Contains(issue.Cycle.Label()) {
				continue
			}
		}

		out = append(out, *issue)
	}
	return out
}

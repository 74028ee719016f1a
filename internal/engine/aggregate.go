package engine

import (
	"slices"

	"github.com/robby/lpi/internal/domain"
)

// EstimateTotals are the estimate sums over an issue set.
type EstimateTotals struct {
	Total     float64
	Completed float64
	Remaining float64
}

// Estimates sums estimates over issues. Unestimated issues count as 0.
func Estimates(issues []domain.Issue) EstimateTotals {
	var totals EstimateTotals
	for i := range issues {
		est := issues[i].EstimateValue()
		totals.Total += est
		if issues[i].IsCompleted() {
			totals.Completed += est
		}
	}
	totals.Remaining = totals.Total - totals.Completed
	return totals
}

// CompletionPercent returns the share of the milestone's own issues that are
// completed, rounded half up to an integer in [0,100]. A milestone without
// issues is 0%.
func CompletionPercent(m domain.ProjectMilestone) int {
	total := len(m.Issues)
	if total == 0 {
		return 0
	}

	completed := 0
	for _, issue := range m.Issues {
		if issue.StateType == domain.StateTypeCompleted {
			completed++
		}
	}

	// round(100*c/n) with halves rounded up, in integer arithmetic
	return (200*completed + total) / (2 * total)
}

// MilestoneProgress pairs a milestone with its completion percentage.
type MilestoneProgress struct {
	Milestone domain.ProjectMilestone
	Percent   int
}

// Milestones annotates milestones with completion percentages, ordered by
// target date with undated milestones last.
func Milestones(ms []domain.ProjectMilestone) []MilestoneProgress {
	out := make([]MilestoneProgress, 0, len(ms))
	for _, m := range ms {
		out = append(out, MilestoneProgress{Milestone: m, Percent: CompletionPercent(m)})
	}

	slices.SortStableFunc(out, func(a, b MilestoneProgress) int {
		at, bt := a.Milestone.TargetDate, b.Milestone.TargetDate
		switch {
		case at == nil && bt == nil:
			return 0
		case at == nil:
			return 1
		case bt == nil:
			return -1
		default:
			return at.Compare(*bt)
		}
	})
	return out
}

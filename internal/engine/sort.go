package engine

import (
	"cmp"
	"slices"
	"strings"

	"github.com/robby/lpi/internal/domain"
)

// Column identifies a sortable table column.
type Column string

const (
	ColumnIdentifier Column = "identifier"
	ColumnTitle      Column = "title"
	ColumnPriority   Column = "priority"
	ColumnStatus     Column = "status"
	ColumnEstimate   Column = "estimate"
	ColumnCycle      Column = "cycle"
	ColumnMilestone  Column = "milestone"
	ColumnLabels     Column = "labels"
	ColumnCreatedAt  Column = "createdAt"
	ColumnUpdatedAt  Column = "updatedAt"
)

// Columns lists the sortable columns in table order.
var Columns = []Column{
	ColumnIdentifier,
	ColumnTitle,
	ColumnPriority,
	ColumnStatus,
	ColumnEstimate,
	ColumnCycle,
	ColumnMilestone,
	ColumnLabels,
	ColumnCreatedAt,
	ColumnUpdatedAt,
}

// Comparator orders two issues ascending. Negative means a sorts first.
type Comparator func(a, b *domain.Issue) int

var comparators = map[Column]Comparator{
	ColumnIdentifier: func(a, b *domain.Issue) int {
		return strings.Compare(a.Identifier, b.Identifier)
	},
	ColumnTitle: func(a, b *domain.Issue) int {
		return strings.Compare(a.Title, b.Title)
	},
	// Numeric on the normalized value; 1 (urgent) sorts before 3.
	ColumnPriority: func(a, b *domain.Issue) int {
		return cmp.Compare(a.Priority, b.Priority)
	},
	ColumnStatus: func(a, b *domain.Issue) int {
		return strings.Compare(a.State.Name, b.State.Name)
	},
	ColumnEstimate: func(a, b *domain.Issue) int {
		return cmp.Compare(a.EstimateValue(), b.EstimateValue())
	},
	ColumnCycle: func(a, b *domain.Issue) int {
		return cmp.Compare(a.CycleNumber(), b.CycleNumber())
	},
	ColumnMilestone: func(a, b *domain.Issue) int {
		return strings.Compare(a.MilestoneName(), b.MilestoneName())
	},
	ColumnLabels: func(a, b *domain.Issue) int {
		return strings.Compare(strings.Join(a.LabelNames(), ", "), strings.Join(b.LabelNames(), ", "))
	},
	ColumnCreatedAt: func(a, b *domain.Issue) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	},
	ColumnUpdatedAt: func(a, b *domain.Issue) int {
		return a.UpdatedAt.Compare(b.UpdatedAt)
	},
}

// ComparatorFor returns the comparator registered for col.
func ComparatorFor(col Column) (Comparator, bool) {
	c, ok := comparators[col]
	return c, ok
}

// SortState is the active table sort.
type SortState struct {
	Column     Column
	Descending bool
}

// DefaultSort is the table order when the user has not picked a column.
var DefaultSort = SortState{Column: ColumnUpdatedAt, Descending: true}

// Sort returns a sorted copy of issues. Ties keep their input order.
// An unknown column leaves the order unchanged.
func Sort(issues []domain.Issue, s SortState) []domain.Issue {
	out := slices.Clone(issues)
	compare, ok := ComparatorFor(s.Column)
	if !ok {
		return out
	}

	slices.SortStableFunc(out, func(a, b domain.Issue) int {
		if s.Descending {
			return compare(&b, &a)
		}
		return compare(&a, &b)
	})
	return out
}

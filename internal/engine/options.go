package engine

import (
	"slices"

	"github.com/robby/lpi/internal/domain"
)

// DistinctStates returns the state names present in issues, in order of
// first appearance.
func DistinctStates(issues []domain.Issue) []string {
	seen := make(map[string]bool)
	out := []string{}
	for i := range issues {
		name := issues[i].State.Name
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// DistinctCycles returns the cycle labels present in issues, ordered by
// cycle number.
func DistinctCycles(issues []domain.Issue) []string {
	seen := make(map[int]bool)
	var numbers []int
	for i := range issues {
		c := issues[i].Cycle
		if c == nil || seen[c.Number] {
			continue
		}
		seen[c.Number] = true
		numbers = append(numbers, c.Number)
	}
	slices.Sort(numbers)

	out := make([]string, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, domain.Cycle{Number: n}.Label())
	}
	return out
}

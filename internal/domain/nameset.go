package domain

import (
	"slices"
	"strings"
)

// NameSet is a set of display names kept sorted and free of duplicates,
// so two sets with the same members compare equal.
type NameSet []string

// NewNameSet builds a set from names, dropping blanks and duplicates.
func NewNameSet(names ...string) NameSet {
	set := make(NameSet, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		set = append(set, n)
	}
	slices.Sort(set)
	return slices.Compact(set)
}

// Contains reports whether name is in the set.
func (s NameSet) Contains(name string) bool {
	_, found := slices.BinarySearch(s, name)
	return found
}

// Toggle returns a new set with name added, or removed if it was present.
func (s NameSet) Toggle(name string) NameSet {
	if s.Contains(name) {
		out := make(NameSet, 0, len(s))
		for _, n := range s {
			if n != name {
				out = append(out, n)
			}
		}
		return out
	}
	return NewNameSet(append(slices.Clone(s), name)...)
}

// Equal reports whether both sets hold the same names.
func (s NameSet) Equal(other NameSet) bool {
	return slices.Equal(s, other)
}

// Slice returns the names as a plain slice, never nil.
func (s NameSet) Slice() []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone([]string(s))
}

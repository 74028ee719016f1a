package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Priority is an issue priority guaranteed to be in [PriorityNone, PriorityLow].
// 0 means no priority, 1 is the most urgent and 4 the least.
type Priority int

const (
	PriorityNone   Priority = 0
	PriorityUrgent Priority = 1
	PriorityHigh   Priority = 2
	PriorityMedium Priority = 3
	PriorityLow    Priority = 4
)

// NewPriority clamps an integer priority. Out-of-range values become PriorityNone.
func NewPriority(v int) Priority {
	if v < int(PriorityNone) || v > int(PriorityLow) {
		return PriorityNone
	}
	return Priority(v)
}

// ParsePriority normalizes a raw JSON priority value.
// Anything that is not an integral number in [0,4] becomes PriorityNone,
// including null, strings that do not hold a number, NaN and fractions.
func ParsePriority(raw json.RawMessage) Priority {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return PriorityNone
	}
	// Numbers sent as strings are accepted
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f != math.Trunc(f) {
		return PriorityNone
	}
	if f < float64(PriorityNone) || f > float64(PriorityLow) {
		return PriorityNone
	}
	return Priority(int(f))
}

// String returns the human name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityUrgent:
		return "Urgent"
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return "No priority"
	}
}

// Bars returns how many of the four priority bars are filled.
// No priority fills none; urgent fills all four.
func (p Priority) Bars() int {
	if p == PriorityNone {
		return 0
	}
	return 5 - int(p)
}

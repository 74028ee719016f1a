// Package format renders domain values for display.
package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/robby/lpi/internal/domain"
)

const (
	dateLayout     = "02.01.2006"
	dateTimeLayout = "02.01.2006, 15:04"
)

// Placeholder is shown for absent values.
const Placeholder = "-"

// Date renders t as DD.MM.YYYY in t's location.
func Date(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.Format(dateLayout)
}

// DatePtr renders an optional date.
func DatePtr(t *time.Time) string {
	if t == nil {
		return Placeholder
	}
	return Date(*t)
}

// DateTime renders t as "DD.MM.YYYY, HH:MM" in t's location.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.Format(dateTimeLayout)
}

// Estimate renders an estimate. Missing and zero estimates show the placeholder.
func Estimate(est *float64) string {
	if est == nil || *est == 0 {
		return Placeholder
	}
	return Number(*est)
}

// Number renders a float without trailing zeros (3, 2.5).
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PriorityBars renders a priority as four bars, with 5-level of them filled.
// No priority renders as a dashed placeholder.
func PriorityBars(p domain.Priority) string {
	filled := p.Bars()
	if filled == 0 {
		return "···"
	}
	return strings.Repeat("▮", filled) + strings.Repeat("▯", 4-filled)
}

// Labels joins label names for table cells.
func Labels(labels []domain.Label) string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	return strings.Join(names, ", ")
}

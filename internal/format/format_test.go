package format

import (
	"testing"
	"time"

	"github.com/robby/lpi/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDate(t *testing.T) {
	ts := time.Date(2025, 3, 7, 14, 5, 0, 0, time.UTC)

	assert.Equal(t, "07.03.2025", Date(ts))
	assert.Equal(t, "07.03.2025, 14:05", DateTime(ts))
	assert.Equal(t, Placeholder, Date(time.Time{}))
	assert.Equal(t, Placeholder, DateTime(time.Time{}))
	assert.Equal(t, Placeholder, DatePtr(nil))
	assert.Equal(t, "07.03.2025", DatePtr(&ts))
}

func TestDateTime_UsesLocation(t *testing.T) {
	ts := time.Date(2025, 3, 7, 23, 30, 0, 0, time.UTC)
	berlin := time.FixedZone("CET", 3600)

	assert.Equal(t, "08.03.2025, 00:30", DateTime(ts.In(berlin)))
}

func TestEstimate(t *testing.T) {
	v := func(f float64) *float64 { return &f }

	assert.Equal(t, Placeholder, Estimate(nil))
	assert.Equal(t, Placeholder, Estimate(v(0)))
	assert.Equal(t, "3", Estimate(v(3)))
	assert.Equal(t, "2.5", Estimate(v(2.5)))
}

func TestPriorityBars(t *testing.T) {
	tests := []struct {
		priority domain.Priority
		want     string
	}{
		{domain.PriorityNone, "···"},
		{domain.PriorityUrgent, "▮▮▮▮"},
		{domain.PriorityHigh, "▮▮▮▯"},
		{domain.PriorityMedium, "▮▮▯▯"},
		{domain.PriorityLow, "▮▯▯▯"},
	}
	for _, tt := range tests {
		t.Run(tt.priority.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, PriorityBars(tt.priority))
		})
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "", Labels(nil))
	assert.Equal(t, "bug, docs", Labels([]domain.Label{{Name: "bug"}, {Name: "docs"}}))
}

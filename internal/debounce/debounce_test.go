package debounce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestValue_SettleLatestTag(t *testing.T) {
	v := NewValue("")

	first := v.Set("lo")
	second := v.Set("login")

	assert.True(t, v.Pending())
	assert.Equal(t, "login", v.Current())
	assert.Equal(t, "", v.Settled())

	// The first window was restarted by the second Set
	assert.False(t, v.Settle(first))
	assert.Equal(t, "", v.Settled())

	assert.True(t, v.Settle(second))
	assert.Equal(t, "login", v.Settled())
	assert.False(t, v.Pending())

	// A duplicate delivery is ignored
	assert.False(t, v.Settle(second))
}

func TestValue_Cancel(t *testing.T) {
	v := NewValue([]string{"bug"})
	tag := v.Set([]string{"bug", "docs"})

	v.Cancel()

	assert.False(t, v.Pending())
	assert.False(t, v.Settle(tag))
	assert.Equal(t, []string{"bug"}, v.Settled())
	assert.Equal(t, []string{"bug", "docs"}, v.Current())
}

func TestValue_ChannelsAreIndependent(t *testing.T) {
	search := NewValue("")
	labels := NewValue(0)

	searchTag := search.Set("fix")
	labelTag := labels.Set(2)
	// Another search keystroke must not disturb the label window
	search.Set("fix l")

	assert.False(t, search.Settle(searchTag))
	assert.True(t, labels.Settle(labelTag))
	assert.Equal(t, 2, labels.Settled())
}

func TestTick(t *testing.T) {
	cmd := Tick(time.Millisecond, 3, 9)
	require.NotNil(t, cmd)

	msg := cmd()
	assert.Equal(t, SettledMsg{Channel: 3, Tag: 9}, msg)
}

// scheduled is a pending SettledMsg in the simulated clock.
type scheduled struct {
	at  int
	tag uint64
}

// TestValue_LagProperty drives a Value with a simulated clock: every Set
// schedules a tick one window later, ticks fire in time order, and a tick
// due at the same instant as a Set is delivered after it.
func TestValue_LagProperty(t *testing.T) {
	const window = 300

	rapid.Check(t, func(t *rapid.T) {
		gaps := rapid.SliceOfN(rapid.IntRange(0, 2*window), 1, 40).Draw(t, "gaps")

		v := NewValue(-1)
		var queue []scheduled
		now := 0

		fireBefore := func(limit int) {
			remaining := queue[:0]
			for _, s := range queue {
				if s.at < limit {
					v.Settle(s.tag)
				} else {
					remaining = append(remaining, s)
				}
			}
			queue = remaining
		}

		allFast := true
		for i, gap := range gaps {
			if i > 0 {
				now += gap
				if gap >= window {
					allFast = false
				}
			}
			fireBefore(now)

			// Quiescence of at least one window means the previous value landed
			if i > 0 && gap > window {
				if v.Settled() != i-1 {
					t.Fatalf("after %dms of quiet settled=%d, want %d", gap, v.Settled(), i-1)
				}
			}
			if allFast && v.Settled() != -1 {
				t.Fatalf("settled changed to %d while changes kept arriving faster than the window", v.Settled())
			}

			tag := v.Set(i)
			queue = append(queue, scheduled{at: now + window, tag: tag})
		}

		// Stop changing: within one window the latest value is visible
		fireBefore(now + window + 1)
		if v.Settled() != len(gaps)-1 {
			t.Fatalf("settled=%d after final quiet window, want %d", v.Settled(), len(gaps)-1)
		}
		if v.Pending() {
			t.Fatalf("value still pending after final window")
		}
	})
}

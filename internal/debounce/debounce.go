// Package debounce stabilizes changing values on the Bubble Tea event loop.
//
// Each Value tracks one channel. Set records the new immediate value and
// returns a tag; Tick schedules a SettledMsg carrying that tag after the
// window. When the message arrives, Settle promotes the immediate value only
// if no newer Set happened in between, so every Set restarts the window.
// Timers cannot be stopped once handed to the runtime; cancelling works by
// invalidating the tag so the late message is ignored.
//
// A burst of N changes therefore leaves N timers running on one channel, not
// one. Only the timer carrying the latest tag can settle the value; the others
// fire into Settle and are dropped.
package debounce

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultWindow is the quiescence required before a value is considered stable.
const DefaultWindow = 300 * time.Millisecond

// SettledMsg is delivered when a channel's window elapses.
type SettledMsg struct {
	Channel int
	Tag     uint64
}

// Tick returns a command that emits SettledMsg for channel/tag after window.
func Tick(window time.Duration, channel int, tag uint64) tea.Cmd {
	return tea.Tick(window, func(time.Time) tea.Msg {
		return SettledMsg{Channel: channel, Tag: tag}
	})
}

// Value holds the immediate and the stabilized copy of one channel.
// The zero value is ready to use with zero values for both copies.
type Value[T any] struct {
	immediate T
	settled   T
	tag       uint64
	pending   bool
}

// NewValue returns a Value whose immediate and settled copies start at v.
func NewValue[T any](v T) Value[T] {
	return Value[T]{immediate: v, settled: v}
}

// Set updates the immediate value and restarts the window.
// The returned tag must be passed to Settle when the window elapses.
func (v *Value[T]) Set(x T) uint64 {
	v.immediate = x
	v.tag++
	v.pending = true
	return v.tag
}

// Settle promotes the immediate value if tag belongs to the latest Set.
// It reports whether the settled value was updated.
func (v *Value[T]) Settle(tag uint64) bool {
	if !v.pending || tag != v.tag {
		return false
	}
	v.settled = v.immediate
	v.pending = false
	return true
}

// Cancel drops the pending stabilization, if any. The settled value keeps
// its last stable state.
func (v *Value[T]) Cancel() {
	v.tag++
	v.pending = false
}

// Reset sets both copies to x and drops any pending stabilization.
// Tags keep increasing so ticks issued before the reset stay stale.
func (v *Value[T]) Reset(x T) {
	v.immediate = x
	v.settled = x
	v.tag++
	v.pending = false
}

// Current returns the immediate value.
func (v *Value[T]) Current() T { return v.immediate }

// Settled returns the stabilized value.
func (v *Value[T]) Settled() T { return v.settled }

// Pending reports whether a stabilization is in progress.
func (v *Value[T]) Pending() bool { return v.pending }

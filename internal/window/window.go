// Package window provides a time-bounded deque of events anchored at a reference time.
package window

import (
	"sort"
	"time"
)

// Event is a value observed at a point in time.
type Event[T any] struct {
	At    time.Time
	Value T
}

// Window holds the events whose age, measured back from the reference time,
// is below the horizon. Events are kept ordered oldest first.
//
// Age is ref minus the event time, so events stamped after ref have a
// negative age and are always inside the window.
type Window[T any] struct {
	ref     time.Time
	horizon time.Duration
	events  []Event[T]
}

// New creates an empty window ending at ref.
func New[T any](ref time.Time, horizon time.Duration) *Window[T] {
	return &Window[T]{ref: ref, horizon: horizon}
}

// Ref returns the reference time.
func (w *Window[T]) Ref() time.Time {
	return w.ref
}

// Horizon returns the window length.
func (w *Window[T]) Horizon() time.Duration {
	return w.horizon
}

// Add inserts an event if it falls inside the horizon and reports whether it was kept.
func (w *Window[T]) Add(at time.Time, v T) bool {
	if w.ref.Sub(at) >= w.horizon {
		return false
	}
	i := sort.Search(len(w.events), func(i int) bool {
		return w.events[i].At.After(at)
	})
	w.events = append(w.events, Event[T]{})
	copy(w.events[i+1:], w.events[i:])
	w.events[i] = Event[T]{At: at, Value: v}
	return true
}

// Advance moves the reference time forward and evicts events that aged out.
// Moving the reference backwards is ignored.
func (w *Window[T]) Advance(ref time.Time) int {
	if !ref.After(w.ref) {
		return 0
	}
	w.ref = ref
	n := 0
	for n < len(w.events) && w.ref.Sub(w.events[n].At) >= w.horizon {
		n++
	}
	if n > 0 {
		w.events = append(w.events[:0], w.events[n:]...)
	}
	return n
}

// Len returns the number of events in the window.
func (w *Window[T]) Len() int {
	return len(w.events)
}

// Events returns a copy of the events, oldest first.
func (w *Window[T]) Events() []Event[T] {
	out := make([]Event[T], len(w.events))
	copy(out, w.events)
	return out
}

// Counts returns how many events are younger than each span, in one pass.
// Spans longer than the horizon are capped by it.
func (w *Window[T]) Counts(spans ...time.Duration) []int {
	counts := make([]int, len(spans))
	for _, e := range w.events {
		age := w.ref.Sub(e.At)
		for i, span := range spans {
			if age < span {
				counts[i]++
			}
		}
	}
	return counts
}

// Any reports whether some event satisfies match.
func (w *Window[T]) Any(match func(T) bool) bool {
	for _, e := range w.events {
		if match(e.Value) {
			return true
		}
	}
	return false
}

// Package schedule provides ptr.Scheduler implementations.
package schedule

import (
	"sort"
	"time"

	"github.com/nickpending/pullfeed/internal/ptr"
)

// Manual is a scheduler on a logical clock. Callbacks run only from
// Advance, in deadline order, on the caller's goroutine.
type Manual struct {
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	m   *Manual
	seq int
	due time.Duration
	fn  func()
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) ptr.Timer {
	m.seq++
	t := &manualTimer{m: m, seq: m.seq, due: m.now + max(d, 0), fn: fn}
	m.pending = append(m.pending, t)
	return t
}

func (t *manualTimer) Stop() bool {
	for i, p := range t.m.pending {
		if p == t {
			t.m.pending = append(t.m.pending[:i], t.m.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Now is the logical time elapsed since the scheduler was created.
func (m *Manual) Now() time.Duration { return m.now }

// Pending is the number of callbacks waiting to run.
func (m *Manual) Pending() int { return len(m.pending) }

// Advance moves the clock forward by d, running every callback that comes
// due, including ones scheduled by callbacks along the way.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		next := m.next(target)
		if next == nil {
			break
		}
		next.Stop()
		m.now = next.due
		next.fn()
	}
	m.now = target
}

func (m *Manual) next(target time.Duration) *manualTimer {
	due := make([]*manualTimer, 0, len(m.pending))
	for _, t := range m.pending {
		if t.due <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

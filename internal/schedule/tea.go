package schedule

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nickpending/pullfeed/internal/ptr"
)

// FiredMsg is delivered through the bubbletea loop when a timer created
// by Tea comes due.
type FiredMsg struct {
	id int
}

// Tea schedules callbacks as tea.Tick commands so they run inside Update,
// on the same goroutine as every other message.
type Tea struct {
	seq     int
	live    map[int]func()
	pending []tea.Cmd
}

type teaTimer struct {
	t  *Tea
	id int
}

func NewTea() *Tea {
	return &Tea{live: make(map[int]func())}
}

func (s *Tea) AfterFunc(d time.Duration, fn func()) ptr.Timer {
	s.seq++
	id := s.seq
	s.live[id] = fn
	s.pending = append(s.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return FiredMsg{id: id}
	}))
	return &teaTimer{t: s, id: id}
}

func (t *teaTimer) Stop() bool {
	if _, ok := t.t.live[t.id]; !ok {
		return false
	}
	delete(t.t.live, t.id)
	return true
}

// Cmd returns the tick commands created since the last call. The caller
// must return it from Update.
func (s *Tea) Cmd() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

// Handle runs the callback for a FiredMsg. It reports whether msg was a
// FiredMsg; stopped timers are dropped.
func (s *Tea) Handle(msg tea.Msg) bool {
	fired, ok := msg.(FiredMsg)
	if !ok {
		return false
	}
	fn, live := s.live[fired.id]
	if !live {
		return true
	}
	delete(s.live, fired.id)
	fn()
	return true
}

// Live is the number of timers that have not fired or been stopped.
func (s *Tea) Live() int { return len(s.live) }

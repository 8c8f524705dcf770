package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/pullfeed/internal/commands"
	"github.com/nickpending/pullfeed/internal/config"
	"github.com/nickpending/pullfeed/internal/ptr"
	"github.com/nickpending/pullfeed/internal/schedule"
	"github.com/nickpending/pullfeed/internal/service"
	"github.com/nickpending/pullfeed/internal/ui/operations"
)

// pullTo presses at y0 and drags through ys.
func pullTo(t *testing.T, m Model, y0 int, ys ...int) (Model, tea.Cmd) {
	t.Helper()
	m, cmd := send(t, m, press(y0))
	for _, y := range ys {
		m, cmd = send(t, m, drag(y))
	}
	return m, cmd
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// The list is 38 rows, so a pull of 19 rows triggers a refresh.
func TestPullPastThresholdRefreshes(t *testing.T) {
	m := testModelWithStatuses(t, 30)

	m, _ = pullTo(t, m, 3, 5, 15)
	if m.pull.ctrl.State() != ptr.StateDragging {
		t.Fatalf("state = %s, want dragging", m.pull.ctrl.State())
	}
	if view := m.View(); !strings.Contains(view, "Pull to refresh") {
		t.Errorf("dragging should show the pull label:\n%s", view)
	}

	m, cmd := send(t, m, drag(24))
	if m.pull.ctrl.State() != ptr.StateRefreshing {
		t.Fatalf("state = %s, want refreshing", m.pull.ctrl.State())
	}
	if cmd == nil {
		t.Fatal("refresh should return the fetch command")
	}
	if len(m.pull.queue) != 0 {
		t.Error("Update should drain the controller's queue")
	}
	if view := m.View(); !strings.Contains(view, "Refreshing") {
		t.Errorf("refreshing header missing:\n%s", view)
	}

	m, _ = send(t, m, release(24))
	if m.cursor != 0 {
		t.Error("a pull must not be taken as a tap")
	}

	m, _ = send(t, m, operations.FetchDoneMsg{Kind: operations.FetchNewer, Error: service.ErrNoSource})
	if m.pull.ctrl.State() != ptr.StateIdle || m.pull.ctrl.HeaderState() != ptr.HeaderHidden {
		t.Errorf("after completion state = %s header = %s", m.pull.ctrl.State(), m.pull.ctrl.HeaderState())
	}
}

func TestShortPullResets(t *testing.T) {
	m := testModelWithStatuses(t, 30)

	m, _ = pullTo(t, m, 3, 5, 12)
	m, _ = send(t, m, release(12))

	if m.pull.ctrl.State() != ptr.StateIdle {
		t.Errorf("state = %s, want idle", m.pull.ctrl.State())
	}
	if m.pull.ctrl.HeaderState() != ptr.HeaderHidden {
		t.Errorf("header = %s, want hidden", m.pull.ctrl.HeaderState())
	}
	if m.pull.header.Height() != 0 {
		t.Error("hidden header should take no rows")
	}
}

// INVARIANT: only a list scrolled to its top can be pulled
// BREAKS: dragging mid-timeline would start refreshes
func TestPullRequiresTop(t *testing.T) {
	m := testModelWithStatuses(t, 30)
	m.cursor = 5
	m.offset = 5

	m, _ = pullTo(t, m, 3, 5, 30)
	if m.pull.ctrl.State() != ptr.StateIdle {
		t.Errorf("state = %s, want idle when not at top", m.pull.ctrl.State())
	}
}

func TestTapSelectsRow(t *testing.T) {
	m := testModelWithStatuses(t, 30)
	m.offset = 5
	m.cursor = 5

	// Row 5 is the third status on screen: the title bar takes row 0
	m, _ = send(t, m, press(5))
	m, _ = send(t, m, release(5))

	if m.cursor != 7 {
		t.Errorf("cursor = %d, want 7", m.cursor)
	}
}

func TestWheelScrolls(t *testing.T) {
	m := testModelWithStatuses(t, 5)

	m, _ = send(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if m.cursor != 1 {
		t.Errorf("wheel down cursor = %d, want 1", m.cursor)
	}
	m, _ = send(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if m.cursor != 0 {
		t.Errorf("wheel up cursor = %d, want 0", m.cursor)
	}
}

func TestPullCommandDisables(t *testing.T) {
	m := testModelWithStatuses(t, 30)

	m, _ = send(t, m, commands.PullMsg{Enabled: false})
	if m.pull.ctrl.IsEnabled() {
		t.Fatal(":pull off should disable the controller")
	}
	m, _ = pullTo(t, m, 3, 5, 30)
	if m.pull.ctrl.State() != ptr.StateIdle {
		t.Errorf("disabled controller should ignore pulls, state = %s", m.pull.ctrl.State())
	}
	m, _ = send(t, m, release(30))

	m, _ = send(t, m, commands.PullMsg{Toggle: true})
	if !m.pull.ctrl.IsEnabled() {
		t.Error(":pull should toggle back on")
	}
}

// INVARIANT: losing the terminal mid-drag ends the gesture
// BREAKS: the header stays stuck open after a resize or focus loss
func TestGestureCancelledByTerminal(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.Msg
	}{
		{"resize", tea.WindowSizeMsg{Width: 120, Height: 50}},
		{"blur", tea.BlurMsg{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModelWithStatuses(t, 30)
			m, _ = pullTo(t, m, 3, 5, 10)
			if m.pull.ctrl.State() != ptr.StateDragging {
				t.Fatalf("state = %s, want dragging", m.pull.ctrl.State())
			}

			m, _ = send(t, m, tt.msg)
			if m.pull.ctrl.State() != ptr.StateIdle {
				t.Errorf("state = %s, want idle", m.pull.ctrl.State())
			}
			if m.pull.ctrl.HeaderState() != ptr.HeaderHidden {
				t.Errorf("header = %s, want hidden", m.pull.ctrl.HeaderState())
			}
		})
	}
}

func TestReaderIsPullable(t *testing.T) {
	m := testModelWithStatuses(t, 3)
	m, _ = send(t, m, key("enter"))
	if m.view != "reader" {
		t.Fatal("enter should open the reader")
	}

	// The reader viewport is 37 rows
	m, _ = pullTo(t, m, 3, 5, 24)
	if m.pull.ctrl.State() != ptr.StateRefreshing {
		t.Errorf("state = %s, want refreshing", m.pull.ctrl.State())
	}
}

// INVARIANT: header transitions run on bubbletea ticks
// BREAKS: the header would never become visible in the real program
func TestHeaderTransitionUsesTicks(t *testing.T) {
	cfg := config.Default()
	cfg.Pull.HeaderIn = "fade_in"
	m, err := NewModel(cfg, service.NewTimeline(nil, 50, "test"))
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	m.width, m.height, m.loading = 100, 40, false
	m.statuses = testStatuses(5)

	m, cmd := pullTo(t, m, 3, 5)
	if m.pull.ctrl.HeaderState() != ptr.HeaderHidden {
		t.Fatalf("header should still be fading in, got %s", m.pull.ctrl.HeaderState())
	}
	if m.pull.sched.Live() != 1 {
		t.Fatalf("live timers = %d, want 1", m.pull.sched.Live())
	}

	var fired bool
	for _, msg := range collect(cmd) {
		if _, ok := msg.(schedule.FiredMsg); ok {
			fired = true
			m, _ = send(t, m, msg)
		}
	}
	if !fired {
		t.Fatal("Update should return the scheduler tick")
	}
	if m.pull.ctrl.HeaderState() != ptr.HeaderVisible {
		t.Errorf("header = %s, want visible after the tick", m.pull.ctrl.HeaderState())
	}
}

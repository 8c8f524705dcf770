package ui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/pullfeed/internal/ptr"
	"github.com/nickpending/pullfeed/internal/schedule"
)

const (
	timelineViewID ptr.ViewID = "timeline"
	readerViewID   ptr.ViewID = "reader"
)

// timelineView is the status list as the pull controller sees it. It is
// rebuilt for every event from the current model.
type timelineView struct {
	height int
	first  int
}

func (v timelineView) ID() ptr.ViewID     { return timelineViewID }
func (v timelineView) Family() ptr.Family { return ptr.FamilyList }
func (v timelineView) Height() int        { return v.height }
func (v timelineView) FirstVisible() int  { return v.first }

// readerView is the status reader viewport.
type readerView struct {
	vp viewport.Model
}

func (v readerView) ID() ptr.ViewID           { return readerViewID }
func (v readerView) Family() ptr.Family       { return ptr.FamilyViewport }
func (v readerView) Height() int              { return v.vp.Height }
func (v readerView) Viewport() viewport.Model { return v.vp }

// pullState is shared by every copy of the Model. The controller's
// callbacks run inside Update and leave their commands in queue; Update
// returns them together with the scheduler's ticks.
type pullState struct {
	ctrl   *ptr.Controller
	sched  *schedule.Tea
	header *ptr.ProgressHeader
	queue  []tea.Cmd

	headerState ptr.HeaderState

	// Tap detection for the passthrough listener
	pressY  int
	pressed bool
	tapped  bool
}

func newPullState(ctrl *ptr.Controller, sched *schedule.Tea, header *ptr.ProgressHeader) *pullState {
	p := &pullState{ctrl: ctrl, sched: sched, header: header}

	ctrl.SetHeaderListener(func(_ *ptr.HeaderView, state ptr.HeaderState) {
		p.headerState = state
		slog.Debug("pull header", "state", state)
	})
	return p
}

// enqueue adds a command to be returned from the current Update.
func (p *pullState) enqueue(cmd tea.Cmd) {
	p.queue = append(p.queue, cmd)
}

// drain returns and clears everything the controller produced.
func (p *pullState) drain() tea.Cmd {
	cmds := append(p.queue, p.sched.Cmd())
	p.queue = nil
	return tea.Batch(cmds...)
}

// listen is the timeline's passthrough touch listener. It never consumes
// events; it only notices a press and release on the same row.
func (p *pullState) listen(_ ptr.View, ev ptr.TouchEvent) bool {
	switch ev.Action {
	case ptr.TouchDown:
		p.pressY = ev.Y
		p.pressed = true
	case ptr.TouchUp:
		p.tapped = p.pressed && ev.Y == p.pressY
		p.pressed = false
	case ptr.TouchCancel:
		p.pressed = false
	}
	return false
}

// takeTap reports and clears a tap recognized by listen.
func (p *pullState) takeTap() bool {
	tapped := p.tapped
	p.tapped = false
	return tapped
}

// pullView returns the pullable view currently on screen.
func (m Model) pullView() ptr.View {
	if m.view == "reader" {
		return readerView{vp: m.viewport}
	}
	return timelineView{height: m.listHeight(), first: m.offset}
}

// cancelTouch ends any gesture in progress, for focus loss and resizes.
func (m Model) cancelTouch() {
	m.pull.ctrl.HandleTouch(m.pullView(), ptr.TouchEvent{Action: ptr.TouchCancel, Time: time.Now()})
}

// handleMouse routes mouse input to the wheel scroller or the pull controller.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Action == tea.MouseActionPress {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return m.scroll(-1)
		case tea.MouseButtonWheelDown:
			return m.scroll(1)
		}
	}

	ev, ok := ptr.FromMouse(msg, time.Now())
	if !ok {
		return m, nil
	}

	handled := m.pull.ctrl.HandleTouch(m.pullView(), ev)
	if m.view != "list" || !m.pull.takeTap() || handled {
		return m, nil
	}
	if row := m.rowAt(ev.Y); row >= 0 {
		m.cursor = row
		m.ensureVisible()
	}
	return m, nil
}

// scroll moves the reader viewport or the list cursor by delta lines.
func (m Model) scroll(delta int) (Model, tea.Cmd) {
	if m.view == "reader" {
		m.viewport.SetYOffset(m.viewport.YOffset + delta)
		return m, nil
	}
	return m.moveCursor(delta)
}

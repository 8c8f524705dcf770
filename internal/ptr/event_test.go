package ptr

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

func TestFromMouse(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		msg    tea.MouseMsg
		want   TouchAction
		wantOK bool
	}{
		{name: "left press", msg: tea.MouseMsg{Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, want: TouchDown, wantOK: true},
		{name: "left drag", msg: tea.MouseMsg{Y: 7, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}, want: TouchMove, wantOK: true},
		{name: "release", msg: tea.MouseMsg{Y: 7, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}, want: TouchUp, wantOK: true},
		{name: "right press", msg: tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonRight}},
		{name: "hover", msg: tea.MouseMsg{Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}},
		{name: "wheel", msg: tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := FromMouse(tt.msg, now)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if ev.Action != tt.want {
				t.Errorf("action = %s, want %s", ev.Action, tt.want)
			}
			if ev.Y != tt.msg.Y || !ev.Time.Equal(now) {
				t.Errorf("unexpected event %+v", ev)
			}
		})
	}
}

type vpView struct{ vp viewport.Model }

func (v vpView) ID() ViewID               { return "reader" }
func (v vpView) Family() Family           { return FamilyViewport }
func (v vpView) Height() int              { return v.vp.Height }
func (v vpView) Viewport() viewport.Model { return v.vp }

type rows struct{ first int }

func (r rows) ID() ViewID        { return "rows" }
func (r rows) Family() Family    { return FamilyList }
func (r rows) Height() int       { return 10 }
func (r rows) FirstVisible() int { return r.first }

func TestBuiltinAdapters(t *testing.T) {
	a := NewAdapters()

	list, ok := a.Lookup(rows{})
	if !ok {
		t.Fatal("list adapter missing")
	}
	if !list.IsScrolledToTop(rows{first: 0}) {
		t.Error("first row visible should be top")
	}
	if list.IsScrolledToTop(rows{first: 2}) {
		t.Error("scrolled list reported top")
	}

	vp := viewport.New(20, 2)
	vp.SetContent("a\nb\nc\nd\ne")
	view := vpView{vp: vp}
	adapter, ok := a.Lookup(view)
	if !ok {
		t.Fatal("viewport adapter missing")
	}
	if !adapter.IsScrolledToTop(view) {
		t.Error("fresh viewport should be at top")
	}
	vp.SetYOffset(2)
	if adapter.IsScrolledToTop(vpView{vp: vp}) {
		t.Error("scrolled viewport reported top")
	}

	// A view whose family says list but lacks the capability is never at top.
	if list.IsScrolledToTop(vpView{vp: vp}) {
		t.Error("list adapter accepted a non-list view")
	}
}

func TestAdaptersRegisterOverrides(t *testing.T) {
	a := NewAdapters()
	a.Register(FamilyList, AdapterFunc(func(View) bool { return true }))

	adapter, _ := a.Lookup(rows{first: 9})
	if !adapter.IsScrolledToTop(rows{first: 9}) {
		t.Error("custom adapter not used")
	}
	if _, ok := a.Lookup(nil); ok {
		t.Error("nil view resolved an adapter")
	}
}

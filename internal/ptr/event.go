package ptr

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TouchAction classifies a raw pointer event.
type TouchAction int

const (
	TouchDown TouchAction = iota
	TouchMove
	TouchUp
	TouchCancel
)

func (a TouchAction) String() string {
	switch a {
	case TouchDown:
		return "down"
	case TouchMove:
		return "move"
	case TouchUp:
		return "up"
	case TouchCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// TouchEvent is a single pointer sample. Y is relative to the top edge of
// the view the event is delivered to.
type TouchEvent struct {
	Action TouchAction
	Y      int
	Time   time.Time
}

// FromMouse converts a terminal mouse event into a touch event. Only the
// left button drives touches; wheel and other buttons report false.
func FromMouse(msg tea.MouseMsg, at time.Time) (TouchEvent, bool) {
	ev := TouchEvent{Y: msg.Y, Time: at}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return TouchEvent{}, false
		}
		ev.Action = TouchDown
	case tea.MouseActionMotion:
		if msg.Button != tea.MouseButtonLeft {
			return TouchEvent{}, false
		}
		ev.Action = TouchMove
	case tea.MouseActionRelease:
		// Most terminals don't report which button was released.
		ev.Action = TouchUp
	default:
		return TouchEvent{}, false
	}

	return ev, true
}

package ptr

// RefreshState is the controller's position in the pull-to-refresh cycle.
type RefreshState int

const (
	StateIdle RefreshState = iota
	StateDragging
	StateRefreshing
	StateMinimized
)

func (s RefreshState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateRefreshing:
		return "refreshing"
	case StateMinimized:
		return "minimized"
	default:
		return "unknown"
	}
}

// HeaderState is reported to the header listener whenever the header
// finishes a visibility change.
type HeaderState int

const (
	HeaderHidden HeaderState = iota
	HeaderVisible
	HeaderMinimized
)

func (s HeaderState) String() string {
	switch s {
	case HeaderHidden:
		return "hidden"
	case HeaderVisible:
		return "visible"
	case HeaderMinimized:
		return "minimized"
	default:
		return "unknown"
	}
}

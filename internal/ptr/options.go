package ptr

import (
	"fmt"
	"time"
)

// Options configure a Controller. They are copied at construction and never
// consulted through the caller's value again.
type Options struct {
	// RefreshScrollDistance is the fraction of the view height a pull must
	// travel before it counts as a refresh.
	RefreshScrollDistance float64
	// RefreshOnRelease defers the refresh until the touch is released.
	RefreshOnRelease bool
	// Minimize collapses the header after MinimizeDelay while refreshing.
	Minimize      bool
	MinimizeDelay time.Duration
	// TouchSlop is the motion, in rows, below which a touch is not a drag.
	TouchSlop int

	HeaderLayout string
	HeaderIn     string
	HeaderOut    string

	// Presenter overrides the default ProgressHeader.
	Presenter Presenter
	// Adapters resolves view adapters by family. Nil uses NewAdapters().
	Adapters *Adapters
	// Scheduler runs the minimize timer and header transitions. Required.
	Scheduler Scheduler
}

const (
	DefaultRefreshScrollDistance = 0.5
	DefaultMinimizeDelay         = 3000 * time.Millisecond
	DefaultTouchSlop             = 1
	DefaultHeaderLayout          = "progress"
	DefaultHeaderIn              = "fade_in"
	DefaultHeaderOut             = "fade_out"
)

func DefaultOptions() Options {
	return Options{
		RefreshScrollDistance: DefaultRefreshScrollDistance,
		RefreshOnRelease:      false,
		Minimize:              true,
		MinimizeDelay:         DefaultMinimizeDelay,
		TouchSlop:             DefaultTouchSlop,
		HeaderLayout:          DefaultHeaderLayout,
		HeaderIn:              DefaultHeaderIn,
		HeaderOut:             DefaultHeaderOut,
	}
}

func (o Options) validate() error {
	if o.RefreshScrollDistance <= 0 || o.RefreshScrollDistance > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidDistance, o.RefreshScrollDistance)
	}
	if o.TouchSlop < 0 {
		return fmt.Errorf("%w: touch slop %d", ErrInvalidOption, o.TouchSlop)
	}
	if o.MinimizeDelay < 0 {
		return fmt.Errorf("%w: minimize delay %s", ErrInvalidOption, o.MinimizeDelay)
	}
	if o.Scheduler == nil {
		return ErrNoScheduler
	}
	return nil
}

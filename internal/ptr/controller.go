// Package ptr implements a pull-to-refresh gesture controller for
// scrollable views. The controller is driven entirely by the host's event
// loop: touch events come in through HandleTouch, deferred work runs
// through a Scheduler, and nothing here starts a goroutine.
package ptr

import (
	"fmt"
	"log/slog"
)

// RefreshFunc is called when a pull on v triggers a refresh. The host
// reports completion with SetRefreshComplete.
type RefreshFunc func(v View)

// TouchListener sees every touch event for a view after the controller.
// Its result is returned from HandleTouch.
type TouchListener func(v View, ev TouchEvent) bool

type registration struct {
	adapter   ViewAdapter
	onRefresh RefreshFunc
	listener  TouchListener
}

type touchSession struct {
	view       ViewID
	initialY   int
	lastY      int
	hasLast    bool
	pullBeginY int
	observing  bool
	dragging   bool
	handling   bool
}

type headerAnim int

const (
	animNone headerAnim = iota
	animShowing
	animHiding
)

// Controller tracks touches on registered views and drives the refresh
// header. It is not safe for concurrent use; call it from the goroutine
// that owns the event loop.
type Controller struct {
	opts      Options
	presenter Presenter
	adapters  *Adapters
	sched     Scheduler

	header         *HeaderView
	headerListener HeaderListener
	anim           headerAnim
	headerTimer    Timer
	minimizeTimer  Timer
	refreshGen     uint64 // Bumped when a refresh starts or resets

	views   map[ViewID]*registration
	enabled bool
	state   RefreshState
	touch   touchSession
}

// New creates a controller and attaches its presenter to host.
func New(host Host, opts Options) (*Controller, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if !ValidLayout(opts.HeaderLayout) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, opts.HeaderLayout)
	}
	in, err := LookupTransition(opts.HeaderIn)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve header in transition: %w", err)
	}
	out, err := LookupTransition(opts.HeaderOut)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve header out transition: %w", err)
	}

	presenter := opts.Presenter
	if presenter == nil {
		ph, err := NewProgressHeader(opts.HeaderLayout)
		if err != nil {
			return nil, err
		}
		presenter = ph
	}

	adapters := opts.Adapters
	if adapters == nil {
		adapters = NewAdapters()
	}

	c := &Controller{
		opts:      opts,
		presenter: presenter,
		adapters:  adapters,
		sched:     opts.Scheduler,
		header: &HeaderView{
			layout: opts.HeaderLayout,
			in:     in,
			out:    out,
			state:  HeaderHidden,
		},
		views:   make(map[ViewID]*registration),
		enabled: true,
		state:   StateIdle,
	}
	c.presenter.OnAttached(host, c.header)
	return c, nil
}

// Register makes v pullable. A nil adapter is resolved from v's family.
// Registering a view again replaces its adapter and refresh callback.
func (c *Controller) Register(v View, adapter ViewAdapter, onRefresh RefreshFunc) error {
	if v == nil {
		return ErrNilView
	}
	if onRefresh == nil {
		return ErrNoListener
	}
	if adapter == nil {
		a, ok := c.adapters.Lookup(v)
		if !ok {
			return fmt.Errorf("%w: family %q", ErrNoAdapter, v.Family())
		}
		adapter = a
	}

	reg := &registration{adapter: adapter, onRefresh: onRefresh}
	if old, ok := c.views[v.ID()]; ok {
		reg.listener = old.listener
	}
	c.views[v.ID()] = reg
	slog.Debug("pull view registered", "view", v.ID(), "family", v.Family())
	return nil
}

// Unregister forgets v. A pull in progress on v ends.
func (c *Controller) Unregister(v View) {
	if v == nil {
		return
	}
	if _, ok := c.views[v.ID()]; !ok {
		return
	}
	if c.touch.view == v.ID() {
		c.endSession()
	}
	delete(c.views, v.ID())
}

// Clear forgets every registered view.
func (c *Controller) Clear() {
	if c.touch.view != "" {
		c.endSession()
	}
	clear(c.views)
}

// Registered reports whether id is registered.
func (c *Controller) Registered(id ViewID) bool {
	_, ok := c.views[id]
	return ok
}

// SetTouchListener installs a passthrough listener on a registered view.
func (c *Controller) SetTouchListener(v View, fn TouchListener) {
	if v == nil {
		return
	}
	reg, ok := c.views[v.ID()]
	if !ok {
		slog.Debug("touch listener for unregistered view ignored", "view", v.ID())
		return
	}
	reg.listener = fn
}

// SetHeaderListener installs the header visibility listener.
func (c *Controller) SetHeaderListener(fn HeaderListener) {
	c.headerListener = fn
}

// ConfigurationChanged re-attaches the presenter, for example after the
// terminal is resized.
func (c *Controller) ConfigurationChanged(host Host) {
	c.presenter.OnAttached(host, c.header)
}

func (c *Controller) SetEnabled(enabled bool) {
	c.enabled = enabled
	if enabled {
		return
	}
	c.endSession()
	if c.IsRefreshing() {
		c.reset()
	}
}

func (c *Controller) IsEnabled() bool          { return c.enabled }
func (c *Controller) State() RefreshState      { return c.state }
func (c *Controller) Header() *HeaderView      { return c.header }
func (c *Controller) HeaderState() HeaderState { return c.header.state }
func (c *Controller) Presenter() Presenter     { return c.presenter }
func (c *Controller) Options() Options         { return c.opts }

// IsRefreshing reports whether a refresh is running, minimized or not.
func (c *Controller) IsRefreshing() bool {
	return c.state == StateRefreshing || c.state == StateMinimized
}

// SetRefreshing starts or stops a refresh without a touch. Starting this
// way does not call the view's refresh callback.
func (c *Controller) SetRefreshing(refreshing bool) {
	c.setRefreshing(nil, refreshing, false)
}

// SetRefreshComplete ends the current refresh.
func (c *Controller) SetRefreshComplete() {
	c.setRefreshing(nil, false, false)
}

// HandleTouch feeds one touch event for v. It returns true while the
// controller is handling a pull gesture or when the view's passthrough
// listener consumed the event.
func (c *Controller) HandleTouch(v View, ev TouchEvent) bool {
	if v == nil {
		return false
	}
	reg, ok := c.views[v.ID()]
	if !ok {
		return false
	}

	// A down while a gesture is still open means the previous release was lost.
	if ev.Action == TouchDown && c.touch.handling {
		c.endSession()
	}
	if !c.touch.handling && c.intercept(v, reg, ev) {
		c.touch.handling = true
	}
	handled := false
	if c.touch.handling {
		handled = c.onTouchEvent(v, ev)
	}

	if reg.listener != nil && reg.listener(v, ev) {
		return true
	}
	return handled
}

func (c *Controller) intercept(v View, reg *registration, ev TouchEvent) bool {
	if !c.enabled || c.IsRefreshing() {
		return false
	}

	switch ev.Action {
	case TouchDown:
		c.resetTouch()
		// A view with no height has no pull distance to measure against
		if v.Height() > 0 && c.canRefresh(true, reg) && reg.adapter.IsScrolledToTop(v) {
			c.touch.view = v.ID()
			c.touch.initialY = ev.Y
			c.touch.observing = true
		}
	case TouchMove:
		if c.touch.view != v.ID() || !c.touch.observing || c.touch.dragging {
			break
		}
		dy := ev.Y - c.touch.initialY
		if dy > c.opts.TouchSlop {
			c.touch.dragging = true
			c.onPullStarted(ev.Y)
		} else if dy < -c.opts.TouchSlop {
			c.resetTouch()
		}
	case TouchUp, TouchCancel:
		c.resetTouch()
	}

	return c.touch.dragging
}

func (c *Controller) onTouchEvent(v View, ev TouchEvent) bool {
	if c.touch.view != v.ID() {
		return false
	}

	switch ev.Action {
	case TouchMove:
		if c.IsRefreshing() || !c.touch.dragging {
			return false
		}
		y := ev.Y
		if c.touch.hasLast && y == c.touch.lastY {
			return true
		}
		dy := 1
		if c.touch.hasLast {
			dy = y - c.touch.lastY
		}
		if dy < -c.opts.TouchSlop {
			c.onPullEnded()
			c.resetTouch()
			return true
		}
		c.onPull(v, y)
		if c.touch.dragging && dy > 0 {
			c.touch.lastY = y
			c.touch.hasLast = true
		}
	case TouchUp, TouchCancel:
		c.checkScrollForRefresh(v)
		if c.touch.dragging {
			c.onPullEnded()
		}
		c.resetTouch()
	}
	return true
}

func (c *Controller) threshold(v View) float64 {
	return float64(v.Height()) * c.opts.RefreshScrollDistance
}

func (c *Controller) checkScrollForRefresh(v View) {
	if !c.touch.dragging || !c.opts.RefreshOnRelease || !c.touch.hasLast {
		return
	}
	if float64(c.touch.lastY-c.touch.pullBeginY) >= c.threshold(v) {
		c.setRefreshing(v, true, true)
	}
}

func (c *Controller) onPullStarted(y int) {
	c.setState(StateDragging)
	c.showHeader()
	c.touch.pullBeginY = y
}

func (c *Controller) onPull(v View, y int) {
	threshold := c.threshold(v)
	scrolled := float64(y - c.touch.pullBeginY)

	switch {
	case scrolled < threshold:
		c.presenter.OnPulled(max(scrolled/threshold, 0))
	case c.opts.RefreshOnRelease:
		c.presenter.OnReleaseToRefresh()
	default:
		c.setRefreshing(v, true, true)
	}
}

func (c *Controller) onPullEnded() {
	if !c.IsRefreshing() {
		c.reset()
	}
}

func (c *Controller) canRefresh(fromTouch bool, reg *registration) bool {
	return !c.IsRefreshing() && (!fromTouch || (reg != nil && reg.onRefresh != nil))
}

func (c *Controller) setRefreshing(v View, refreshing, fromTouch bool) {
	if c.IsRefreshing() == refreshing {
		return
	}
	c.touch = touchSession{}

	var reg *registration
	if v != nil {
		reg = c.views[v.ID()]
	}
	if refreshing && c.canRefresh(fromTouch, reg) {
		c.startRefresh(v, reg, fromTouch)
		return
	}
	c.reset()
}

func (c *Controller) startRefresh(v View, reg *registration, fromTouch bool) {
	c.setState(StateRefreshing)
	c.refreshGen++
	gen := c.refreshGen

	if fromTouch && reg != nil {
		reg.onRefresh(v)
		// The callback completed this cycle, and may have started another.
		if c.refreshGen != gen || c.state != StateRefreshing {
			return
		}
	}

	c.presenter.OnRefreshStarted()
	c.showHeader()

	c.stopMinimizeTimer()
	if c.opts.Minimize {
		c.minimizeTimer = c.sched.AfterFunc(c.opts.MinimizeDelay, c.minimize)
	}
}

func (c *Controller) minimize() {
	c.minimizeTimer = nil
	if c.state != StateRefreshing {
		return
	}
	if c.anim == animShowing {
		c.stopHeaderTimer()
		c.finishShow()
	}
	c.setState(StateMinimized)
	c.presenter.OnRefreshMinimized()
	c.header.state = HeaderMinimized
	c.notifyHeader(HeaderMinimized)
}

func (c *Controller) reset() {
	c.refreshGen++
	c.stopMinimizeTimer()
	if c.state != StateIdle {
		c.setState(StateIdle)
	}
	c.hideHeader()
}

// resetTouch discards the touch session.
func (c *Controller) resetTouch() {
	c.touch = touchSession{}
	if c.state == StateDragging {
		c.setState(StateIdle)
	}
}

// endSession ends the touch session, hiding the header of a pull that was
// in progress.
func (c *Controller) endSession() {
	if c.touch.dragging {
		c.onPullEnded()
	}
	c.resetTouch()
}

func (c *Controller) showHeader() {
	switch {
	case c.anim == animHiding:
		c.stopHeaderTimer()
		c.finishHide()
	case c.header.shown:
		return
	}

	c.header.shown = true
	if d := c.header.in.Duration; d > 0 {
		c.anim = animShowing
		c.headerTimer = c.sched.AfterFunc(d, c.finishShow)
		return
	}
	c.finishShow()
}

func (c *Controller) finishShow() {
	c.headerTimer = nil
	c.anim = animNone
	c.header.state = HeaderVisible
	c.notifyHeader(HeaderVisible)
}

func (c *Controller) hideHeader() {
	if !c.header.shown || c.anim == animHiding {
		return
	}
	if c.anim == animShowing {
		c.stopHeaderTimer()
		c.anim = animNone
	}

	if d := c.header.out.Duration; d > 0 {
		c.anim = animHiding
		c.headerTimer = c.sched.AfterFunc(d, c.finishHide)
		return
	}
	c.finishHide()
}

func (c *Controller) finishHide() {
	c.headerTimer = nil
	c.anim = animNone
	c.header.shown = false
	c.header.state = HeaderHidden
	c.presenter.OnReset()
	c.notifyHeader(HeaderHidden)
}

func (c *Controller) stopMinimizeTimer() {
	if c.minimizeTimer != nil {
		c.minimizeTimer.Stop()
		c.minimizeTimer = nil
	}
}

func (c *Controller) stopHeaderTimer() {
	if c.headerTimer != nil {
		c.headerTimer.Stop()
		c.headerTimer = nil
	}
}

func (c *Controller) notifyHeader(state HeaderState) {
	if c.headerListener != nil {
		c.headerListener(c.header, state)
	}
}

func (c *Controller) setState(s RefreshState) {
	if c.state == s {
		return
	}
	slog.Debug("pull state", "from", c.state, "to", s)
	c.state = s
}

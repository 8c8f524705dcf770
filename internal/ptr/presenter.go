package ptr

import (
	"fmt"
	"time"
)

// Host describes the surface the header is attached to.
type Host struct {
	Name  string
	Width int
}

// Presenter is notified at pull milestones. All methods are presentational
// and must not call back into the controller.
type Presenter interface {
	OnAttached(host Host, header *HeaderView)
	OnPulled(fraction float64)
	OnReleaseToRefresh()
	OnRefreshStarted()
	OnRefreshMinimized()
	OnReset()
}

// HeaderListener receives header visibility changes.
type HeaderListener func(header *HeaderView, state HeaderState)

// Transition is a named header animation. A zero Duration completes
// immediately.
type Transition struct {
	Name     string
	Duration time.Duration
}

var transitions = map[string]Transition{
	"none":      {Name: "none"},
	"fade_in":   {Name: "fade_in", Duration: 150 * time.Millisecond},
	"fade_out":  {Name: "fade_out", Duration: 150 * time.Millisecond},
	"slide_in":  {Name: "slide_in", Duration: 250 * time.Millisecond},
	"slide_out": {Name: "slide_out", Duration: 250 * time.Millisecond},
}

// LookupTransition resolves a transition by name. The empty name means no
// transition.
func LookupTransition(name string) (Transition, error) {
	if name == "" {
		return transitions["none"], nil
	}
	t, ok := transitions[name]
	if !ok {
		return Transition{}, fmt.Errorf("%w: %q", ErrUnknownTransition, name)
	}
	return t, nil
}

// HeaderView is the controller-owned header state that presenters render.
type HeaderView struct {
	layout string
	in     Transition
	out    Transition
	state  HeaderState
	// shown is true from the moment a show starts until a hide completes.
	shown bool
}

func (h *HeaderView) Layout() string     { return h.layout }
func (h *HeaderView) State() HeaderState { return h.state }
func (h *HeaderView) In() Transition     { return h.in }
func (h *HeaderView) Out() Transition    { return h.out }

// Shown reports whether the header occupies space, including while a
// transition is running.
func (h *HeaderView) Shown() bool { return h.shown }

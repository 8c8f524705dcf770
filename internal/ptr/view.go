package ptr

import "github.com/charmbracelet/bubbles/viewport"

// ViewID is the host's key for a registered view. The controller keeps
// only this key, never the view itself.
type ViewID string

// Family tags a view type so an adapter can be resolved for it.
type Family string

const (
	FamilyList     Family = "list"
	FamilyViewport Family = "viewport"
)

// View is a scrollable host view that can be pulled.
type View interface {
	ID() ViewID
	Family() Family
	// Height is the visible height in rows, used for the pull threshold.
	Height() int
}

// ListView is a view backed by an indexed list of rows.
type ListView interface {
	View
	FirstVisible() int
}

// ViewportView is a view backed by a bubbles viewport.
type ViewportView interface {
	View
	Viewport() viewport.Model
}

// ViewAdapter reports whether a view is scrolled to its top edge.
type ViewAdapter interface {
	IsScrolledToTop(v View) bool
}

// AdapterFunc adapts a plain function to ViewAdapter.
type AdapterFunc func(v View) bool

func (f AdapterFunc) IsScrolledToTop(v View) bool { return f(v) }

var listAdapter = AdapterFunc(func(v View) bool {
	lv, ok := v.(ListView)
	if !ok {
		return false
	}
	return lv.FirstVisible() <= 0
})

var viewportAdapter = AdapterFunc(func(v View) bool {
	vv, ok := v.(ViewportView)
	if !ok {
		return false
	}
	return vv.Viewport().AtTop()
})

// Adapters maps view families to adapters.
type Adapters struct {
	byFamily map[Family]ViewAdapter
}

// NewAdapters returns a registry holding the built-in list and viewport
// adapters.
func NewAdapters() *Adapters {
	a := &Adapters{byFamily: make(map[Family]ViewAdapter)}
	a.Register(FamilyList, listAdapter)
	a.Register(FamilyViewport, viewportAdapter)
	return a
}

// Register installs or replaces the adapter for a family.
func (a *Adapters) Register(f Family, adapter ViewAdapter) {
	a.byFamily[f] = adapter
}

// Lookup returns the adapter for the view's family.
func (a *Adapters) Lookup(v View) (ViewAdapter, bool) {
	if v == nil {
		return nil, false
	}
	adapter, ok := a.byFamily[v.Family()]
	return adapter, ok
}

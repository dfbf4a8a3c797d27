package sequencer

import "sync"

// Activatable is anything that can be switched on and off by a Gate.
type Activatable interface {
	SetActive(active bool)
}

// Gate merges viewport intersection and tab visibility into a single active
// flag and forwards only its changes. A new gate is out of view with the tab
// visible.
//
// The target is called without mu held, so it and its observers may read the
// gate. They must not call Update.
type Gate struct {
	// fwd serializes updates so changes reach the target in order.
	fwd sync.Mutex

	mu         sync.Mutex
	target     Activatable
	inView     bool
	tabVisible bool
	active     bool
}

// NewGate returns a gate for target, out of view with the tab visible.
func NewGate(target Activatable) *Gate {
	return &Gate{target: target, tabVisible: true}
}

// SetInView reports whether the widget intersects the viewport.
func (g *Gate) SetInView(inView bool) {
	g.Update(&inView, nil)
}

// SetTabVisible reports whether the page is visible.
func (g *Gate) SetTabVisible(visible bool) {
	g.Update(nil, &visible)
}

// Update applies whichever signals are non-nil and reports the resulting
// active flag.
func (g *Gate) Update(inView, tabVisible *bool) bool {
	g.fwd.Lock()
	defer g.fwd.Unlock()

	g.mu.Lock()
	if inView != nil {
		g.inView = *inView
	}
	if tabVisible != nil {
		g.tabVisible = *tabVisible
	}
	active := g.inView && g.tabVisible
	changed := active != g.active
	g.active = active
	g.mu.Unlock()

	if changed {
		g.target.SetActive(active)
	}
	return active
}

// Active reports whether both signals are on.
func (g *Gate) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// Signals returns the last viewport and tab visibility values.
func (g *Gate) Signals() (inView, tabVisible bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inView, g.tabVisible
}

package widgets

import (
	"slices"
	"sync"

	"github.com/jordanlanch/landing/pkg/domain"
	"github.com/jordanlanch/landing/pkg/logger"
	"github.com/jordanlanch/landing/pkg/sequencer"
)

// Kind tells clients how to render a widget's state.
type Kind string

const (
	KindLinear   Kind = "linear"
	KindRing     Kind = "ring"
	KindInsights Kind = "insights"
)

// Recorder receives widget metrics. *metrics.Metrics satisfies it.
type Recorder interface {
	RecordWidgetTransition(widget string)
	SetWidgetActive(widget string, active bool)
}

// Snapshot is a point-in-time view of one widget. State holds a
// sequencer.LinearState, RingState or InsightsState depending on Kind.
type Snapshot struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Kind          Kind     `json:"kind"`
	Items         []string `json:"items"`
	InView        bool     `json:"in_view"`
	TabVisible    bool     `json:"tab_visible"`
	Active        bool     `json:"active"`
	PendingTimers int      `json:"pending_timers"`
	State         any      `json:"state"`
}

type animator interface {
	sequencer.Activatable
	Dispose()
	PendingTimers() int
}

type widget struct {
	id    string
	title string
	kind  Kind
	items []string
	anim  animator
	gate  *sequencer.Gate
	state func() any
}

func (w *widget) snapshot() Snapshot {
	inView, tab := w.gate.Signals()
	return Snapshot{
		ID:            w.id,
		Title:         w.title,
		Kind:          w.kind,
		Items:         slices.Clone(w.items),
		InView:        inView,
		TabVisible:    tab,
		Active:        w.gate.Active(),
		PendingTimers: w.anim.PendingTimers(),
		State:         w.state(),
	}
}

// Registry owns the mounted widgets. Every widget starts out of view and is
// switched on through SetVisibility.
type Registry struct {
	mu       sync.RWMutex
	widgets  map[string]*widget
	order    []string
	recorder Recorder
	log      logger.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithRecorder reports widget activity to r.
func WithRecorder(r Recorder) Option {
	return func(reg *Registry) {
		reg.recorder = r
	}
}

// WithLogger sets the logger used for widget lifecycle events.
func WithLogger(l logger.Logger) Option {
	return func(reg *Registry) {
		reg.log = l
	}
}

// NewRegistry mounts the workflow, notifications and insights widgets.
func NewRegistry(cfg Config, opts ...Option) (*Registry, error) {
	r := &Registry{
		widgets: make(map[string]*widget),
		log:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}

	workflow, err := sequencer.NewLinear(cfg.Clock, cfg.Workflow)
	if err != nil {
		return nil, err
	}
	workflow.OnChange(func(sequencer.LinearState) { r.transition(WorkflowID) })
	r.mount(&widget{
		id:    WorkflowID,
		title: "Lead workflow",
		kind:  KindLinear,
		items: cfg.Workflow.Steps,
		anim:  workflow,
		state: func() any { return workflow.State() },
	})

	notifications, err := sequencer.NewRing(cfg.Clock, cfg.Notifications)
	if err != nil {
		return nil, err
	}
	notifications.OnChange(func(sequencer.RingState) { r.transition(NotificationsID) })
	r.mount(&widget{
		id:    NotificationsID,
		title: "Live notifications",
		kind:  KindRing,
		items: firstN(Notifications, cfg.Notifications.Size),
		anim:  notifications,
		state: func() any { return notifications.State() },
	})

	insights, err := sequencer.NewInsights(cfg.Clock, cfg.Insights, cfg.InsightScroll)
	if err != nil {
		return nil, err
	}
	insights.OnChange(func(sequencer.InsightsState) { r.transition(InsightsID) })
	r.mount(&widget{
		id:    InsightsID,
		title: "Insights",
		kind:  KindInsights,
		items: firstN(InsightCards, cfg.Insights.Size),
		anim:  insights,
		state: func() any { return insights.State() },
	})

	return r, nil
}

func firstN(items []string, n int) []string {
	return items[:min(n, len(items))]
}

func (r *Registry) mount(w *widget) {
	w.gate = sequencer.NewGate(activation{w: w, r: r})
	r.widgets[w.id] = w
	r.order = append(r.order, w.id)
}

// activation reports gate changes before forwarding them to the animator.
type activation struct {
	w *widget
	r *Registry
}

func (a activation) SetActive(active bool) {
	a.r.log.Debug("widget activation changed", "widget", a.w.id, "active", active)
	if a.r.recorder != nil {
		a.r.recorder.SetWidgetActive(a.w.id, active)
	}
	a.w.anim.SetActive(active)
}

func (r *Registry) transition(id string) {
	if r.recorder != nil {
		r.recorder.RecordWidgetTransition(id)
	}
}

// List returns every mounted widget in mount order.
func (r *Registry) List() []Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Snapshot, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.widgets[id].snapshot())
	}
	return out
}

// Get returns the widget with id or a not-found error.
func (r *Registry) Get(id string) (Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.widgets[id]
	if !ok {
		return Snapshot{}, domain.NewNotFoundError("widget")
	}
	return w.snapshot(), nil
}

// SetVisibility updates whichever visibility signals are non-nil.
func (r *Registry) SetVisibility(id string, inView, tabVisible *bool) (Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.widgets[id]
	if !ok {
		return Snapshot{}, domain.NewNotFoundError("widget")
	}
	w.gate.Update(inView, tabVisible)
	return w.snapshot(), nil
}

// SetTabVisible forwards the page visibility to every widget.
func (r *Registry) SetTabVisible(visible bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		r.widgets[id].gate.SetTabVisible(visible)
	}
}

// Measure reports the insights panel's content and viewport heights.
func (r *Registry) Measure(id string, content, viewport float64) (Snapshot, error) {
	if content < 0 || viewport < 0 {
		return Snapshot{}, domain.NewValidationError("content and viewport heights must not be negative")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.widgets[id]
	if !ok {
		return Snapshot{}, domain.NewNotFoundError("widget")
	}
	in, ok := w.anim.(*sequencer.Insights)
	if !ok {
		return Snapshot{}, domain.NewBadRequestError("widget " + id + " has no scroll panel")
	}
	in.Measure(content, viewport)
	return w.snapshot(), nil
}

// Dispose unmounts a widget and releases its timers.
func (r *Registry) Dispose(id string) error {
	r.mu.Lock()
	w, ok := r.widgets[id]
	if ok {
		delete(r.widgets, id)
		r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
	}
	r.mu.Unlock()

	if !ok {
		return domain.NewNotFoundError("widget")
	}
	r.unmount(w)
	return nil
}

// Close unmounts every widget.
func (r *Registry) Close() {
	r.mu.Lock()
	widgets := r.widgets
	order := r.order
	r.widgets = make(map[string]*widget)
	r.order = nil
	r.mu.Unlock()

	for _, id := range order {
		r.unmount(widgets[id])
	}
}

func (r *Registry) unmount(w *widget) {
	wasActive := w.gate.Active()
	w.anim.Dispose()
	if wasActive && r.recorder != nil {
		r.recorder.SetWidgetActive(w.id, false)
	}
	r.log.Info("widget unmounted", "widget", w.id)
}

// PendingTimers sums the timers held by every mounted widget.
func (r *Registry) PendingTimers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, w := range r.widgets {
		n += w.anim.PendingTimers()
	}
	return n
}

package sequencer

import (
	"github.com/jonboulle/clockwork"
)

// InsightsState combines the card carousel with the metrics panel scroll.
type InsightsState struct {
	Cards  RingState   `json:"cards"`
	Panel  ScrollState `json:"panel"`
	Active bool        `json:"active"`
}

// Insights pairs a two-card Ring with a Scroller; both start and stop together.
type Insights struct {
	cards *Ring
	panel *Scroller
}

// NewInsights builds an inactive card carousel and panel scroller.
func NewInsights(clock clockwork.Clock, ring RingConfig, scroll ScrollConfig) (*Insights, error) {
	cards, err := NewRing(clock, ring)
	if err != nil {
		return nil, err
	}
	panel, err := NewScroller(clock, scroll)
	if err != nil {
		return nil, err
	}
	return &Insights{cards: cards, panel: panel}, nil
}

// SetActive starts or stops both parts.
func (in *Insights) SetActive(active bool) {
	in.cards.SetActive(active)
	in.panel.SetActive(active)
}

// Measure forwards a panel measurement to the scroller.
func (in *Insights) Measure(content, viewport float64) {
	in.panel.Measure(content, viewport)
}

// Dispose stops both parts for good.
func (in *Insights) Dispose() {
	in.cards.Dispose()
	in.panel.Dispose()
}

// State returns a combined snapshot.
func (in *Insights) State() InsightsState {
	cards := in.cards.State()
	return InsightsState{Cards: cards, Panel: in.panel.State(), Active: cards.Active}
}

// PendingTimers counts the timers held by both parts.
func (in *Insights) PendingTimers() int {
	return in.cards.PendingTimers() + in.panel.PendingTimers()
}

// OnChange reports a combined snapshot whenever either part changes.
func (in *Insights) OnChange(fn func(InsightsState)) {
	in.cards.OnChange(func(RingState) { fn(in.State()) })
	in.panel.OnChange(func(ScrollState) { fn(in.State()) })
}

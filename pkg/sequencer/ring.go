package sequencer

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"
)

// RingConfig describes a carousel of Size items advanced every Interval.
type RingConfig struct {
	Size     int
	Interval time.Duration
	Fade     time.Duration
	Visible  int // how many of the most recent items stay on screen
}

// DefaultRingConfig returns the notification carousel timings.
func DefaultRingConfig(size int) RingConfig {
	return RingConfig{
		Size:     size,
		Interval: 4 * time.Second,
		Fade:     300 * time.Millisecond,
		Visible:  1,
	}
}

// Validate checks the ring has items and that fades and visible counts fit it.
func (c RingConfig) Validate() error {
	if c.Size < 1 {
		return fmt.Errorf("ring needs at least one item, got %d", c.Size)
	}
	if c.Fade < 0 || c.Interval <= c.Fade {
		return fmt.Errorf("fade (%s) must be shorter than the interval (%s)", c.Fade, c.Interval)
	}
	if c.Visible < 1 || c.Visible > c.Size {
		return fmt.Errorf("visible must be within 1..%d, got %d", c.Size, c.Visible)
	}
	return nil
}

// RingState is a snapshot of a Ring. Visible lists item indices newest first.
type RingState struct {
	Index         int   `json:"index"`
	Visible       []int `json:"visible"`
	Transitioning bool  `json:"transitioning"`
	Ticks         int   `json:"ticks"`
	Active        bool  `json:"active"`
}

func idleRingState() RingState {
	return RingState{Index: -1, Visible: []int{}}
}

func (c RingConfig) timeline() iter.Seq[Stage[RingState]] {
	return func(yield func(Stage[RingState]) bool) {
		index := 0
		visible := []int{0}
		if !yield(Stage[RingState]{State: RingState{Index: index, Visible: slices.Clone(visible), Active: true}, Hold: c.Interval}) {
			return
		}

		for ticks := 1; ; ticks++ {
			fading := RingState{Index: index, Visible: slices.Clone(visible), Transitioning: true, Ticks: ticks - 1, Active: true}
			if !yield(Stage[RingState]{State: fading, Hold: c.Fade}) {
				return
			}

			index = (index + 1) % c.Size
			visible = append([]int{index}, visible...)
			if len(visible) > c.Visible {
				visible = visible[:c.Visible]
			}

			shown := RingState{Index: index, Visible: slices.Clone(visible), Ticks: ticks, Active: true}
			if !yield(Stage[RingState]{State: shown, Hold: c.Interval - c.Fade}) {
				return
			}
		}
	}
}

// Ring cycles through its items forever while active.
type Ring struct {
	cfg RingConfig
	d   *driver[RingState]

	// guarded by d.mu
	active   bool
	disposed bool
}

// NewRing builds an inactive ring. A nil clock means the wall clock.
func NewRing(clock clockwork.Clock, cfg RingConfig) (*Ring, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Ring{cfg: cfg, d: newDriver(clock, idleRingState())}, nil
}

// Config returns the ring timings.
func (r *Ring) Config() RingConfig {
	return r.cfg
}

// SetActive starts rotation from the first item or stops it and clears the
// visible set. Repeating the current value does nothing.
func (r *Ring) SetActive(active bool) {
	r.d.do(func() []RingState {
		if r.disposed || r.active == active {
			return nil
		}
		r.active = active
		if active {
			return r.d.run(r.cfg.timeline())
		}
		return r.d.reset()
	})
}

// Dispose stops the ring for good. Later SetActive calls are ignored.
func (r *Ring) Dispose() {
	r.d.do(func() []RingState {
		if r.disposed {
			return nil
		}
		r.disposed = true
		wasActive := r.active
		r.active = false
		changed := r.d.reset()
		if !wasActive {
			return nil
		}
		return changed
	})
}

// State returns a snapshot that is safe to keep.
func (r *Ring) State() RingState {
	s := r.d.current()
	s.Visible = slices.Clone(s.Visible)
	return s
}

// PendingTimers counts scheduled steps not yet fired.
func (r *Ring) PendingTimers() int {
	return r.d.pending()
}

// OnChange registers fn to receive every state change.
func (r *Ring) OnChange(fn func(RingState)) {
	r.d.observe(fn)
}

package sequencer

import (
	"errors"
	"iter"
	"math"
	"time"

	"github.com/jonboulle/clockwork"
)

// ScrollConfig controls how a Scroller glides between offsets.
type ScrollConfig struct {
	Duration time.Duration
	Frame    time.Duration
	Easing   Easing
}

// DefaultScrollConfig returns a 600ms ease-in-out glide at 16ms frames.
func DefaultScrollConfig() ScrollConfig {
	return ScrollConfig{
		Duration: 600 * time.Millisecond,
		Frame:    16 * time.Millisecond,
		Easing:   EaseInOutCubic,
	}
}

// Validate rejects non-positive durations.
func (c ScrollConfig) Validate() error {
	if c.Duration <= 0 || c.Frame <= 0 {
		return errors.New("scroll duration and frame must be positive")
	}
	return nil
}

func (c ScrollConfig) frames() int {
	return max(1, int(math.Ceil(float64(c.Duration)/float64(c.Frame))))
}

// ScrollState is a snapshot of a Scroller.
type ScrollState struct {
	Offset    float64 `json:"offset"`
	Target    float64 `json:"target"`
	Content   float64 `json:"content"`
	Viewport  float64 `json:"viewport"`
	Animating bool    `json:"animating"`
	Active    bool    `json:"active"`
}

func (c ScrollConfig) animation(from ScrollState, to float64) iter.Seq[Stage[ScrollState]] {
	return func(yield func(Stage[ScrollState]) bool) {
		n := c.frames()
		for f := 0; f <= n; f++ {
			s := from
			s.Target = to
			s.Active = true
			s.Animating = f < n
			s.Offset = from.Offset + (to-from.Offset)*c.Easing(float64(f)/float64(n))

			hold := c.Frame
			if f == n {
				s.Offset = to
				hold = 0
			}
			if !yield(Stage[ScrollState]{State: s, Hold: hold}) {
				return
			}
		}
	}
}

// Scroller scrolls a panel so its bottom stays in view as the content grows.
type Scroller struct {
	cfg ScrollConfig
	d   *driver[ScrollState]

	// guarded by d.mu
	active            bool
	disposed          bool
	measured          bool
	content, viewport float64
}

// NewScroller builds an inactive scroller. A nil clock means the wall clock;
// a nil easing means EaseInOutCubic.
func NewScroller(clock clockwork.Clock, cfg ScrollConfig) (*Scroller, error) {
	if cfg.Easing == nil {
		cfg.Easing = EaseInOutCubic
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scroller{cfg: cfg, d: newDriver(clock, ScrollState{})}, nil
}

// Measure records the panel's content and viewport heights. While active a
// changed measurement animates the offset from where it is toward the new
// target.
func (s *Scroller) Measure(content, viewport float64) {
	s.d.do(func() []ScrollState {
		if s.disposed {
			return nil
		}
		if s.measured && content == s.content && viewport == s.viewport {
			return nil
		}
		s.measured = true
		s.content, s.viewport = content, viewport
		if !s.active {
			return nil
		}
		return s.scroll()
	})
}

// scroll requires d.mu.
func (s *Scroller) scroll() []ScrollState {
	from := s.d.state
	from.Content, from.Viewport = s.content, s.viewport
	target := math.Max(0, s.content-s.viewport)
	if from.Offset == target {
		s.d.cancel()
		from.Target, from.Animating, from.Active = target, false, true
		s.d.state = from
		return []ScrollState{from}
	}
	return s.d.run(s.cfg.animation(from, target))
}

// SetActive starts or stops the scroller. Activating with a known measurement
// scrolls from the top to its target; deactivating returns to the top.
func (s *Scroller) SetActive(active bool) {
	s.d.do(func() []ScrollState {
		if s.disposed || s.active == active {
			return nil
		}
		s.active = active
		if !active {
			return s.d.reset()
		}
		if !s.measured {
			s.d.state.Active = true
			return []ScrollState{s.d.state}
		}
		return s.scroll()
	})
}

// Dispose stops the scroller for good without reporting a change.
func (s *Scroller) Dispose() {
	s.d.do(func() []ScrollState {
		if s.disposed {
			return nil
		}
		s.disposed = true
		s.active = false
		s.d.reset()
		return nil
	})
}

// State returns the current snapshot.
func (s *Scroller) State() ScrollState {
	return s.d.current()
}

// PendingTimers counts scheduled frames not yet drawn.
func (s *Scroller) PendingTimers() int {
	return s.d.pending()
}

// OnChange registers fn to receive every state change.
func (s *Scroller) OnChange(fn func(ScrollState)) {
	s.d.observe(fn)
}

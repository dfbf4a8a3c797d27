package sequencer

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"
)

// Phase names where a Linear sequencer is in its cycle.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseStep         Phase = "step"
	PhaseConnecting   Phase = "connecting"
	PhaseFinishing    Phase = "finishing"
	PhaseAllCompleted Phase = "all_completed"
)

// LinearConfig describes a fixed sequence of steps joined by animated connectors.
type LinearConfig struct {
	Steps           []string
	Dwell           time.Duration // time each step stays current
	ConnectorTick   time.Duration
	ConnectorStep   int // progress added per tick, in percent
	CompletionDelay time.Duration
	CompletionHold  time.Duration
	StartDelay      time.Duration
}

// DefaultLinearConfig returns the workflow timings used on the landing page.
func DefaultLinearConfig(steps ...string) LinearConfig {
	return LinearConfig{
		Steps:           steps,
		Dwell:           2 * time.Second,
		ConnectorTick:   20 * time.Millisecond,
		ConnectorStep:   2,
		CompletionDelay: time.Second,
		CompletionHold:  3 * time.Second,
	}
}

// Validate reports whether the timeline can make progress.
func (c LinearConfig) Validate() error {
	if len(c.Steps) == 0 {
		return errors.New("linear sequencer needs at least one step")
	}
	if c.Dwell <= 0 || c.ConnectorTick <= 0 {
		return fmt.Errorf("dwell (%s) and connector tick (%s) must be positive", c.Dwell, c.ConnectorTick)
	}
	if c.CompletionDelay < 0 || c.CompletionHold < 0 || c.StartDelay < 0 {
		return errors.New("delays must not be negative")
	}
	if c.ConnectorStep < 1 || c.ConnectorStep > 100 {
		return fmt.Errorf("connector step must be within 1..100, got %d", c.ConnectorStep)
	}
	return nil
}

// LinearState is a snapshot of a Linear sequencer.
type LinearState struct {
	Phase     Phase `json:"phase"`
	Current   int   `json:"current"`
	Completed []int `json:"completed"`
	Progress  int   `json:"progress"`
	Loop      int   `json:"loop"`
	Active    bool  `json:"active"`
}

func idleLinearState() LinearState {
	return LinearState{Phase: PhaseIdle, Current: -1, Completed: []int{}}
}

// completedThrough returns the indices 0..n-1.
func completedThrough(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func (c LinearConfig) timeline() iter.Seq[Stage[LinearState]] {
	return func(yield func(Stage[LinearState]) bool) {
		last := len(c.Steps) - 1
		for loop := 0; ; loop++ {
			emit := func(s LinearState, hold time.Duration) bool {
				s.Loop = loop
				s.Active = true
				return yield(Stage[LinearState]{State: s, Hold: hold})
			}

			idle := idleLinearState()
			if !emit(idle, c.StartDelay) {
				return
			}

			for i := 0; i <= last; i++ {
				if !emit(LinearState{Phase: PhaseStep, Current: i, Completed: completedThrough(i)}, c.Dwell) {
					return
				}
				if i == last {
					break
				}
				for p := 0; ; p += c.ConnectorStep {
					p = min(p, 100)
					s := LinearState{Phase: PhaseConnecting, Current: i, Completed: completedThrough(i + 1), Progress: p}
					if !emit(s, c.ConnectorTick) {
						return
					}
					if p == 100 {
						break
					}
				}
			}

			if !emit(LinearState{Phase: PhaseFinishing, Current: last, Completed: completedThrough(last + 1)}, c.CompletionDelay) {
				return
			}
			if !emit(LinearState{Phase: PhaseAllCompleted, Current: last, Completed: completedThrough(last + 1)}, c.CompletionHold) {
				return
			}
		}
	}
}

// Linear walks through its steps one at a time, drawing a connector between
// consecutive steps, and loops forever while active.
type Linear struct {
	cfg LinearConfig
	d   *driver[LinearState]

	// guarded by d.mu
	active   bool
	disposed bool
}

// NewLinear builds an inactive sequencer. A nil clock means the wall clock.
func NewLinear(clock clockwork.Clock, cfg LinearConfig) (*Linear, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Steps = slices.Clone(cfg.Steps)
	return &Linear{cfg: cfg, d: newDriver(clock, idleLinearState())}, nil
}

// Steps returns the step labels.
func (l *Linear) Steps() []string {
	return slices.Clone(l.cfg.Steps)
}

// SetActive starts the cycle from the beginning or stops it and resets to idle.
// Repeating the current value does nothing.
func (l *Linear) SetActive(active bool) {
	l.d.do(func() []LinearState {
		if l.disposed || l.active == active {
			return nil
		}
		l.active = active
		if active {
			return l.d.run(l.cfg.timeline())
		}
		return l.d.reset()
	})
}

// Restart begins a fresh cycle if the sequencer is active.
func (l *Linear) Restart() {
	l.d.do(func() []LinearState {
		if l.disposed || !l.active {
			return nil
		}
		return l.d.run(l.cfg.timeline())
	})
}

// Dispose stops the sequencer for good.
func (l *Linear) Dispose() {
	l.d.do(func() []LinearState {
		if l.disposed {
			return nil
		}
		l.disposed = true
		wasActive := l.active
		l.active = false
		changed := l.d.reset()
		if !wasActive {
			return nil
		}
		return changed
	})
}

// State returns a copy of the current snapshot.
func (l *Linear) State() LinearState {
	s := l.d.current()
	s.Completed = slices.Clone(s.Completed)
	return s
}

// PendingTimers reports how many timers the sequencer currently owns.
func (l *Linear) PendingTimers() int {
	return l.d.pending()
}

// OnChange registers fn to receive every state the sequencer moves through.
func (l *Linear) OnChange(fn func(LinearState)) {
	l.d.observe(fn)
}

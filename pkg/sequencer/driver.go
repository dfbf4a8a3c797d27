// Package sequencer drives the timed phase machines behind the site's animated
// widgets. Every sequencer owns its timers and releases all of them whenever it
// stops being visible.
package sequencer

import (
	"iter"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Stage is one entry of a timeline: the state to show and how long to hold it
// before pulling the next stage. A zero Hold advances immediately.
type Stage[S any] struct {
	State S
	Hold  time.Duration
}

// timerSet is the collection of pending timers owned by one sequencer.
type timerSet struct {
	timers map[uint64]clockwork.Timer
	nextID uint64
}

func (ts *timerSet) reserve() uint64 {
	ts.nextID++
	return ts.nextID
}

func (ts *timerSet) put(id uint64, t clockwork.Timer) {
	if ts.timers == nil {
		ts.timers = make(map[uint64]clockwork.Timer)
	}
	ts.timers[id] = t
}

func (ts *timerSet) remove(id uint64) {
	delete(ts.timers, id)
}

// stopAll stops and forgets every pending timer, returning how many it stopped.
func (ts *timerSet) stopAll() int {
	n := len(ts.timers)
	for id, t := range ts.timers {
		t.Stop()
		delete(ts.timers, id)
	}
	return n
}

func (ts *timerSet) len() int {
	return len(ts.timers)
}

// driver plays a timeline on a clock. All fields are guarded by mu; callers
// mutate through do so observers run after the lock is released.
type driver[S any] struct {
	clock   clockwork.Clock
	initial S

	mu        sync.Mutex
	timers    timerSet
	epoch     uint64
	next      func() (Stage[S], bool)
	stop      func()
	state     S
	observers []func(S)
}

func newDriver[S any](clock clockwork.Clock, initial S) *driver[S] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &driver[S]{clock: clock, initial: initial, state: initial}
}

// do runs fn under the lock and then hands every state fn applied to the
// observers, in order.
func (d *driver[S]) do(fn func() []S) {
	d.mu.Lock()
	changed := fn()
	observers := d.observers
	d.mu.Unlock()

	for _, s := range changed {
		for _, o := range observers {
			o(s)
		}
	}
}

func (d *driver[S]) observe(fn func(S)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, fn)
}

func (d *driver[S]) current() S {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *driver[S]) pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timers.len()
}

// run cancels whatever is playing and starts seq from its first stage.
// Requires mu.
func (d *driver[S]) run(seq iter.Seq[Stage[S]]) []S {
	d.cancel()
	d.next, d.stop = iter.Pull(seq)
	return d.advance()
}

// reset cancels the timeline and restores the initial state. Requires mu.
func (d *driver[S]) reset() []S {
	d.cancel()
	d.state = d.initial
	return []S{d.state}
}

// cancel stops every timer and invalidates callbacks already in flight.
// Requires mu.
func (d *driver[S]) cancel() {
	d.epoch++
	d.timers.stopAll()
	if d.stop != nil {
		d.stop()
	}
	d.next, d.stop = nil, nil
}

// advance applies stages until one has to be held, then arms its timer. A
// finished timeline keeps its last state. Requires mu.
func (d *driver[S]) advance() []S {
	var applied []S
	for d.next != nil {
		stage, ok := d.next()
		if !ok {
			d.stop()
			d.next, d.stop = nil, nil
			break
		}

		d.state = stage.State
		applied = append(applied, stage.State)

		if stage.Hold > 0 {
			d.arm(stage.Hold)
			break
		}
	}
	return applied
}

func (d *driver[S]) arm(hold time.Duration) {
	epoch := d.epoch
	id := d.timers.reserve()
	t := d.clock.AfterFunc(hold, func() {
		d.fire(epoch, id)
	})
	d.timers.put(id, t)
}

func (d *driver[S]) fire(epoch, id uint64) {
	d.do(func() []S {
		if epoch != d.epoch {
			return nil
		}
		d.timers.remove(id)
		return d.advance()
	})
}

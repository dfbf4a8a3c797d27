package sequencer

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
	BlockUntil(n int)
}

// tick fires the single pending timer after d and waits for the sequencer
// to arm the next one.
func tick(t *testing.T, fc fakeClock, d time.Duration) {
	t.Helper()
	fc.BlockUntil(1)
	fc.Advance(d)
	fc.BlockUntil(1)
}

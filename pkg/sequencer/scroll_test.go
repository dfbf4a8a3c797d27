package sequencer

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScroller(t *testing.T) (*Scroller, fakeClock) {
	t.Helper()
	fc := clockwork.NewFakeClock()
	s, err := NewScroller(fc, ScrollConfig{Duration: 100 * time.Millisecond, Frame: 10 * time.Millisecond, Easing: EaseLinear})
	require.NoError(t, err)
	t.Cleanup(s.Dispose)
	return s, fc
}

// finish plays every remaining frame of a 10-frame animation.
func finish(t *testing.T, s *Scroller, fc fakeClock, target float64) {
	t.Helper()
	for range 9 {
		tick(t, fc, 10*time.Millisecond)
	}
	fc.Advance(10 * time.Millisecond)
	require.Eventually(t, func() bool {
		st := s.State()
		return st.Offset == target && !st.Animating
	}, time.Second, time.Millisecond)
}

func TestEasing(t *testing.T) {
	for name, ease := range map[string]Easing{
		"linear":      EaseLinear,
		"out-cubic":   EaseOutCubic,
		"inout-cubic": EaseInOutCubic,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 0.0, ease(0))
			assert.Equal(t, 1.0, ease(1))
			assert.Equal(t, 0.0, ease(-1))
			assert.Equal(t, 1.0, ease(2))
		})
	}
	assert.InDelta(t, 0.5, EaseInOutCubic(0.5), 1e-9)
	assert.Less(t, EaseInOutCubic(0.25), 0.25)
	assert.Greater(t, EaseOutCubic(0.25), 0.25)
}

func TestScroller_AnimatesToBottom(t *testing.T) {
	s, fc := newTestScroller(t)
	s.SetActive(true)
	assert.Equal(t, 0, s.PendingTimers())

	s.Measure(500, 200)
	st := s.State()
	assert.Equal(t, 300.0, st.Target)
	assert.Equal(t, 0.0, st.Offset)
	assert.True(t, st.Animating)

	tick(t, fc, 10*time.Millisecond)
	assert.InDelta(t, 30, s.State().Offset, 1e-9)

	finish(t, s, fc, 300)
	assert.Eventually(t, func() bool { return s.PendingTimers() == 0 }, time.Second, time.Millisecond)
}

func TestScroller_UnchangedMeasureIsNoop(t *testing.T) {
	s, fc := newTestScroller(t)
	s.SetActive(true)
	s.Measure(500, 200)
	finish(t, s, fc, 300)
	require.Eventually(t, func() bool { return s.PendingTimers() == 0 }, time.Second, time.Millisecond)

	s.Measure(500, 200)
	assert.Equal(t, 0, s.PendingTimers())
	assert.False(t, s.State().Animating)
}

func TestScroller_RetargetsFromCurrentOffset(t *testing.T) {
	s, fc := newTestScroller(t)
	s.SetActive(true)
	s.Measure(500, 200)
	for range 5 {
		tick(t, fc, 10*time.Millisecond)
	}
	mid := s.State().Offset
	require.InDelta(t, 150, mid, 1e-9)

	s.Measure(700, 200)
	st := s.State()
	assert.InDelta(t, mid, st.Offset, 1e-9)
	assert.Equal(t, 500.0, st.Target)
	assert.Equal(t, 1, s.PendingTimers())

	finish(t, s, fc, 500)
}

func TestScroller_ShortContentStaysAtTop(t *testing.T) {
	s, _ := newTestScroller(t)
	s.SetActive(true)
	s.Measure(100, 200)

	st := s.State()
	assert.Equal(t, 0.0, st.Target)
	assert.Equal(t, 0.0, st.Offset)
	assert.Equal(t, 0, s.PendingTimers())
}

func TestScroller_InactiveOnlyRecords(t *testing.T) {
	s, fc := newTestScroller(t)
	s.Measure(500, 200)
	assert.Equal(t, 0, s.PendingTimers())
	assert.Equal(t, 0.0, s.State().Target)

	s.SetActive(true)
	assert.Equal(t, 300.0, s.State().Target)
	assert.Equal(t, 1, s.PendingTimers())
	finish(t, s, fc, 300)
}

func TestScroller_DeactivateResets(t *testing.T) {
	s, fc := newTestScroller(t)
	s.SetActive(true)
	s.Measure(500, 200)
	tick(t, fc, 10*time.Millisecond)

	s.SetActive(false)
	st := s.State()
	assert.Equal(t, 0.0, st.Offset)
	assert.Equal(t, 0.0, st.Target)
	assert.False(t, st.Active)
	assert.Equal(t, 0, s.PendingTimers())
}

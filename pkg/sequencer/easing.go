package sequencer

import "math"

// Easing maps linear progress in [0,1] onto an animation curve.
type Easing func(t float64) float64

// EaseLinear returns t clamped to [0,1].
func EaseLinear(t float64) float64 {
	return clamp01(t)
}

// EaseOutCubic starts fast and settles gently.
func EaseOutCubic(t float64) float64 {
	t = clamp01(t)
	return 1 - math.Pow(1-t, 3)
}

// EaseInOutCubic accelerates through the first half and decelerates through the second.
func EaseInOutCubic(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

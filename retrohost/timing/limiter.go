package timing

import "time"

// Limiter controls frame pacing for the frontend loop.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses or AV info changes.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// DefaultFPS is used until a core reports its timing, so the loop never
// spins unpaced.
const DefaultFPS = 60.0

// FrameDuration returns the target duration of a single frame at fps.
func FrameDuration(fps float64) time.Duration {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Duration(float64(time.Second) / fps)
}

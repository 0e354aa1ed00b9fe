// Package audio buffers the interleaved stereo samples a core pushes during
// a run-call until the frontend drains them once per frame.
package audio

// MaxQueuedFrames caps how many stereo frames the queue will hold. A core
// that outruns the frontend (or a frontend that stops draining) loses the
// oldest audio rather than growing without bound.
const MaxQueuedFrames = 1 << 16

// Queue accumulates interleaved 16-bit stereo samples. It is only ever
// touched from the driver thread, so it needs no locking.
type Queue struct {
	samples []int16
}

func NewQueue() *Queue {
	return &Queue{samples: make([]int16, 0, 4096)}
}

// Push appends a single stereo frame.
func (q *Queue) Push(left, right int16) {
	if q.Frames() >= MaxQueuedFrames {
		return
	}
	q.samples = append(q.samples, left, right)
}

// PushBatch appends up to len(samples)/2 stereo frames from an interleaved
// slice and returns how many frames were actually consumed.
func (q *Queue) PushBatch(samples []int16) int {
	frames := len(samples) / 2
	if room := MaxQueuedFrames - q.Frames(); frames > room {
		frames = room
	}
	q.samples = append(q.samples, samples[:frames*2]...)
	return frames
}

// Frames returns the number of queued stereo frames.
func (q *Queue) Frames() int {
	return len(q.samples) / 2
}

// Drain returns all queued samples and resets the queue so the next run-call
// starts from empty. The returned slice is owned by the caller.
func (q *Queue) Drain() []int16 {
	if len(q.samples) == 0 {
		return nil
	}
	out := make([]int16, len(q.samples))
	copy(out, q.samples)
	q.samples = q.samples[:0]
	return out
}

package libretro

import (
	"github.com/retrohost/go-retrohost/retrohost/events"
)

// The frame/audio/input bridge: the three callback families a core invokes
// from inside retro_run. Every pointer received here is core-owned memory
// whose validity ends when the callback returns, so everything retained is
// copied first.

// refreshVideo receives one rendered frame. A zero source pointer is the
// duplicate-frame signal: the previously copied frame stays current and is
// only flagged, never re-borrowed.
func (s *Session) refreshVideo(data uintptr, width, height uint32, pitch uintptr) {
	if data == 0 {
		s.frame.IsDuplicate = true
		s.bus.Publish(events.Event{Type: events.DuplicateFrame})
		return
	}
	src := byteView(data, int(height)*int(pitch))
	s.frame.Replace(src, int(width), int(height), int(pitch), s.pixelFormat)
}

// pushAudioSample queues a single stereo frame.
func (s *Session) pushAudioSample(left, right int16) {
	s.audio.Push(left, right)
}

// pushAudioBatch queues interleaved stereo frames and reports how many were
// consumed. Cores must tolerate partial consumption, though the queue only
// falls short when its cap is hit.
func (s *Session) pushAudioBatch(data uintptr, frames uintptr) uintptr {
	samples := int16View(data, int(frames)*2)
	if samples == nil {
		return 0
	}
	return uintptr(s.audio.PushBatch(samples))
}

// pollInput freezes the input snapshot for the remainder of the run-call.
// Cores may poll more than once per frame; only the first poll of each
// run-call refreshes the snapshot, so every query within one frame sees the
// same state.
func (s *Session) pollInput() {
	if s.inputPolled {
		return
	}
	s.inputPolled = true
	if s.inputs != nil {
		s.frozen = s.inputs.Freeze()
	}
}

// readInput is a pure read against the frozen snapshot; untracked
// combinations report 0.
func (s *Session) readInput(port, device, index, id uint32) int16 {
	return s.frozen.Value(port, device, index, id)
}

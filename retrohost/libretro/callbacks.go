package libretro

import (
	"sync"

	"github.com/ebitengine/purego"
)

// C-callable trampolines for the five core callbacks plus environment.
//
// purego.NewCallback pointers are allocated from a small process-lifetime
// pool and can never be released, so exactly one trampoline per callback
// type is created and every registration swaps the Go function it dispatches
// to. Only one session drives a core at a time (single driver thread), so a
// single dispatch slot per callback is sufficient.
var (
	trampolineOnce sync.Once

	envTrampolinePtr        uintptr
	videoTrampolinePtr      uintptr
	audioTrampolinePtr      uintptr
	audioBatchTrampolinePtr uintptr
	inputPollTrampolinePtr  uintptr
	inputStateTrampolinePtr uintptr

	registered struct {
		env        EnvironmentFunc
		video      VideoRefreshFunc
		audio      AudioSampleFunc
		audioBatch AudioSampleBatchFunc
		inputPoll  InputPollFunc
		inputState InputStateFunc
	}
)

func ensureTrampolines() {
	trampolineOnce.Do(func() {
		envTrampolinePtr = purego.NewCallback(func(cmd uint32, data uintptr) uintptr {
			if registered.env != nil && registered.env(cmd, data) {
				return 1
			}
			return 0
		})
		videoTrampolinePtr = purego.NewCallback(func(data uintptr, width, height uint32, pitch uintptr) uintptr {
			if registered.video != nil {
				registered.video(data, width, height, pitch)
			}
			return 0
		})
		audioTrampolinePtr = purego.NewCallback(func(left, right int16) uintptr {
			if registered.audio != nil {
				registered.audio(left, right)
			}
			return 0
		})
		audioBatchTrampolinePtr = purego.NewCallback(func(data uintptr, frames uintptr) uintptr {
			if registered.audioBatch != nil {
				return registered.audioBatch(data, frames)
			}
			return frames
		})
		inputPollTrampolinePtr = purego.NewCallback(func() uintptr {
			if registered.inputPoll != nil {
				registered.inputPoll()
			}
			return 0
		})
		inputStateTrampolinePtr = purego.NewCallback(func(port, device, index, id uint32) int16 {
			if registered.inputState != nil {
				return registered.inputState(port, device, index, id)
			}
			return 0
		})
	})
}

func environmentTrampoline(fn EnvironmentFunc) uintptr {
	ensureTrampolines()
	registered.env = fn
	return envTrampolinePtr
}

func videoRefreshTrampoline(fn VideoRefreshFunc) uintptr {
	ensureTrampolines()
	registered.video = fn
	return videoTrampolinePtr
}

func audioSampleTrampoline(fn AudioSampleFunc) uintptr {
	ensureTrampolines()
	registered.audio = fn
	return audioTrampolinePtr
}

func audioSampleBatchTrampoline(fn AudioSampleBatchFunc) uintptr {
	ensureTrampolines()
	registered.audioBatch = fn
	return audioBatchTrampolinePtr
}

func inputPollTrampoline(fn InputPollFunc) uintptr {
	ensureTrampolines()
	registered.inputPoll = fn
	return inputPollTrampolinePtr
}

func inputStateTrampoline(fn InputStateFunc) uintptr {
	ensureTrampolines()
	registered.inputState = fn
	return inputStateTrampolinePtr
}

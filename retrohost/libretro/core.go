// Package libretro is the core integration layer: it loads an emulation core
// as a dynamic library, binds its exported entry points, drives its lifecycle
// and implements the callback protocol the core uses to deliver frames, audio
// and input queries back to the host.
//
// Everything here runs on a single driver thread. Core callbacks are
// reentrant synchronous calls on that thread: they complete before the outer
// lifecycle call returns, so session state needs no locking.
package libretro

// Callback types registered with a core. Pointer-typed C parameters cross
// the boundary as uintptr; the memory they reference is only valid for the
// duration of the call and must be copied before it is stored.
type (
	// EnvironmentFunc answers a capability query/command from the core.
	EnvironmentFunc func(cmd uint32, data uintptr) bool
	// VideoRefreshFunc receives one rendered frame. A zero data pointer
	// means "repeat the previous frame".
	VideoRefreshFunc func(data uintptr, width, height uint32, pitch uintptr)
	// AudioSampleFunc receives a single stereo frame.
	AudioSampleFunc func(left, right int16)
	// AudioSampleBatchFunc receives interleaved stereo frames and returns
	// how many it consumed.
	AudioSampleBatchFunc func(data uintptr, frames uintptr) uintptr
	// InputPollFunc signals that input state is about to be queried.
	InputPollFunc func()
	// InputStateFunc reports the state of one input, 0 when untracked.
	InputStateFunc func(port, device, index, id uint32) int16
)

// SystemInfo describes the core itself, available before init.
type SystemInfo struct {
	LibraryName     string
	LibraryVersion  string
	ValidExtensions string
	// NeedFullPath means the core opens content from disk itself and the
	// host must not pass an in-memory copy.
	NeedFullPath bool
	BlockExtract bool
}

// Geometry is the core's reported frame geometry.
type Geometry struct {
	BaseWidth   uint32
	BaseHeight  uint32
	MaxWidth    uint32
	MaxHeight   uint32
	AspectRatio float32
}

// Timing is the core's reported AV timing.
type Timing struct {
	FPS        float64
	SampleRate float64
}

// AVInfo is the core's reported geometry and timing, valid after a game
// loads (and updatable mid-session via SET_SYSTEM_AV_INFO / SET_GEOMETRY).
type AVInfo struct {
	Geometry Geometry
	Timing   Timing
}

// GameDescriptor identifies the content handed to LoadGame. Data may be nil
// when the core reports NeedFullPath; otherwise it holds the content bytes,
// which must stay valid for the duration of the LoadGame call only. A core
// that wants to keep the data must copy it.
type GameDescriptor struct {
	Path string
	Data []byte
	Meta string
}

// Core is the capability interface over a loaded module's function table.
// The only production implementation is ForeignCore; tests substitute a mock
// so the session and bridge are exercised without a real dynamic library.
//
// Invariant: a Core is fully bound before any method is called. Missing
// symbols are a bind-time error, never a runtime nil check.
type Core interface {
	APIVersion() uint32

	SetEnvironment(fn EnvironmentFunc)
	SetVideoRefresh(fn VideoRefreshFunc)
	SetAudioSample(fn AudioSampleFunc)
	SetAudioSampleBatch(fn AudioSampleBatchFunc)
	SetInputPoll(fn InputPollFunc)
	SetInputState(fn InputStateFunc)

	Init()
	Deinit()
	Reset()
	Run()

	LoadGame(game GameDescriptor) bool
	LoadGameSpecial(kind uint32, game GameDescriptor) bool
	UnloadGame()

	SerializeSize() uint64
	Serialize(buf []byte) bool
	Unserialize(buf []byte) bool

	CheatReset()
	CheatSet(index uint32, enabled bool, code string)

	Region() uint32
	MemoryData(id uint32) uintptr
	MemorySize(id uint32) uint64

	SystemInfo() SystemInfo
	SystemAVInfo() AVInfo
	SetControllerPortDevice(port, device uint32)
}

package libretro

import (
	"log/slog"

	"github.com/retrohost/go-retrohost/retrohost/audio"
	"github.com/retrohost/go-retrohost/retrohost/events"
	"github.com/retrohost/go-retrohost/retrohost/input"
	"github.com/retrohost/go-retrohost/retrohost/video"
)

// State is the session lifecycle state. All transitions happen on the single
// driver thread.
type State int

const (
	Unloaded State = iota
	Bound
	EnvironmentConfigured
	Initialized
	GameLoaded
	Running
	Unloading
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Bound:
		return "bound"
	case EnvironmentConfigured:
		return "environment-configured"
	case Initialized:
		return "initialized"
	case GameLoaded:
		return "game-loaded"
	case Running:
		return "running"
	case Unloading:
		return "unloading"
	}
	return "invalid"
}

// InputSource supplies frozen input snapshots, one per run-call. The
// presentation surface's input manager implements it.
type InputSource interface {
	Freeze() *input.Snapshot
}

// OptionSource answers core option lookups (GET_VARIABLE). The config layer
// implements it.
type OptionSource interface {
	Option(key string) (string, bool)
}

// PresentedFrame is the immutable per-tick snapshot handed to the
// presentation surface: the current video frame and all audio produced since
// the previous tick.
type PresentedFrame struct {
	Video *video.FrameBuffer
	Audio []int16
}

// SessionOptions carries the collaborators and host-side facts a session
// exposes to the core.
type SessionOptions struct {
	Log       *slog.Logger
	Bus       *events.Bus
	Input     InputSource
	Options   OptionSource
	SystemDir string
	SaveDir   string
	Username  string
}

// Session owns the lifecycle of one loaded core and is the single source of
// truth for the current frame, pixel format and AV timing. Core callbacks
// re-enter it synchronously during lifecycle calls; everything stays on the
// driver thread, so no field is locked.
type Session struct {
	core Core
	log  *slog.Logger
	bus  *events.Bus

	state State

	pixelFormat video.PixelFormat
	frame       *video.FrameBuffer
	audio       *audio.Queue

	inputs      InputSource
	frozen      *input.Snapshot
	inputPolled bool

	sysInfo SystemInfo
	avInfo  AVInfo

	options   OptionSource
	systemDir string
	saveDir   string
	username  string
	// NUL-terminated strings handed to the core by pointer; pinned here for
	// the session's lifetime because cores may hold them between calls.
	pinned map[string][]byte

	rotation         uint32
	performanceLevel uint32
	supportsNoGame   bool
	shutdown         bool

	frameCount uint64
}

// NewSession wraps an already-bound core. The session starts at Bound; the
// caller walks it through Configure, Init and LoadGame before running.
func NewSession(core Core, opts SessionOptions) *Session {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	bus := opts.Bus
	if bus == nil {
		bus = events.NewBus(64)
	}
	return &Session{
		core:        core,
		log:         log,
		bus:         bus,
		state:       Bound,
		pixelFormat: video.XRGB1555, // libretro's historical default
		frame:       video.NewFrameBuffer(0, 0, video.XRGB1555),
		audio:       audio.NewQueue(),
		inputs:      opts.Input,
		options:     opts.Options,
		systemDir:   opts.SystemDir,
		saveDir:     opts.SaveDir,
		username:    opts.Username,
		pinned:      make(map[string][]byte),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Events returns the diagnostic event bus the session publishes to.
func (s *Session) Events() *events.Bus { return s.bus }

// PixelFormat returns the format the core most recently negotiated.
func (s *Session) PixelFormat() video.PixelFormat { return s.pixelFormat }

// SystemInfo returns the core's self-description, valid after Init.
func (s *Session) SystemInfo() SystemInfo { return s.sysInfo }

// AVInfo returns the reported geometry/timing, valid after LoadGame.
func (s *Session) AVInfo() AVInfo { return s.avInfo }

// FrameCount returns the number of completed run-calls.
func (s *Session) FrameCount() uint64 { return s.frameCount }

// ShutdownRequested reports whether the core asked the frontend to exit.
func (s *Session) ShutdownRequested() bool { return s.shutdown }

func (s *Session) transition(to State) {
	s.bus.Publish(events.Event{Type: events.StateTransition, Text: to.String()})
	s.state = to
}

// Configure registers the environment callback and the AV/input bridge with
// the core. Must happen before Init: cores issue environment commands from
// inside retro_init.
func (s *Session) Configure() error {
	if s.state != Bound {
		return &StateError{Op: "configure", State: s.state}
	}
	s.core.SetEnvironment(s.handleEnvironment)
	s.core.SetVideoRefresh(s.refreshVideo)
	s.core.SetAudioSample(s.pushAudioSample)
	s.core.SetAudioSampleBatch(s.pushAudioBatch)
	s.core.SetInputPoll(s.pollInput)
	s.core.SetInputState(s.readInput)
	s.transition(EnvironmentConfigured)
	return nil
}

// Init runs retro_init and captures the core's system info.
func (s *Session) Init() error {
	if s.state != EnvironmentConfigured {
		return &StateError{Op: "init", State: s.state}
	}
	s.core.Init()
	s.sysInfo = s.core.SystemInfo()
	s.log.Info("core initialized",
		"name", s.sysInfo.LibraryName,
		"version", s.sysInfo.LibraryVersion,
		"extensions", s.sysInfo.ValidExtensions,
		"need_fullpath", s.sysInfo.NeedFullPath)
	s.transition(Initialized)
	return nil
}

// LoadGame hands content to the core. A refusal is recoverable: the session
// stays at Initialized and another descriptor may be tried.
func (s *Session) LoadGame(game GameDescriptor) error {
	if s.state != Initialized {
		return &StateError{Op: "load game", State: s.state}
	}
	if s.sysInfo.NeedFullPath {
		// the core opens the file itself; don't hand it a memory copy
		game.Data = nil
	}
	if !s.core.LoadGame(game) {
		s.bus.Publish(events.Event{Type: events.GameLoadFailed, Text: game.Path})
		return &GameLoadError{Path: game.Path}
	}

	s.avInfo = s.core.SystemAVInfo()
	s.frame = video.NewFrameBuffer(
		int(s.avInfo.Geometry.BaseWidth),
		int(s.avInfo.Geometry.BaseHeight),
		s.pixelFormat,
	)
	for port := uint32(0); port < input.MaxPorts; port++ {
		s.core.SetControllerPortDevice(port, DeviceJoypad)
	}
	s.log.Info("content loaded",
		"path", game.Path,
		"fps", s.avInfo.Timing.FPS,
		"sample_rate", s.avInfo.Timing.SampleRate,
		"geometry", s.avInfo.Geometry)
	s.transition(GameLoaded)
	return nil
}

// Advance drives exactly one run-call and returns an immutable snapshot for
// presentation. Only legal once both the environment is configured and a
// game is loaded.
func (s *Session) Advance() (PresentedFrame, error) {
	if s.state != GameLoaded && s.state != Running {
		return PresentedFrame{}, &StateError{Op: "run", State: s.state}
	}
	if s.state == GameLoaded {
		s.transition(Running)
	}

	s.inputPolled = false
	s.core.Run()
	s.frameCount++

	frame := s.frame.Clone()
	if s.rotation != 0 {
		frame = s.frame.Rotated(int(s.rotation))
	}
	return PresentedFrame{
		Video: frame,
		Audio: s.audio.Drain(),
	}, nil
}

// Reset resets the running game without changing lifecycle state.
func (s *Session) Reset() error {
	if s.state != GameLoaded && s.state != Running {
		return &StateError{Op: "reset", State: s.state}
	}
	s.core.Reset()
	return nil
}

// Close unloads any game and deinitializes the core, leaving the session in
// the terminal Unloading state. The module handle may be released only after
// Close returns.
func (s *Session) Close() error {
	switch s.state {
	case Unloading:
		return nil
	case GameLoaded, Running:
		s.core.UnloadGame()
		s.core.Deinit()
	case Initialized:
		s.core.Deinit()
	}
	s.transition(Unloading)
	return nil
}

// SaveState captures the core's internal state as an opaque byte buffer.
func (s *Session) SaveState() ([]byte, error) {
	if s.state != GameLoaded && s.state != Running {
		return nil, &StateError{Op: "save state", State: s.state}
	}
	size := s.core.SerializeSize()
	if size == 0 {
		return nil, ErrSerializationUnsupported
	}
	buf := make([]byte, size)
	if !s.core.Serialize(buf) {
		return nil, &StateError{Op: "serialize", State: s.state}
	}
	return buf, nil
}

// RestoreState replays a buffer previously produced by SaveState. Contents
// are opaque; only the size is validated by the core.
func (s *Session) RestoreState(buf []byte) error {
	if s.state != GameLoaded && s.state != Running {
		return &StateError{Op: "restore state", State: s.state}
	}
	if !s.core.Unserialize(buf) {
		return &StateError{Op: "unserialize", State: s.state}
	}
	return nil
}

// SaveRAM copies out the core's save RAM region (cartridge battery saves),
// or nil when the core has none.
func (s *Session) SaveRAM() []byte {
	if s.state != GameLoaded && s.state != Running {
		return nil
	}
	ptr := s.core.MemoryData(MemorySaveRAM)
	size := s.core.MemorySize(MemorySaveRAM)
	if ptr == 0 || size == 0 {
		return nil
	}
	out := make([]byte, size)
	copy(out, byteView(ptr, int(size)))
	return out
}

// RestoreSaveRAM writes a previously captured save RAM image back into the
// core's region, truncating to the region size.
func (s *Session) RestoreSaveRAM(data []byte) {
	if len(data) == 0 || (s.state != GameLoaded && s.state != Running) {
		return
	}
	ptr := s.core.MemoryData(MemorySaveRAM)
	size := s.core.MemorySize(MemorySaveRAM)
	if ptr == 0 || size == 0 {
		return
	}
	copy(byteView(ptr, int(size)), data)
}

// pin returns a stable NUL-terminated pointer for s, cached per string so a
// core holding the pointer between calls keeps reading valid memory.
func (s *Session) pin(str string) uintptr {
	if b, ok := s.pinned[str]; ok {
		return uintptrOf(b)
	}
	ptr, b := cString(str)
	s.pinned[str] = b
	return ptr
}

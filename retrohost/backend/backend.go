package backend

import (
	"github.com/retrohost/go-retrohost/retrohost/input"
	"github.com/retrohost/go-retrohost/retrohost/input/action"
	"github.com/retrohost/go-retrohost/retrohost/input/event"
	"github.com/retrohost/go-retrohost/retrohost/video"
)

// Backend represents a complete presentation platform (rendering + input).
// Backends are responsible for:
// - Rendering frames to their specific output (terminal, SDL window, etc.)
// - Translating platform-specific input events to Actions
// - Handling backend-specific features (snapshots, scaling, vsync)
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config Config) error

	// Update renders the frame and polls platform events, returning the
	// input events collected since the previous call. Backends should:
	// 1. Poll for platform-specific events (keyboard, window events, etc.)
	// 2. Translate them to Actions via the configured key map
	// 3. Render the provided frame
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// AudioSink is implemented by backends that can play core audio. The frontend
// pushes each tick's drained samples; backends without audio simply never
// receive them.
type AudioSink interface {
	PushAudio(samples []int16, sampleRate float64)
}

// InputEvent is one translated input: a frontend action plus whether the key
// went down or up.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// Config holds configuration shared by all backends.
type Config struct {
	Title string
	Scale int
	VSync bool

	// KeyMap translates platform key names to actions. Backends fall back to
	// input.DefaultKeyMap when nil.
	KeyMap map[string]action.Action

	// InputManager is the shared manager the frontend feeds events into.
	// Backends may use it directly for features that bypass the event return.
	InputManager *input.Manager

	Callbacks Callbacks
}

// Callbacks allows backends to communicate with the frontend outside the
// per-frame event flow.
type Callbacks struct {
	// OnQuit fires when the platform requests shutdown (e.g. window close)
	OnQuit func()
}

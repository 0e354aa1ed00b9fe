//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"
	"strings"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/retrohost/go-retrohost/retrohost/backend"
	"github.com/retrohost/go-retrohost/retrohost/input"
	"github.com/retrohost/go-retrohost/retrohost/input/action"
	"github.com/retrohost/go-retrohost/retrohost/input/event"
	"github.com/retrohost/go-retrohost/retrohost/video"
)

const defaultScale = 3

// Backend implements the Backend interface using SDL2 bindings.
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed renderer, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	running  bool
	config   backend.Config
	keyMap   map[string]action.Action

	// texture geometry; recreated when the core changes resolution
	texWidth  int
	texHeight int

	audioDevice sdl.AudioDeviceID
	audioRate   float64

	currentFrame *video.FrameBuffer
}

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{}
}

// Init initializes the SDL2 backend
func (s *Backend) Init(config backend.Config) error {
	s.config = config
	s.keyMap = config.KeyMap
	if s.keyMap == nil {
		s.keyMap = input.DefaultKeyMap
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %v", err)
	}

	scale := config.Scale
	if scale <= 0 {
		scale = defaultScale
	}

	// window sized for a common 4:3 core; resized on the first frame
	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(320*scale),
		int32(240*scale),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %v", err)
	}
	s.window = window

	flags := uint32(sdl.RENDERER_ACCELERATED)
	if config.VSync {
		flags |= sdl.RENDERER_PRESENTVSYNC
	}
	renderer, err := sdl.CreateRenderer(window, -1, flags)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %v", err)
	}
	s.renderer = renderer

	s.running = true
	slog.Info("SDL2 backend initialized")
	return nil
}

// Update renders a frame and processes events
func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	var events []backend.InputEvent
	if !s.running {
		return events, nil
	}

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		events = s.handleEvent(ev, events)
	}

	if frame == nil || frame.Width == 0 || frame.Height == 0 {
		return events, nil
	}

	if err := s.ensureTexture(frame.Width, frame.Height); err != nil {
		return events, err
	}

	pixels := frame.XRGB8888()
	if err := s.texture.Update(nil, unsafe.Pointer(&pixels[0]), frame.Width*4); err != nil {
		return events, fmt.Errorf("failed to update texture: %v", err)
	}

	s.currentFrame = frame
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()

	return events, nil
}

// PushAudio queues interleaved stereo samples to the SDL audio device, which
// is opened lazily with the core's reported sample rate and reopened if the
// rate changes (SET_SYSTEM_AV_INFO).
func (s *Backend) PushAudio(samples []int16, sampleRate float64) {
	if len(samples) == 0 || sampleRate <= 0 {
		return
	}
	if s.audioDevice == 0 || s.audioRate != sampleRate {
		if s.audioDevice != 0 {
			sdl.CloseAudioDevice(s.audioDevice)
			s.audioDevice = 0
		}
		spec := sdl.AudioSpec{
			Freq:     int32(sampleRate),
			Format:   sdl.AUDIO_S16SYS,
			Channels: 2,
			Samples:  1024,
		}
		device, err := sdl.OpenAudioDevice("", false, &spec, nil, 0)
		if err != nil {
			slog.Warn("Failed to open audio device", "error", err)
			return
		}
		s.audioDevice = device
		s.audioRate = sampleRate
		sdl.PauseAudioDevice(device, false)
		slog.Info("Audio device opened", "sample_rate", sampleRate)
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*2)
	if err := sdl.QueueAudio(s.audioDevice, data); err != nil {
		slog.Warn("Failed to queue audio", "error", err)
	}
}

// Cleanup releases all SDL resources
func (s *Backend) Cleanup() error {
	if s.audioDevice != 0 {
		sdl.CloseAudioDevice(s.audioDevice)
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

// Frame returns the most recently rendered frame, used for snapshots.
func (s *Backend) Frame() *video.FrameBuffer {
	return s.currentFrame
}

// ensureTexture (re)creates the streaming texture when the core's output
// geometry changes (SET_GEOMETRY / SET_SYSTEM_AV_INFO mid-session).
func (s *Backend) ensureTexture(width, height int) error {
	if s.texture != nil && width == s.texWidth && height == s.texHeight {
		return nil
	}
	if s.texture != nil {
		s.texture.Destroy()
	}

	texture, err := s.renderer.CreateTexture(
		sdl.PIXELFORMAT_ARGB8888,
		sdl.TEXTUREACCESS_STREAMING,
		int32(width),
		int32(height),
	)
	if err != nil {
		return fmt.Errorf("failed to create texture: %v", err)
	}
	s.texture = texture
	s.texWidth = width
	s.texHeight = height
	slog.Info("Created render texture", "width", width, "height", height)
	return nil
}

func (s *Backend) handleEvent(ev sdl.Event, events []backend.InputEvent) []backend.InputEvent {
	switch ev := ev.(type) {
	case *sdl.QuitEvent:
		s.running = false
		if s.config.Callbacks.OnQuit != nil {
			s.config.Callbacks.OnQuit()
		}
		return append(events, backend.InputEvent{Action: action.HostQuit, Type: event.Press})
	case *sdl.KeyboardEvent:
		return s.handleKey(ev, events)
	}
	return events
}

func (s *Backend) handleKey(ev *sdl.KeyboardEvent, events []backend.InputEvent) []backend.InputEvent {
	if ev.Repeat != 0 {
		return events
	}

	name := keyName(ev.Keysym)
	act, ok := s.keyMap[name]
	if !ok {
		return events
	}

	evType := event.Press
	if ev.Type == sdl.KEYUP {
		evType = event.Release
	}
	// hotkeys fire on press only
	if !act.IsPad() && evType == event.Release {
		return events
	}
	if act == action.HostQuit {
		s.running = false
	}
	return append(events, backend.InputEvent{Action: act, Type: evType})
}

// keyName maps an SDL keysym to the key names used in mappings, matching the
// terminal backend's naming so one key map serves both.
func keyName(keysym sdl.Keysym) string {
	switch keysym.Sym {
	case sdl.K_RETURN:
		return "Enter"
	case sdl.K_ESCAPE:
		return "Escape"
	case sdl.K_SPACE:
		return "Space"
	case sdl.K_UP:
		return "Up"
	case sdl.K_DOWN:
		return "Down"
	case sdl.K_LEFT:
		return "Left"
	case sdl.K_RIGHT:
		return "Right"
	}
	name := sdl.GetKeyName(keysym.Sym)
	// SDL reports letters uppercase; mappings use lowercase
	if len(name) == 1 {
		name = strings.ToLower(name)
	}
	return name
}

// Package terminal renders frames into the terminal using tcell half-block
// characters, one cell per 1x2 pixel pair, scaled to fit the window.
package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/retrohost/go-retrohost/retrohost/backend"
	"github.com/retrohost/go-retrohost/retrohost/input"
	"github.com/retrohost/go-retrohost/retrohost/input/action"
	"github.com/retrohost/go-retrohost/retrohost/input/event"
	"github.com/retrohost/go-retrohost/retrohost/video"
)

// Key expiry timeout - slightly longer than typical key repeat interval.
// Terminals deliver repeats, not releases, so a button is held while repeats
// keep arriving and released once they stop.
const keyTimeout = 100 * time.Millisecond

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen     tcell.Screen
	running    bool
	config     backend.Config
	keyMap     map[string]action.Action
	eventQueue []backend.InputEvent // collected hotkey events to return

	keyStates  map[action.Action]time.Time // last time each pad key was pressed
	activeKeys map[action.Action]bool      // pad keys active in previous frame

	logBuffer *LogBuffer

	currentFrame *video.FrameBuffer // retained for snapshot generation
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{}
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.Config) error {
	t.config = config
	t.keyMap = config.KeyMap
	if t.keyMap == nil {
		t.keyMap = input.DefaultKeyMap
	}
	t.eventQueue = make([]backend.InputEvent, 0)
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}

	t.screen = screen
	t.running = true

	// capture logs while tcell owns the screen
	t.logBuffer = NewLogBuffer(100)
	slog.SetDefault(slog.New(newLogHandler(t.logBuffer, slog.LevelDebug)))

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	go t.handleSignals()

	slog.Info("Terminal backend initialized")
	return nil
}

// Update renders a frame and processes events
func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	var events []backend.InputEvent
	now := time.Now()

	for t.screen.HasPendingEvent() {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	// Track which pad keys are currently active this frame
	currentlyActive := make(map[action.Action]bool)

	for act, lastPressed := range t.keyStates {
		if now.Sub(lastPressed) < keyTimeout {
			currentlyActive[act] = true
			if !t.activeKeys[act] {
				events = append(events, backend.InputEvent{Action: act, Type: event.Press})
			}
		} else {
			delete(t.keyStates, act)
		}
	}

	// Released keys: active last frame, expired this frame
	for act := range t.activeKeys {
		if !currentlyActive[act] {
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
	t.activeKeys = currentlyActive

	events = append(events, t.eventQueue...)
	t.eventQueue = nil

	if !t.running {
		return events, nil
	}

	t.currentFrame = frame
	t.render(frame)
	t.screen.Show()

	return events, nil
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

// Frame returns the most recently rendered frame, used for snapshots.
func (t *Backend) Frame() *video.FrameBuffer {
	return t.currentFrame
}

func (t *Backend) handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	<-signals
	t.running = false
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.HostQuit, Type: event.Press})
}

// tcellRuneNames converts runes that have a named binding. Space arrives as a
// rune but is mapped by name, the same as the SDL2 backend.
var tcellRuneNames = map[rune]string{
	' ': "Space",
}

// tcellKeyNames converts tcell special keys to the key names used in mappings
var tcellKeyNames = map[tcell.Key]string{
	tcell.KeyEnter:  "Enter",
	tcell.KeyUp:     "Up",
	tcell.KeyDown:   "Down",
	tcell.KeyLeft:   "Left",
	tcell.KeyRight:  "Right",
	tcell.KeyEscape: "Escape",
	tcell.KeyF1:     "F1",
	tcell.KeyF2:     "F2",
	tcell.KeyF3:     "F3",
	tcell.KeyF4:     "F4",
	tcell.KeyF5:     "F5",
	tcell.KeyF6:     "F6",
	tcell.KeyF7:     "F7",
	tcell.KeyF8:     "F8",
	tcell.KeyF9:     "F9",
	tcell.KeyF10:    "F10",
	tcell.KeyF11:    "F11",
	tcell.KeyF12:    "F12",
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	if ev.Key() == tcell.KeyCtrlC {
		t.running = false
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.HostQuit, Type: event.Press})
		return
	}

	var name string
	if ev.Key() == tcell.KeyRune {
		name = string(ev.Rune())
		if n, ok := tcellRuneNames[ev.Rune()]; ok {
			name = n
		}
	} else if n, ok := tcellKeyNames[ev.Key()]; ok {
		name = n
	} else {
		return
	}

	act, ok := t.keyMap[name]
	if !ok {
		return
	}

	if act.IsPad() {
		t.keyStates[act] = now
		return
	}
	if act == action.HostQuit {
		t.running = false
	}
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

// render draws the frame with half-block characters, two pixels per cell
// vertically, nearest-neighbor sampled to the terminal size.
func (t *Backend) render(frame *video.FrameBuffer) {
	termWidth, termHeight := t.screen.Size()
	if frame == nil || frame.Width == 0 || frame.Height == 0 {
		return
	}

	t.screen.Clear()

	// reserve the bottom row for the status line
	areaWidth := termWidth
	areaHeight := (termHeight - 1) * 2
	if areaWidth <= 0 || areaHeight <= 0 {
		return
	}

	// integer downscale only; small frames render 1:1
	outWidth := frame.Width
	outHeight := frame.Height
	for outWidth > areaWidth || outHeight > areaHeight {
		outWidth /= 2
		outHeight /= 2
	}
	if outWidth == 0 || outHeight == 0 {
		return
	}

	pixels := frame.XRGB8888()
	for y := 0; y < outHeight; y += 2 {
		for x := 0; x < outWidth; x++ {
			top := samplePixel(pixels, frame.Width, frame.Height, x, y, outWidth, outHeight)
			bottom := uint32(0)
			if y+1 < outHeight {
				bottom = samplePixel(pixels, frame.Width, frame.Height, x, y+1, outWidth, outHeight)
			}

			style := tcell.StyleDefault.
				Foreground(rgbColor(top)).
				Background(rgbColor(bottom))
			t.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}

	t.drawLogs(termWidth, termHeight, (outHeight+1)/2)
	t.drawStatusLine(termWidth, termHeight, frame)
}

// drawLogs fills the rows between the game area and the status line with the
// most recent captured log entries.
func (t *Backend) drawLogs(termWidth, termHeight, gameRows int) {
	available := termHeight - 1 - gameRows
	if available <= 0 {
		return
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for i, line := range t.logBuffer.Recent(available) {
		y := gameRows + i
		for j, ch := range line {
			if j >= termWidth {
				break
			}
			t.screen.SetContent(j, y, ch, nil, style)
		}
	}
}

func (t *Backend) drawStatusLine(termWidth, termHeight int, frame *video.FrameBuffer) {
	style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	text := fmt.Sprintf(" %s  %dx%d  F2=save F4=load F8=snapshot ESC=quit ",
		t.config.Title, frame.Width, frame.Height)
	for i, ch := range text {
		if i >= termWidth {
			break
		}
		t.screen.SetContent(i, termHeight-1, ch, nil, style)
	}
}

func samplePixel(pixels []uint32, srcWidth, srcHeight, x, y, outWidth, outHeight int) uint32 {
	sx := x * srcWidth / outWidth
	sy := y * srcHeight / outHeight
	return pixels[sy*srcWidth+sx]
}

func rgbColor(px uint32) tcell.Color {
	return tcell.NewRGBColor(
		int32(px>>16&0xff),
		int32(px>>8&0xff),
		int32(px&0xff),
	)
}

// Package retrohost drives a libretro core: it owns the frame loop, forwards
// backend input to the core, paces output to the core's reported frame rate
// and persists save states and battery saves.
package retrohost

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/retrohost/go-retrohost/retrohost/backend"
	"github.com/retrohost/go-retrohost/retrohost/events"
	"github.com/retrohost/go-retrohost/retrohost/input"
	"github.com/retrohost/go-retrohost/retrohost/input/action"
	"github.com/retrohost/go-retrohost/retrohost/input/event"
	"github.com/retrohost/go-retrohost/retrohost/libretro"
	"github.com/retrohost/go-retrohost/retrohost/timing"
	"github.com/retrohost/go-retrohost/retrohost/video"
)

// Frontend ties a core session to a presentation backend and runs the frame
// loop. Everything happens on the calling goroutine: core callbacks re-enter
// the session synchronously, so the loop never hands the session to another
// goroutine.
type Frontend struct {
	session *libretro.Session
	backend backend.Backend
	manager *input.Manager
	limiter timing.Limiter
	states  *StateStore
	log     *slog.Logger

	slot      int
	paused    bool
	quit      bool
	lastFrame *video.FrameBuffer

	fpsFrames int
	fpsSince  time.Time
}

// FrontendOptions configures a Frontend.
type FrontendOptions struct {
	Session *libretro.Session
	Backend backend.Backend
	Manager *input.Manager
	States  *StateStore
	Log     *slog.Logger

	// Unlimited disables frame pacing (headless batch runs).
	Unlimited bool
}

// NewFrontend wires the frame loop around a session that has already loaded a
// game. The pacing limiter is built from the core's reported FPS.
func NewFrontend(opts FrontendOptions) *Frontend {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	manager := opts.Manager
	if manager == nil {
		manager = input.NewManager()
	}

	var limiter timing.Limiter
	if opts.Unlimited {
		limiter = timing.NewNoOpLimiter()
	} else {
		fps := opts.Session.AVInfo().Timing.FPS
		if fps <= 0 {
			fps = timing.DefaultFPS
		}
		limiter = timing.NewAdaptiveLimiter(fps)
	}

	f := &Frontend{
		session: opts.Session,
		backend: opts.Backend,
		manager: manager,
		limiter: limiter,
		states:  opts.States,
		log:     log,
	}
	f.bindHotkeys()
	return f
}

// Manager returns the shared input manager, for backends that need it.
func (f *Frontend) Manager() *input.Manager { return f.manager }

// bindHotkeys registers the frontend feature actions on the input manager.
// Pad actions are not registered here; Trigger routes them into button state
// directly.
func (f *Frontend) bindHotkeys() {
	f.manager.On(action.HostQuit, event.Press, func() { f.quit = true })
	f.manager.On(action.HostPauseToggle, event.Press, func() {
		f.paused = !f.paused
		f.log.Info("Pause toggled", "paused", f.paused)
	})
	f.manager.On(action.HostReset, event.Press, func() {
		if err := f.session.Reset(); err != nil {
			f.log.Warn("Reset refused", "error", err)
		}
	})
	f.manager.On(action.HostSaveState, event.Press, func() { f.saveState() })
	f.manager.On(action.HostLoadState, event.Press, func() { f.loadState() })
	f.manager.On(action.HostSlotIncrease, event.Press, func() { f.changeSlot(1) })
	f.manager.On(action.HostSlotDecrease, event.Press, func() { f.changeSlot(-1) })
	f.manager.On(action.HostSnapshot, event.Press, func() { f.snapshot() })
}

// Run executes the frame loop until the backend requests quit, the core asks
// for shutdown or Advance fails. Battery saves are flushed on the way out.
func (f *Frontend) Run() error {
	if f.states != nil {
		if sram := f.states.ReadSRAM(); sram != nil {
			f.session.RestoreSaveRAM(sram)
			f.log.Info("Battery save restored", "path", f.states.SRAMPath())
		}
	}

	for !f.quit {
		if err := f.Tick(); err != nil {
			return err
		}
		if f.session.ShutdownRequested() {
			f.log.Info("Core requested shutdown")
			break
		}
	}

	if f.states != nil {
		if err := f.states.WriteSRAM(f.session.SaveRAM()); err != nil {
			f.log.Error("Failed to persist battery save", "error", err)
		}
	}
	return nil
}

// Tick advances the core by one frame (unless paused), presents it and feeds
// the backend's input events back into the manager.
func (f *Frontend) Tick() error {
	if !f.paused {
		frame, err := f.session.Advance()
		if err != nil {
			return fmt.Errorf("frame loop: %w", err)
		}
		f.lastFrame = frame.Video
		if sink, ok := f.backend.(backend.AudioSink); ok && len(frame.Audio) > 0 {
			sink.PushAudio(frame.Audio, f.session.AVInfo().Timing.SampleRate)
		}
		f.countFrame()
	}

	f.drainEvents()

	inputEvents, err := f.backend.Update(f.lastFrame)
	if err != nil {
		return fmt.Errorf("backend update: %w", err)
	}
	for _, ev := range inputEvents {
		f.manager.Trigger(ev.Action, ev.Type)
	}

	f.limiter.WaitForNextFrame()
	return nil
}

// countFrame keeps the periodic FPS accounting.
func (f *Frontend) countFrame() {
	if f.fpsSince.IsZero() {
		f.fpsSince = time.Now()
	}
	f.fpsFrames++
	if elapsed := time.Since(f.fpsSince); elapsed >= 5*time.Second {
		f.log.Info("Frame rate",
			"fps", fmt.Sprintf("%.1f", float64(f.fpsFrames)/elapsed.Seconds()),
			"frames", f.session.FrameCount())
		f.fpsFrames = 0
		f.fpsSince = time.Now()
	}
}

// drainEvents forwards the session's diagnostic events to the logger and
// reacts to the ones that change frontend behavior.
func (f *Frontend) drainEvents() {
	for _, ev := range f.session.Events().Drain() {
		switch ev.Type {
		case events.CoreMessage:
			f.log.Info("Core message", "text", ev.Text)
		case events.GeometryChanged:
			// retarget pacing; the core may have changed FPS with its geometry
			if l, ok := f.limiter.(*timing.AdaptiveLimiter); ok {
				if fps := f.session.AVInfo().Timing.FPS; fps > 0 {
					l.SetFPS(fps)
				}
			}
			f.log.Info("Core changed AV parameters", "geometry", f.session.AVInfo().Geometry)
		case events.UnsupportedEnvCommand:
			f.log.Debug("Unsupported environment command", "command", ev.Command)
		default:
			f.log.Debug("Core event", "type", ev.Type.String(), "text", ev.Text)
		}
	}
}

func (f *Frontend) saveState() {
	if f.states == nil {
		f.log.Warn("No save directory configured")
		return
	}
	data, err := f.session.SaveState()
	if err != nil {
		f.log.Error("Save state failed", "error", err)
		return
	}
	if err := f.states.WriteSlot(f.slot, data); err != nil {
		f.log.Error("Save state write failed", "slot", f.slot, "error", err)
		return
	}
	f.log.Info("State saved", "slot", f.slot, "path", f.states.SlotPath(f.slot), "bytes", len(data))
}

func (f *Frontend) loadState() {
	if f.states == nil {
		f.log.Warn("No save directory configured")
		return
	}
	data, err := f.states.ReadSlot(f.slot)
	if err != nil {
		f.log.Error("Save state read failed", "slot", f.slot, "error", err)
		return
	}
	if err := f.session.RestoreState(data); err != nil {
		f.log.Error("State restore failed", "slot", f.slot, "error", err)
		return
	}
	f.log.Info("State loaded", "slot", f.slot)
}

func (f *Frontend) changeSlot(delta int) {
	slot := f.slot + delta
	if slot < 0 {
		slot = 0
	}
	if slot > MaxStateSlot {
		slot = MaxStateSlot
	}
	f.slot = slot
	f.log.Info("Save slot changed", "slot", f.slot)
}

func (f *Frontend) snapshot() {
	if f.lastFrame == nil {
		f.log.Warn("No frame available for snapshot")
		return
	}
	if err := backend.SaveFramePNG(f.lastFrame, "retrohost_snapshot", ""); err != nil {
		f.log.Error("Snapshot failed", "error", err)
	}
}

package input

import (
	"github.com/retrohost/go-retrohost/retrohost/input/action"
	"github.com/retrohost/go-retrohost/retrohost/input/event"
)

// Manager accumulates input from the presentation surface and hands out
// frozen snapshots to the core layer. Pad actions mutate live button state;
// frontend actions (save state, reset, quit...) fire registered callbacks.
type Manager struct {
	pressed  [MaxPorts][joypadButtons]bool
	handlers map[action.Action]map[event.Type][]func()
}

func NewManager() *Manager {
	return &Manager{
		handlers: make(map[action.Action]map[event.Type][]func()),
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type. Pad actions update the
// live button state for port 0; everything else dispatches to handlers.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	if act.IsPad() {
		m.setButton(0, padButtonID(act), evt == event.Press)
		return
	}
	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}

// SetButton updates the live state of a single pad button on a port.
func (m *Manager) SetButton(port int, id int, pressed bool) {
	m.setButton(port, id, pressed)
}

func (m *Manager) setButton(port, id int, pressed bool) {
	if port < 0 || port >= MaxPorts || id < 0 || id >= joypadButtons {
		return
	}
	m.pressed[port][id] = pressed
}

// ReleaseAll clears all live button state, used when the backend loses focus
// or is swapped out so no button stays stuck.
func (m *Manager) ReleaseAll() {
	m.pressed = [MaxPorts][joypadButtons]bool{}
}

// Freeze captures the current button state into an immutable Snapshot. The
// core layer calls this once per run-call from the input-poll callback.
func (m *Manager) Freeze() *Snapshot {
	s := &Snapshot{}
	for port := 0; port < MaxPorts; port++ {
		for id := 0; id < joypadButtons; id++ {
			if m.pressed[port][id] {
				s.joypad[port][id] = 1
			}
		}
	}
	return s
}

func padButtonID(act action.Action) int {
	switch act {
	case action.PadB:
		return JoypadB
	case action.PadY:
		return JoypadY
	case action.PadSelect:
		return JoypadSelect
	case action.PadStart:
		return JoypadStart
	case action.PadUp:
		return JoypadUp
	case action.PadDown:
		return JoypadDown
	case action.PadLeft:
		return JoypadLeft
	case action.PadRight:
		return JoypadRight
	case action.PadA:
		return JoypadA
	case action.PadX:
		return JoypadX
	case action.PadL:
		return JoypadL
	case action.PadR:
		return JoypadR
	case action.PadL2:
		return JoypadL2
	case action.PadR2:
		return JoypadR2
	case action.PadL3:
		return JoypadL3
	case action.PadR3:
		return JoypadR3
	}
	return -1
}

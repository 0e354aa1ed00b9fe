// Package input translates backend input events into the state a core
// queries through the input-state callback.
package input

// MaxPorts is the number of controller ports the host tracks.
const MaxPorts = 4

// DeviceJoypad is the libretro RetroPad device class. It is the only device
// the host currently populates; queries for other devices read as released.
const DeviceJoypad = 1

// RetroPad button ids, matching RETRO_DEVICE_ID_JOYPAD_*.
const (
	JoypadB      = 0
	JoypadY      = 1
	JoypadSelect = 2
	JoypadStart  = 3
	JoypadUp     = 4
	JoypadDown   = 5
	JoypadLeft   = 6
	JoypadRight  = 7
	JoypadA      = 8
	JoypadX      = 9
	JoypadL      = 10
	JoypadR      = 11
	JoypadL2     = 12
	JoypadR2     = 13
	JoypadL3     = 14
	JoypadR3     = 15

	joypadButtons = 16
)

// Snapshot is an immutable view of input state, frozen for the duration of a
// single run-call. The core may query it any number of times mid-call and
// always sees the same values.
type Snapshot struct {
	joypad [MaxPorts][joypadButtons]int16
}

// Value returns the state for a (port, device, index, id) tuple. Untracked
// combinations read as 0 rather than failing; cores probe devices the host
// never populates and expect a released value back.
func (s *Snapshot) Value(port, device, index, id uint32) int16 {
	if s == nil || device != DeviceJoypad || index != 0 {
		return 0
	}
	if port >= MaxPorts || id >= joypadButtons {
		return 0
	}
	return s.joypad[port][id]
}

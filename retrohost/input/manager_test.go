package input

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/retrohost/go-retrohost/retrohost/input/action"
	"github.com/retrohost/go-retrohost/retrohost/input/event"
)

func TestPadActionsUpdateSnapshot(t *testing.T) {
	m := NewManager()
	m.Trigger(action.PadA, event.Press)
	m.Trigger(action.PadUp, event.Press)

	s := m.Freeze()
	assert.Equal(t, int16(1), s.Value(0, DeviceJoypad, 0, JoypadA))
	assert.Equal(t, int16(1), s.Value(0, DeviceJoypad, 0, JoypadUp))
	assert.Equal(t, int16(0), s.Value(0, DeviceJoypad, 0, JoypadB))

	m.Trigger(action.PadA, event.Release)
	assert.Equal(t, int16(0), m.Freeze().Value(0, DeviceJoypad, 0, JoypadA))
}

func TestSnapshotIsFrozen(t *testing.T) {
	m := NewManager()
	m.Trigger(action.PadStart, event.Press)
	s := m.Freeze()

	// state changes after freezing must not show up in the old snapshot
	m.Trigger(action.PadStart, event.Release)
	assert.Equal(t, int16(1), s.Value(0, DeviceJoypad, 0, JoypadStart))
}

func TestUntrackedCombinationsReadZero(t *testing.T) {
	m := NewManager()
	m.Trigger(action.PadA, event.Press)
	s := m.Freeze()

	assert.Equal(t, int16(0), s.Value(99, DeviceJoypad, 0, JoypadA), "port out of range")
	assert.Equal(t, int16(0), s.Value(0, 5, 0, JoypadA), "unknown device")
	assert.Equal(t, int16(0), s.Value(0, DeviceJoypad, 1, JoypadA), "nonzero index")
	assert.Equal(t, int16(0), s.Value(0, DeviceJoypad, 0, 500), "id out of range")

	var nilSnap *Snapshot
	assert.Equal(t, int16(0), nilSnap.Value(0, DeviceJoypad, 0, JoypadA))
}

func TestHostActionsDispatchHandlers(t *testing.T) {
	m := NewManager()
	fired := 0
	m.On(action.HostSaveState, event.Press, func() { fired++ })

	m.Trigger(action.HostSaveState, event.Press)
	m.Trigger(action.HostSaveState, event.Release)
	assert.Equal(t, 1, fired, "only the registered event type fires")

	// host actions never leak into pad state
	assert.Equal(t, int16(0), m.Freeze().Value(0, DeviceJoypad, 0, JoypadB))
}

func TestReleaseAll(t *testing.T) {
	m := NewManager()
	m.SetButton(1, JoypadL, true)
	m.ReleaseAll()
	assert.Equal(t, int16(0), m.Freeze().Value(1, DeviceJoypad, 0, JoypadL))
}

package terminal

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/retrohost/go-retrohost/retrohost/backend"
	"github.com/retrohost/go-retrohost/retrohost/input"
	"github.com/retrohost/go-retrohost/retrohost/input/action"
	"github.com/retrohost/go-retrohost/retrohost/input/event"
)

// keyTestBackend builds a backend ready for key handling without a screen.
func keyTestBackend() *Backend {
	return &Backend{
		keyMap:     input.DefaultKeyMap,
		keyStates:  make(map[action.Action]time.Time),
		activeKeys: make(map[action.Action]bool),
	}
}

func TestSpaceKeyPressesSelect(t *testing.T) {
	b := keyTestBackend()
	b.processKeyEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), time.Now())

	_, held := b.keyStates[action.PadSelect]
	assert.True(t, held, "space maps to the Select binding")
}

func TestLetterKeysMapToPad(t *testing.T) {
	b := keyTestBackend()
	now := time.Now()
	b.processKeyEvent(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), now)
	b.processKeyEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), now)

	_, a := b.keyStates[action.PadA]
	_, start := b.keyStates[action.PadStart]
	assert.True(t, a)
	assert.True(t, start)
	assert.Empty(t, b.eventQueue, "pad keys are tracked, not queued")
}

func TestUnboundRuneIgnored(t *testing.T) {
	b := keyTestBackend()
	b.processKeyEvent(tcell.NewEventKey(tcell.KeyRune, '!', tcell.ModNone), time.Now())
	assert.Empty(t, b.keyStates)
	assert.Empty(t, b.eventQueue)
}

func TestHostKeysQueuePressEvents(t *testing.T) {
	b := keyTestBackend()
	now := time.Now()
	b.processKeyEvent(tcell.NewEventKey(tcell.KeyF2, 0, tcell.ModNone), now)
	b.processKeyEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), now)

	assert.Equal(t, []backend.InputEvent{
		{Action: action.HostSaveState, Type: event.Press},
		{Action: action.HostQuit, Type: event.Press},
	}, b.eventQueue)
	assert.False(t, b.running, "quit stops the backend")
}

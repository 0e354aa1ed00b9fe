package input

import "github.com/retrohost/go-retrohost/retrohost/input/action"

// DefaultKeyMap provides default key mappings that work across backends.
// Backends can use these as a base; the config layer may override the pad
// bindings (RetroArch-style input_player1_* keys).
var DefaultKeyMap = map[string]action.Action{
	// RetroPad, player 1
	"a":     action.PadA,
	"s":     action.PadB,
	"z":     action.PadX,
	"x":     action.PadY,
	"q":     action.PadL,
	"w":     action.PadR,
	"Up":    action.PadUp,
	"Down":  action.PadDown,
	"Left":  action.PadLeft,
	"Right": action.PadRight,
	"Space": action.PadSelect,
	"Enter": action.PadStart,

	// Frontend controls
	"Escape": action.HostQuit,
	"h":      action.HostReset,
	"p":      action.HostPauseToggle,
	"F2":     action.HostSaveState,
	"F4":     action.HostLoadState,
	"F6":     action.HostSlotDecrease,
	"F7":     action.HostSlotIncrease,
	"F8":     action.HostSnapshot,
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}

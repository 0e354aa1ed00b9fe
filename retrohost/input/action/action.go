package action

// Action represents input actions that can be performed in the frontend
type Action int

const (
	// RetroPad controls, forwarded to the loaded core
	PadB Action = iota
	PadY
	PadSelect
	PadStart
	PadUp
	PadDown
	PadLeft
	PadRight
	PadA
	PadX
	PadL
	PadR
	PadL2
	PadR2
	PadL3
	PadR3

	// Frontend features
	HostQuit
	HostReset
	HostPauseToggle
	HostSnapshot
	HostSaveState
	HostLoadState
	HostSlotIncrease
	HostSlotDecrease
)

// IsPad reports whether the action maps to a RetroPad button rather than a
// frontend hotkey.
func (a Action) IsPad() bool {
	return a >= PadB && a <= PadR3
}

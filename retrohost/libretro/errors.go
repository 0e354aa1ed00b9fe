package libretro

import (
	"errors"
	"fmt"
)

// ErrCoreNotFound wraps the platform loader's failure to locate or open the
// core library.
var ErrCoreNotFound = errors.New("core library not found")

// MissingSymbolError is returned when a required export is absent. Binding
// fails on the first missing symbol; no partial function table is ever
// handed out.
type MissingSymbolError struct {
	Symbol string
}

func (e *MissingSymbolError) Error() string {
	return fmt.Sprintf("core is missing required symbol %q", e.Symbol)
}

// VersionMismatchError is returned when retro_api_version reports an
// unsupported API version. No lifecycle call is attempted on such a core.
type VersionMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("core implements libretro API v%d, host supports v%d", e.Actual, e.Expected)
}

// ErrSerializationUnsupported is returned by SaveState when the core reports
// a zero serialization size. Such cores cannot produce save states.
var ErrSerializationUnsupported = errors.New("core does not support serialization")

// GameLoadError reports that the core rejected the content. The session
// stays at Initialized and remains usable.
type GameLoadError struct {
	Path string
}

func (e *GameLoadError) Error() string {
	return fmt.Sprintf("core failed to load content %q", e.Path)
}

// StateError reports an operation attempted in a lifecycle state that does
// not allow it.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s in session state %s", e.Op, e.State)
}

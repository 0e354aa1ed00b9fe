package libretro

import (
	"runtime"
	"testing"
	"unsafe"
)

// Handlers receive payload addresses stripped of pointer type, exactly as
// real cores hand over C memory. Storage backing a bare integer address is
// invisible to the runtime and must not move while a handler writes through
// it, so every payload a test passes by address is pinned first.

// pinned pins v for the test's lifetime and returns its address.
func pinned[T any](t *testing.T, v *T) uintptr {
	t.Helper()
	var pin runtime.Pinner
	pin.Pin(v)
	t.Cleanup(pin.Unpin)
	return uintptr(unsafe.Pointer(v))
}

// pinnedSlice pins a slice's backing array and returns its base address.
func pinnedSlice[T any](t *testing.T, s []T) uintptr {
	t.Helper()
	var pin runtime.Pinner
	pin.Pin(&s[0])
	t.Cleanup(pin.Unpin)
	return uintptr(unsafe.Pointer(&s[0]))
}

// pinnedCString copies s into pinned NUL-terminated storage.
func pinnedCString(t *testing.T, s string) uintptr {
	t.Helper()
	ptr, buf := cString(s)
	_ = pinnedSlice(t, buf)
	return ptr
}

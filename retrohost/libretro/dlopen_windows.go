//go:build windows

package libretro

import "golang.org/x/sys/windows"

func platformOpenLibrary(path string) (uintptr, error) {
	handle, err := windows.LoadLibrary(path)
	return uintptr(handle), err
}

func platformLookupSymbol(lib uintptr, name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(lib), name)
}

func platformCloseLibrary(lib uintptr) error {
	return windows.FreeLibrary(windows.Handle(lib))
}

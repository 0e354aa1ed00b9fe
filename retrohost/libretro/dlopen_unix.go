//go:build darwin || freebsd || linux

package libretro

import "github.com/ebitengine/purego"

func platformOpenLibrary(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

func platformLookupSymbol(lib uintptr, name string) (uintptr, error) {
	return purego.Dlsym(lib, name)
}

func platformCloseLibrary(lib uintptr) error {
	return purego.Dlclose(lib)
}

package libretro

import "unsafe"

// C-layout records exchanged with a core. Field order and types mirror
// libretro.h; pointers are held as uintptr because the referenced memory is
// owned by whichever side constructed the record and is only valid for the
// current call.

// retro_game_info
type gameInfoRecord struct {
	path uintptr // const char *
	data uintptr // const void *
	size uintptr // size_t
	meta uintptr // const char *
}

// retro_system_info
type systemInfoRecord struct {
	libraryName     uintptr
	libraryVersion  uintptr
	validExtensions uintptr
	needFullpath    bool
	blockExtract    bool
}

// retro_game_geometry
type geometryRecord struct {
	baseWidth   uint32
	baseHeight  uint32
	maxWidth    uint32
	maxHeight   uint32
	aspectRatio float32
}

// retro_system_timing
type timingRecord struct {
	fps        float64
	sampleRate float64
}

// retro_system_av_info
type avInfoRecord struct {
	geometry geometryRecord
	timing   timingRecord
}

// retro_variable
type variableRecord struct {
	key   uintptr
	value uintptr
}

// retro_message
type messageRecord struct {
	msg    uintptr
	frames uint32
}

// cString returns a NUL-terminated copy of s plus the backing slice. The
// caller must keep the slice reachable for as long as the core may read the
// pointer.
func cString(s string) (uintptr, []byte) {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return uintptr(unsafe.Pointer(&b[0])), b
}

// uintptrOf returns the address of a slice's first byte.
func uintptrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

// goString copies a NUL-terminated C string into a Go string. A zero
// pointer reads as "".
func goString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	var n int
	for *(*byte)(unsafe.Pointer(ptr + uintptr(n))) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
}

// byteView reinterprets core-owned memory as a byte slice. The view is only
// valid until the current callback or call returns; callers copy, never
// retain.
func byteView(ptr uintptr, n int) []byte {
	if ptr == 0 || n <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n)
}

// int16View reinterprets core-owned memory as an int16 slice, same validity
// rules as byteView.
func int16View(ptr uintptr, n int) []int16 {
	if ptr == 0 || n <= 0 {
		return nil
	}
	return unsafe.Slice((*int16)(unsafe.Pointer(ptr)), n)
}

func (r geometryRecord) decode() Geometry {
	return Geometry{
		BaseWidth:   r.baseWidth,
		BaseHeight:  r.baseHeight,
		MaxWidth:    r.maxWidth,
		MaxHeight:   r.maxHeight,
		AspectRatio: r.aspectRatio,
	}
}

func (r avInfoRecord) decode() AVInfo {
	return AVInfo{
		Geometry: r.geometry.decode(),
		Timing:   Timing{FPS: r.timing.fps, SampleRate: r.timing.sampleRate},
	}
}

func (r systemInfoRecord) decode() SystemInfo {
	return SystemInfo{
		LibraryName:     goString(r.libraryName),
		LibraryVersion:  goString(r.libraryVersion),
		ValidExtensions: goString(r.validExtensions),
		NeedFullPath:    r.needFullpath,
		BlockExtract:    r.blockExtract,
	}
}

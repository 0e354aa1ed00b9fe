package libretro

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// requiredSymbols is the fixed set of exports every core must provide.
// Binding resolves all of them before any call is made.
var requiredSymbols = []string{
	"retro_api_version",
	"retro_init",
	"retro_deinit",
	"retro_reset",
	"retro_run",
	"retro_set_environment",
	"retro_set_video_refresh",
	"retro_set_audio_sample",
	"retro_set_audio_sample_batch",
	"retro_set_input_poll",
	"retro_set_input_state",
	"retro_load_game",
	"retro_load_game_special",
	"retro_unload_game",
	"retro_serialize_size",
	"retro_serialize",
	"retro_unserialize",
	"retro_cheat_reset",
	"retro_cheat_set",
	"retro_get_region",
	"retro_get_memory_data",
	"retro_get_memory_size",
	"retro_get_system_info",
	"retro_get_system_av_info",
	"retro_set_controller_port_device",
}

// Loader hooks, indirected so tests can bind an in-process fake module. The
// defaults are the platform dynamic loader.
var (
	openLibrary  = platformOpenLibrary
	lookupSymbol = platformLookupSymbol
	closeLibrary = platformCloseLibrary
)

// ModuleHandle is the exclusive owner of the loaded library. Every function
// pointer bound from it is valid only while the handle stays open; Close is
// only legal once the session has reached Unloading, since callbacks
// originate from code the handle owns.
type ModuleHandle struct {
	lib    uintptr
	path   string
	closed bool
}

// Path returns the filesystem path the module was loaded from.
func (h *ModuleHandle) Path() string { return h.path }

// Close releases the library. The owning ForeignCore must not be used
// afterwards.
func (h *ModuleHandle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	return closeLibrary(h.lib)
}

// ForeignCore is the one production implementation of Core: a function table
// bound to a real dynamic library via purego.
type ForeignCore struct {
	handle *ModuleHandle

	apiVersion func() uint32

	coreInit   func()
	coreDeinit func()
	coreReset  func()
	coreRun    func()

	setEnvironment      func(cb uintptr)
	setVideoRefresh     func(cb uintptr)
	setAudioSample      func(cb uintptr)
	setAudioSampleBatch func(cb uintptr)
	setInputPoll        func(cb uintptr)
	setInputState       func(cb uintptr)

	loadGame        func(info uintptr) bool
	loadGameSpecial func(kind uint32, info uintptr, num uintptr) bool
	unloadGame      func()

	serializeSize func() uintptr
	serialize     func(data uintptr, size uintptr) bool
	unserialize   func(data uintptr, size uintptr) bool

	cheatReset func()
	cheatSet   func(index uint32, enabled bool, code uintptr)

	getRegion     func() uint32
	getMemoryData func(id uint32) uintptr
	getMemorySize func(id uint32) uintptr

	getSystemInfo   func(info uintptr)
	getSystemAVInfo func(info uintptr)

	setControllerPortDevice func(port, device uint32)
}

var _ Core = (*ForeignCore)(nil)

// Bind loads the dynamic library at path and binds the full function table.
// It fails fast: the first missing symbol aborts the bind, and a core
// reporting an unsupported API version is rejected before any lifecycle call.
func Bind(path string) (*ForeignCore, error) {
	lib, err := openLibrary(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCoreNotFound, path, err)
	}

	addrs := make(map[string]uintptr, len(requiredSymbols))
	for _, symbol := range requiredSymbols {
		addr, err := lookupSymbol(lib, symbol)
		if err != nil {
			closeLibrary(lib)
			return nil, &MissingSymbolError{Symbol: symbol}
		}
		addrs[symbol] = addr
	}

	c := &ForeignCore{handle: &ModuleHandle{lib: lib, path: path}}

	// version gate first; calling retro_api_version is safe pre-init by API
	// contract, and a rejected core never gets a function table
	purego.RegisterFunc(&c.apiVersion, addrs["retro_api_version"])
	if actual := c.apiVersion(); actual != APIVersion {
		closeLibrary(lib)
		return nil, &VersionMismatchError{Expected: APIVersion, Actual: actual}
	}

	purego.RegisterFunc(&c.coreInit, addrs["retro_init"])
	purego.RegisterFunc(&c.coreDeinit, addrs["retro_deinit"])
	purego.RegisterFunc(&c.coreReset, addrs["retro_reset"])
	purego.RegisterFunc(&c.coreRun, addrs["retro_run"])
	purego.RegisterFunc(&c.setEnvironment, addrs["retro_set_environment"])
	purego.RegisterFunc(&c.setVideoRefresh, addrs["retro_set_video_refresh"])
	purego.RegisterFunc(&c.setAudioSample, addrs["retro_set_audio_sample"])
	purego.RegisterFunc(&c.setAudioSampleBatch, addrs["retro_set_audio_sample_batch"])
	purego.RegisterFunc(&c.setInputPoll, addrs["retro_set_input_poll"])
	purego.RegisterFunc(&c.setInputState, addrs["retro_set_input_state"])
	purego.RegisterFunc(&c.loadGame, addrs["retro_load_game"])
	purego.RegisterFunc(&c.loadGameSpecial, addrs["retro_load_game_special"])
	purego.RegisterFunc(&c.unloadGame, addrs["retro_unload_game"])
	purego.RegisterFunc(&c.serializeSize, addrs["retro_serialize_size"])
	purego.RegisterFunc(&c.serialize, addrs["retro_serialize"])
	purego.RegisterFunc(&c.unserialize, addrs["retro_unserialize"])
	purego.RegisterFunc(&c.cheatReset, addrs["retro_cheat_reset"])
	purego.RegisterFunc(&c.cheatSet, addrs["retro_cheat_set"])
	purego.RegisterFunc(&c.getRegion, addrs["retro_get_region"])
	purego.RegisterFunc(&c.getMemoryData, addrs["retro_get_memory_data"])
	purego.RegisterFunc(&c.getMemorySize, addrs["retro_get_memory_size"])
	purego.RegisterFunc(&c.getSystemInfo, addrs["retro_get_system_info"])
	purego.RegisterFunc(&c.getSystemAVInfo, addrs["retro_get_system_av_info"])
	purego.RegisterFunc(&c.setControllerPortDevice, addrs["retro_set_controller_port_device"])
	return c, nil
}

// Handle exposes the module handle so its owner can release it after
// teardown.
func (c *ForeignCore) Handle() *ModuleHandle { return c.handle }

func (c *ForeignCore) APIVersion() uint32 { return c.apiVersion() }

func (c *ForeignCore) SetEnvironment(fn EnvironmentFunc) {
	c.setEnvironment(environmentTrampoline(fn))
}

func (c *ForeignCore) SetVideoRefresh(fn VideoRefreshFunc) {
	c.setVideoRefresh(videoRefreshTrampoline(fn))
}

func (c *ForeignCore) SetAudioSample(fn AudioSampleFunc) {
	c.setAudioSample(audioSampleTrampoline(fn))
}

func (c *ForeignCore) SetAudioSampleBatch(fn AudioSampleBatchFunc) {
	c.setAudioSampleBatch(audioSampleBatchTrampoline(fn))
}

func (c *ForeignCore) SetInputPoll(fn InputPollFunc) {
	c.setInputPoll(inputPollTrampoline(fn))
}

func (c *ForeignCore) SetInputState(fn InputStateFunc) {
	c.setInputState(inputStateTrampoline(fn))
}

func (c *ForeignCore) Init()   { c.coreInit() }
func (c *ForeignCore) Deinit() { c.coreDeinit() }
func (c *ForeignCore) Reset()  { c.coreReset() }
func (c *ForeignCore) Run()    { c.coreRun() }

func (c *ForeignCore) LoadGame(game GameDescriptor) bool {
	record, pins := marshalGameInfo(game)
	ok := c.loadGame(uintptr(unsafe.Pointer(record)))
	runtime.KeepAlive(pins)
	runtime.KeepAlive(record)
	return ok
}

func (c *ForeignCore) LoadGameSpecial(kind uint32, game GameDescriptor) bool {
	record, pins := marshalGameInfo(game)
	ok := c.loadGameSpecial(kind, uintptr(unsafe.Pointer(record)), 1)
	runtime.KeepAlive(pins)
	runtime.KeepAlive(record)
	return ok
}

func (c *ForeignCore) UnloadGame() { c.unloadGame() }

func (c *ForeignCore) SerializeSize() uint64 { return uint64(c.serializeSize()) }

func (c *ForeignCore) Serialize(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	ok := c.serialize(uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	runtime.KeepAlive(buf)
	return ok
}

func (c *ForeignCore) Unserialize(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	ok := c.unserialize(uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	runtime.KeepAlive(buf)
	return ok
}

func (c *ForeignCore) CheatReset() { c.cheatReset() }

func (c *ForeignCore) CheatSet(index uint32, enabled bool, code string) {
	ptr, pin := cString(code)
	c.cheatSet(index, enabled, ptr)
	runtime.KeepAlive(pin)
}

func (c *ForeignCore) Region() uint32 { return c.getRegion() }

func (c *ForeignCore) MemoryData(id uint32) uintptr { return c.getMemoryData(id) }

func (c *ForeignCore) MemorySize(id uint32) uint64 { return uint64(c.getMemorySize(id)) }

func (c *ForeignCore) SystemInfo() SystemInfo {
	var record systemInfoRecord
	c.getSystemInfo(uintptr(unsafe.Pointer(&record)))
	info := record.decode()
	runtime.KeepAlive(&record)
	return info
}

func (c *ForeignCore) SystemAVInfo() AVInfo {
	var record avInfoRecord
	c.getSystemAVInfo(uintptr(unsafe.Pointer(&record)))
	info := record.decode()
	runtime.KeepAlive(&record)
	return info
}

func (c *ForeignCore) SetControllerPortDevice(port, device uint32) {
	c.setControllerPortDevice(port, device)
}

// marshalGameInfo builds the C-layout retro_game_info for a descriptor. The
// returned pins keep every referenced buffer reachable; callers hold them
// alive across the foreign call and no longer — the core must copy anything
// it wants to keep.
func marshalGameInfo(game GameDescriptor) (*gameInfoRecord, [][]byte) {
	var pins [][]byte
	record := &gameInfoRecord{}

	if game.Path != "" {
		ptr, pin := cString(game.Path)
		record.path = ptr
		pins = append(pins, pin)
	}
	if len(game.Data) > 0 {
		record.data = uintptr(unsafe.Pointer(&game.Data[0]))
		record.size = uintptr(len(game.Data))
		pins = append(pins, game.Data)
	}
	if game.Meta != "" {
		ptr, pin := cString(game.Meta)
		record.meta = ptr
		pins = append(pins, pin)
	}
	return record, pins
}

package libretro

// APIVersion is the libretro API version this host implements. A core
// reporting anything else is rejected at bind time.
const APIVersion = 1

// Environment command ids (RETRO_ENVIRONMENT_*). The command space is open
// ended: ids not listed here are refused with a diagnostic, never treated as
// an error.
const (
	EnvSetRotation          uint32 = 1
	EnvGetOverscan          uint32 = 2
	EnvGetCanDupe           uint32 = 3
	EnvSetMessage           uint32 = 6
	EnvShutdown             uint32 = 7
	EnvSetPerformanceLevel  uint32 = 8
	EnvGetSystemDirectory   uint32 = 9
	EnvSetPixelFormat       uint32 = 10
	EnvSetInputDescriptors  uint32 = 11
	EnvGetVariable          uint32 = 15
	EnvSetVariables         uint32 = 16
	EnvGetVariableUpdate    uint32 = 17
	EnvSetSupportNoGame     uint32 = 18
	EnvGetLogInterface      uint32 = 27
	EnvGetSaveDirectory     uint32 = 31
	EnvSetSystemAVInfo      uint32 = 32
	EnvSetGeometry          uint32 = 37
	EnvGetUsername          uint32 = 38
)

// Memory region ids (RETRO_MEMORY_*), for retro_get_memory_data/size.
const (
	MemorySaveRAM   uint32 = 0
	MemoryRTC       uint32 = 1
	MemorySystemRAM uint32 = 2
	MemoryVideoRAM  uint32 = 3
)

// Region values returned by retro_get_region.
const (
	RegionNTSC uint32 = 0
	RegionPAL  uint32 = 1
)

// DeviceJoypad is the controller class plugged into every port after a game
// loads, matching RETRO_DEVICE_JOYPAD.
const DeviceJoypad uint32 = 1

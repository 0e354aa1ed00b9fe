package libretro

import (
	"unsafe"

	"github.com/retrohost/go-retrohost/retrohost/events"
	"github.com/retrohost/go-retrohost/retrohost/video"
)

// envHandler decodes one command's payload and writes its response. Handlers
// must not block or perform I/O that could re-enter the core: they only
// mutate session state and write through the caller-supplied pointer.
type envHandler func(s *Session, data uintptr) bool

// envHandlers maps command ids to handlers. Commands absent from the table
// hit the default arm in handleEnvironment: a diagnostic event and false.
var envHandlers = map[uint32]envHandler{
	EnvGetCanDupe:          envGetCanDupe,
	EnvSetPixelFormat:      envSetPixelFormat,
	EnvGetSystemDirectory:  envGetSystemDirectory,
	EnvGetSaveDirectory:    envGetSaveDirectory,
	EnvGetUsername:         envGetUsername,
	EnvGetVariable:         envGetVariable,
	EnvGetVariableUpdate:   envGetVariableUpdate,
	EnvSetVariables:        envSetVariables,
	EnvSetMessage:          envSetMessage,
	EnvSetRotation:         envSetRotation,
	EnvSetPerformanceLevel: envSetPerformanceLevel,
	EnvSetSupportNoGame:    envSetSupportNoGame,
	EnvSetGeometry:         envSetGeometry,
	EnvSetSystemAVInfo:     envSetSystemAVInfo,
	EnvShutdown:            envShutdown,
}

// handleEnvironment is the single reentrant environment callback. The core
// may invoke it at any point after registration, including from inside
// retro_init and retro_run.
func (s *Session) handleEnvironment(cmd uint32, data uintptr) bool {
	if handler, ok := envHandlers[cmd]; ok {
		return handler(s, data)
	}
	// unsupported commands are a normal occurrence, not an error
	s.bus.Publish(events.Event{Type: events.UnsupportedEnvCommand, Command: cmd})
	s.log.Debug("unsupported environment command", "command", cmd)
	return false
}

// envGetCanDupe declares that the host supports the null-buffer
// "repeat last frame" protocol.
func envGetCanDupe(s *Session, data uintptr) bool {
	if data == 0 {
		return false
	}
	*(*bool)(unsafe.Pointer(data)) = true
	return true
}

// envSetPixelFormat negotiates the frame buffer encoding. An unrecognized
// format is refused; the core is expected to fall back or fail its own load.
func envSetPixelFormat(s *Session, data uintptr) bool {
	if data == 0 {
		return false
	}
	format := video.PixelFormat(*(*uint32)(unsafe.Pointer(data)))
	if !format.Valid() {
		s.log.Warn("core requested unknown pixel format", "format", uint32(format))
		return false
	}
	s.pixelFormat = format
	s.bus.Publish(events.Event{Type: events.PixelFormatChanged, Text: format.String()})
	return true
}

func envGetSystemDirectory(s *Session, data uintptr) bool {
	if data == 0 || s.systemDir == "" {
		return false
	}
	*(*uintptr)(unsafe.Pointer(data)) = s.pin(s.systemDir)
	return true
}

func envGetSaveDirectory(s *Session, data uintptr) bool {
	if data == 0 || s.saveDir == "" {
		return false
	}
	*(*uintptr)(unsafe.Pointer(data)) = s.pin(s.saveDir)
	return true
}

func envGetUsername(s *Session, data uintptr) bool {
	if data == 0 || s.username == "" {
		return false
	}
	*(*uintptr)(unsafe.Pointer(data)) = s.pin(s.username)
	return true
}

// envGetVariable answers a core option lookup from the config layer. False
// tells the core to use its own default.
func envGetVariable(s *Session, data uintptr) bool {
	if data == 0 || s.options == nil {
		return false
	}
	record := (*variableRecord)(unsafe.Pointer(data))
	key := goString(record.key)
	value, ok := s.options.Option(key)
	if !ok {
		return false
	}
	record.value = s.pin(value)
	s.log.Debug("core option", "key", key, "value", value)
	return true
}

// envGetVariableUpdate: the host never changes options mid-session.
func envGetVariableUpdate(s *Session, data uintptr) bool {
	if data != 0 {
		*(*bool)(unsafe.Pointer(data)) = false
	}
	return false
}

// envSetVariables receives the core's option declarations: an array of
// {key, description} pairs terminated by a null key. The host records them
// for diagnostics; values are answered later via GET_VARIABLE.
func envSetVariables(s *Session, data uintptr) bool {
	if data == 0 {
		return false
	}
	for record := (*variableRecord)(unsafe.Pointer(data)); record.key != 0; {
		s.log.Debug("core declares option", "key", goString(record.key), "values", goString(record.value))
		record = (*variableRecord)(unsafe.Pointer(uintptr(unsafe.Pointer(record)) + unsafe.Sizeof(variableRecord{})))
	}
	return true
}

func envSetMessage(s *Session, data uintptr) bool {
	if data == 0 {
		return false
	}
	record := (*messageRecord)(unsafe.Pointer(data))
	text := goString(record.msg)
	s.bus.Publish(events.Event{Type: events.CoreMessage, Text: text})
	s.log.Info("core message", "text", text, "frames", record.frames)
	return true
}

// envSetRotation accepts the request: the host rotates the presented frame,
// so the core keeps rendering unrotated.
func envSetRotation(s *Session, data uintptr) bool {
	if data == 0 {
		return false
	}
	s.rotation = *(*uint32)(unsafe.Pointer(data)) % 4
	return true
}

func envSetPerformanceLevel(s *Session, data uintptr) bool {
	if data == 0 {
		return false
	}
	s.performanceLevel = *(*uint32)(unsafe.Pointer(data))
	return true
}

func envSetSupportNoGame(s *Session, data uintptr) bool {
	if data == 0 {
		return false
	}
	s.supportsNoGame = *(*bool)(unsafe.Pointer(data))
	return true
}

func envSetGeometry(s *Session, data uintptr) bool {
	if data == 0 {
		return false
	}
	s.avInfo.Geometry = (*geometryRecord)(unsafe.Pointer(data)).decode()
	s.bus.Publish(events.Event{Type: events.GeometryChanged})
	return true
}

func envSetSystemAVInfo(s *Session, data uintptr) bool {
	if data == 0 {
		return false
	}
	s.avInfo = (*avInfoRecord)(unsafe.Pointer(data)).decode()
	s.bus.Publish(events.Event{Type: events.GeometryChanged})
	return true
}

func envShutdown(s *Session, data uintptr) bool {
	s.shutdown = true
	s.bus.Publish(events.Event{Type: events.ShutdownRequest})
	return true
}

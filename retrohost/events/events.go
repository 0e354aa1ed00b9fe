// Package events carries structured diagnostics out of the core integration
// layer. The layer itself never logs or blocks; it publishes events that the
// frontend drains once per frame and forwards to its logger.
package events

// Type identifies the kind of host event.
type Type int

const (
	UnsupportedEnvCommand Type = iota // core issued an environment command the host refuses
	PixelFormatChanged
	GeometryChanged
	CoreMessage      // SET_MESSAGE text the core wants shown to the user
	ShutdownRequest  // core asked the frontend to exit
	GameLoadFailed   // retro_load_game returned false
	StateTransition  // session moved between lifecycle states
	DuplicateFrame   // core signaled a repeated frame via a null buffer
)

// Event is a single diagnostic record emitted by the core layer.
type Event struct {
	Type    Type
	Command uint32 // environment command id, when relevant
	Text    string
}

// Bus is a bounded, non-blocking event queue. Publishing never blocks the
// callback that produced the event: when the buffer is full the event is
// dropped, since diagnostics must never stall a reentrant core callback.
type Bus struct {
	events chan Event
}

// NewBus creates an event bus with the given buffer size.
func NewBus(bufferSize int) *Bus {
	return &Bus{events: make(chan Event, bufferSize)}
}

// Publish enqueues an event, dropping it if the buffer is full.
func (b *Bus) Publish(e Event) {
	select {
	case b.events <- e:
	default:
	}
}

// Drain returns all currently queued events without blocking.
func (b *Bus) Drain() []Event {
	var out []Event
	for {
		select {
		case e := <-b.events:
			out = append(out, e)
		default:
			return out
		}
	}
}

// Pending returns the number of queued events.
func (b *Bus) Pending() int {
	return len(b.events)
}

func (t Type) String() string {
	switch t {
	case UnsupportedEnvCommand:
		return "unsupported_env_command"
	case PixelFormatChanged:
		return "pixel_format_changed"
	case GeometryChanged:
		return "geometry_changed"
	case CoreMessage:
		return "core_message"
	case ShutdownRequest:
		return "shutdown_request"
	case GameLoadFailed:
		return "game_load_failed"
	case StateTransition:
		return "state_transition"
	case DuplicateFrame:
		return "duplicate_frame"
	}
	return "unknown"
}

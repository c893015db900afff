package window

// EventType enumerates the toolkit notifications the registry understands.
type EventType int

const (
	EventUnknown EventType = iota
	EventResize
	EventClose
)

func (t EventType) String() string {
	switch t {
	case EventResize:
		return "resize"
	case EventClose:
		return "close"
	default:
		return "unknown"
	}
}

// Event is a pending notification for a single surface.
type Event struct {
	Type   EventType
	Width  int
	Height int
}

// Surface is the native half of a window, owned by the toolkit that created it.
type Surface interface {
	// Events drains notifications queued since the previous call.
	Events() []Event
	// Present shows the current frame.
	Present() error
	// Destroy releases native resources. It must tolerate repeated calls.
	Destroy()
}

// Toolkit materializes native surfaces and drives the native event pump.
type Toolkit interface {
	Name() string
	CreateSurface(title string, width, height int) (Surface, error)
	// Pump processes pending native events once without blocking
	// indefinitely, queueing them on their surfaces.
	Pump()
}

// RemoveReason says why a window left the registry.
type RemoveReason string

const (
	ReasonDestroyed RemoveReason = "destroyed"
	ReasonClosed    RemoveReason = "closed"
)

// Observer is notified of registry membership changes.
type Observer interface {
	WindowCreated(info Info)
	WindowRemoved(info Info, reason RemoveReason)
}

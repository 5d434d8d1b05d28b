package player

import "time"

// EventKind identifies a lifecycle notification emitted by a Handle.
type EventKind int

const (
	EventLoadStart EventKind = iota
	EventLoadedMetadata
	EventCanPlay
	EventPlay
	EventPlaying
	EventPause
	EventTimeUpdate
	EventEnded
	EventError
)

var eventNames = [...]string{
	EventLoadStart:      "loadstart",
	EventLoadedMetadata: "loadedmetadata",
	EventCanPlay:        "canplay",
	EventPlay:           "play",
	EventPlaying:        "playing",
	EventPause:          "pause",
	EventTimeUpdate:     "timeupdate",
	EventEnded:          "ended",
	EventError:          "error",
}

// String returns the event name as the handle reports it.
func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

// ParseEventKind maps an event name back to its kind.
func ParseEventKind(name string) (EventKind, bool) {
	for i, n := range eventNames {
		if n == name {
			return EventKind(i), true
		}
	}
	return 0, false
}

// EventKinds returns every kind a Handle can emit, in declaration order.
func EventKinds() []EventKind {
	kinds := make([]EventKind, len(eventNames))
	for i := range eventNames {
		kinds[i] = EventKind(i)
	}
	return kinds
}

// Event is a single lifecycle notification together with the handle
// readout captured at the moment it fired.
type Event struct {
	Kind        EventKind
	Duration    float64 // seconds, 0 until metadata is known
	CurrentTime float64 // seconds
	Err         error   // set for EventError
	At          time.Time
}

// Listener receives events for the kind it was registered on.
type Listener func(Event)

// ListenerID identifies a registration so it can be removed later.
type ListenerID uint64

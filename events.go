package starbloom

import "time"

// EventType identifies an engine lifecycle event.
type EventType uint8

const (
	EventSceneChanged EventType = iota
	EventGateActivated
	EventGateReleased
	EventNarrationStarted
	EventNarrationEnded
	EventNarrationCanceled
	EventMediaError
	EventJourneyStarted
)

var eventTypeNames = [...]string{
	"scene-changed",
	"gate-activated",
	"gate-released",
	"narration-started",
	"narration-ended",
	"narration-canceled",
	"media-error",
	"journey-started",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// Event carries one engine lifecycle notification. Fields not relevant to
// the Type are zero.
type Event struct {
	Type   EventType
	Scene  Scene
	Gate   GateKind
	Offset float64
	Err    error
	// At is the engine clock when the event was emitted.
	At time.Duration
}

// EventSink receives engine events. The ecs package provides a donburi
// implementation.
type EventSink interface {
	EmitEvent(event Event)
}

// EventFunc adapts a function to EventSink.
type EventFunc func(Event)

// EmitEvent calls f(event).
func (f EventFunc) EmitEvent(event Event) { f(event) }

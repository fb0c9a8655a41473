package ecs

import (
	"github.com/phanxgames/starbloom"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EngineEventType is the Donburi event type for starbloom engine events.
// Subscribe to this in your ECS systems to receive gate, narration, and
// scene events.
var EngineEventType = events.NewEventType[starbloom.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Engine
// events are published to EngineEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) starbloom.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event starbloom.Event) {
	EngineEventType.Publish(s.world, event)
}

package ecs

import (
	"github.com/phanxgames/lattice"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type for lattice scene events.
// Subscribe to this in your ECS systems to react to roots spawning or
// failing and animations finishing.
var SceneEventType = events.NewEventType[lattice.SceneEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world. Scene
// events are published to SceneEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) lattice.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event lattice.SceneEvent) {
	SceneEventType.Publish(s.world, event)
}

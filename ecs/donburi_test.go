package ecs

import (
	"testing"

	"github.com/phanxgames/lattice"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if store == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []lattice.SceneEvent
	SceneEventType.Subscribe(world, func(w donburi.World, e lattice.SceneEvent) {
		received = append(received, e)
	})

	store.EmitEvent(lattice.SceneEvent{Type: lattice.EventRootSpawned})
	store.EmitEvent(lattice.SceneEvent{
		Type:      lattice.EventAnimationFinished,
		Animation: "fade_in",
	})

	// Events are queued; process them.
	SceneEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}

	if received[0].Type != lattice.EventRootSpawned {
		t.Errorf("event 0: %+v", received[0])
	}
	if received[1].Type != lattice.EventAnimationFinished || received[1].Animation != "fade_in" {
		t.Errorf("event 1: %+v", received[1])
	}
}

func TestDonburiStore_ImplementsEntityStore(t *testing.T) {
	world := donburi.NewWorld()
	var store lattice.EntityStore = NewDonburiStore(world)
	_ = store // compile-time interface check
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	SceneEventType.Subscribe(world, func(w donburi.World, e lattice.SceneEvent) {
		count1++
	})
	SceneEventType.Subscribe(world, func(w donburi.World, e lattice.SceneEvent) {
		count2++
	})

	store.EmitEvent(lattice.SceneEvent{Type: lattice.EventRootFailed})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

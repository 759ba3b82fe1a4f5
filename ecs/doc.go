// Package ecs provides ECS adapters for lattice's scene event system.
//
// The primary adapter is [NewDonburiStore], which bridges lattice scene
// events (root spawned/failed, animation finished) into a [Donburi] world as
// typed events. Subscribe to [SceneEventType] in your ECS systems to receive
// them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs

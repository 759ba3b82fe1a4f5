// Package lattice is a declarative 2D scene-layout and keyframe-animation
// engine for [Ebitengine].
//
// Layouts are authored as trees of nodes (images, text, nested sub-layouts,
// grouping nodes) in a resolution-independent coordinate space and spawned
// into a live mutable scene graph. The engine keeps per-node transforms,
// paint order, and screen-space bounding boxes consistent as the tree and
// its declared geometry change, and drives named keyframe animations over
// arbitrary, host-registered animatable properties.
//
// # Quick start
//
// Register assets, add a layout to a scene, and pump Update from your game
// loop:
//
//	assets := lattice.NewAssetLibrary()
//	assets.AddLayout("ui/menu.layout", menuLayout)
//	assets.AddImage("ui/button.png", buttonImage)
//
//	scene := lattice.NewScene(assets)
//	root := scene.AddLayout("ui/menu.layout")
//
//	// each frame:
//	scene.Update(dt)
//	scene.Draw(screen)
//
// The root spawns on the first Update after its full dependency closure has
// loaded. Navigate the live tree by authored ids and control animations by
// name:
//
//	if button := root.Node().Find("panel/start_button"); button != nil {
//		button.Play("pulse")
//	}
//
// # Extensibility
//
// Hosts animate their own properties by registering named types in a
// [Registry] before loading assets that reference them:
//
//	reg := lattice.NewRegistry(lattice.RegistryOptions{})
//	lattice.RegisterAnimationTarget[MyGlow](reg, "Glow")
//
// The registry decodes each named payload into its concrete type; the engine
// dispatches interpolation through the [AnimationTarget] interface without
// knowing the type at compile time. [RegistryOptions] can instead tolerate
// unknown names, round-tripping their payloads losslessly for tooling.
//
// Code-driven tweens over live-node geometry are available via [TweenGroup]
// (built on [gween]), opt-in pointer detection delivers hover and click
// transitions per node ([Node.OnInput], [Scene.ProcessInput]), and scene
// lifecycle events can be bridged into an ECS (via the [Donburi] adapter in
// lattice/ecs).
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package lattice

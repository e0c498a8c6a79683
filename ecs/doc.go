// Package ecs provides ECS adapters for strata layers.
//
// The primary adapter is [Publishing], which wraps a [strata.BackendFactory]
// so every camera, visibility and effect-parameter change of a layer is also
// published into a [Donburi] world as a typed event. Subscribe to
// [LayerEventType] in your ECS systems to receive them.
//
// Usage:
//
//	factory := ecs.Publishing(world, strata.RendererFactory)
//	scene, err := strata.NewScene(game, data, factory)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs

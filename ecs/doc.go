// Package ecs provides ECS adapters for starbloom's engine event system.
//
// The primary adapter is [NewDonburiSink], which bridges engine lifecycle
// events (scene changes, gate transitions, narration, media errors) into a
// [Donburi] world as typed events. Subscribe to [EngineEventType] in your
// ECS systems to receive them.
//
// Usage:
//
//	caps := starbloom.DetectCapabilities()
//	caps.Sink = ecs.NewDonburiSink(world)
//	engine := starbloom.New(cfg, caps)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs

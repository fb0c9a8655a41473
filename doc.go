// Package starbloom is a scroll-synchronized animated backdrop for
// [Ebitengine] stories.
//
// Starbloom paints a full-viewport background behind a long scrolling page
// and keeps it in step with the reader: the scene blends as sections pass,
// the pointer drives a gentle parallax, and a narration track can be played
// over ducked music while scrolling is briefly held.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop around a [Story]:
//
//	doc := starbloom.NewDocument(600,
//		starbloom.Section{Name: "night", Height: 1200, Scene: starbloom.SceneStars},
//		starbloom.Section{Name: "voice", Height: 1000, Scene: starbloom.SceneFlower, Narration: true},
//		starbloom.Section{Name: "end", Height: 900, Scene: starbloom.SceneHeart, End: true},
//	)
//	story := starbloom.NewStory(starbloom.DefaultConfig(), doc, starbloom.StoryOptions{})
//	starbloom.Run(story, starbloom.RunConfig{Title: "My Story", Width: 960, Height: 600})
//
// For full control, create an [Engine] yourself with [New], describe the
// host in [Capabilities], and drive it from your own loop:
//
//	engine := starbloom.New(cfg, caps)
//	engine.Initialize(cfg.Seed, size)
//	// each tick
//	engine.OnFrameTick(progress, pointer, now)
//	engine.Draw(surface)
//
// # Scenes
//
// Four scenes share one canvas: [SceneStars] (twinkling starfield with
// shooting stars), [SceneSakura] (a seeded, layered cherry-blossom forest
// with falling petals), [SceneFlower] (rising sparks over the petals) and
// [SceneHeart] (a beating heart). Each scene has its own weight; weights are
// smoothed independently toward 1 for the active scene and 0 for the rest, a
// fixed fraction per tick, and need not sum to one. Layers under a tiny
// weight are skipped.
//
// # Gates
//
// Two directional scroll locks hold the reader in place. The voice gate
// holds the narration section while the voice plays. The end lock holds the
// final section once it is mostly visible and the journey has started.
// Both pin forward scrolling back to the lock offset while leaving upward
// scrolling free; see [GateController].
//
// # Narration
//
// [Engine.TriggerNarration] ducks the music with a smoothstep ramp, plays
// the voice from the start, and restores the music when the voice ends.
// Leaving the narration section cancels everything immediately. Hosts that
// cannot mix quiet audio under a voice set
// [Capabilities.PauseMusicDuringNarration].
//
// # Drawing
//
// The compositor draws through the [Surface] interface. [ImageSurface]
// implements it on an ebiten image, batching fills into triangle draws.
//
// # Events
//
// Engine lifecycle events go to [Capabilities.Sink]. The ecs subpackage
// publishes them into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package starbloom

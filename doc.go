// Package glimmer animates a field of glowing particles that morphs between
// a rotating 3D tree and lines of text.
//
// A [Config] describes the states: one volumetric tree followed by any
// number of flat text silhouettes. [Rebuild] samples every state into target
// points for a viewport and creates a [Field] of particles bound to them.
// A [Renderer] owns the field and a [Scheduler] that cycles the states on a
// fixed dwell; every frame it pulls each particle toward its target, spins
// the tree around the Y axis, and draws the result with perspective onto a
// [Surface].
//
// # Quick start
//
// The simplest way to get a window is [Run]:
//
//	cfg, err := glimmer.LoadConfig("glimmer.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	r, err := glimmer.NewRenderer(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	glimmer.Run(r, glimmer.RunConfig{Title: "Season's Greetings", ShowFPS: true})
//
// # Surfaces
//
// The renderer only talks to the [Surface] interface. [EbitenSurface] batches
// particles into a single triangle draw per blend mode, [ImageSurface]
// rasterizes into an [image.RGBA] for headless capture, and the term
// subpackage draws with half-block characters in a terminal.
//
// # Configuration
//
// Configs load from YAML or TOML by extension and are decoded over
// [DefaultConfig], so a file only needs the fields it changes. [WatchConfig]
// follows a file on disk; pass the result to [Renderer.Reload] to rebuild the
// field without restarting.
//
// # Logging
//
// glimmer is silent by default. Install a [log/slog] logger with [SetLogger]
// to see rebuilds, state transitions and, with [Renderer.SetDebugMode],
// per-frame timings.
package glimmer

package glimmer

import (
	"math"
	"math/rand/v2"
)

// phaseRange is the spread of per-particle phases.
var phaseRange = Range{0, 100}

// Field is a complete, immutable-shape particle system for one viewport:
// the sampled targets and the particles bound to them. Particles are
// mutated by the frame loop; everything else is fixed once built.
type Field struct {
	Particles []Particle
	Targets   TargetSet
	States    []State
	Viewport  Size
	Config    Config

	shapePalette Palette
	textPalette  Palette
	background   Color
	noise        *NoiseField
}

// Rebuild samples every state for viewport and creates a fresh particle
// field. It has no side effects: callers publish the result by swapping
// their field reference. cfg must be valid (see Config.Validate).
//
// Particles start scattered over the viewport and in front of and behind
// the focal plane, so the first state assembles out of an explosion.
func Rebuild(cfg Config, states []State, viewport Size, rng *rand.Rand) *Field {
	cfg = cfg.Variant(viewport)

	// Palettes are validated with the config.
	shapePal, _ := ParsePalette(cfg.Palettes.Shape)
	textPal, _ := ParsePalette(cfg.Palettes.Text)
	bg, _ := parseHexColor(cfg.Background)

	f := &Field{
		Targets:      BuildTargets(states, cfg.sampler(rng), viewport),
		States:       states,
		Viewport:     viewport,
		Config:       cfg,
		shapePalette: shapePal,
		textPalette:  textPal,
		background:   bg,
	}
	if cfg.Noise.Enabled {
		f.noise = NewNoiseField(cfg.Noise.Amplitude, cfg.Noise.Frequency, cfg.Noise.Speed, rng.Int64())
	}

	var first State
	if len(states) > 0 {
		first = states[0]
	}
	pal := f.PaletteFor(first)

	w, h := float64(viewport.W), float64(viewport.H)
	spreadX := Range{-w / 2, w / 2}
	spreadY := Range{-h / 2, h / 2}
	spreadZ := Range{-cfg.Depth / 4, cfg.Depth / 2}
	size := Range{cfg.ParticleSize, cfg.ParticleSize + cfg.SizeJitter}

	f.Particles = make([]Particle, cfg.ParticleCount)
	for i := range f.Particles {
		start := Vec3{
			X: spreadX.Random(rng),
			Y: spreadY.Random(rng),
			Z: spreadZ.Random(rng),
		}
		f.Particles[i] = NewParticle(i, start, size.Random(rng), pal.Pick(rng), phaseRange.Random(rng))
	}
	return f
}

// PaletteFor returns the palette particles use while st is active.
func (f *Field) PaletteFor(st State) Palette {
	if st.Volumetric() {
		return f.shapePalette
	}
	return f.textPalette
}

// Recolor redraws every particle's color from the palette for st.
func (f *Field) Recolor(st State, rng *rand.Rand, fade float64) {
	pal := f.PaletteFor(st)
	for i := range f.Particles {
		f.Particles[i].Recolor(pal.Pick(rng), fade)
	}
}

// Center returns the screen position of the shape-local origin.
func (f *Field) Center() (float64, float64) {
	return f.Viewport.Center()
}

// Bounds returns the extent of a state's targets in shape-local space.
func (f *Field) Bounds(state string) (lo, hi Vec3) {
	pts := f.Targets[state]
	if len(pts) == 0 {
		return Origin, Origin
	}
	lo = Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi = Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range pts {
		lo = Vec3{min(lo.X, p.X), min(lo.Y, p.Y), min(lo.Z, p.Z)}
		hi = Vec3{max(hi.X, p.X), max(hi.Y, p.Y), max(hi.Z, p.Z)}
	}
	return lo, hi
}

package glimmer

import (
	"math"
)

// MinProjectedSize is the visibility floor for projected particle sizes.
// Particles that project at or below it are not drawn.
const MinProjectedSize = 0.1

// Wave is the per-particle sine/cosine drift that keeps a converged field
// alive. It is applied to the rendered position, not the eased one.
type Wave struct {
	// Amplitude in pixels.
	Amplitude float64
	// Frequency in radians per second.
	Frequency float64
}

// AnimationContext is the per-frame state every particle reads. It is built
// once per frame by the Renderer and passed by pointer; particles never
// modify it.
type AnimationContext struct {
	// Targets is the active state's target list.
	Targets []Vec3
	// Rotating is true while the active state is volumetric.
	Rotating bool
	// Angle is the global rotation about the vertical axis, in radians.
	Angle float64
	// Time is animation time in seconds.
	Time float64
	// DT is the time since the previous frame in seconds.
	DT float64
	// Rate is the per-frame easing fraction in (0, 1].
	Rate float64
	// FrameIndependent scales Rate by DT, normalized to 60 frames per second.
	FrameIndependent bool
	Wave             Wave
	Noise            *NoiseField
	// Depth is the perspective depth constant.
	Depth float64
	// CenterX and CenterY are the screen position of the shape-local origin.
	CenterX, CenterY float64
}

// Target resolves the target for the particle bound to index. Particle i
// targets Targets[i mod len(Targets)]; an empty list yields the origin.
func (c *AnimationContext) Target(index int) Vec3 {
	n := len(c.Targets)
	if n == 0 || index < 0 {
		return Origin
	}
	return c.Targets[index%n]
}

// rate returns the easing fraction for this frame. In frame-independent
// mode a frame with no elapsed time does not move.
func (c *AnimationContext) rate() float64 {
	if !c.FrameIndependent {
		return c.Rate
	}
	if c.DT <= 0 {
		return 0
	}
	return 1 - math.Pow(1-c.Rate, c.DT*60)
}

// Particle is one rendered agent. Its target index is fixed at construction,
// so it flies to the same slot of every state's target list.
type Particle struct {
	// X, Y and Z are the eased position in shape-local space.
	X, Y, Z float64
	// Size is the base radius before perspective.
	Size float64
	// Color is the current fill color.
	Color Color
	// Phase offsets this particle's wave and noise terms so neighbours
	// move independently. Each motion term multiplies or shifts it by its
	// own constant; reuse it rather than adding new random offsets.
	Phase float64

	targetIndex int
	fade        colorTween

	screenX, screenY, screenSize float64
	visible                      bool
}

// NewParticle creates a particle bound to targetIndex at position start.
func NewParticle(targetIndex int, start Vec3, size float64, c Color, phase float64) Particle {
	return Particle{
		X:           start.X,
		Y:           start.Y,
		Z:           start.Z,
		Size:        size,
		Color:       c,
		Phase:       phase,
		targetIndex: targetIndex,
	}
}

// TargetIndex returns the particle's permanent target slot.
func (p *Particle) TargetIndex() int {
	return p.targetIndex
}

// Position returns the eased position.
func (p *Particle) Position() Vec3 {
	return Vec3{p.X, p.Y, p.Z}
}

// Projected returns the screen position and size computed by the last
// Update. visible is false when the particle is behind the camera or below
// the size floor.
func (p *Particle) Projected() (x, y, size float64, visible bool) {
	return p.screenX, p.screenY, p.screenSize, p.visible
}

// Recolor switches the particle to c, crossfading over fade seconds.
func (p *Particle) Recolor(c Color, fade float64) {
	p.Color = p.fade.start(p.Color, c, fade)
}

// Update advances the particle one frame: resolve the target, rotate it when
// the state is volumetric, ease toward it, add the drift terms and project.
func (p *Particle) Update(ctx *AnimationContext) {
	target := ctx.Target(p.targetIndex)
	if ctx.Rotating {
		target = target.RotateY(ctx.Angle)
	}

	k := ctx.rate()
	p.X += (target.X - p.X) * k
	p.Y += (target.Y - p.Y) * k
	p.Z += (target.Z - p.Z) * k

	pos := p.Position()
	if ctx.Wave.Amplitude != 0 {
		sin, cos := math.Sincos(ctx.Time*ctx.Wave.Frequency + p.Phase)
		pos.X += sin * ctx.Wave.Amplitude
		pos.Y += cos * ctx.Wave.Amplitude
	}
	pos = pos.Add(ctx.Noise.Offset(pos, p.Phase, ctx.Time))

	p.screenX, p.screenY, p.screenSize, p.visible =
		Project(pos, ctx.Depth, ctx.CenterX, ctx.CenterY, p.Size)

	if c, ok := p.fade.update(ctx.DT); ok {
		p.Color = c
	}
}

// Draw paints the particle's last projection onto s. glow scales the halo
// radius relative to the projected size; zero disables it.
func (p *Particle) Draw(s Surface, glow float64) {
	if !p.visible {
		return
	}
	if glow > 0 {
		s.Glow(p.screenX, p.screenY, p.screenSize*glow, p.Color)
	}
	s.FillCircle(p.screenX, p.screenY, p.screenSize, p.Color)
}

// Project maps pos to screen space with a pinhole model:
//
//	scale = depth / (depth + z)
//	x' = cx + x*scale, y' = cy + y*scale, size' = size*scale
//
// Points at or behind the camera (depth + z <= 0) and points whose projected
// size falls to MinProjectedSize return visible == false with the size
// clamped to the floor.
func Project(pos Vec3, depth, cx, cy, size float64) (x, y, projSize float64, visible bool) {
	den := depth + pos.Z
	if den <= 0 {
		return cx, cy, MinProjectedSize, false
	}
	scale := depth / den
	if scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return cx, cy, MinProjectedSize, false
	}
	x = cx + pos.X*scale
	y = cy + pos.Y*scale
	projSize = size * scale
	if projSize <= MinProjectedSize {
		return x, y, MinProjectedSize, false
	}
	return x, y, projSize, true
}

// ProjectScale returns depth / (depth + z), the magnification of a point at z.
func ProjectScale(z, depth float64) float64 {
	return depth / (depth + z)
}

package glimmer

import (
	"image"
	"math"
	"math/rand/v2"

	"golang.org/x/image/vector"
)

// goldenAngle spaces successive spiral points so they never line up.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// TreeShape is a volumetric conifer generated analytically. Heights are
// drawn from a power law biased toward the base, the radius follows a cone
// modulated by a periodic tier term, and a small radial jitter gives the
// surface some thickness.
//
// Units are relative to Height; the Sampler scales the result.
type TreeShape struct {
	// Points is the number of points generated for the crown and trunk.
	Points int
	// Height of the crown, apex to base.
	Height float64
	// Radius of the crown at its base.
	Radius float64
	// Tiers is the number of branch layers stacked along the crown.
	Tiers int
	// TierDepth in [0, 1] is how far each tier pulls the radius in at its top.
	TierDepth float64
	// Jitter is the radial noise as a fraction of Radius.
	Jitter float64
	// HeightBias > 1 puts more points near the base.
	HeightBias float64
	// Spiral places points on a golden-angle spiral instead of random
	// azimuths.
	Spiral bool
	// TrunkRatio is the fraction of Points spent on the trunk.
	TrunkRatio float64
}

// DefaultTree returns the tree DefaultConfig builds.
func DefaultTree() *TreeShape {
	return DefaultConfig().Tree.shape()
}

// Volumetric implements Shape.
func (t *TreeShape) Volumetric() bool { return true }

// Generate implements Generator. The apex sits at -Height/2 and the crown
// base at +Height/2, with the trunk hanging below it.
func (t *TreeShape) Generate(rng *rand.Rand) []Vec3 {
	if t.Points <= 0 || t.Height <= 0 || t.Radius <= 0 {
		return nil
	}
	trunk := int(float64(t.Points) * clamp01(t.TrunkRatio))
	crown := t.Points - trunk
	bias := t.HeightBias
	if bias <= 0 {
		bias = 1
	}
	tiers := float64(max(t.Tiers, 1))
	top := -t.Height / 2

	pts := make([]Vec3, 0, t.Points)
	for i := 0; i < crown; i++ {
		// frac is 0 at the apex and 1 at the base; density grows as frac^(bias-1).
		frac := math.Pow(rng.Float64(), 1/bias)

		layer := frac*tiers - math.Floor(frac*tiers)
		r := frac * t.Radius * (1 - t.TierDepth + t.TierDepth*layer)
		r += (rng.Float64()*2 - 1) * t.Jitter * t.Radius
		r = math.Max(r, 0)

		var theta float64
		if t.Spiral {
			theta = float64(i) * goldenAngle
		} else {
			theta = rng.Float64() * 2 * math.Pi
		}
		sin, cos := math.Sincos(theta)
		pts = append(pts, Vec3{
			X: r * cos,
			Y: top + frac*t.Height,
			Z: r * sin,
		})
	}

	trunkR := t.Radius * 0.12
	trunkH := t.Height * 0.15
	for i := 0; i < trunk; i++ {
		r := trunkR * math.Sqrt(rng.Float64())
		sin, cos := math.Sincos(rng.Float64() * 2 * math.Pi)
		pts = append(pts, Vec3{
			X: r * cos,
			Y: t.Height/2 + rng.Float64()*trunkH,
			Z: r * sin,
		})
	}
	return pts
}

// SilhouetteShape is a flat tree outline: a triangular crown over a
// rectangular trunk, rasterized rather than generated.
type SilhouetteShape struct{}

// Volumetric implements Shape.
func (SilhouetteShape) Volumetric() bool { return false }

// Rasterize implements Rasterizer.
func (SilhouetteShape) Rasterize(dst *image.Alpha) {
	b := dst.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())

	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(w/2, h*0.1)
	z.LineTo(w*0.8, h*0.7)
	z.LineTo(w*0.2, h*0.7)
	z.ClosePath()

	z.MoveTo(w*0.45, h*0.7)
	z.LineTo(w*0.55, h*0.7)
	z.LineTo(w*0.55, h*0.9)
	z.LineTo(w*0.45, h*0.9)
	z.ClosePath()

	z.Draw(dst, b, image.Opaque, image.Point{})
}

package glimmer

import (
	"image"
	"math"
	"math/rand/v2"
)

// Shape describes a silhouette the Sampler turns into a point cloud.
// Concrete shapes implement either Rasterizer or Generator.
type Shape interface {
	// Volumetric reports whether the shape has depth. Volumetric states
	// rotate about the vertical axis while active.
	Volumetric() bool
}

// Rasterizer is a flat shape that draws itself into an off-screen alpha mask.
// The mask is cleared before the call.
type Rasterizer interface {
	Shape
	Rasterize(dst *image.Alpha)
}

// Generator is a shape whose points are computed analytically. Units are
// arbitrary; the Sampler fits the result to the viewport.
type Generator interface {
	Shape
	Generate(rng *rand.Rand) []Vec3
}

// Default sampling parameters.
const (
	DefaultResolution     = 200
	DefaultStride         = 2
	DefaultAlphaThreshold = 128
	DefaultFillRatio      = 0.8
	DefaultMinPoints      = 120
)

// Sampler converts shapes into point clouds in shape-local coordinates sized
// for a viewport.
type Sampler struct {
	// Resolution is the side of the square off-screen raster.
	Resolution int
	// Stride scans every Nth pixel in both directions.
	Stride int
	// AlphaThreshold is the minimum alpha (exclusive) for a pixel to count
	// as inside the shape.
	AlphaThreshold uint8
	// FillRatio is the fraction of the viewport the shape's bounding box
	// occupies along its limiting axis.
	FillRatio float64
	// MinPoints is the size of the fallback cloud used when a shape
	// produces nothing.
	MinPoints int

	rng  *rand.Rand
	mask *image.Alpha
}

// NewSampler creates a Sampler with default settings. rng drives the shuffle
// stage and analytic generators.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{
		Resolution:     DefaultResolution,
		Stride:         DefaultStride,
		AlphaThreshold: DefaultAlphaThreshold,
		FillRatio:      DefaultFillRatio,
		MinPoints:      DefaultMinPoints,
		rng:            rng,
	}
}

// Sample returns the shape's point cloud fitted to viewport, in random order.
// The result is never empty.
func (s *Sampler) Sample(shape Shape, viewport Size) []Vec3 {
	pts := s.SampleOrdered(shape, viewport)
	Shuffle(pts, s.rng)
	return pts
}

// SampleOrdered is Sample without the shuffle stage. Raster shapes come back
// in scan order (rows top to bottom, columns left to right).
func (s *Sampler) SampleOrdered(shape Shape, viewport Size) []Vec3 {
	var raw []Vec3
	switch sh := shape.(type) {
	case Rasterizer:
		raw = s.scan(sh)
	case Generator:
		raw = sh.Generate(s.rng)
	}
	if len(raw) == 0 {
		Logger().Debug("glimmer: shape produced no points, using fallback",
			"points", s.minPoints(), "viewport", viewport)
		return Fallback(s.minPoints(), viewport, s.fillRatio())
	}
	return fit(raw, viewport, s.fillRatio())
}

// scan rasterizes r at the virtual resolution and collects every Stride-th
// pixel above the alpha threshold, in raster coordinates.
func (s *Sampler) scan(r Rasterizer) []Vec3 {
	res := s.Resolution
	if res <= 0 {
		res = DefaultResolution
	}
	if s.mask == nil || s.mask.Bounds().Dx() != res {
		s.mask = image.NewAlpha(image.Rect(0, 0, res, res))
	} else {
		clear(s.mask.Pix)
	}
	r.Rasterize(s.mask)

	stride := max(s.Stride, 1)
	var pts []Vec3
	for y := 0; y < res; y += stride {
		row := s.mask.Pix[y*s.mask.Stride:]
		for x := 0; x < res; x += stride {
			if row[x] > s.AlphaThreshold {
				pts = append(pts, Vec3{X: float64(x), Y: float64(y)})
			}
		}
	}
	return pts
}

func (s *Sampler) minPoints() int {
	if s.MinPoints <= 0 {
		return DefaultMinPoints
	}
	return s.MinPoints
}

func (s *Sampler) fillRatio() float64 {
	if s.FillRatio <= 0 {
		return DefaultFillRatio
	}
	return s.FillRatio
}

// fit centers pts on their bounding box and scales them uniformly so the box
// fills the given fraction of the viewport. The smaller of the width-fit and
// height-fit factors wins, preserving aspect. Z is scaled with X and Y.
func fit(pts []Vec3, viewport Size, fill float64) []Vec3 {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	bw, bh := maxX-minX, maxY-minY

	scale := math.Inf(1)
	if bw > 0 {
		scale = float64(viewport.W) * fill / bw
	}
	if bh > 0 {
		scale = min(scale, float64(viewport.H)*fill/bh)
	}
	if math.IsInf(scale, 1) {
		scale = 1
	}

	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	out := make([]Vec3, len(pts))
	for i, p := range pts {
		out[i] = Vec3{
			X: (p.X - cx) * scale,
			Y: (p.Y - cy) * scale,
			Z: p.Z * scale,
		}
	}
	return out
}

// Shuffle randomizes the order of pts in place. Truncating a shuffled cloud
// gives a random subsample rather than a spatial crop.
func Shuffle(pts []Vec3, rng *rand.Rand) {
	if rng == nil {
		return
	}
	rng.Shuffle(len(pts), func(i, j int) {
		pts[i], pts[j] = pts[j], pts[i]
	})
}

// Fallback returns n points evenly spaced on a circle centered at the origin.
// The radius is half the fill fraction of the smaller viewport side. The
// result depends only on its arguments.
func Fallback(n int, viewport Size, fill float64) []Vec3 {
	n = max(n, 1)
	radius := float64(min(viewport.W, viewport.H)) * fill / 2
	pts := make([]Vec3, n)
	for i := range pts {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		pts[i] = Vec3{X: cos * radius, Y: sin * radius}
	}
	return pts
}

package glimmer

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// Surface is the immediate-mode drawing target the Renderer paints into.
type Surface interface {
	// Size returns the drawable area in pixels.
	Size() Size
	// FillRect blends c over r using c.A. A translucent full-screen fill
	// fades the previous frame into a trail.
	FillRect(r Rect, c Color)
	// FillCircle fills a disc of the given radius.
	FillCircle(cx, cy, radius float64, c Color)
	// Glow paints a soft halo of the given radius behind a particle.
	Glow(cx, cy, radius float64, c Color)
}

// Flusher is implemented by surfaces that batch draw calls. The Renderer
// calls Flush once after the last particle of a frame.
type Flusher interface {
	Flush()
}

// circleKappa places cubic Bézier control points to approximate a quarter
// circle.
const circleKappa = 0.5522847498

// glowLayers are the radius fractions and alpha shares of the halo discs.
var glowLayers = [...]struct{ radius, alpha float64 }{
	{1.0, 0.08},
	{0.7, 0.12},
	{0.45, 0.18},
}

// ImageSurface is a CPU Surface backed by an *image.RGBA. It is used for
// headless rendering and tests.
type ImageSurface struct {
	img *image.RGBA
	z   vector.Rasterizer
}

// NewImageSurface creates a cleared surface of the given size.
func NewImageSurface(size Size) *ImageSurface {
	return &ImageSurface{img: image.NewRGBA(image.Rect(0, 0, size.W, size.H))}
}

// Image returns the backing image. It is updated in place every frame.
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}

// Size implements Surface.
func (s *ImageSurface) Size() Size {
	b := s.img.Bounds()
	return Size{W: b.Dx(), H: b.Dy()}
}

// FillRect implements Surface.
func (s *ImageSurface) FillRect(r Rect, c Color) {
	rect := image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.Width)), int(math.Ceil(r.Y+r.Height)),
	).Intersect(s.img.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(s.img, rect, image.NewUniform(c.toRGBA()), image.Point{}, draw.Over)
}

// FillCircle implements Surface.
func (s *ImageSurface) FillCircle(cx, cy, radius float64, c Color) {
	if radius <= 0 {
		return
	}
	// Rasterize in a box around the disc so cost scales with its area. The
	// rasterizer writes its whole area, so the box must lie inside the image.
	box := image.Rect(
		int(math.Floor(cx-radius)), int(math.Floor(cy-radius)),
		int(math.Ceil(cx+radius))+1, int(math.Ceil(cy+radius))+1,
	).Intersect(s.img.Bounds())
	if box.Empty() {
		return
	}
	ox, oy := float32(cx)-float32(box.Min.X), float32(cy)-float32(box.Min.Y)
	s.z.Reset(box.Dx(), box.Dy())
	s.z.DrawOp = draw.Over
	appendCircle(&s.z, ox, oy, float32(radius))
	s.z.Draw(s.img, box, image.NewUniform(c.toRGBA()), image.Point{})
}

// Glow implements Surface with a few stacked translucent discs.
func (s *ImageSurface) Glow(cx, cy, radius float64, c Color) {
	for _, l := range glowLayers {
		s.FillCircle(cx, cy, radius*l.radius, c.WithAlpha(c.A*l.alpha))
	}
}

// SavePNG writes the current frame to path.
func (s *ImageSurface) SavePNG(path string) error {
	return writePNG(path, s.img)
}

// appendCircle adds a closed circular path of radius r centered at (cx, cy).
func appendCircle(z *vector.Rasterizer, cx, cy, r float32) {
	k := r * circleKappa
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
}

package glimmer

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	// spriteRadius is the radius in texels of the disc and halo sprites.
	spriteRadius = 32
	// haloAlpha scales a particle's alpha for its halo sprite.
	haloAlpha = 0.35
)

// Sub-rectangles of the particle sheet: a hard disc on the left and a
// feathered halo on the right.
var (
	discRegion = image.Rect(0, 0, 2*spriteRadius, 2*spriteRadius)
	haloRegion = image.Rect(2*spriteRadius, 0, 4*spriteRadius, 2*spriteRadius)
)

// quadBatch accumulates textured quads for one DrawTriangles32 call.
type quadBatch struct {
	verts []ebiten.Vertex
	inds  []uint32
}

// appendQuad adds a square quad of half-width r centered on (cx, cy) that
// maps src onto it. Vertex colors are premultiplied.
func (b *quadBatch) appendQuad(cx, cy, r float64, src image.Rectangle, c Color) {
	a := float32(clamp01(c.A))
	cr := float32(clamp01(c.R)) * a
	cg := float32(clamp01(c.G)) * a
	cb := float32(clamp01(c.B)) * a

	x0, y0 := float32(cx-r), float32(cy-r)
	x1, y1 := float32(cx+r), float32(cy+r)
	su0, sv0 := float32(src.Min.X), float32(src.Min.Y)
	su1, sv1 := float32(src.Max.X), float32(src.Max.Y)

	dx := [4]float32{x0, x1, x0, x1}
	dy := [4]float32{y0, y0, y1, y1}
	sx := [4]float32{su0, su1, su0, su1}
	sy := [4]float32{sv0, sv0, sv1, sv1}

	base := uint32(len(b.verts))
	for j := 0; j < 4; j++ {
		b.verts = append(b.verts, ebiten.Vertex{
			DstX:   dx[j],
			DstY:   dy[j],
			SrcX:   sx[j],
			SrcY:   sy[j],
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: a,
		})
	}
	// Two triangles: TL-TR-BL, TR-BR-BL
	b.inds = append(b.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

func (b *quadBatch) len() int {
	return len(b.inds) / 6
}

func (b *quadBatch) reset() {
	b.verts = b.verts[:0]
	b.inds = b.inds[:0]
}

// flush submits the batch as a single DrawTriangles32 call and empties it.
func (b *quadBatch) flush(target, sheet *ebiten.Image, blend BlendMode) {
	if len(b.verts) == 0 {
		return
	}
	var triOp ebiten.DrawTrianglesOptions
	triOp.Blend = blend.EbitenBlend()
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	triOp.Filter = ebiten.FilterLinear
	target.DrawTriangles32(b.verts, b.inds, sheet, &triOp)
	b.reset()
}

// EbitenSurface is a Surface that draws onto an ebiten image. Discs and
// halos are queued and submitted with one DrawTriangles32 call each on
// Flush, so a frame costs a handful of draw calls regardless of the
// particle count.
type EbitenSurface struct {
	// GlowBlend composites halos. Defaults to additive.
	GlowBlend BlendMode

	target *ebiten.Image
	sheet  *ebiten.Image
	discs  quadBatch
	glows  quadBatch
}

// NewEbitenSurface creates a surface that draws onto target.
func NewEbitenSurface(target *ebiten.Image) *EbitenSurface {
	return &EbitenSurface{GlowBlend: BlendAdd, target: target}
}

// SetTarget redirects drawing to img. Pending quads are flushed to the old
// target first.
func (s *EbitenSurface) SetTarget(img *ebiten.Image) {
	if img == s.target {
		return
	}
	s.Flush()
	s.target = img
}

// Size implements Surface.
func (s *EbitenSurface) Size() Size {
	if s.target == nil {
		return Size{}
	}
	b := s.target.Bounds()
	return Size{W: b.Dx(), H: b.Dy()}
}

// FillRect implements Surface. Queued quads are flushed first so the
// rectangle lands on top of them.
func (s *EbitenSurface) FillRect(r Rect, c Color) {
	if s.target == nil {
		return
	}
	s.Flush()
	vector.DrawFilledRect(s.target, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), c.toRGBA(), false)
}

// FillCircle implements Surface.
func (s *EbitenSurface) FillCircle(cx, cy, radius float64, c Color) {
	if radius <= 0 {
		return
	}
	s.discs.appendQuad(cx, cy, radius, discRegion, c)
}

// Glow implements Surface.
func (s *EbitenSurface) Glow(cx, cy, radius float64, c Color) {
	if radius <= 0 {
		return
	}
	s.glows.appendQuad(cx, cy, radius, haloRegion, c.WithAlpha(c.A*haloAlpha))
}

// Flush implements Flusher: halos first, then discs on top.
func (s *EbitenSurface) Flush() {
	if s.target == nil {
		s.glows.reset()
		s.discs.reset()
		return
	}
	if s.glows.len() == 0 && s.discs.len() == 0 {
		return
	}
	sheet := s.particleSheet()
	s.glows.flush(s.target, sheet, s.GlowBlend)
	s.discs.flush(s.target, sheet, BlendNormal)
}

func (s *EbitenSurface) particleSheet() *ebiten.Image {
	if s.sheet == nil {
		s.sheet = ebiten.NewImage(4*spriteRadius, 2*spriteRadius)
		s.sheet.WritePixels(sheetPixels(spriteRadius))
	}
	return s.sheet
}

// sheetPixels renders the particle sheet as premultiplied white RGBA: an
// antialiased disc beside a smoothstep halo, each 2r by 2r.
func sheetPixels(r int) []byte {
	w, h := 4*r, 2*r
	pix := make([]byte, w*h*4)
	radius := float64(r)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			lx := x
			halo := x >= 2*r
			if halo {
				lx -= 2 * r
			}
			dx := float64(lx) + 0.5 - radius
			dy := float64(y) + 0.5 - radius
			d := math.Sqrt(dx*dx + dy*dy)

			var alpha float64
			if halo {
				if t := 1 - d/radius; t > 0 {
					// smoothstep: 1 at center, 0 at edge
					alpha = t * t * (3 - 2*t)
				}
			} else {
				// One texel of coverage falloff at the rim.
				alpha = clamp01(radius - d)
			}

			a := uint8(alpha*255 + 0.5)
			off := (y*w + x) * 4
			pix[off+0] = a
			pix[off+1] = a
			pix[off+2] = a
			pix[off+3] = a
		}
	}
	return pix
}

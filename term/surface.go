// Package term renders a glimmer animation in a terminal with tcell.
//
// Each character cell shows two vertically stacked pixels using the upper
// half block: the foreground color paints the top pixel and the background
// color the bottom one, so a W×H terminal is a W×2H canvas.
package term

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/phanxgames/glimmer"
)

// halfBlock is the upper half block character.
const halfBlock = '▀'

// haloAlpha scales a particle's alpha at the center of its halo.
const haloAlpha = 0.35

// Surface is a glimmer.Surface backed by a tcell screen. Drawing happens in
// an internal pixel buffer; Flush copies it to the screen and shows it.
type Surface struct {
	screen tcell.Screen
	w, h   int // canvas size in pixels
	pix    []colorful.Color
}

// NewSurface creates a surface covering the whole screen.
func NewSurface(screen tcell.Screen) *Surface {
	s := &Surface{screen: screen}
	s.Resize()
	return s
}

// Resize matches the canvas to the current screen size and clears it.
func (s *Surface) Resize() {
	cols, rows := s.screen.Size()
	s.w, s.h = max(cols, 0), max(rows, 0)*2
	s.pix = make([]colorful.Color, s.w*s.h)
}

// Size implements glimmer.Surface.
func (s *Surface) Size() glimmer.Size {
	return glimmer.Size{W: s.w, H: s.h}
}

// At returns the canvas pixel at (x, y). Out-of-range pixels are black.
func (s *Surface) At(x, y int) colorful.Color {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return colorful.Color{}
	}
	return s.pix[y*s.w+x]
}

// FillRect implements glimmer.Surface.
func (s *Surface) FillRect(r glimmer.Rect, c glimmer.Color) {
	x0, y0 := max(int(math.Floor(r.X)), 0), max(int(math.Floor(r.Y)), 0)
	x1, y1 := min(int(math.Ceil(r.X+r.Width)), s.w), min(int(math.Ceil(r.Y+r.Height)), s.h)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			s.blend(x, y, c, c.A)
		}
	}
}

// FillCircle implements glimmer.Surface. Edge pixels get partial coverage.
func (s *Surface) FillCircle(cx, cy, radius float64, c glimmer.Color) {
	s.disc(cx, cy, radius, func(d float64) float64 {
		return c.A * clamp01(radius+0.5-d)
	}, c)
}

// Glow implements glimmer.Surface with a smoothstep falloff.
func (s *Surface) Glow(cx, cy, radius float64, c glimmer.Color) {
	s.disc(cx, cy, radius, func(d float64) float64 {
		t := 1 - d/radius
		if t <= 0 {
			return 0
		}
		return c.A * haloAlpha * t * t * (3 - 2*t)
	}, c)
}

func (s *Surface) disc(cx, cy, radius float64, alpha func(d float64) float64, c glimmer.Color) {
	if radius <= 0 {
		return
	}
	x0 := max(int(math.Floor(cx-radius-0.5)), 0)
	y0 := max(int(math.Floor(cy-radius-0.5)), 0)
	x1 := min(int(math.Ceil(cx+radius+0.5)), s.w)
	y1 := min(int(math.Ceil(cy+radius+0.5)), s.h)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			if a := alpha(d); a > 0 {
				s.blend(x, y, c, a)
			}
		}
	}
}

// blend composites c over the pixel at (x, y) with opacity a.
func (s *Surface) blend(x, y int, c glimmer.Color, a float64) {
	a = clamp01(a)
	p := &s.pix[y*s.w+x]
	p.R += (c.R - p.R) * a
	p.G += (c.G - p.G) * a
	p.B += (c.B - p.B) * a
}

// Flush implements glimmer.Flusher.
func (s *Surface) Flush() {
	for row := 0; row*2 < s.h; row++ {
		for x := 0; x < s.w; x++ {
			top := s.pix[row*2*s.w+x]
			var bottom colorful.Color
			if row*2+1 < s.h {
				bottom = s.pix[(row*2+1)*s.w+x]
			}
			style := tcell.StyleDefault.Foreground(cellColor(top)).Background(cellColor(bottom))
			s.screen.SetContent(x, row, halfBlock, nil, style)
		}
	}
	s.screen.Show()
}

func cellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

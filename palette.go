package glimmer

import (
	"errors"
	"fmt"
	"math/rand/v2"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Swatch is one palette entry as it appears in config files.
type Swatch struct {
	Hex    string  `yaml:"hex" toml:"hex"`
	Weight float64 `yaml:"weight,omitempty" toml:"weight,omitempty"` // 0 means 1
}

// Palette is a weighted set of colors that particles draw from.
type Palette struct {
	colors  []Color
	weights []float64
	total   float64
}

// ParsePalette builds a Palette from swatches. Every swatch must be a valid
// hex color; an empty list is an error.
func ParsePalette(swatches []Swatch) (Palette, error) {
	if len(swatches) == 0 {
		return Palette{}, errors.New("glimmer: empty palette")
	}
	var p Palette
	for _, s := range swatches {
		c, err := colorful.Hex(s.Hex)
		if err != nil {
			return Palette{}, fmt.Errorf("glimmer: palette color %q: %w", s.Hex, err)
		}
		w := s.Weight
		if w <= 0 {
			w = 1
		}
		p.colors = append(p.colors, Color{R: c.R, G: c.G, B: c.B, A: 1})
		p.weights = append(p.weights, w)
		p.total += w
	}
	return p, nil
}

// Len returns the number of colors.
func (p Palette) Len() int {
	return len(p.colors)
}

// Colors returns the palette's colors. The returned slice MUST NOT be mutated.
func (p Palette) Colors() []Color {
	return p.colors
}

// Pick returns a color chosen with probability proportional to its weight.
// An empty palette yields white.
func (p Palette) Pick(rng *rand.Rand) Color {
	if len(p.colors) == 0 {
		return ColorWhite
	}
	x := rng.Float64() * p.total
	for i, w := range p.weights {
		if x < w {
			return p.colors[i]
		}
		x -= w
	}
	return p.colors[len(p.colors)-1]
}

// blendLab interpolates between a and b in CIE-L*a*b* space, which keeps the
// midpoint of a palette crossfade from going muddy. Alpha is lerped.
func blendLab(a, b Color, t float64) Color {
	ca := colorful.Color{R: a.R, G: a.G, B: a.B}
	cb := colorful.Color{R: b.R, G: b.G, B: b.B}
	c := ca.BlendLab(cb, clamp01(t)).Clamped()
	return Color{R: c.R, G: c.G, B: c.B, A: lerp(a.A, b.A, t)}
}

// parseHexColor parses a single hex color such as "#0b0b12".
func parseHexColor(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("glimmer: color %q: %w", hex, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

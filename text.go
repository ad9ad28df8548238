package glimmer

import (
	"fmt"
	"image"
	"strings"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// textMargin is the fraction of the raster left empty around the text block.
const textMargin = 0.9

// TextShape rasterizes one or more centered lines of text. Runes missing
// from the font are skipped, so a string the font cannot render at all
// samples as empty and the Sampler falls back to its ring.
type TextShape struct {
	Lines []string

	font *sfnt.Font
	buf  sfnt.Buffer
}

// NewTextShape parses ttf (TrueType or OpenType data) and returns a shape for
// the given lines. A nil ttf uses Go Regular.
func NewTextShape(ttf []byte, lines ...string) (*TextShape, error) {
	if ttf == nil {
		ttf = goregular.TTF
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("glimmer: parse font: %w", err)
	}
	return &TextShape{Lines: lines, font: f}, nil
}

// Volumetric implements Shape.
func (t *TextShape) Volumetric() bool { return false }

// Rasterize implements Rasterizer. The font size is chosen so the block of
// lines fits the raster with a small margin.
func (t *TextShape) Rasterize(dst *image.Alpha) {
	lines := t.renderable()
	if len(lines) == 0 {
		return
	}
	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	// First guess from height, then shrink to the widest line.
	size := h * textMargin / (float64(len(lines)) * 1.2)
	face, err := t.face(size)
	if err != nil {
		Logger().Warn("glimmer: text face", "err", err)
		return
	}
	widest := 0.0
	for _, line := range lines {
		widest = max(widest, fixedToFloat(font.MeasureString(face, line)))
	}
	if widest > w*textMargin {
		face.Close()
		size *= w * textMargin / widest
		if face, err = t.face(size); err != nil {
			Logger().Warn("glimmer: text face", "err", err)
			return
		}
	}
	defer face.Close()

	m := face.Metrics()
	lineH := fixedToFloat(m.Height)
	ascent := fixedToFloat(m.Ascent)
	descent := fixedToFloat(m.Descent)
	blockH := lineH*float64(len(lines)-1) + ascent + descent
	baseline := (h-blockH)/2 + ascent

	d := &font.Drawer{Dst: dst, Src: image.Opaque, Face: face}
	for i, line := range lines {
		lw := fixedToFloat(font.MeasureString(face, line))
		d.Dot = fixed.Point26_6{
			X: floatToFixed(float64(b.Min.X) + (w-lw)/2),
			Y: floatToFixed(float64(b.Min.Y) + baseline + float64(i)*lineH),
		}
		d.DrawString(line)
	}
}

// renderable returns Lines with unsupported runes removed and blank lines
// dropped.
func (t *TextShape) renderable() []string {
	f := t.sfntFont()
	if f == nil {
		return nil
	}
	var out []string
	for _, line := range t.Lines {
		var sb strings.Builder
		visible := false
		for _, r := range line {
			if unicode.IsSpace(r) {
				sb.WriteRune(' ')
				continue
			}
			idx, err := f.GlyphIndex(&t.buf, r)
			if err != nil || idx == 0 {
				continue
			}
			sb.WriteRune(r)
			visible = true
		}
		if visible {
			out = append(out, strings.TrimSpace(sb.String()))
		}
	}
	return out
}

// sfntFont returns the shape's font. Shapes built as literals rather than
// with NewTextShape get Go Regular on first use.
func (t *TextShape) sfntFont() *sfnt.Font {
	if t.font != nil {
		return t.font
	}
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		Logger().Warn("glimmer: default font", "err", err)
		return nil
	}
	t.font = f
	return f
}

func (t *TextShape) face(size float64) (font.Face, error) {
	return opentype.NewFace(t.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

package glimmer

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageSurfaceFillRect(t *testing.T) {
	s := NewImageSurface(Size{W: 10, H: 10})
	assert.Equal(t, Size{W: 10, H: 10}, s.Size())

	s.FillRect(Rect{Width: 10, Height: 10}, Color{1, 0, 0, 1})
	assert.Equal(t, uint8(255), s.Image().RGBAAt(5, 5).R)

	// A translucent black overlay fades toward black.
	s.FillRect(Rect{Width: 10, Height: 10}, ColorBlack.WithAlpha(0.5))
	r := s.Image().RGBAAt(5, 5).R
	assert.InDelta(t, 128, int(r), 1)

	// Out of bounds is clipped, not a panic.
	s.FillRect(Rect{X: -50, Y: -50, Width: 20, Height: 20}, ColorWhite)
	s.FillRect(Rect{X: 8, Y: 8, Width: 20, Height: 20}, ColorWhite)
	assert.Equal(t, uint8(255), s.Image().RGBAAt(9, 9).G)
}

func TestImageSurfaceFillCircle(t *testing.T) {
	s := NewImageSurface(Size{W: 40, H: 40})
	s.FillCircle(20, 20, 8, ColorWhite)

	img := s.Image()
	assert.Equal(t, uint8(255), img.RGBAAt(20, 20).A, "center")
	assert.Equal(t, uint8(255), img.RGBAAt(14, 20).A, "inside")
	assert.Zero(t, img.RGBAAt(20, 30).A, "outside")
	assert.Zero(t, img.RGBAAt(0, 0).A)
}

func TestImageSurfaceFillCircleClipsAtEdges(t *testing.T) {
	s := NewImageSurface(Size{W: 20, H: 20})
	s.FillCircle(0, 0, 6, ColorWhite)
	s.FillCircle(25, 10, 8, ColorWhite)
	s.FillCircle(-100, -100, 5, ColorWhite)
	s.FillCircle(10, 10, 0, ColorWhite)

	img := s.Image()
	assert.Equal(t, uint8(255), img.RGBAAt(1, 1).A)
	assert.Equal(t, uint8(255), img.RGBAAt(19, 10).A)
	assert.Zero(t, img.RGBAAt(10, 10).A)
}

func TestImageSurfaceGlowIsSoft(t *testing.T) {
	s := NewImageSurface(Size{W: 40, H: 40})
	s.Glow(20, 20, 12, ColorWhite)
	img := s.Image()
	center := img.RGBAAt(20, 20).A
	edge := img.RGBAAt(20, 30).A
	assert.Greater(t, center, edge)
	assert.Less(t, center, uint8(255))
	assert.Positive(t, edge)
}

func TestImageSurfaceSavePNG(t *testing.T) {
	s := NewImageSurface(Size{W: 8, H: 6})
	s.FillRect(Rect{Width: 8, Height: 6}, Color{0, 1, 0, 1})
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, s.SavePNG(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	_, g, _, _ := img.At(3, 3).RGBA()
	assert.Equal(t, uint32(0xffff), g)
}

func TestImageSurfaceWithRenderer(t *testing.T) {
	viewport := Size{W: 320, H: 240}
	r, err := NewRenderer(smallConfig())
	require.NoError(t, err)
	r.Resize(viewport)
	s := NewImageSurface(viewport)
	for i := 0; i < 30; i++ {
		r.Frame(time.Duration(i)*frame, s)
	}
	lit := 0
	for i := 3; i < len(s.Image().Pix); i += 4 {
		if s.Image().Pix[i-3]|s.Image().Pix[i-2]|s.Image().Pix[i-1] != 0 {
			lit++
		}
	}
	assert.Greater(t, lit, 100)
}

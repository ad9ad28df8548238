package glimmer

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVertexNear(t *testing.T, label string, got, want float32) {
	t.Helper()
	if math.Abs(float64(got-want)) > 0.01 {
		t.Errorf("%s = %f, want %f", label, got, want)
	}
}

func TestAppendQuadGeometry(t *testing.T) {
	var b quadBatch
	b.appendQuad(100, 50, 4, discRegion, Color{1, 0.5, 0, 0.5})

	require.Len(t, b.verts, 4)
	assert.Equal(t, []uint32{0, 1, 2, 1, 3, 2}, b.inds)

	// TL, TR, BL, BR
	wantX := []float32{96, 104, 96, 104}
	wantY := []float32{46, 46, 54, 54}
	wantU := []float32{0, 2 * spriteRadius, 0, 2 * spriteRadius}
	wantV := []float32{0, 0, 2 * spriteRadius, 2 * spriteRadius}
	for i, v := range b.verts {
		assertVertexNear(t, "DstX", v.DstX, wantX[i])
		assertVertexNear(t, "DstY", v.DstY, wantY[i])
		assertVertexNear(t, "SrcX", v.SrcX, wantU[i])
		assertVertexNear(t, "SrcY", v.SrcY, wantV[i])
		// Premultiplied color.
		assertVertexNear(t, "ColorR", v.ColorR, 0.5)
		assertVertexNear(t, "ColorG", v.ColorG, 0.25)
		assertVertexNear(t, "ColorB", v.ColorB, 0)
		assertVertexNear(t, "ColorA", v.ColorA, 0.5)
	}
}

func TestAppendQuadIndicesOffset(t *testing.T) {
	var b quadBatch
	b.appendQuad(0, 0, 1, discRegion, ColorWhite)
	b.appendQuad(10, 10, 1, haloRegion, ColorWhite)
	assert.Equal(t, 2, b.len())
	assert.Equal(t, []uint32{4, 5, 6, 5, 7, 6}, b.inds[6:])
	assertVertexNear(t, "halo SrcX", b.verts[4].SrcX, float32(haloRegion.Min.X))

	b.reset()
	assert.Zero(t, b.len())
}

func TestEbitenSurfaceQueuesWithoutTarget(t *testing.T) {
	s := NewEbitenSurface(nil)
	assert.Equal(t, Size{}, s.Size())
	assert.Equal(t, BlendAdd, s.GlowBlend)

	s.FillCircle(10, 10, 2, ColorWhite)
	s.FillCircle(10, 10, 0, ColorWhite)
	s.Glow(10, 10, 4, ColorWhite)
	assert.Equal(t, 1, s.discs.len())
	assert.Equal(t, 1, s.glows.len())
	assertVertexNear(t, "halo alpha", s.glows.verts[0].ColorA, haloAlpha)

	s.Flush()
	assert.Zero(t, s.discs.len())
	assert.Zero(t, s.glows.len())
}

func TestSheetPixels(t *testing.T) {
	const r = 8
	pix := sheetPixels(r)
	require.Len(t, pix, 4*r*2*r*4)
	alpha := func(x, y int) byte { return pix[(y*4*r+x)*4+3] }

	assert.Equal(t, byte(255), alpha(r, r), "disc center")
	assert.Zero(t, alpha(0, 0), "disc corner")
	assert.Greater(t, alpha(3*r, r), byte(200), "halo center")
	assert.Less(t, alpha(3*r+r-2, r), alpha(3*r+2, r), "halo falls off")
	assert.Zero(t, alpha(2*r, 0), "halo corner")

	// Premultiplied white: every channel equals alpha.
	for i := 0; i < len(pix); i += 4 {
		require.Equal(t, pix[i+3], pix[i])
	}
}

func TestRegionsTileSheet(t *testing.T) {
	assert.Equal(t, image.Rect(0, 0, 4*spriteRadius, 2*spriteRadius), discRegion.Union(haloRegion))
	assert.True(t, discRegion.Intersect(haloRegion).Empty())
}

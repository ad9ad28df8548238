package term

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/glimmer"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func cellColors(t *testing.T, screen tcell.Screen, x, y int) (fg, bg tcell.Color) {
	t.Helper()
	mainc, _, style, _ := screen.GetContent(x, y)
	require.Equal(t, halfBlock, mainc)
	fg, bg, _ = style.Decompose()
	return fg, bg
}

func TestSurfaceSizeIsDoubleHeight(t *testing.T) {
	s := NewSurface(newScreen(t, 20, 10))
	assert.Equal(t, glimmer.Size{W: 20, H: 20}, s.Size())
}

func TestSurfaceFillRectAndFlush(t *testing.T) {
	screen := newScreen(t, 4, 2)
	s := NewSurface(screen)

	// Top row of pixels red, everything else blue.
	s.FillRect(glimmer.Rect{Width: 4, Height: 4}, glimmer.Color{B: 1, A: 1})
	s.FillRect(glimmer.Rect{Width: 4, Height: 1}, glimmer.Color{R: 1, A: 1})
	s.Flush()

	fg, bg := cellColors(t, screen, 0, 0)
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)
	assert.Equal(t, tcell.NewRGBColor(0, 0, 255), bg)

	fg, bg = cellColors(t, screen, 3, 1)
	assert.Equal(t, tcell.NewRGBColor(0, 0, 255), fg)
	assert.Equal(t, tcell.NewRGBColor(0, 0, 255), bg)
}

func TestSurfaceTrailBlend(t *testing.T) {
	s := NewSurface(newScreen(t, 2, 1))
	s.FillRect(glimmer.Rect{Width: 2, Height: 2}, glimmer.ColorWhite)
	s.FillRect(glimmer.Rect{Width: 2, Height: 2}, glimmer.ColorBlack.WithAlpha(0.25))
	assert.InDelta(t, 0.75, s.At(0, 0).R, 1e-12)
	assert.InDelta(t, 0.75, s.At(1, 1).B, 1e-12)
}

func TestSurfaceFillCircle(t *testing.T) {
	s := NewSurface(newScreen(t, 20, 10))
	s.FillCircle(10, 10, 3, glimmer.ColorWhite)

	assert.InDelta(t, 1, s.At(10, 10).R, 1e-12, "center")
	assert.Zero(t, s.At(10, 15).R, "outside")
	assert.Zero(t, s.At(0, 0).G)

	// Clipped at the edges.
	s.FillCircle(0, 0, 4, glimmer.ColorWhite)
	s.FillCircle(100, 100, 4, glimmer.ColorWhite)
	assert.InDelta(t, 1, s.At(0, 0).R, 1e-12)
	assert.Equal(t, s.At(-1, 0), s.At(50, 50), "out of range reads black")
}

func TestSurfaceGlowIsSoft(t *testing.T) {
	s := NewSurface(newScreen(t, 20, 10))
	s.Glow(10, 10, 6, glimmer.ColorWhite)
	center, edge := s.At(10, 10).R, s.At(10, 14).R
	assert.Greater(t, center, edge)
	assert.LessOrEqual(t, center, haloAlpha)
	assert.Positive(t, edge)
}

func TestSurfaceResize(t *testing.T) {
	screen := newScreen(t, 10, 5)
	s := NewSurface(screen)
	s.FillRect(glimmer.Rect{Width: 10, Height: 10}, glimmer.ColorWhite)

	screen.SetSize(30, 8)
	s.Resize()
	assert.Equal(t, glimmer.Size{W: 30, H: 16}, s.Size())
	assert.Zero(t, s.At(0, 0).R, "resize clears")
}

func TestRunQuitsOnKey(t *testing.T) {
	screen := newScreen(t, 40, 12)
	cfg := glimmer.DefaultConfig()
	cfg.Seed = 1
	cfg.ParticleCount = 200
	r, err := glimmer.NewRenderer(cfg)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- Run(context.Background(), r, screen, 60) }()

	time.Sleep(100 * time.Millisecond)
	screen.InjectKey(tcell.KeyRune, 'p', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}
	assert.True(t, r.Paused())
	assert.NotNil(t, r.Field())
	assert.Equal(t, glimmer.Size{W: 40, H: 24}, r.Field().Viewport)
}

func TestRunStopsOnContext(t *testing.T) {
	screen := newScreen(t, 20, 6)
	r, err := glimmer.NewRenderer(glimmer.DefaultConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	require.NoError(t, Run(ctx, r, screen, 0))
}

func TestHandleEvent(t *testing.T) {
	screen := newScreen(t, 20, 6)
	s := NewSurface(screen)
	r, err := glimmer.NewRenderer(glimmer.DefaultConfig())
	require.NoError(t, err)

	assert.False(t, handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), r, s))
	assert.True(t, handleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), r, s))

	screen.SetSize(25, 7)
	assert.True(t, handleEvent(tcell.NewEventResize(25, 7), r, s))
	assert.Equal(t, glimmer.Size{W: 25, H: 14}, s.Size())
}

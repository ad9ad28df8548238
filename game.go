package glimmer

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowFPS draws an FPS/TPS overlay in the top left corner.
	ShowFPS bool
	// ScreenshotDir is where the s key and script screenshots are written.
	// Defaults to "screenshots".
	ScreenshotDir string
	// Script, if set, is stepped once per tick.
	Script *Script
	// ExitOnScriptDone closes the window once Script has finished.
	ExitOnScriptDone bool
}

// Game adapts a Renderer to ebiten.Game. Keys: space skips to the next
// state, p pauses, s saves a screenshot, Esc quits.
type Game struct {
	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string

	renderer        *Renderer
	surface         *EbitenSurface
	fps             *fpsOverlay
	script          *Script
	exitOnScript    bool
	start           time.Time
	screenshotQueue []string
	shots           int
}

// NewGame wraps r for ebiten.RunGame.
func NewGame(r *Renderer, cfg RunConfig) *Game {
	g := &Game{
		ScreenshotDir: cfg.ScreenshotDir,
		renderer:      r,
		surface:       NewEbitenSurface(nil),
		script:        cfg.Script,
		exitOnScript:  cfg.ExitOnScriptDone,
		start:         time.Now(),
	}
	if g.ScreenshotDir == "" {
		g.ScreenshotDir = "screenshots"
	}
	if cfg.ShowFPS {
		g.fps = newFPSOverlay()
	}
	return g
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.renderer.Skip()
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.renderer.TogglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.shots++
		g.Screenshot(fmt.Sprintf("%s-%d", g.renderer.State().Name, g.shots))
	}

	if g.script != nil {
		g.script.Step(g.renderer, g.Screenshot)
		if g.exitOnScript && g.script.Done() && len(g.screenshotQueue) == 0 {
			return ebiten.Termination
		}
	}
	if g.fps != nil {
		g.fps.update(1/float64(ebiten.TPS()), g.renderer.State().Name, g.renderer.Paused())
	}
	return nil
}

// Draw implements ebiten.Game. The screen is not cleared between frames;
// the renderer's translucent overlay fades the previous one.
func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.SetTarget(screen)
	g.renderer.Frame(time.Since(g.start), g.surface)
	g.flushScreenshots(screen)
	if g.fps != nil {
		g.fps.draw(screen)
	}
}

// Layout implements ebiten.Game. The field is rebuilt whenever the window
// size changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.renderer.Resize(Size{W: outsideWidth, H: outsideHeight})
	return outsideWidth, outsideHeight
}

// Run opens a window and animates r until the window is closed or Esc is
// pressed.
func Run(r *Renderer, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 1280, 720
	}
	if cfg.Title == "" {
		cfg.Title = "glimmer"
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetScreenClearedEveryFrame(false)

	err := ebiten.RunGame(NewGame(r, cfg))
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("glimmer: run: %w", err)
	}
	return nil
}

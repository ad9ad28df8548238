package glimmer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefresh is how often the overlay text is redrawn, in seconds.
const fpsRefresh = 0.5

// fpsOverlay displays the current FPS, TPS and animation state in the top
// left corner.
type fpsOverlay struct {
	img     *ebiten.Image
	elapsed float64
	text    string
}

func newFPSOverlay() *fpsOverlay {
	// 120x48 is enough for three short lines of debug text.
	return &fpsOverlay{img: ebiten.NewImage(120, 48)}
}

// update redraws the overlay every fpsRefresh seconds.
func (o *fpsOverlay) update(dt float64, state string, paused bool) {
	o.elapsed += dt
	if o.text != "" && o.elapsed < fpsRefresh {
		return
	}
	o.elapsed = 0
	o.text = fpsText(ebiten.ActualFPS(), ebiten.ActualTPS(), state, paused)

	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, o.text)
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	screen.DrawImage(o.img, nil)
}

func fpsText(fps, tps float64, state string, paused bool) string {
	if paused {
		state += " (paused)"
	}
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\n%s", fps, tps, state)
}

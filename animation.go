package glimmer

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// colorTween crossfades a particle from one color to another. The gween
// tween drives progress from 0 to 1; the color itself is blended in Lab
// space. The zero value is idle.
type colorTween struct {
	tween    *gween.Tween
	from, to Color
}

// start begins a crossfade from the current color to to over duration
// seconds. A non-positive duration returns to immediately.
func (c *colorTween) start(from, to Color, duration float64) Color {
	if duration <= 0 {
		c.tween = nil
		return to
	}
	c.from, c.to = from, to
	c.tween = gween.New(0, 1, float32(duration), ease.OutQuad)
	return from
}

// update advances the crossfade by dt seconds and returns the blended color.
// ok is false when no crossfade is running.
func (c *colorTween) update(dt float64) (col Color, ok bool) {
	if c.tween == nil {
		return Color{}, false
	}
	t, done := c.tween.Update(float32(dt))
	col = blendLab(c.from, c.to, float64(t))
	if done {
		c.tween = nil
		col = c.to
	}
	return col, true
}

// active reports whether a crossfade is in progress.
func (c *colorTween) active() bool {
	return c.tween != nil
}

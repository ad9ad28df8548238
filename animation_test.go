package glimmer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorTweenReachesTarget(t *testing.T) {
	from, to := Color{1, 0, 0, 1}, Color{0, 0, 1, 0.5}
	var tw colorTween

	got := tw.start(from, to, 1.0)
	assert.Equal(t, from, got)
	assert.True(t, tw.active())

	// Run for full duration using exact halves to avoid float32 accumulation drift.
	mid, ok := tw.update(0.5)
	assert.True(t, ok)
	assert.Greater(t, mid.A, to.A)
	assert.Less(t, mid.A, from.A)

	end, ok := tw.update(0.5)
	assert.True(t, ok)
	assert.Equal(t, to, end)
	assert.False(t, tw.active())
}

func TestColorTweenIdle(t *testing.T) {
	var tw colorTween
	_, ok := tw.update(0.1)
	assert.False(t, ok)
	assert.False(t, tw.active())
}

func TestColorTweenZeroDuration(t *testing.T) {
	var tw colorTween
	to := Color{0, 1, 0, 1}
	assert.Equal(t, to, tw.start(ColorWhite, to, 0))
	assert.False(t, tw.active())
}

func TestColorTweenEaseOut(t *testing.T) {
	var tw colorTween
	tw.start(Color{A: 0}, Color{A: 1}, 1.0)
	c, _ := tw.update(0.5)
	// OutQuad is past halfway at half time.
	assert.InDelta(t, 0.75, c.A, 1e-6)
}

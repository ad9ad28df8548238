package glimmer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilNoiseFieldIsZero(t *testing.T) {
	var n *NoiseField
	assert.Equal(t, Vec3{}, n.Offset(Vec3{X: 3, Y: 4}, 1, 2))
	assert.Equal(t, Vec3{}, NewNoiseField(0, 1, 1, 1).Offset(Vec3{X: 3}, 1, 2))
}

func TestNoiseFieldBoundedAndDeterministic(t *testing.T) {
	a := NewNoiseField(6, 0.01, 0.3, 42)
	b := NewNoiseField(6, 0.01, 0.3, 42)
	for i := 0; i < 200; i++ {
		pos := Vec3{X: float64(i) * 13.7, Y: float64(i) * -7.1}
		o := a.Offset(pos, float64(i), float64(i)*0.05)
		assert.Equal(t, o, b.Offset(pos, float64(i), float64(i)*0.05))
		// Three octaves at alpha 2 sum to less than twice the amplitude.
		for _, v := range []float64{o.X, o.Y, o.Z} {
			assert.Less(t, math.Abs(v), 12.0)
		}
	}
}

func TestNoiseFieldVariesOverTime(t *testing.T) {
	n := NewNoiseField(6, 0.01, 1, 7)
	pos := Vec3{X: 120.3, Y: -44.9}
	seen := map[Vec3]bool{}
	for i := 0; i < 10; i++ {
		seen[n.Offset(pos, 0.37, float64(i)*0.31)] = true
	}
	assert.Greater(t, len(seen), 5)
}

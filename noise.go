package glimmer

import (
	perlin "github.com/aquilax/go-perlin"
)

// Offsets into noise space so the three axes sample uncorrelated values.
const (
	noiseOffsetY = 31.416
	noiseOffsetZ = 71.828
)

// NoiseField is a coherent 3D gradient-noise drift applied on top of the
// wave term. A nil *NoiseField contributes nothing.
type NoiseField struct {
	// Amplitude is the maximum displacement in pixels per axis.
	Amplitude float64
	// Frequency scales positions before sampling the noise.
	Frequency float64
	// Speed scales time before sampling the noise.
	Speed float64

	p *perlin.Perlin
}

// NewNoiseField creates a field from a seeded Perlin generator.
func NewNoiseField(amplitude, frequency, speed float64, seed int64) *NoiseField {
	return &NoiseField{
		Amplitude: amplitude,
		Frequency: frequency,
		Speed:     speed,
		p:         perlin.NewPerlin(2, 2, 3, seed),
	}
}

// Offset returns the displacement for a particle at pos with the given phase
// at time t seconds.
func (n *NoiseField) Offset(pos Vec3, phase, t float64) Vec3 {
	if n == nil || n.p == nil || n.Amplitude == 0 {
		return Vec3{}
	}
	x := pos.X * n.Frequency
	y := pos.Y * n.Frequency
	w := t*n.Speed + phase
	return Vec3{
		X: n.p.Noise3D(x, y, w) * n.Amplitude,
		Y: n.p.Noise3D(x+noiseOffsetY, y, w) * n.Amplitude,
		Z: n.p.Noise3D(x, y+noiseOffsetZ, w) * n.Amplitude,
	}
}

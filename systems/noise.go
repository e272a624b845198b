package systems

import (
	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/drift/vec"
)

// NoiseField generates coherent wander nudges from simplex noise. Nearby
// particles drift the same way and the drift changes smoothly over time.
type NoiseField struct {
	noise opensimplex.Noise
	scale float64 // Spatial frequency
	speed float64 // Temporal frequency
}

// NewNoiseField creates a noise field for the given seed.
func NewNoiseField(seed int64, scale, speed float64) *NoiseField {
	return &NoiseField{
		noise: opensimplex.New(seed),
		scale: scale,
		speed: speed,
	}
}

// Nudge returns the field value at pos and time t (seconds), scaled so each
// axis stays within [-jitter, jitter].
func (f *NoiseField) Nudge(pos r2.Vec, t, jitter float64) r2.Vec {
	x, y, z := pos.X*f.scale, pos.Y*f.scale, t*f.speed
	// Offset the second sample so the axes are uncorrelated.
	nx := f.noise.Eval3(x, y, z)
	ny := f.noise.Eval3(x+31.7, y+47.3, z)
	return r2.Vec{
		X: vec.Clamp(nx, -1, 1) * jitter,
		Y: vec.Clamp(ny, -1, 1) * jitter,
	}
}

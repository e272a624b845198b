// Package renderer draws particle views with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/drift/components"
)

// ParticleRenderer draws particles as filled dots with optional fading trails.
type ParticleRenderer struct {
	Color    rl.Color
	DotSize  float32 // Diameter in pixels
	TrailMin float32 // Trail width at the tail, as a fraction of the dot size
}

// NewParticleRenderer creates a renderer for dots of the given diameter.
func NewParticleRenderer(dotSize float32, color rl.Color) *ParticleRenderer {
	return &ParticleRenderer{
		Color:    color,
		DotSize:  dotSize,
		TrailMin: 0.1,
	}
}

// Draw renders every view. Trails go first so dots sit on top.
func (r *ParticleRenderer) Draw(views []components.View) {
	for i := range views {
		r.drawTrail(&views[i])
	}
	radius := r.DotSize / 2
	for i := range views {
		v := &views[i]
		if v.Alpha <= 0 {
			continue
		}
		c := r.Color
		c.A = alpha(v.Alpha)
		rl.DrawCircleV(rl.Vector2{X: float32(v.Pos.X), Y: float32(v.Pos.Y)}, radius, c)
	}
}

// drawTrail connects the particle to its history, newest first, thinning and
// fading toward the tail. A segment longer than the dot size times the trail
// length ends the trail.
func (r *ParticleRenderer) drawTrail(v *components.View) {
	n := len(v.Trail)
	if n == 0 || v.Alpha <= 0 {
		return
	}
	maxJump := float64(r.DotSize) * float64(n)
	prev := v.Pos
	for i, p := range v.Trail {
		dx, dy := p.X-prev.X, p.Y-prev.Y
		if dx*dx+dy*dy > maxJump*maxJump {
			return
		}
		f := 1 - float32(i)/float32(n)
		width := r.DotSize * (r.TrailMin + (1-r.TrailMin)*f)
		c := r.Color
		c.A = alpha(v.Alpha * float64(f))
		rl.DrawLineEx(
			rl.Vector2{X: float32(prev.X), Y: float32(prev.Y)},
			rl.Vector2{X: float32(p.X), Y: float32(p.Y)},
			width, c,
		)
		prev = p
	}
}

func alpha(a float64) uint8 {
	switch {
	case a <= 0:
		return 0
	case a >= 255:
		return 255
	}
	return uint8(a)
}

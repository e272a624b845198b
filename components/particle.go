package components

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/drift/vec"
)

// Particle is the kinematic state of a single point.
type Particle struct {
	Pos r2.Vec
	Vel r2.Vec
	Acc r2.Vec // Force accumulator, reset by Integrate

	Target    r2.Vec
	HasTarget bool

	Trail []r2.Vec // Most recent position first
	Alpha float64  // 0-255
	Group Group
}

// NewParticle returns a visible particle at rest at pos.
func NewParticle(pos r2.Vec) Particle {
	return Particle{Pos: pos, Alpha: 255}
}

// ApplyForce adds f to the accumulator.
func (p *Particle) ApplyForce(f r2.Vec) {
	p.Acc = r2.Add(p.Acc, f)
}

// Integrate advances one Euler step: velocity takes the accumulated force and
// is clamped to maxSpeed, position moves by velocity and the accumulator
// resets.
func (p *Particle) Integrate(maxSpeed float64) {
	p.Vel = vec.Limit(r2.Add(p.Vel, p.Acc), maxSpeed)
	p.Pos = r2.Add(p.Pos, p.Vel)
	p.Acc = r2.Vec{}
}

// SetTarget gives the particle a seek target.
func (p *Particle) SetTarget(t r2.Vec) {
	p.Target = t
	p.HasTarget = true
}

// ClearTarget removes the seek target.
func (p *Particle) ClearTarget() {
	p.Target = r2.Vec{}
	p.HasTarget = false
}

// PushTrail records the current position at the head of the trail and trims
// it to max entries. max <= 0 clears the trail.
func (p *Particle) PushTrail(max int) {
	if max <= 0 {
		p.Trail = p.Trail[:0]
		return
	}
	if len(p.Trail) < max {
		p.Trail = append(p.Trail, r2.Vec{})
	}
	copy(p.Trail[1:], p.Trail[:len(p.Trail)-1])
	p.Trail[0] = p.Pos
}

// ClearTrail drops all trail points, keeping the backing array.
func (p *Particle) ClearTrail() {
	p.Trail = p.Trail[:0]
}

// View returns a render snapshot. The trail is copied.
func (p *Particle) View() View {
	return View{
		Pos:   p.Pos,
		Trail: append([]r2.Vec(nil), p.Trail...),
		Alpha: p.Alpha,
	}
}

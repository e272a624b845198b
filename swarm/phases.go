package swarm

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/input"
	"github.com/pthm-cable/drift/systems"
	"github.com/pthm-cable/drift/vec"
)

// InteractParams configures the interaction phase.
type InteractParams struct {
	Enabled       bool // False for states that ignore the pointer
	Repel         systems.RepelParams
	MinSpeed      float64 // Speed floor after a push
	RequireMotion bool    // Repel only while the pointer moves
	Friction      float64 // Settle damping while the pointer is idle
	ReturnSpeed   float64 // Settle pull while the pointer is idle
	TrailLength   int
}

// Interact runs the pointer phase after steering: a moving pointer pushes
// particles away, an idle one lets targeted particles settle back. Trails
// record the pre-integration position.
func (s *System) Interact(frame input.Frame, p InteractParams) {
	repel := p.Enabled && frame.Active() && (frame.Moved || !p.RequireMotion)
	settle := p.Enabled && !repel

	s.Each(func(_ int, part *components.Particle) {
		switch {
		case repel:
			f := systems.PointerRepel(systems.Body{Pos: part.Pos, Vel: part.Vel}, frame.Pointers, p.Repel)
			if !vec.IsZero(f) {
				part.Vel = systems.FloorSpeed(r2.Add(part.Vel, f), p.MinSpeed)
			}
		case settle:
			systems.Settle(part, p.Friction, p.ReturnSpeed)
		}
		part.PushTrail(p.TrailLength)
	})
}

// Integrate advances every particle one step and applies edge handling.
// A horizontal wrap clears the trail so no segment spans the canvas.
func (s *System) Integrate(maxSpeed float64, mode EdgeMode, width, height float64) {
	s.Each(func(_ int, part *components.Particle) {
		part.Integrate(maxSpeed)
		if mode == EdgeNone {
			return
		}
		if wrapped, x := wrap(part.Pos.X, width); wrapped {
			part.Pos.X = x
			part.ClearTrail()
		}
		if mode == EdgeWrap {
			if wrapped, y := wrap(part.Pos.Y, height); wrapped {
				part.Pos.Y = y
				part.ClearTrail()
			}
		}
	})
}

// wrap moves v to the opposite edge when it leaves [0, size].
func wrap(v, size float64) (bool, float64) {
	switch {
	case v < 0:
		return true, size
	case v > size:
		return true, 0
	}
	return false, v
}

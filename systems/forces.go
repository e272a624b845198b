package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/vec"
)

// Wander returns a uniform nudge in [-jitter, jitter] on each axis.
func Wander(rng *rand.Rand, jitter float64) r2.Vec {
	return r2.Vec{
		X: (rng.Float64()*2 - 1) * jitter,
		Y: (rng.Float64()*2 - 1) * jitter,
	}
}

// SoftBoundary pushes y back toward the vertical band between top*height and
// height-bottom*height. Inside the band it returns zero.
func SoftBoundary(pos r2.Vec, height, top, bottom, force float64) r2.Vec {
	switch {
	case pos.Y < top*height:
		return r2.Vec{Y: force}
	case pos.Y > height-bottom*height:
		return r2.Vec{Y: -force}
	}
	return vec.Zero
}

// Wind is a constant horizontal push whose vertical tilt follows the mean
// pointer height: pointers at the top tilt up, at the bottom tilt down.
func Wind(pointers []r2.Vec, height, base, tilt float64) r2.Vec {
	if len(pointers) == 0 {
		return r2.Vec{X: base}
	}
	var sumY float64
	for _, p := range pointers {
		sumY += p.Y
	}
	avg := vec.Clamp(sumY/float64(len(pointers)), 0, height)
	return r2.Vec{X: base, Y: vec.Remap(avg, 0, height, -tilt, tilt)}
}

// Settle damps the velocity of a targeted particle and pulls it gently back
// toward its target, harder the farther away it is. Untargeted particles are
// left alone.
func Settle(p *components.Particle, friction, returnSpeed float64) {
	if !p.HasTarget {
		return
	}
	diff := r2.Sub(p.Target, p.Pos)
	d := r2.Norm(diff)
	p.Vel = r2.Scale(friction, p.Vel)
	p.Vel = r2.Add(p.Vel, vec.SetMag(diff, returnSpeed*d/100))
}

func pow(base, exp float64) float64 {
	if exp == 1 {
		return base
	}
	return math.Pow(base, exp)
}

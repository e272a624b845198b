// Package systems provides the steering behaviors and spatial helpers that
// drive particle motion. Behaviors are pure: they read positions and
// velocities and return a force; callers decide when to apply it.
package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/drift/vec"
)

// Body is a particle as seen by the steering code: where it is and where it
// is going. Neighbor reads always use start-of-tick Bodies.
type Body struct {
	Pos r2.Vec
	Vel r2.Vec
}

// SeekParams configures seek with arrival.
type SeekParams struct {
	MaxSpeed      float64
	MaxForce      float64
	ArrivalRadius float64 // Deceleration begins inside this distance; 0 disables arrival
	MinArrival    float64 // Fraction of MaxSpeed desired at distance 0
}

// Seek steers b toward target. Inside the arrival radius the desired speed
// ramps linearly from MinArrival*MaxSpeed at the target to MaxSpeed at the
// radius. A particle sitting on its target gets a pure braking force.
func Seek(b Body, target r2.Vec, p SeekParams) r2.Vec {
	diff := r2.Sub(target, b.Pos)
	d := r2.Norm(diff)
	if d == 0 {
		return vec.Limit(r2.Scale(-1, b.Vel), p.MaxForce)
	}

	speed := p.MaxSpeed
	if d < p.ArrivalRadius {
		speed = vec.Remap(d, 0, p.ArrivalRadius, p.MinArrival*p.MaxSpeed, p.MaxSpeed)
	}
	desired := r2.Scale(speed/d, diff)
	return vec.Limit(r2.Sub(desired, b.Vel), p.MaxForce)
}

// steer turns a desired heading into a force: reshape to maxSpeed, subtract
// the current velocity, clamp to maxForce.
func steer(desired, vel r2.Vec, maxSpeed, maxForce float64) r2.Vec {
	if vec.IsZero(desired) {
		return vec.Zero
	}
	return vec.Limit(r2.Sub(vec.SetMag(desired, maxSpeed), vel), maxForce)
}

// Separate pushes b away from neighbors closer than radius, weighting each by
// inverse distance. Neighbors at distance 0 (including b itself) are skipped.
func Separate(b Body, neighbors []Body, radius, maxSpeed, maxForce float64) r2.Vec {
	var sum r2.Vec
	count := 0
	for _, n := range neighbors {
		diff := r2.Sub(b.Pos, n.Pos)
		d := r2.Norm(diff)
		if d > 0 && d < radius {
			sum = r2.Add(sum, r2.Scale(1/(d*d), diff))
			count++
		}
	}
	if count == 0 {
		return vec.Zero
	}
	return steer(r2.Scale(1/float64(count), sum), b.Vel, maxSpeed, maxForce)
}

// Align steers b toward the mean velocity of neighbors within radius.
func Align(b Body, neighbors []Body, radius, maxSpeed, maxForce float64) r2.Vec {
	var sum r2.Vec
	count := 0
	for _, n := range neighbors {
		d := vec.Dist(b.Pos, n.Pos)
		if d > 0 && d < radius {
			sum = r2.Add(sum, n.Vel)
			count++
		}
	}
	if count == 0 {
		return vec.Zero
	}
	return steer(r2.Scale(1/float64(count), sum), b.Vel, maxSpeed, maxForce)
}

// Cohere steers b toward the centroid of neighbors within radius.
func Cohere(b Body, neighbors []Body, radius, maxSpeed, maxForce float64) r2.Vec {
	var sum r2.Vec
	count := 0
	for _, n := range neighbors {
		d := vec.Dist(b.Pos, n.Pos)
		if d > 0 && d < radius {
			sum = r2.Add(sum, n.Pos)
			count++
		}
	}
	if count == 0 {
		return vec.Zero
	}
	centroid := r2.Scale(1/float64(count), sum)
	return steer(r2.Sub(centroid, b.Pos), b.Vel, maxSpeed, maxForce)
}

// FlockParams configures the weighted boids combination.
type FlockParams struct {
	SeparationDist   float64
	AlignmentDist    float64
	CohesionDist     float64
	SeparationWeight float64
	AlignmentWeight  float64
	CohesionWeight   float64
	MaxSpeed         float64
	MaxForce         float64
}

// MaxDist returns the largest neighbor radius any rule looks at.
func (p FlockParams) MaxDist() float64 {
	return max(p.SeparationDist, p.AlignmentDist, p.CohesionDist)
}

// Flock returns the weighted sum of separation, alignment and cohesion.
func Flock(b Body, neighbors []Body, p FlockParams) r2.Vec {
	sep := Separate(b, neighbors, p.SeparationDist, p.MaxSpeed, p.MaxForce)
	ali := Align(b, neighbors, p.AlignmentDist, p.MaxSpeed, p.MaxForce)
	coh := Cohere(b, neighbors, p.CohesionDist, p.MaxSpeed, p.MaxForce)

	f := r2.Scale(p.SeparationWeight, sep)
	f = r2.Add(f, r2.Scale(p.AlignmentWeight, ali))
	return r2.Add(f, r2.Scale(p.CohesionWeight, coh))
}

// RepelParams configures pointer repulsion.
type RepelParams struct {
	Radius   float64
	Force    float64
	Exponent float64
}

// PointerRepel sums the push away from every pointer within Radius. The
// magnitude per pointer is Force*(1-d/Radius)^Exponent. A pointer exactly on
// the particle pushes along its heading, or +X when it is at rest.
// The result is not clamped to the steering force limit.
func PointerRepel(b Body, pointers []r2.Vec, p RepelParams) r2.Vec {
	var sum r2.Vec
	if p.Radius <= 0 {
		return sum
	}
	for _, ptr := range pointers {
		diff := r2.Sub(b.Pos, ptr)
		d := r2.Norm(diff)
		if d >= p.Radius {
			continue
		}
		dir := vec.Normalize(diff)
		if d == 0 {
			dir = vec.Normalize(b.Vel)
			if vec.IsZero(dir) {
				dir = r2.Vec{X: 1}
			}
		}
		mag := p.Force * pow(1-d/p.Radius, p.Exponent)
		sum = r2.Add(sum, r2.Scale(mag, dir))
	}
	return sum
}

// FloorSpeed raises |v| to minSpeed when it is slower. Zero stays zero.
func FloorSpeed(v r2.Vec, minSpeed float64) r2.Vec {
	if vec.Mag(v) < minSpeed {
		return vec.SetMag(v, minSpeed)
	}
	return v
}

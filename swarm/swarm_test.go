package swarm

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/input"
	"github.com/pthm-cable/drift/systems"
)

func population(n int) []components.Particle {
	ps := make([]components.Particle, n)
	for i := range ps {
		ps[i] = components.NewParticle(r2.Vec{X: float64(10 * i), Y: 50})
	}
	return ps
}

func TestRebuildAndAt(t *testing.T) {
	s := New()
	s.Rebuild(population(5))
	if s.Len() != 5 {
		t.Fatalf("Len = %d, want 5", s.Len())
	}
	if got := s.At(3).Pos.X; got != 30 {
		t.Errorf("At(3).x = %v, want 30", got)
	}

	s.Rebuild(population(2))
	if s.Len() != 2 {
		t.Fatalf("Len after shrink = %d, want 2", s.Len())
	}
	count := 0
	s.Each(func(i int, p *components.Particle) {
		count++
		if p.Pos.X != float64(10*i) {
			t.Errorf("slot %d at x=%v", i, p.Pos.X)
		}
	})
	if count != 2 {
		t.Errorf("Each visited %d particles, want 2", count)
	}
}

func TestCaptureIsStartOfTick(t *testing.T) {
	s := New()
	s.Rebuild(population(3))
	s.Capture(100, 100, 50)

	s.At(0).Pos = r2.Vec{X: 999}
	if s.Body(0).Pos.X != 0 {
		t.Errorf("snapshot changed with particle: %v", s.Body(0))
	}
	near := s.Neighbors(1, 15)
	if len(near) != 2 {
		t.Errorf("neighbors of slot 1 = %d, want 2", len(near))
	}
}

func TestInteractRepelsOnlyWhenMoving(t *testing.T) {
	params := InteractParams{
		Enabled:       true,
		Repel:         systems.RepelParams{Radius: 100, Force: 20, Exponent: 1},
		MinSpeed:      5,
		RequireMotion: true,
		Friction:      0.5,
		ReturnSpeed:   0,
	}
	s := New()
	p := components.NewParticle(r2.Vec{X: 50, Y: 50})
	p.SetTarget(r2.Vec{X: 50, Y: 50})
	p.Vel = r2.Vec{X: 2}
	s.Rebuild([]components.Particle{p})

	idle := input.Frame{Pointers: []r2.Vec{{X: 40, Y: 50}}, Inside: true}
	s.Interact(idle, params)
	if v := s.At(0).Vel; math.Abs(v.X-1) > 1e-9 {
		t.Errorf("idle pointer vel = %v, want settled (1, 0)", v)
	}

	moving := idle
	moving.Moved = true
	s.Interact(moving, params)
	if v := s.At(0).Vel; v.X <= 5 {
		t.Errorf("moving pointer vel = %v, want pushed away past 5", v)
	}
}

func TestInteractDisabled(t *testing.T) {
	s := New()
	p := components.NewParticle(r2.Vec{X: 50, Y: 50})
	p.SetTarget(r2.Vec{})
	p.Vel = r2.Vec{X: 2}
	s.Rebuild([]components.Particle{p})

	frame := input.Frame{Pointers: []r2.Vec{{X: 50, Y: 50}}, Inside: true, Moved: true}
	s.Interact(frame, InteractParams{Friction: 0.5, Repel: systems.RepelParams{Radius: 100, Force: 20, Exponent: 1}})
	if v := s.At(0).Vel; v != (r2.Vec{X: 2}) {
		t.Errorf("disabled interaction changed vel to %v", v)
	}
}

func TestIntegrateWrapsAndClearsTrail(t *testing.T) {
	s := New()
	p := components.NewParticle(r2.Vec{X: 99, Y: 50})
	p.Vel = r2.Vec{X: 3}
	p.PushTrail(5)
	p.PushTrail(5)
	s.Rebuild([]components.Particle{p})

	s.Integrate(5, EdgeWrapX, 100, 100)
	got := s.At(0)
	if got.Pos.X != 0 {
		t.Errorf("x = %v, want wrapped to 0", got.Pos.X)
	}
	if len(got.Trail) != 0 {
		t.Errorf("trail len = %d, want cleared on wrap", len(got.Trail))
	}

	got.Pos = r2.Vec{X: 50, Y: -10}
	got.Vel = r2.Vec{Y: -1}
	s.Integrate(5, EdgeWrapX, 100, 100)
	if got := s.At(0).Pos.Y; got != -11 {
		t.Errorf("EdgeWrapX moved y to %v, want free -11", got)
	}
	s.Integrate(5, EdgeWrap, 100, 100)
	if got := s.At(0).Pos.Y; got != 100 {
		t.Errorf("EdgeWrap y = %v, want 100", got)
	}
}

func TestVelocityBoundAfterRandomTicks(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	s := New()
	ps := make([]components.Particle, 40)
	for i := range ps {
		ps[i] = components.NewParticle(r2.Vec{X: rng.Float64() * 400, Y: rng.Float64() * 300})
		ps[i].SetTarget(r2.Vec{X: rng.Float64() * 400, Y: rng.Float64() * 300})
	}
	s.Rebuild(ps)
	params := InteractParams{
		Enabled:  true,
		Repel:    systems.RepelParams{Radius: 300, Force: 20, Exponent: 5},
		MinSpeed: 5, Friction: 0.98, ReturnSpeed: 0.015, TrailLength: 10,
	}
	seek := systems.SeekParams{MaxSpeed: 4, MaxForce: 2, ArrivalRadius: 100}

	for tick := 0; tick < 300; tick++ {
		s.Capture(400, 300, 150)
		s.Each(func(i int, p *components.Particle) {
			p.ApplyForce(systems.Seek(s.Body(i), p.Target, seek))
			p.ApplyForce(systems.Separate(s.Body(i), s.Neighbors(i, 150), 150, 4, 2))
		})
		frame := input.Frame{
			Pointers: []r2.Vec{{X: rng.Float64() * 400, Y: rng.Float64() * 300}},
			Inside:   true,
			Moved:    rng.Intn(2) == 0,
		}
		s.Interact(frame, params)
		s.Integrate(4, EdgeWrap, 400, 300)

		s.Each(func(i int, p *components.Particle) {
			if speed := r2.Norm(p.Vel); speed > 4+1e-9 {
				t.Fatalf("tick %d particle %d speed %v > 4", tick, i, speed)
			}
			if len(p.Trail) > 10 {
				t.Fatalf("tick %d particle %d trail %d > 10", tick, i, len(p.Trail))
			}
		})
	}
}

func TestViewsOrdered(t *testing.T) {
	s := New()
	s.Rebuild(population(4))
	views := s.Views()
	for i, v := range views {
		if v.Pos.X != float64(10*i) {
			t.Errorf("view %d at %v", i, v.Pos)
		}
	}
	if c := s.Centroid(); math.Abs(c.X-15) > 1e-9 {
		t.Errorf("centroid = %v, want x=15", c)
	}
}

package states

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/config"
	"github.com/pthm-cable/drift/swarm"
	"github.com/pthm-cable/drift/systems"
	"github.com/pthm-cable/drift/vec"
)

// flockState runs boids with a pointer-tilted wind and a soft vertical band.
type flockState struct{}

func (flockState) ID() ID { return Flock }

func (flockState) Traits(cfg *config.Config) Traits {
	return Traits{
		TrailLength:      cfg.TrailLength(string(Flock)),
		Edges:            swarm.EdgeWrapX,
		Interactive:      true,
		RepelRadiusBonus: cfg.Flock.RepelRadiusBonus,
	}
}

// Enter launches every particle roughly rightward with a random speed.
func (flockState) Enter(ctx *Context) {
	ensureCount(ctx)
	cfg := ctx.Cfg
	jitter := cfg.Flock.HeadingJitter
	ctx.Swarm.Each(func(_ int, p *components.Particle) {
		p.ClearTarget()
		angle := (ctx.Rand.Float64()*2 - 1) * jitter
		speed := launchSpeed(ctx, cfg.Flock.MinLaunchSpeed, cfg.Particles.MaxSpeed)
		p.Vel = r2.Scale(speed, vec.FromAngle(angle))
	})
	resetVisible(ctx.Swarm)
}

func (flockState) Update(ctx *Context) bool {
	cfg := ctx.Cfg
	f := cfg.Flock
	params := FlockParams(cfg)
	h := cfg.Derived.Height

	var pointers []r2.Vec
	if ctx.Input.Active() {
		pointers = ctx.Input.Pointers
	}
	wind := systems.Wind(pointers, h, f.WindX, f.WindTilt)
	radius := params.MaxDist()

	ctx.Swarm.Each(func(i int, p *components.Particle) {
		b := ctx.Swarm.Body(i)
		p.ApplyForce(systems.Flock(b, ctx.Swarm.Neighbors(i, radius), params))
		p.ApplyForce(wind)
		p.ApplyForce(systems.SoftBoundary(b.Pos, h, f.TopBoundary, f.BottomBoundary, f.BoundaryForce))
	})
	return false
}

func (flockState) Exit(*Context) {}

// FlockParams builds the boids parameters from a config.
func FlockParams(cfg *config.Config) systems.FlockParams {
	f := cfg.Flock
	return systems.FlockParams{
		SeparationDist:   f.SeparationDist,
		AlignmentDist:    f.AlignmentDist,
		CohesionDist:     f.CohesionDist,
		SeparationWeight: f.SeparationWeight,
		AlignmentWeight:  f.AlignmentWeight,
		CohesionWeight:   f.CohesionWeight,
		MaxSpeed:         cfg.Particles.MaxSpeed,
		MaxForce:         cfg.Particles.MaxForce,
	}
}

// wanderState drifts without targets.
type wanderState struct{}

func (wanderState) ID() ID { return Wander }

func (wanderState) Traits(cfg *config.Config) Traits { return seekTraits(cfg, Wander) }

func (wanderState) Enter(ctx *Context) {
	ensureCount(ctx)
	maxSpeed := ctx.Cfg.Particles.MaxSpeed
	ctx.Swarm.Each(func(_ int, p *components.Particle) {
		p.ClearTarget()
		angle := ctx.Rand.Float64() * 2 * math.Pi
		p.Vel = r2.Scale(launchSpeed(ctx, 0, maxSpeed/2), vec.FromAngle(angle))
	})
	resetVisible(ctx.Swarm)
}

func (wanderState) Update(ctx *Context) bool {
	jitter := ctx.Cfg.Wander.Jitter
	t := ctx.Now.Seconds()
	// Wander nudges velocity directly rather than accumulating force.
	ctx.Swarm.Each(func(i int, p *components.Particle) {
		if ctx.Noise != nil {
			p.Vel = r2.Add(p.Vel, ctx.Noise.Nudge(ctx.Swarm.Body(i).Pos, t, jitter))
			return
		}
		p.Vel = r2.Add(p.Vel, systems.Wander(ctx.Rand, jitter))
	})
	return false
}

func (wanderState) Exit(*Context) {}

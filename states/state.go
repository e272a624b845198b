// Package states implements the formation state machine: the animation
// states that decide which forces act on the swarm, and the controller that
// sequences them.
package states

import (
	"math/rand"
	"time"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/config"
	"github.com/pthm-cable/drift/input"
	"github.com/pthm-cable/drift/swarm"
	"github.com/pthm-cable/drift/systems"
)

// ID names a state.
type ID string

const (
	Loading ID = "loading"
	Grid    ID = "grid"
	Wave    ID = "wave"
	Flock   ID = "flock"
	Wander  ID = "wander"
	Circles ID = "circles"
)

// All lists every known state.
var All = []ID{Loading, Grid, Wave, Flock, Wander, Circles}

// Traits are per-state knobs read by the tick driver.
type Traits struct {
	TrailLength      int
	Edges            swarm.EdgeMode
	Interactive      bool    // Pointer repulsion and settle apply
	RepelRadiusBonus float64 // Added to the configured repel radius
}

// Context is everything a state may read or mutate during a tick.
type Context struct {
	Swarm   *swarm.System
	Cfg     *config.Config
	Input   input.Frame
	Rand    *rand.Rand
	Noise   *systems.NoiseField // Nil unless wander.noise is on
	Now     time.Duration       // Simulated time since start
	Elapsed time.Duration       // Simulated time in the active state
}

// Seek returns the seek parameters for the current config.
func (ctx *Context) Seek() systems.SeekParams {
	return systems.SeekParams{
		MaxSpeed:      ctx.Cfg.Particles.MaxSpeed,
		MaxForce:      ctx.Cfg.Particles.MaxForce,
		ArrivalRadius: ctx.Cfg.Seek.ArrivalRadius,
		MinArrival:    ctx.Cfg.Seek.MinArrival,
	}
}

// seekTargets applies seek toward each particle's own target.
func (ctx *Context) seekTargets() {
	params := ctx.Seek()
	ctx.Swarm.Each(func(i int, p *components.Particle) {
		if p.HasTarget {
			p.ApplyForce(systems.Seek(ctx.Swarm.Body(i), p.Target, params))
		}
	})
}

// State is one formation behavior. Enter prepares the swarm, Update applies
// forces for a tick and reports completion, Exit releases anything the state
// set up. Enter may run again on the active state after a resize.
type State interface {
	ID() ID
	Traits(cfg *config.Config) Traits
	Enter(ctx *Context)
	Update(ctx *Context) (done bool)
	Exit(ctx *Context)
}

// New returns a fresh state for id, or nil if id is unknown.
func New(id ID) State {
	switch id {
	case Loading:
		return &loadingState{}
	case Grid:
		return &gridState{}
	case Wave:
		return &waveState{}
	case Flock:
		return &flockState{}
	case Wander:
		return &wanderState{}
	case Circles:
		return &circlesState{}
	}
	return nil
}

// resetVisible makes every particle opaque and clears trails.
func resetVisible(s *swarm.System) {
	s.Each(func(_ int, p *components.Particle) {
		p.Alpha = 255
		p.ClearTrail()
	})
}

// ensureCount rebuilds the swarm at the center when the population does not
// match the configured count.
func ensureCount(ctx *Context) {
	n := ctx.Cfg.Particles.Count
	if ctx.Swarm.Len() == n {
		return
	}
	center := ctx.Cfg.Derived.Bounds.Center()
	ps := make([]components.Particle, n)
	for i := range ps {
		ps[i] = components.NewParticle(center)
	}
	ctx.Swarm.Rebuild(ps)
}

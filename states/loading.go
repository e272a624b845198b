package states

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/config"
	"github.com/pthm-cable/drift/swarm"
	"github.com/pthm-cable/drift/vec"
)

// loadingState is the intro: two dots pulse around the center, then collapse
// into it while the rest of the population fades in. It ends on completion,
// never on a timer.
type loadingState struct {
	rotation   float64
	converging bool
	done       bool
}

func (s *loadingState) ID() ID { return Loading }

func (s *loadingState) Traits(*config.Config) Traits {
	return Traits{Edges: swarm.EdgeNone}
}

// Enter rebuilds the population: the pulse pair at center +/- distance, half
// of the rest hidden at the center and the remainder hidden on random edges.
func (s *loadingState) Enter(ctx *Context) {
	cfg := ctx.Cfg
	center := cfg.Derived.Bounds.Center()
	dist := cfg.Loading.Distance
	n := cfg.Particles.Count

	ps := make([]components.Particle, 0, n)
	for _, dy := range []float64{-dist, dist} {
		if len(ps) == n {
			break
		}
		p := components.NewParticle(r2.Vec{X: center.X, Y: center.Y + dy})
		p.Group = components.GroupPulse
		ps = append(ps, p)
	}

	rest := n - len(ps)
	half := rest / 2
	for i := 0; i < rest; i++ {
		pos, group := center, components.GroupCenter
		if i >= half {
			pos, group = randomEdge(ctx, cfg.Derived.Width, cfg.Derived.Height), components.GroupEdge
		}
		p := components.NewParticle(pos)
		p.Alpha = 0
		p.Group = group
		ps = append(ps, p)
	}
	ctx.Swarm.Rebuild(ps)

	s.rotation = 0
	s.converging = false
	s.done = false
}

func (s *loadingState) Update(ctx *Context) bool {
	if s.done {
		return true
	}
	cfg := ctx.Cfg.Loading
	center := ctx.Cfg.Derived.Bounds.Center()
	s.rotation += cfg.RotationSpeed

	if !s.converging {
		off := math.Sin(s.rotation) * cfg.Distance
		s.eachPulse(ctx, func(i int, p *components.Particle) {
			// Slot 0 rises while slot 1 falls.
			if i == 0 {
				p.Pos.Y = center.Y - off
			} else {
				p.Pos.Y = center.Y + off
			}
		})
		if s.rotation >= 2*math.Pi*cfg.Rotations {
			s.converging = true
			s.rotation = 0
		}
		return false
	}

	progress := math.Min(1, s.rotation/(math.Pi/2))
	settled := true
	ctx.Swarm.Each(func(_ int, p *components.Particle) {
		switch p.Group {
		case components.GroupPulse:
			p.Pos.Y = vec.Lerp1(p.Pos.Y, center.Y, cfg.ConvergeRate)
			if math.Abs(p.Pos.Y-center.Y) >= cfg.Epsilon {
				settled = false
			}
		default:
			if progress <= 0.5 {
				return
			}
			p.Alpha = vec.Remap(progress, 0.5, 1, 0, 255)
			if p.Group == components.GroupEdge {
				p.Pos = vec.Lerp(p.Pos, center, cfg.ConvergeRate)
			}
		}
	})
	s.rotation += cfg.RotationSpeed

	s.done = settled
	return s.done
}

func (s *loadingState) Exit(ctx *Context) {
	ctx.Swarm.Each(func(_ int, p *components.Particle) {
		p.Alpha = 255
	})
}

// eachPulse visits the pulse pair, which Enter places in slots 0 and 1.
func (s *loadingState) eachPulse(ctx *Context, fn func(i int, p *components.Particle)) {
	for i := 0; i < min(2, ctx.Swarm.Len()); i++ {
		if p := ctx.Swarm.At(i); p.Group == components.GroupPulse {
			fn(i, p)
		}
	}
}

// randomEdge picks a uniform point on one of the four canvas edges.
func randomEdge(ctx *Context, w, h float64) r2.Vec {
	switch ctx.Rand.Intn(4) {
	case 0:
		return r2.Vec{X: ctx.Rand.Float64() * w, Y: 0}
	case 1:
		return r2.Vec{X: w, Y: ctx.Rand.Float64() * h}
	case 2:
		return r2.Vec{X: ctx.Rand.Float64() * w, Y: h}
	default:
		return r2.Vec{X: 0, Y: ctx.Rand.Float64() * h}
	}
}

package states

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/config"
	"github.com/pthm-cable/drift/formation"
	"github.com/pthm-cable/drift/swarm"
)

// assign gives particle i the target points[i % len(points)], or clears
// its target when there are no points.
func assign(s *swarm.System, points []r2.Vec) {
	s.Each(func(i int, p *components.Particle) {
		if t, ok := formation.Assign(i, points); ok {
			p.SetTarget(t)
		} else {
			p.ClearTarget()
		}
	})
}

func seekTraits(cfg *config.Config, id ID) Traits {
	return Traits{
		TrailLength: cfg.TrailLength(string(id)),
		Edges:       swarm.EdgeWrap,
		Interactive: true,
	}
}

// gridState seeks fixed, shuffled grid targets.
type gridState struct{}

func (gridState) ID() ID { return Grid }

func (gridState) Traits(cfg *config.Config) Traits { return seekTraits(cfg, Grid) }

func (gridState) Enter(ctx *Context) {
	ensureCount(ctx)
	cfg := ctx.Cfg
	area := formation.Inset(cfg.Derived.Bounds, cfg.Grid.MarginX, cfg.Grid.MarginY)
	points := formation.Grid(cfg.Particles.Count, cfg.Grid.Rows, cfg.Grid.Cols, area)
	if cfg.Grid.Shuffle {
		points = formation.Shuffle(points, ctx.Rand)
	}
	assign(ctx.Swarm, points)
	resetVisible(ctx.Swarm)
}

func (gridState) Update(ctx *Context) bool {
	ctx.seekTargets()
	return false
}

func (gridState) Exit(*Context) {}

// waveState seeks a twin sine wave whose phase advances with time in state.
type waveState struct{}

func (waveState) ID() ID { return Wave }

func (waveState) Traits(cfg *config.Config) Traits { return seekTraits(cfg, Wave) }

func (w waveState) Enter(ctx *Context) {
	ensureCount(ctx)
	w.retarget(ctx)
	resetVisible(ctx.Swarm)
}

func (w waveState) Update(ctx *Context) bool {
	w.retarget(ctx)
	ctx.seekTargets()
	return false
}

func (waveState) Exit(*Context) {}

// retarget splits the population: slots [0, n/2) follow branch a and the
// rest follow branch b.
func (waveState) retarget(ctx *Context) {
	cfg := ctx.Cfg
	n := ctx.Swarm.Len()
	half := n / 2
	spec := formation.WaveSpec{
		PerBranch: n - half,
		Amplitude: cfg.Wave.Amplitude,
		Offset:    cfg.Wave.Offset,
		Cycles:    cfg.Wave.Cycles,
		Margin:    cfg.Wave.Margin,
		VMargin:   cfg.Wave.VerticalMargin,
		Phase:     ctx.Elapsed.Seconds() * cfg.Wave.Speed,
		Vertical:  cfg.Derived.Width/cfg.Derived.Height < cfg.Wave.VerticalBelowAspect,
	}
	a, b := formation.TwinWave(spec, cfg.Derived.Bounds)

	ctx.Swarm.Each(func(i int, p *components.Particle) {
		var t r2.Vec
		var ok bool
		if i < half {
			t, ok = formation.Assign(i, a)
		} else {
			t, ok = formation.Assign(i-half, b)
		}
		if ok {
			p.SetTarget(t)
		}
	})
}

// circlesState seeks points on overlapping rings.
type circlesState struct{}

func (circlesState) ID() ID { return Circles }

func (circlesState) Traits(cfg *config.Config) Traits { return seekTraits(cfg, Circles) }

func (circlesState) Enter(ctx *Context) {
	ensureCount(ctx)
	c := ctx.Cfg.Circles
	points := formation.CirclesOverlapping(c.Points, c.Count, c.Radius, c.Overlap, ctx.Cfg.Derived.Bounds)
	assign(ctx.Swarm, points)
	resetVisible(ctx.Swarm)
}

func (circlesState) Update(ctx *Context) bool {
	ctx.seekTargets()
	return false
}

func (circlesState) Exit(*Context) {}

// launchSpeed draws a speed in [lo, hi], tolerating a swapped range.
func launchSpeed(ctx *Context, lo, hi float64) float64 {
	lo, hi = math.Min(lo, hi), math.Max(lo, hi)
	return lo + ctx.Rand.Float64()*(hi-lo)
}

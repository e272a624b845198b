package states

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/config"
	"github.com/pthm-cable/drift/swarm"
)

const tickDT = 100 * time.Millisecond

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Particles.Count = 10
	cfg.States.Durations = config.DurationsConfig{Grid: 1, Wave: 1, Flock: 1, Wander: 1, Circles: 1}
	cfg.Resize(400, 300)
	return cfg
}

func testContext(cfg *config.Config) *Context {
	return &Context{
		Swarm: swarm.New(),
		Cfg:   cfg,
		Rand:  rand.New(rand.NewSource(1)),
	}
}

// run drives the controller the way the simulation does, without pointer input.
func run(c *Controller, ctx *Context, ticks int) {
	cfg := ctx.Cfg
	for i := 0; i < ticks; i++ {
		ctx.Swarm.Capture(cfg.Derived.Width, cfg.Derived.Height, 300)
		c.Update(ctx)
		t := c.Traits(ctx)
		ctx.Swarm.Integrate(cfg.Particles.MaxSpeed, t.Edges, cfg.Derived.Width, cfg.Derived.Height)
		ctx.Now += tickDT
		c.EndTick(ctx)
	}
}

func record(c *Controller) *[]Transition {
	var log []Transition
	c.OnTransition = func(t Transition) { log = append(log, t) }
	return &log
}

func TestControllerSequence(t *testing.T) {
	ctx := testContext(testConfig())
	c := NewController()
	log := record(c)
	c.Start(ctx)

	if c.Active() != Loading {
		t.Fatalf("initial state = %q, want loading", c.Active())
	}

	// Loading ends on completion, then each state lasts one second.
	run(c, ctx, 400)
	if c.Active() == Loading {
		t.Fatal("loading never completed")
	}
	run(c, ctx, 30)

	want := []struct {
		to     ID
		reason string
	}{
		{Loading, ReasonStart},
		{Grid, ReasonComplete},
		{Wave, ReasonTimer},
		{Flock, ReasonTimer},
		{Grid, ReasonTimer},
	}
	if len(*log) < len(want) {
		t.Fatalf("got %d transitions, want at least %d: %+v", len(*log), len(want), *log)
	}
	for i, w := range want {
		got := (*log)[i]
		if got.To != w.to || got.Reason != w.reason {
			t.Errorf("transition %d = %s (%s), want %s (%s)", i, got.To, got.Reason, w.to, w.reason)
		}
	}
	for i := 2; i < len(want); i++ {
		if d := (*log)[i].At - (*log)[i-1].At; d != time.Second {
			t.Errorf("%s lasted %v, want 1s", (*log)[i-1].To, d)
		}
	}
}

func TestLoadingIgnoresDuration(t *testing.T) {
	cfg := testConfig()
	cfg.States.Durations.Loading = 0.1
	ctx := testContext(cfg)
	c := NewController()
	log := record(c)
	c.Start(ctx)

	run(c, ctx, 10)
	if c.Active() != Loading {
		t.Fatalf("state after 10 ticks = %q, want loading", c.Active())
	}
	run(c, ctx, 400)
	if len(*log) < 2 {
		t.Fatalf("loading never completed: %+v", *log)
	}
	if got := (*log)[1]; got.From != Loading || got.Reason != ReasonComplete {
		t.Errorf("loading exit = %s -> %s (%s), want complete", got.From, got.To, got.Reason)
	}
}

func TestWanderNudgesVelocity(t *testing.T) {
	cfg := testConfig()
	cfg.States.SingleState = "wander"
	ctx := testContext(cfg)
	c := NewController()
	c.Start(ctx)

	ctx.Swarm.Capture(cfg.Derived.Width, cfg.Derived.Height, 300)
	before := ctx.Swarm.At(0).Vel
	c.Update(ctx)
	p := ctx.Swarm.At(0)
	if p.Vel == before {
		t.Error("wander left velocity unchanged")
	}
	if p.Acc != (r2.Vec{}) {
		t.Errorf("wander accumulated force %v, want none", p.Acc)
	}
}

func TestControllerNextAndForce(t *testing.T) {
	cfg := testConfig()
	cfg.States.SingleState = "grid"
	ctx := testContext(cfg)
	c := NewController()
	log := record(c)
	c.Start(ctx)

	c.Next()
	if c.Active() != Grid {
		t.Error("Next applied before the end of the tick")
	}
	run(c, ctx, 1)
	if c.Active() != Wave {
		t.Fatalf("after Next state = %q, want wave", c.Active())
	}

	if c.Force("spiral") {
		t.Error("Force accepted an unknown state")
	}
	n := len(*log)
	run(c, ctx, 1)
	if len(*log) != n || c.Active() != Wave {
		t.Errorf("unknown Force changed state to %q", c.Active())
	}

	if !c.Force(Circles) {
		t.Fatal("Force rejected circles")
	}
	run(c, ctx, 1)
	if c.Active() != Circles {
		t.Errorf("after Force state = %q, want circles", c.Active())
	}
	// A state outside the sequence is followed by the first entry.
	c.Next()
	run(c, ctx, 1)
	if c.Active() != Grid {
		t.Errorf("after circles state = %q, want grid", c.Active())
	}
}

func TestSingleStateIgnoresTimers(t *testing.T) {
	cfg := testConfig()
	cfg.States.SingleState = "flock"
	ctx := testContext(cfg)
	c := NewController()
	c.Start(ctx)

	if c.Active() != Flock {
		t.Fatalf("initial state = %q, want flock", c.Active())
	}
	run(c, ctx, 50) // five times the flock duration
	if c.Active() != Flock {
		t.Errorf("single state advanced to %q", c.Active())
	}
}

func TestUnknownSingleStateFallsBack(t *testing.T) {
	cfg := testConfig()
	cfg.States.SingleState = "nope"
	ctx := testContext(cfg)
	c := NewController()
	c.Start(ctx)
	if c.Active() != Loading {
		t.Errorf("initial state = %q, want loading", c.Active())
	}
}

func TestSequenceFrom(t *testing.T) {
	got := sequenceFrom([]string{"loading", "flock", "bogus", "grid"})
	if len(got) != 2 || got[0] != Flock || got[1] != Grid {
		t.Errorf("sequenceFrom = %v, want [flock grid]", got)
	}
	if got := sequenceFrom(nil); len(got) != len(DefaultSequence) {
		t.Errorf("empty sequence = %v, want default", got)
	}
}

func TestLoadingEnter(t *testing.T) {
	cfg := testConfig()
	ctx := testContext(cfg)
	s := New(Loading)
	s.Enter(ctx)

	if ctx.Swarm.Len() != 10 {
		t.Fatalf("population = %d, want 10", ctx.Swarm.Len())
	}
	center := cfg.Derived.Bounds.Center()
	groups := map[components.Group]int{}
	ctx.Swarm.Each(func(i int, p *components.Particle) {
		groups[p.Group]++
		if p.Group == components.GroupPulse {
			if p.Alpha != 255 || p.Pos.X != center.X || math.Abs(math.Abs(p.Pos.Y-center.Y)-cfg.Loading.Distance) > 1e-9 {
				t.Errorf("pulse particle %d = %+v", i, p)
			}
			return
		}
		if p.Alpha != 0 {
			t.Errorf("particle %d visible during loading", i)
		}
	})
	if groups[components.GroupPulse] != 2 || groups[components.GroupCenter] != 4 || groups[components.GroupEdge] != 4 {
		t.Errorf("groups = %v, want 2 pulse, 4 center, 4 edge", groups)
	}
}

func TestLoadingCompletes(t *testing.T) {
	cfg := testConfig()
	ctx := testContext(cfg)
	s := New(Loading)
	s.Enter(ctx)
	center := cfg.Derived.Bounds.Center()

	ticks := 0
	for !s.Update(ctx) {
		ticks++
		if ticks > 1000 {
			t.Fatal("loading did not complete")
		}
	}
	// Rotating alone takes 2.5 turns at 0.07 rad per tick.
	if ticks < 224 {
		t.Errorf("completed after %d ticks, before the rotation finished", ticks)
	}
	for i := 0; i < 2; i++ {
		if d := math.Abs(ctx.Swarm.At(i).Pos.Y - center.Y); d >= cfg.Loading.Epsilon {
			t.Errorf("pulse %d still %v from center", i, d)
		}
	}
	s.Exit(ctx)
	ctx.Swarm.Each(func(i int, p *components.Particle) {
		if p.Alpha != 255 {
			t.Errorf("particle %d alpha %v after loading", i, p.Alpha)
		}
	})
}

func TestGridEnterTargetsInsideMargins(t *testing.T) {
	cfg := testConfig()
	ctx := testContext(cfg)
	New(Grid).Enter(ctx)

	area := r2.Box{Min: r2.Vec{X: 40, Y: 45}, Max: r2.Vec{X: 360, Y: 255}}
	ctx.Swarm.Each(func(i int, p *components.Particle) {
		if !p.HasTarget {
			t.Fatalf("particle %d has no target", i)
		}
		if p.Target.X < area.Min.X-1e-9 || p.Target.X > area.Max.X+1e-9 ||
			p.Target.Y < area.Min.Y-1e-9 || p.Target.Y > area.Max.Y+1e-9 {
			t.Errorf("target %v outside margins", p.Target)
		}
		if p.Alpha != 255 {
			t.Errorf("particle %d alpha %v", i, p.Alpha)
		}
	})
}

func TestWaveSplitsBranches(t *testing.T) {
	cfg := testConfig()
	cfg.Particles.Count = 11
	cfg.Wave.Amplitude = 50
	cfg.Refresh()
	ctx := testContext(cfg)
	New(Wave).Enter(ctx)

	center := cfg.Derived.Bounds.Center()
	ctx.Swarm.Each(func(i int, p *components.Particle) {
		if !p.HasTarget {
			t.Fatalf("particle %d has no target", i)
		}
		if math.Abs(p.Target.Y-center.Y) > 50+1e-9 {
			t.Errorf("particle %d target %v beyond amplitude", i, p.Target)
		}
	})
	// Mirrored branches at phase 0: slot 1 on branch a, slot 6 at the same x on branch b.
	a, b := ctx.Swarm.At(1).Target, ctx.Swarm.At(6).Target
	if math.Abs(a.X-b.X) > 1e-9 || math.Abs((a.Y-center.Y)+(b.Y-center.Y)) > 1e-9 {
		t.Errorf("branches not mirrored: %v vs %v", a, b)
	}
}

func TestFlockEnterLaunches(t *testing.T) {
	cfg := testConfig()
	ctx := testContext(cfg)
	New(Grid).Enter(ctx)
	New(Flock).Enter(ctx)

	ctx.Swarm.Each(func(i int, p *components.Particle) {
		if p.HasTarget {
			t.Errorf("particle %d kept a target", i)
		}
		speed := r2.Norm(p.Vel)
		if speed < cfg.Flock.MinLaunchSpeed-1e-9 || speed > cfg.Particles.MaxSpeed+1e-9 {
			t.Errorf("launch speed %v outside [%v, %v]", speed, cfg.Flock.MinLaunchSpeed, cfg.Particles.MaxSpeed)
		}
		if angle := math.Atan2(p.Vel.Y, p.Vel.X); math.Abs(angle) > cfg.Flock.HeadingJitter+1e-9 {
			t.Errorf("launch heading %v beyond jitter", angle)
		}
	})
}

func TestCirclesEnter(t *testing.T) {
	cfg := testConfig()
	cfg.Circles.Radius = 50
	ctx := testContext(cfg)
	New(Circles).Enter(ctx)

	ctx.Swarm.Each(func(i int, p *components.Particle) {
		if !p.HasTarget {
			t.Fatalf("particle %d has no target", i)
		}
	})
}

func TestWanderClearsTargetsAndMoves(t *testing.T) {
	cfg := testConfig()
	ctx := testContext(cfg)
	New(Grid).Enter(ctx)
	c := NewController()
	cfg.States.SingleState = "wander"
	c.Start(ctx)

	start := ctx.Swarm.At(0).Pos
	run(c, ctx, 20)
	p := ctx.Swarm.At(0)
	if p.HasTarget {
		t.Error("wander kept a target")
	}
	if p.Pos == start {
		t.Error("wandering particle did not move")
	}
}

func TestResizeRetargets(t *testing.T) {
	cfg := testConfig()
	cfg.States.SingleState = "grid"
	ctx := testContext(cfg)
	c := NewController()
	c.Start(ctx)
	run(c, ctx, 5)

	cfg.Resize(800, 600)
	c.Resize(ctx)
	c.Resize(ctx)

	if ctx.Swarm.Len() != 10 {
		t.Fatalf("population = %d after resize, want 10", ctx.Swarm.Len())
	}
	ctx.Swarm.Each(func(i int, p *components.Particle) {
		if p.Target.X < 80-1e-9 || p.Target.X > 720+1e-9 {
			t.Errorf("target %v not inside the resized margins", p.Target)
		}
	})
	if c.Active() != Grid {
		t.Errorf("resize changed state to %q", c.Active())
	}
}

// Package sim drives the simulation one tick at a time. It owns the swarm,
// the state controller and the telemetry collectors; hosts feed it pointer
// frames and read particle views back.
package sim

import (
	"math/rand"
	"time"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/config"
	"github.com/pthm-cable/drift/input"
	"github.com/pthm-cable/drift/states"
	"github.com/pthm-cable/drift/swarm"
	"github.com/pthm-cable/drift/systems"
	"github.com/pthm-cable/drift/telemetry"
)

// Options configures a Simulation.
type Options struct {
	Seed      int64
	LogStats  bool
	OutputDir string // Empty disables CSV output
}

// Simulation is the tick driver. It is not safe for concurrent use.
type Simulation struct {
	cfg     *config.Config // Snapshot used by the current tick
	nextCfg *config.Config // Swapped in at the start of the next tick

	swarm *swarm.System
	ctrl  *states.Controller
	rng   *rand.Rand
	seed  int64
	ctx   states.Context
	tick  int64
	now   time.Duration

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	sample        telemetry.Sample
	statsCallback func(telemetry.WindowStats)
	lastStats     telemetry.WindowStats
}

// New creates a simulation from a config snapshot and enters the first
// state. The caller keeps ownership of cfg; the simulation works on a copy.
func New(cfg *config.Config, opts Options) (*Simulation, error) {
	s := &Simulation{
		cfg:      cfg.Clone(),
		swarm:    swarm.New(),
		ctrl:     states.NewController(),
		rng:      rand.New(rand.NewSource(opts.Seed)),
		seed:     opts.Seed,
		logStats: opts.LogStats,
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	s.outputManager = om
	if err := om.WriteConfig(s.cfg); err != nil {
		om.Close()
		return nil, err
	}
	s.resetTelemetry()

	s.ctx = states.Context{
		Swarm: s.swarm,
		Cfg:   s.cfg,
		Rand:  s.rng,
		Noise: s.noiseField(),
	}
	s.ctrl.OnTransition = s.recordTransition
	s.ctrl.Start(&s.ctx)
	return s, nil
}

// Step runs one tick:
//  1. take the config snapshot and the input frame
//  2. capture start-of-tick positions and velocities
//  3. force phase: the active state applies steering
//  4. interaction phase: pointer repulsion or settle, trails
//  5. integration phase: every particle moves once, edges apply
//  6. tick boundary: at most one pending transition is applied
func (s *Simulation) Step(frame input.Frame) {
	s.perfCollector.StartTick()

	s.applyPendingConfig()
	cfg := s.cfg
	s.ctx.Input = frame
	s.ctx.Now = s.Now()
	traits := s.ctrl.Traits(&s.ctx)

	s.perfCollector.StartPhase(telemetry.PhaseCapture)
	cellSize := states.FlockParams(cfg).MaxDist()
	s.swarm.Capture(cfg.Derived.Width, cfg.Derived.Height, cellSize)

	s.perfCollector.StartPhase(telemetry.PhaseForces)
	s.ctrl.Update(&s.ctx)

	s.perfCollector.StartPhase(telemetry.PhaseInteract)
	params := interactParams(cfg, traits)
	if params.Enabled && frame.Active() && (frame.Moved || !params.RequireMotion) {
		s.collector.RecordRepel()
	}
	s.swarm.Interact(frame, params)

	s.perfCollector.StartPhase(telemetry.PhaseIntegrate)
	s.swarm.Integrate(cfg.Particles.MaxSpeed, traits.Edges, cfg.Derived.Width, cfg.Derived.Height)

	s.perfCollector.StartPhase(telemetry.PhaseTransition)
	s.tick++
	s.now += time.Duration(cfg.Physics.DT * float64(time.Second))
	s.ctx.Now = s.now
	s.ctrl.EndTick(&s.ctx)

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()

	s.perfCollector.EndTick()
}

// interactParams maps config and state traits onto the interaction phase.
func interactParams(cfg *config.Config, t states.Traits) swarm.InteractParams {
	return swarm.InteractParams{
		Enabled: t.Interactive,
		Repel: systems.RepelParams{
			Radius:   cfg.Repel.Radius + t.RepelRadiusBonus,
			Force:    cfg.Repel.Force,
			Exponent: cfg.Repel.Exponent,
		},
		MinSpeed:      cfg.Repel.MinSpeed,
		RequireMotion: cfg.Repel.RequireMotion,
		Friction:      cfg.Physics.Friction,
		ReturnSpeed:   cfg.Repel.ReturnSpeed,
		TrailLength:   t.TrailLength,
	}
}

// SetConfig swaps in a new config snapshot at the start of the next tick.
// A changed particle count re-enters the active state with the new population.
func (s *Simulation) SetConfig(cfg *config.Config) {
	s.nextCfg = cfg.Clone()
}

func (s *Simulation) applyPendingConfig() {
	if s.nextCfg == nil {
		return
	}
	next := s.nextCfg
	s.nextCfg = nil

	// The canvas belongs to the host; keep the current size.
	next.Resize(s.cfg.Screen.Width, s.cfg.Screen.Height)
	countChanged := next.Particles.Count != s.cfg.Particles.Count
	s.cfg = next
	s.ctx.Cfg = next
	s.ctx.Noise = s.noiseField()
	s.resetTelemetry()
	if countChanged {
		s.ctrl.Resize(&s.ctx)
	}
}

// Resize changes the canvas size and lets the active state recompute its
// geometry immediately.
func (s *Simulation) Resize(width, height int) {
	if width == s.cfg.Screen.Width && height == s.cfg.Screen.Height {
		return
	}
	s.cfg.Resize(width, height)
	s.ctx.Now = s.Now()
	s.ctrl.Resize(&s.ctx)
}

// Next requests the successor of the active state at the end of the next tick.
func (s *Simulation) Next() {
	s.ctrl.Next()
}

// Force requests a specific state. Unknown IDs are logged and ignored.
func (s *Simulation) Force(id states.ID) bool {
	return s.ctrl.Force(id)
}

// Views returns per-particle render data ordered by slot.
func (s *Simulation) Views() []components.View {
	return s.swarm.Views()
}

// StateID returns the active state.
func (s *Simulation) StateID() states.ID {
	return s.ctrl.Active()
}

// Swarm exposes the particle system for inspection.
func (s *Simulation) Swarm() *swarm.System {
	return s.swarm
}

// Config returns the snapshot used by the current tick.
func (s *Simulation) Config() *config.Config {
	return s.cfg
}

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() int64 {
	return s.tick
}

// Now returns simulated time, the sum of dt over completed ticks.
func (s *Simulation) Now() time.Duration {
	return s.now
}

// Elapsed returns how long the active state has been running.
func (s *Simulation) Elapsed() time.Duration {
	return s.ctrl.Elapsed(s.Now())
}

// Seed returns the RNG seed.
func (s *Simulation) Seed() int64 {
	return s.seed
}

func (s *Simulation) noiseField() *systems.NoiseField {
	w := s.cfg.Wander
	if !w.Noise {
		return nil
	}
	return systems.NewNoiseField(s.seed, w.NoiseScale, w.NoiseSpeed)
}

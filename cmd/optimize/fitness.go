package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/config"
	"github.com/pthm-cable/drift/input"
	"github.com/pthm-cable/drift/sim"
	"github.com/pthm-cable/drift/telemetry"
)

// Scenario phases, in simulated seconds.
const (
	settleFrac    = 0.95 // Fraction of particles within telemetry.SettleRadius
	pushStartSec  = 1.0  // After the first settle, hold before pushing
	pushSec       = 0.5  // Pointer sweep across the formation
	unsettledCost = 2.0  // Multiplier on the time cap for runs that never settle
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxSec     float64
	seeds      []int64
	states     []string
	baseConfig *config.Config

	mu          sync.Mutex
	lastSettle  float64 // Mean first-settle time from the most recent Evaluate call
	lastRecover float64 // Mean recovery time from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxSec float64, seeds []int64, states []string, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxSec:     maxSec,
		seeds:      seeds,
		states:     states,
		baseConfig: baseCfg,
	}
}

// LastTimes returns the mean settle and recovery times of the most recent evaluation.
func (fe *FitnessEvaluator) LastTimes() (settle, recovery float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSettle, fe.lastRecover
}

// runResult holds the results from a single simulation run.
type runResult struct {
	settleSec  float64 // Time to first settle, or the cap
	recoverSec float64 // Time to settle again after the push, or the cap
	residual   float64 // Mean target distance at the end of the run
}

// Evaluate computes fitness for a parameter vector (lower = better): the mean
// over seeds and states of settle time plus recovery time after a pointer
// push, with a small penalty for residual formation error.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	type job struct {
		seed  int64
		state string
	}
	var jobs []job
	for _, seed := range fe.seeds {
		for _, st := range fe.states {
			jobs = append(jobs, job{seed, st})
		}
	}

	results := make([]runResult, len(jobs))
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func(idx int, j job) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, j.seed, j.state)
		}(i, j)
	}
	wg.Wait()

	settle := make([]float64, len(results))
	recovery := make([]float64, len(results))
	fitness := make([]float64, len(results))
	for i, r := range results {
		settle[i] = r.settleSec
		recovery[i] = r.recoverSec
		fitness[i] = fe.computeFitness(r)
	}

	fe.mu.Lock()
	fe.lastSettle = stat.Mean(settle, nil)
	fe.lastRecover = stat.Mean(recovery, nil)
	fe.mu.Unlock()

	return stat.Mean(fitness, nil)
}

// runSimulation settles one formation, pushes it with a pointer sweep and
// measures how long it takes to settle again.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64, state string) runResult {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	cfg.States.SingleState = state
	cfg.Refresh()

	s, err := sim.New(cfg, sim.Options{Seed: seed})
	if err != nil {
		return runResult{settleSec: fe.maxSec * unsettledCost, recoverSec: fe.maxSec * unsettledCost}
	}
	defer s.Close()

	dt := cfg.Physics.DT
	maxTicks := int(fe.maxSec / dt)
	tracker := input.NewTracker(cfg.Repel.MotionThreshold)
	bounds := cfg.Derived.Bounds
	center := bounds.Center()

	result := runResult{
		settleSec:  fe.maxSec * unsettledCost,
		recoverSec: fe.maxSec * unsettledCost,
	}
	var dists []float64
	pushStart, pushEnd := -1, -1

	for tick := 1; tick <= maxTicks; tick++ {
		var points []r2.Vec
		if pushStart >= 0 && tick < pushEnd {
			// Sweep left to right through the middle of the formation.
			f := float64(tick-pushStart) / float64(pushEnd-pushStart)
			points = []r2.Vec{{X: bounds.Min.X + f*bounds.Size().X, Y: center.Y}}
		}
		s.Step(tracker.Sample(points, bounds))

		dists = targetDists(s, dists[:0])
		_, _, settled := telemetry.ComputeTargetStats(dists)
		now := float64(tick) * dt

		switch {
		case pushStart < 0 && settled >= settleFrac:
			result.settleSec = now
			pushStart = tick + int(pushStartSec/dt)
			pushEnd = pushStart + max(int(pushSec/dt), 1)
		case pushEnd >= 0 && tick > pushEnd && settled >= settleFrac:
			result.recoverSec = now - float64(pushEnd)*dt
			result.residual, _, _ = telemetry.ComputeTargetStats(dists)
			return result
		}
	}

	result.residual, _, _ = telemetry.ComputeTargetStats(dists)
	return result
}

func targetDists(s *sim.Simulation, dst []float64) []float64 {
	s.Swarm().Each(func(_ int, p *components.Particle) {
		if p.HasTarget {
			dst = append(dst, r2.Norm(r2.Sub(p.Target, p.Pos)))
		}
	})
	return dst
}

// computeFitness calculates the scalar fitness (lower = better).
func (fe *FitnessEvaluator) computeFitness(r runResult) float64 {
	return r.settleSec + r.recoverSec + 0.1*math.Min(r.residual, fe.maxSec)
}

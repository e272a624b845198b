package sim

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/states"
	"github.com/pthm-cable/drift/telemetry"
)

// SetStatsCallback registers fn to receive every flushed stats window.
func (s *Simulation) SetStatsCallback(fn func(telemetry.WindowStats)) {
	s.statsCallback = fn
}

// LastStats returns the most recently flushed stats window.
func (s *Simulation) LastStats() telemetry.WindowStats {
	return s.lastStats
}

// PerfStats returns timing statistics over the perf window.
func (s *Simulation) PerfStats() telemetry.PerfStats {
	return s.perfCollector.Stats()
}

// RecordFrame records frame timing for graphics hosts.
func (s *Simulation) RecordFrame() {
	s.perfCollector.RecordFrame()
}

// Close flushes and closes any output files.
func (s *Simulation) Close() error {
	return s.outputManager.Close()
}

// resetTelemetry rebuilds the collectors for the current config. Counters
// of a partially filled window are dropped.
func (s *Simulation) resetTelemetry() {
	t := s.cfg.Telemetry
	s.collector = telemetry.NewCollector(t.StatsWindow, s.cfg.Physics.DT)
	if s.perfCollector == nil {
		s.perfCollector = telemetry.NewPerfCollector(t.PerfWindow)
	}
	// Align the new window with the current tick.
	s.collector.Flush(s.tick, "", &s.sample)
}

func (s *Simulation) recordTransition(t states.Transition) {
	s.collector.RecordTransition()
	rec := telemetry.TransitionRecord{
		Tick:       s.tick,
		SimTimeSec: t.At.Seconds(),
		From:       string(t.From),
		To:         string(t.To),
		Reason:     t.Reason,
	}
	if err := s.outputManager.WriteTransition(rec); err != nil {
		slog.Error("failed to write transition", "error", err)
	}
}

// flushTelemetry checks if the stats window should be flushed.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	s.sampleParticles()
	stats := s.collector.Flush(s.tick, string(s.ctrl.Active()), &s.sample)
	perfStats := s.perfCollector.Stats()
	s.lastStats = stats

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.outputManager != nil {
		if err := s.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleParticles fills the reusable sample from the current population.
func (s *Simulation) sampleParticles() {
	s.sample.Reset()
	s.swarm.Each(func(_ int, p *components.Particle) {
		s.sample.Speeds = append(s.sample.Speeds, r2.Norm(p.Vel))
		if p.HasTarget {
			s.sample.TargetDists = append(s.sample.TargetDists, r2.Norm(r2.Sub(p.Target, p.Pos)))
		}
		if p.Alpha > 0 {
			s.sample.Visible++
		}
	})
}

// Package telemetry collects windowed statistics, state transitions and
// per-phase timings, and writes them as CSV.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	State           string  `csv:"state"`

	// Population at window end
	Particles int `csv:"particles"`
	Visible   int `csv:"visible"` // Alpha above zero

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	// Formation error for targeted particles
	Targeted       int     `csv:"targeted"`
	TargetDistMean float64 `csv:"target_dist_mean"`
	TargetDistMax  float64 `csv:"target_dist_max"`
	SettledFrac    float64 `csv:"settled_frac"` // Targeted particles within SettleRadius

	// Events during window
	RepelTicks  int `csv:"repel_ticks"`
	Transitions int `csv:"transitions"`
}

// SettleRadius is the distance from target at which a particle counts as settled.
const SettleRadius = 1.0

// Percentile returns the smallest value at or above the p-th fraction of
// sorted values. p is clamped to [0, 1]. Returns 0 for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeSpeedStats calculates mean, std, percentiles and max of speeds.
func ComputeSpeedStats(values []float64) (mean, std, p10, p50, p90, maxV float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0, 0
	}
	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	maxV = floats.Max(sorted)
	return mean, std, p10, p50, p90, maxV
}

// ComputeTargetStats returns mean and max distance to target and the
// fraction within SettleRadius.
func ComputeTargetStats(dists []float64) (mean, maxD, settled float64) {
	if len(dists) == 0 {
		return 0, 0, 0
	}
	mean = stat.Mean(dists, nil)
	maxD = floats.Max(dists)
	n := 0
	for _, d := range dists {
		if d < SettleRadius {
			n++
		}
	}
	return mean, maxD, float64(n) / float64(len(dists))
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("state", s.State),
		slog.Int("particles", s.Particles),
		slog.Int("visible", s.Visible),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Int("targeted", s.Targeted),
		slog.Float64("target_dist_mean", s.TargetDistMean),
		slog.Float64("settled_frac", s.SettledFrac),
		slog.Int("repel_ticks", s.RepelTicks),
		slog.Int("transitions", s.Transitions),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"state", s.State,
		"particles", s.Particles,
		"visible", s.Visible,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"speed_p10", s.SpeedP10,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"speed_max", s.SpeedMax,
		"targeted", s.Targeted,
		"target_dist_mean", s.TargetDistMean,
		"target_dist_max", s.TargetDistMax,
		"settled_frac", s.SettledFrac,
		"repel_ticks", s.RepelTicks,
		"transitions", s.Transitions,
	)
}

package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeSpeedStats(t *testing.T) {
	values := []float64{4, 2, 4, 4, 5, 5, 7, 9}
	mean, std, p10, p50, p90, maxV := ComputeSpeedStats(values)

	if math.Abs(mean-5) > 0.001 {
		t.Errorf("mean = %v, want 5", mean)
	}
	// Population standard deviation of the classic example is 2.
	if math.Abs(std-2) > 0.001 {
		t.Errorf("std = %v, want 2", std)
	}
	if !(p10 <= p50 && p50 <= p90) {
		t.Errorf("percentiles not ordered: %v %v %v", p10, p50, p90)
	}
	if maxV != 9 {
		t.Errorf("max = %v, want 9", maxV)
	}
	// Input must stay unsorted.
	if values[0] != 4 || values[1] != 2 {
		t.Error("ComputeSpeedStats sorted its input")
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	mean, std, p10, p50, p90, maxV := ComputeSpeedStats(nil)
	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 || maxV != 0 {
		t.Error("expected all zeros for empty speeds")
	}
	m, mx, s := ComputeTargetStats(nil)
	if m != 0 || mx != 0 || s != 0 {
		t.Error("expected all zeros for empty distances")
	}
}

func TestComputeTargetStats(t *testing.T) {
	mean, maxD, settled := ComputeTargetStats([]float64{0.5, 0.2, 3, 0.3})
	if math.Abs(mean-1) > 0.001 {
		t.Errorf("mean = %v, want 1", mean)
	}
	if maxD != 3 {
		t.Errorf("max = %v, want 3", maxD)
	}
	if math.Abs(settled-0.75) > 0.001 {
		t.Errorf("settled = %v, want 0.75", settled)
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	if c.WindowDurationTicks() != 10 {
		t.Fatalf("window ticks = %d, want 10", c.WindowDurationTicks())
	}
	if c.ShouldFlush(9) {
		t.Error("flush before window end")
	}
	if !c.ShouldFlush(10) {
		t.Error("no flush at window end")
	}

	c.RecordRepel()
	c.RecordRepel()
	c.RecordTransition()
	s := &Sample{Speeds: []float64{1, 2, 3}, TargetDists: []float64{0.5}, Visible: 3}
	stats := c.Flush(10, "grid", s)

	if stats.Particles != 3 || stats.Visible != 3 || stats.Targeted != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/3/1", stats.Particles, stats.Visible, stats.Targeted)
	}
	if stats.RepelTicks != 2 || stats.Transitions != 1 {
		t.Errorf("events = %d repel, %d transitions, want 2, 1", stats.RepelTicks, stats.Transitions)
	}
	if math.Abs(stats.SimTimeSec-1) > 1e-9 {
		t.Errorf("sim_time = %v, want 1", stats.SimTimeSec)
	}
	if stats.SettledFrac != 1 {
		t.Errorf("settled = %v, want 1", stats.SettledFrac)
	}

	// Counters reset and the next window starts at the flush tick.
	next := c.Flush(20, "grid", &Sample{})
	if next.RepelTicks != 0 || next.WindowStartTick != 10 {
		t.Errorf("next window = %+v, want reset counters starting at 10", next)
	}
}

package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorPhases(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseCapture)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseForces)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTick <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.PhaseAvg[PhaseCapture] <= 0 || stats.PhaseAvg[PhaseForces] <= 0 {
		t.Errorf("phase averages = %v", stats.PhaseAvg)
	}
	if stats.PhaseAvg[PhaseForces] < stats.PhaseAvg[PhaseCapture] {
		t.Error("expected forces phase to take longer than capture")
	}
	if stats.PhaseAvg[PhaseIntegrate] != 0 {
		t.Errorf("untimed phase = %v, want 0", stats.PhaseAvg[PhaseIntegrate])
	}
	if stats.MinTick > stats.AvgTick || stats.AvgTick > stats.MaxTick {
		t.Errorf("min/avg/max = %v/%v/%v", stats.MinTick, stats.AvgTick, stats.MaxTick)
	}
}

func TestPerfCollectorWindow(t *testing.T) {
	pc := NewPerfCollector(5)
	for i := 0; i < 3; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseIntegrate)
		pc.EndTick()
	}
	if got := len(pc.samples()); got != 3 {
		t.Errorf("samples before wrap = %d, want 3", got)
	}
	for i := 0; i < 7; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseIntegrate)
		pc.EndTick()
	}
	if got := len(pc.samples()); got != 5 {
		t.Errorf("samples after wrap = %d, want 5", got)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	stats := NewPerfCollector(0).Stats()
	if stats.AvgTick != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("empty stats = %+v", stats)
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseCapture, "capture"},
		{PhaseTelemetry, "telemetry"},
		{Phase(-1), "unknown"},
		{numPhases, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestPerfStatsRow(t *testing.T) {
	var s PerfStats
	s.AvgTick = 2 * time.Millisecond
	s.PhasePct[PhaseForces] = 60
	s.PhasePct[PhaseIntegrate] = 10

	row := s.Row(120)
	if row.WindowEnd != 120 || row.AvgTickUS != 2000 {
		t.Errorf("row = %+v", row)
	}
	if row.ForcesPct != 60 || row.IntegratePct != 10 || row.CapturePct != 0 {
		t.Errorf("phase pct = %v/%v/%v", row.ForcesPct, row.IntegratePct, row.CapturePct)
	}
}

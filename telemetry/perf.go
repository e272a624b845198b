package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies one section of a simulation tick.
type Phase int

// Tick phases in execution order.
const (
	PhaseCapture Phase = iota
	PhaseForces
	PhaseInteract
	PhaseIntegrate
	PhaseTransition
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{
	"capture", "forces", "interact", "integrate", "transition", "telemetry",
}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

type tickTiming struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector keeps per-phase timings for the last N ticks.
type PerfCollector struct {
	ring []tickTiming
	next int
	full bool

	cur        tickTiming
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector returns a collector averaging over window ticks
// (60 when window < 1).
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]tickTiming, window)}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = tickTiming{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and opens ph.
func (p *PerfCollector) StartPhase(ph Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase, p.phaseStart, p.inPhase = ph, now, true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the running phase and stores the tick.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.inPhase = false
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next++
	if p.next == len(p.ring) {
		p.next, p.full = 0, true
	}
}

// RecordFrame marks a rendered frame; the gap to the previous one gives FPS.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

func (p *PerfCollector) samples() []tickTiming {
	if p.full {
		return p.ring
	}
	return p.ring[:p.next]
}

// PerfStats summarizes the window.
type PerfStats struct {
	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration

	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64

	TicksPerSecond float64
	FPS            float64
}

// Stats aggregates the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	ticks := p.samples()
	if len(ticks) == 0 {
		return s
	}

	var total time.Duration
	var phaseSum [numPhases]time.Duration
	s.MinTick = ticks[0].total
	for _, t := range ticks {
		total += t.total
		s.MinTick = min(s.MinTick, t.total)
		s.MaxTick = max(s.MaxTick, t.total)
		for ph, d := range t.phases {
			phaseSum[ph] += d
		}
	}

	n := time.Duration(len(ticks))
	s.AvgTick = total / n
	for ph := range phaseSum {
		s.PhaseAvg[ph] = phaseSum[ph] / n
		if s.AvgTick > 0 {
			s.PhasePct[ph] = 100 * float64(s.PhaseAvg[ph]) / float64(s.AvgTick)
		}
	}
	if s.AvgTick > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
	}
	return s
}

// LogStats emits the summary as one slog record. Phases under 0.1% are omitted.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTick.Microseconds(),
		"max_tick_us", s.MaxTick.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, ph.String()+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfRow is one perf.csv line.
type PerfRow struct {
	WindowEnd     int64   `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	CapturePct    float64 `csv:"capture_pct"`
	ForcesPct     float64 `csv:"forces_pct"`
	InteractPct   float64 `csv:"interact_pct"`
	IntegratePct  float64 `csv:"integrate_pct"`
	TransitionPct float64 `csv:"transition_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// Row flattens the summary for perf.csv.
func (s PerfStats) Row(windowEnd int64) PerfRow {
	return PerfRow{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTick.Microseconds(),
		MinTickUS:     s.MinTick.Microseconds(),
		MaxTickUS:     s.MaxTick.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		CapturePct:    s.PhasePct[PhaseCapture],
		ForcesPct:     s.PhasePct[PhaseForces],
		InteractPct:   s.PhasePct[PhaseInteract],
		IntegratePct:  s.PhasePct[PhaseIntegrate],
		TransitionPct: s.PhasePct[PhaseTransition],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}

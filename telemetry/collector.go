package telemetry

// Sample is the per-particle data the collector summarizes at window end.
type Sample struct {
	Speeds      []float64
	TargetDists []float64 // Only particles with a target
	Visible     int
}

// Reset empties the sample for reuse.
func (s *Sample) Reset() {
	s.Speeds = s.Speeds[:0]
	s.TargetDists = s.TargetDists[:0]
	s.Visible = 0
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int64
	dt                  float64

	// Current window tracking
	windowStartTick int64

	// Event counters for current window
	repelTicks  int
	transitions int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int64(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordRepel records a tick in which the pointer pushed particles.
func (c *Collector) RecordRepel() {
	c.repelTicks++
}

// RecordTransition records a state change.
func (c *Collector) RecordTransition() {
	c.transitions++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int64, state string, s *Sample) WindowStats {
	speedMean, speedStd, p10, p50, p90, speedMax := ComputeSpeedStats(s.Speeds)
	distMean, distMax, settled := ComputeTargetStats(s.TargetDists)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,
		State:           state,

		Particles: len(s.Speeds),
		Visible:   s.Visible,

		SpeedMean: speedMean,
		SpeedStd:  speedStd,
		SpeedP10:  p10,
		SpeedP50:  p50,
		SpeedP90:  p90,
		SpeedMax:  speedMax,

		Targeted:       len(s.TargetDists),
		TargetDistMean: distMean,
		TargetDistMax:  distMax,
		SettledFrac:    settled,

		RepelTicks:  c.repelTicks,
		Transitions: c.transitions,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.repelTicks = 0
	c.transitions = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}

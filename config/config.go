// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
// The core treats a Config as an immutable snapshot for the duration of a tick.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Particles ParticlesConfig `yaml:"particles"`
	Seek      SeekConfig      `yaml:"seek"`
	Repel     RepelConfig     `yaml:"repel"`
	Flock     FlockConfig     `yaml:"flock"`
	Wander    WanderConfig    `yaml:"wander"`
	Grid      GridConfig      `yaml:"grid"`
	Wave      WaveConfig      `yaml:"wave"`
	Circles   CirclesConfig   `yaml:"circles"`
	Loading   LoadingConfig   `yaml:"loading"`
	Trails    TrailsConfig    `yaml:"trails"`
	States    StatesConfig    `yaml:"states"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds the canvas size. Hosts overwrite it on resize.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds integration parameters.
type PhysicsConfig struct {
	DT       float64 `yaml:"dt"`       // Simulated seconds per tick
	Friction float64 `yaml:"friction"` // Velocity multiplier while settling
}

// ParticlesConfig holds population and kinematic caps.
type ParticlesConfig struct {
	Count    int     `yaml:"count"`
	MaxSpeed float64 `yaml:"max_speed"`
	MaxForce float64 `yaml:"max_force"`
	DotSize  float64 `yaml:"dot_size"` // Renderer hint only
}

// SeekConfig holds arrival parameters for seek.
type SeekConfig struct {
	ArrivalRadius float64 `yaml:"arrival_radius"` // Distance at which deceleration begins
	MinArrival    float64 `yaml:"min_arrival"`    // Fraction of max speed kept at distance 0
}

// RepelConfig holds pointer repulsion parameters.
type RepelConfig struct {
	Radius          float64 `yaml:"radius"`
	Force           float64 `yaml:"force"`
	Exponent        float64 `yaml:"exponent"`         // Falloff exponent, (1-d/r)^exp
	MinSpeed        float64 `yaml:"min_speed"`        // Speed floor after a push
	RequireMotion   bool    `yaml:"require_motion"`   // Only repel while the pointer moves
	MotionThreshold float64 `yaml:"motion_threshold"` // Pointer travel per tick that counts as motion
	ReturnSpeed     float64 `yaml:"return_speed"`     // Pull toward target while the pointer is idle
}

// FlockConfig holds boids parameters.
type FlockConfig struct {
	SeparationDist   float64 `yaml:"separation_dist"`
	AlignmentDist    float64 `yaml:"alignment_dist"`
	CohesionDist     float64 `yaml:"cohesion_dist"`
	SeparationWeight float64 `yaml:"separation_weight"`
	AlignmentWeight  float64 `yaml:"alignment_weight"`
	CohesionWeight   float64 `yaml:"cohesion_weight"`
	WindX            float64 `yaml:"wind_x"`             // Constant horizontal push
	WindTilt         float64 `yaml:"wind_tilt"`          // Max vertical tilt from pointer height
	HeadingJitter    float64 `yaml:"heading_jitter"`     // Launch angle spread (radians)
	MinLaunchSpeed   float64 `yaml:"min_launch_speed"`   // Slowest launch speed on enter
	TopBoundary      float64 `yaml:"top_boundary"`       // Fraction of height
	BottomBoundary   float64 `yaml:"bottom_boundary"`    // Fraction of height
	BoundaryForce    float64 `yaml:"boundary_force"`     // Soft push back into the band
	RepelRadiusBonus float64 `yaml:"repel_radius_bonus"` // Added to repel.radius while flocking
}

// WanderConfig holds random drift parameters.
type WanderConfig struct {
	Jitter     float64 `yaml:"jitter"`      // Max velocity nudge per axis per tick
	Noise      bool    `yaml:"noise"`       // Use simplex noise instead of uniform jitter
	NoiseScale float64 `yaml:"noise_scale"` // Spatial frequency of the noise field
	NoiseSpeed float64 `yaml:"noise_speed"` // Temporal frequency of the noise field
}

// GridConfig holds grid formation geometry.
type GridConfig struct {
	Rows    int     `yaml:"rows"` // 0 = derive from count and aspect
	Cols    int     `yaml:"cols"` // 0 = derive from count and aspect
	MarginX float64 `yaml:"margin_x"`
	MarginY float64 `yaml:"margin_y"`
	Shuffle bool    `yaml:"shuffle"`
}

// WaveConfig holds twin sine wave geometry.
type WaveConfig struct {
	Cycles              float64 `yaml:"cycles"`
	Offset              float64 `yaml:"offset"` // Gap between the branch centerlines
	Amplitude           float64 `yaml:"amplitude"`
	Speed               float64 `yaml:"speed"`                 // Phase advance per simulated second
	Margin              float64 `yaml:"margin"`                // Horizontal layout inset in pixels
	VerticalMargin      float64 `yaml:"vertical_margin"`       // Vertical layout inset, fraction of height
	VerticalBelowAspect float64 `yaml:"vertical_below_aspect"` // Use vertical layout when w/h is below this
}

// CirclesConfig holds overlapping circle geometry.
type CirclesConfig struct {
	Count   int     `yaml:"count"`
	Radius  float64 `yaml:"radius"`
	Overlap float64 `yaml:"overlap"`
	Points  int     `yaml:"points"`
}

// LoadingConfig holds the intro animation parameters.
type LoadingConfig struct {
	Rotations     float64 `yaml:"rotations"`
	RotationSpeed float64 `yaml:"rotation_speed"`
	Distance      float64 `yaml:"distance"`
	ConvergeRate  float64 `yaml:"converge_rate"`
	Epsilon       float64 `yaml:"epsilon"`
}

// TrailsConfig holds the trail length kept per state. 0 disables trails.
type TrailsConfig struct {
	Grid    int `yaml:"grid"`
	Wave    int `yaml:"wave"`
	Flock   int `yaml:"flock"`
	Wander  int `yaml:"wander"`
	Circles int `yaml:"circles"`
}

// StatesConfig holds the state sequence and timers.
type StatesConfig struct {
	Sequence    []string        `yaml:"sequence"`     // Cycle entered after loading
	Durations   DurationsConfig `yaml:"durations"`    // Seconds; 0 = no timer
	SingleState string          `yaml:"single_state"` // Debug: start here and never advance on timers
}

// DurationsConfig holds per-state durations in seconds.
type DurationsConfig struct {
	Loading float64 `yaml:"loading"`
	Grid    float64 `yaml:"grid"`
	Wave    float64 `yaml:"wave"`
	Flock   float64 `yaml:"flock"`
	Wander  float64 `yaml:"wander"`
	Circles float64 `yaml:"circles"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // Ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Width     float64
	Height    float64
	Bounds    r2.Box
	Durations map[string]time.Duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.Refresh()
	return cfg, nil
}

// Refresh clamps invalid values and recomputes derived fields. Call it after
// mutating a Config in place (resize, presets, tuning).
func (c *Config) Refresh() {
	c.normalize()
	c.computeDerived()
}

// normalize clamps values that would otherwise divide by zero or stall the
// simulation. A visual system degrades rather than halts.
func (c *Config) normalize() {
	if c.Screen.Width < 1 {
		c.Screen.Width = 1
	}
	if c.Screen.Height < 1 {
		c.Screen.Height = 1
	}
	if c.Screen.TargetFPS < 1 {
		c.Screen.TargetFPS = 60
	}
	if c.Physics.DT <= 0 {
		c.Physics.DT = 1.0 / float64(c.Screen.TargetFPS)
	}
	if c.Physics.Friction <= 0 || c.Physics.Friction > 1 {
		c.Physics.Friction = 1
	}
	if c.Particles.Count < 1 {
		c.Particles.Count = 1
	}
	if c.Particles.MaxSpeed <= 0 {
		c.Particles.MaxSpeed = 1
	}
	if c.Particles.MaxForce <= 0 {
		c.Particles.MaxForce = 0.1
	}
	if c.Seek.ArrivalRadius < 0 {
		c.Seek.ArrivalRadius = 0
	}
	c.Seek.MinArrival = clamp(c.Seek.MinArrival, 0, 1)
	if c.Repel.Exponent < 1 {
		c.Repel.Exponent = 1
	}
	if c.Repel.Radius < 0 {
		c.Repel.Radius = 0
	}
	if c.Grid.Rows < 0 {
		c.Grid.Rows = 0
	}
	if c.Grid.Cols < 0 {
		c.Grid.Cols = 0
	}
	c.Grid.MarginX = clamp(c.Grid.MarginX, 0, 0.49)
	c.Grid.MarginY = clamp(c.Grid.MarginY, 0, 0.49)
	c.Wave.VerticalMargin = clamp(c.Wave.VerticalMargin, 0, 0.49)
	if c.Circles.Count < 1 {
		c.Circles.Count = 1
	}
	if c.Circles.Points < c.Circles.Count {
		c.Circles.Points = c.Circles.Count
	}
	if c.Loading.RotationSpeed <= 0 {
		c.Loading.RotationSpeed = 0.07
	}
	if c.Loading.Rotations < 0 {
		c.Loading.Rotations = 2.5
	}
	if c.Loading.Epsilon <= 0 {
		c.Loading.Epsilon = 1
	}
	if c.Loading.ConvergeRate <= 0 || c.Loading.ConvergeRate > 1 {
		c.Loading.ConvergeRate = 0.1
	}
	if c.Telemetry.StatsWindow <= 0 {
		c.Telemetry.StatsWindow = 1
	}
	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = 60
	}
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Width = float64(c.Screen.Width)
	c.Derived.Height = float64(c.Screen.Height)
	c.Derived.Bounds = r2.Box{Max: r2.Vec{X: c.Derived.Width, Y: c.Derived.Height}}

	d := c.States.Durations
	c.Derived.Durations = map[string]time.Duration{
		"loading": seconds(d.Loading),
		"grid":    seconds(d.Grid),
		"wave":    seconds(d.Wave),
		"flock":   seconds(d.Flock),
		"wander":  seconds(d.Wander),
		"circles": seconds(d.Circles),
	}
}

// Resize updates the canvas size and recomputes derived values.
func (c *Config) Resize(width, height int) {
	c.Screen.Width = width
	c.Screen.Height = height
	c.Refresh()
}

// Clone returns a deep copy safe to use as a per-tick snapshot.
func (c *Config) Clone() *Config {
	cp := *c
	cp.States.Sequence = append([]string(nil), c.States.Sequence...)
	cp.Derived.Durations = make(map[string]time.Duration, len(c.Derived.Durations))
	for k, v := range c.Derived.Durations {
		cp.Derived.Durations[k] = v
	}
	return &cp
}

// Duration returns the configured duration of a state, 0 if it has no timer.
func (c *Config) Duration(state string) time.Duration {
	return c.Derived.Durations[state]
}

// TrailLength returns the trail length kept while the named state is active.
func (c *Config) TrailLength(state string) int {
	switch state {
	case "grid":
		return c.Trails.Grid
	case "wave":
		return c.Trails.Wave
	case "flock":
		return c.Trails.Flock
	case "wander":
		return c.Trails.Wander
	case "circles":
		return c.Trails.Circles
	}
	return 0
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func seconds(s float64) time.Duration {
	if s <= 0 || math.IsNaN(s) {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

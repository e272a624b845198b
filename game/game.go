// Package game hosts the simulation in a raylib window, or headless for
// batch runs.
package game

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/drift/config"
	"github.com/pthm-cable/drift/input"
	"github.com/pthm-cable/drift/renderer"
	"github.com/pthm-cable/drift/sim"
	"github.com/pthm-cable/drift/states"
	"github.com/pthm-cable/drift/telemetry"
	"github.com/pthm-cable/drift/ui"
)

// Options configures a Game.
type Options struct {
	Config         *config.Config // Nil uses config.Cfg()
	Seed           int64
	LogStats       bool
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
}

// Game ties the simulation to a window: it samples pointers, forwards keys
// and draws the particle views.
type Game struct {
	sim     *sim.Simulation
	tracker *input.Tracker

	headless       bool
	paused         bool
	stepsPerUpdate int

	// Rendering
	background *renderer.BackgroundRenderer
	particles  *renderer.ParticleRenderer
	hud        *ui.HUD

	screenWidth, screenHeight int32
	pointers                  []r2.Vec // Reused pointer buffer
}

// NewGameWithOptions creates a game. In graphical mode the window must
// already be open.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	s, err := sim.New(cfg, sim.Options{
		Seed:      opts.Seed,
		LogStats:  opts.LogStats,
		OutputDir: opts.OutputDir,
	})
	if err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}

	g := &Game{
		sim:            s,
		tracker:        input.NewTracker(cfg.Repel.MotionThreshold),
		headless:       opts.Headless,
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
		screenWidth:    int32(cfg.Screen.Width),
		screenHeight:   int32(cfg.Screen.Height),
	}

	if !g.headless {
		g.background = renderer.NewBackgroundRenderer(g.screenWidth, g.screenHeight,
			rl.Color{R: 12, G: 14, B: 20, A: 255}, rl.Color{R: 4, G: 5, B: 8, A: 255})
		g.particles = renderer.NewParticleRenderer(float32(cfg.Particles.DotSize), rl.RayWhite)
		g.hud = ui.NewHUD()
	}
	return g, nil
}

// Update handles input and advances the simulation.
func (g *Game) Update() {
	g.handleInput()
	if g.paused {
		return
	}
	frame := g.tracker.Sample(g.pointerPositions(), g.sim.Config().Derived.Bounds)
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.sim.Step(frame)
		// Motion is only reported once per sampled frame.
		frame.Moved = false
	}
}

// UpdateHeadless advances the simulation with no pointer.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.sim.Step(input.Frame{})
	}
}

// Draw renders one frame.
func (g *Game) Draw() {
	g.sim.RecordFrame()

	rl.BeginDrawing()
	g.background.Draw()
	g.particles.Draw(g.sim.Views())

	action := g.hud.Draw(g.hudData())
	g.hud.DrawControls(g.screenHeight, "[Space] next  [1-6] state  [P] pause  [H] hud  [</>] speed")
	rl.EndDrawing()

	if action.Next {
		g.sim.Next()
	}
	if action.Force != "" {
		g.sim.Force(states.ID(action.Force))
	}
}

func (g *Game) hudData() ui.HUDData {
	cfg := g.sim.Config()
	names := make([]string, 0, len(states.All)-1)
	for _, id := range states.All {
		if id != states.Loading {
			names = append(names, string(id))
		}
	}
	active := g.sim.StateID()
	return ui.HUDData{
		State:     string(active),
		States:    names,
		Elapsed:   g.sim.Elapsed().Seconds(),
		Duration:  cfg.Duration(string(active)).Seconds(),
		Particles: g.sim.Swarm().Len(),
		Tick:      g.sim.Tick(),
		FPS:       rl.GetFPS(),
		Paused:    g.paused,
	}
}

// Unload closes output files.
func (g *Game) Unload() {
	if err := g.sim.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 {
	return g.sim.Tick()
}

// SetStatsCallback forwards every flushed stats window to fn.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.sim.SetStatsCallback(fn)
}

// Sim exposes the underlying simulation.
func (g *Game) Sim() *sim.Simulation {
	return g.sim
}

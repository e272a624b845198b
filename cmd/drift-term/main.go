// Command drift-term runs the particle formations in a terminal, with the
// mouse as the pointer.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/drift/camera"
	"github.com/pthm-cable/drift/config"
	"github.com/pthm-cable/drift/input"
	"github.com/pthm-cable/drift/sim"
	"github.com/pthm-cable/drift/states"
)

const (
	dotRune   = '●'
	trailRune = '·'
)

// stateRunes maps number keys to states for forcing.
var stateRunes = map[rune]states.ID{
	'1': states.Grid,
	'2': states.Wave,
	'3': states.Flock,
	'4': states.Wander,
	'5': states.Circles,
	'6': states.Loading,
}

type termHost struct {
	screen  tcell.Screen
	vp      *camera.Viewport
	sim     *sim.Simulation
	tracker *input.Tracker

	pointer    r2.Vec
	hasPointer bool
	paused     bool
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	preset := flag.String("preset", "", "Layout preset: desktop or mobile (empty = none)")
	state := flag.String("state", "", "Start in this state and never advance on timers")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	cellW := flag.Float64("cell-w", 8, "Canvas pixels per terminal column")
	cellH := flag.Float64("cell-h", 16, "Canvas pixels per terminal row")
	logFile := flag.String("log-file", "", "Write JSON logs here (empty = discard)")
	flag.Parse()

	var logOut io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *preset != "" {
		if err := cfg.ApplyPreset(*preset); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to apply preset: %v\n", err)
			os.Exit(1)
		}
	}
	if *state != "" {
		cfg.States.SingleState = *state
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	h, err := newTermHost(cfg, rngSeed, *cellW, *cellH)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer h.cleanup()

	h.run(time.Duration(cfg.Physics.DT * float64(time.Second)))
}

func newTermHost(cfg *config.Config, seed int64, cellW, cellH float64) (*termHost, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	cols, rows := screen.Size()
	vp := camera.New(cols, rows, cellW, cellH)
	cfg.Resize(vp.CanvasSize())

	s, err := sim.New(cfg, sim.Options{Seed: seed})
	if err != nil {
		screen.Fini()
		return nil, err
	}

	return &termHost{
		screen:  screen,
		vp:      vp,
		sim:     s,
		tracker: input.NewTracker(cfg.Repel.MotionThreshold),
	}, nil
}

func (h *termHost) run(frameTime time.Duration) {
	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !h.handleEvent(ev) {
				return
			}

		case <-ticker.C:
			if !h.paused {
				h.sim.Step(h.frame())
			}
			h.draw()
		}
	}
}

// frame samples the last known mouse position.
func (h *termHost) frame() input.Frame {
	var points []r2.Vec
	if h.hasPointer {
		points = []r2.Vec{h.pointer}
	}
	return h.tracker.Sample(points, h.sim.Config().Derived.Bounds)
}

func (h *termHost) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch r := ev.Rune(); r {
			case 'q':
				return false
			case ' ', 'n':
				h.sim.Next()
			case 'p':
				h.paused = !h.paused
			default:
				if id, ok := stateRunes[r]; ok {
					h.sim.Force(id)
				}
			}
		}

	case *tcell.EventMouse:
		col, row := ev.Position()
		h.pointer = h.vp.CellToWorld(col, row)
		h.hasPointer = true

	case *tcell.EventResize:
		cols, rows := h.screen.Size()
		if h.vp.Resize(cols, rows) {
			h.sim.Resize(h.vp.CanvasSize())
			h.tracker.Reset()
			h.hasPointer = false
		}
		h.screen.Sync()
	}
	return true
}

func (h *termHost) draw() {
	h.screen.Clear()

	views := h.sim.Views()
	for i := range views {
		v := &views[i]
		if v.Alpha <= 0 {
			continue
		}
		n := len(v.Trail)
		for j, p := range v.Trail {
			shade := v.Alpha * 0.6 * (1 - float64(j)/float64(n))
			h.plot(p, trailRune, shade)
		}
	}
	for i := range views {
		v := &views[i]
		if v.Alpha > 0 {
			h.plot(v.Pos, dotRune, v.Alpha)
		}
	}

	status := fmt.Sprintf(" %s  %.1fs  tick %d ", h.sim.StateID(), h.sim.Elapsed().Seconds(), h.sim.Tick())
	if h.paused {
		status += "PAUSED "
	}
	style := tcell.StyleDefault.Reverse(true)
	for i, r := range status {
		h.screen.SetContent(i, h.vp.Rows-1, r, nil, style)
	}

	h.screen.Show()
}

// plot draws r at the cell under p in a gray of the given alpha.
func (h *termHost) plot(p r2.Vec, r rune, alpha float64) {
	col, row, ok := h.vp.WorldToCell(p)
	if !ok {
		return
	}
	g := int32(min(max(alpha, 0), 255))
	h.screen.SetContent(col, row, r, nil, tcell.StyleDefault.Foreground(tcell.NewRGBColor(g, g, g)))
}

func (h *termHost) cleanup() {
	h.screen.Fini()
	if err := h.sim.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/drift/states"
)

// stateKeys maps number keys to states for forcing.
var stateKeys = []struct {
	key int32
	id  states.ID
}{
	{rl.KeyOne, states.Grid},
	{rl.KeyTwo, states.Wave},
	{rl.KeyThree, states.Flock},
	{rl.KeyFour, states.Wander},
	{rl.KeyFive, states.Circles},
	{rl.KeySix, states.Loading},
}

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) || rl.IsKeyPressed(rl.KeyN) {
		g.sim.Next()
	}
	for _, sk := range stateKeys {
		if rl.IsKeyPressed(sk.key) {
			g.sim.Force(sk.id)
		}
	}

	if rl.IsKeyPressed(rl.KeyP) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyH) {
		g.hud.Toggle()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.sim.Resize(int(w), int(h))
	g.background.Resize(w, h)
	g.tracker.Reset()
}

// pointerPositions returns touch points when any are down, otherwise the
// mouse position while the cursor is over the window.
func (g *Game) pointerPositions() []r2.Vec {
	g.pointers = g.pointers[:0]
	if n := rl.GetTouchPointCount(); n > 0 {
		for i := int32(0); i < n; i++ {
			p := rl.GetTouchPosition(i)
			g.pointers = append(g.pointers, r2.Vec{X: float64(p.X), Y: float64(p.Y)})
		}
		return g.pointers
	}
	if rl.IsCursorOnScreen() {
		p := rl.GetMousePosition()
		g.pointers = append(g.pointers, r2.Vec{X: float64(p.X), Y: float64(p.Y)})
	}
	return g.pointers
}

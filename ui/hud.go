// Package ui draws the heads-up display and its raygui controls.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds everything the HUD shows for one frame.
type HUDData struct {
	State     string
	States    []string // Buttons offered for forcing a state
	Elapsed   float64  // Seconds in the active state
	Duration  float64  // Seconds until the timer fires; 0 = no timer
	Particles int
	Tick      int64
	FPS       int32
	Paused    bool
}

// HUDAction is what the user asked for through the HUD this frame.
type HUDAction struct {
	Next  bool
	Force string // Empty unless a state button was pressed
}

// HUD renders the status panel. It is hidden until toggled.
type HUD struct {
	Theme   Theme
	visible bool
	x, y    int32
}

// NewHUD creates a HUD anchored at the top-left corner.
func NewHUD() *HUD {
	return &HUD{Theme: DefaultTheme(), x: 10, y: 10}
}

// Toggle switches visibility and returns the new value.
func (h *HUD) Toggle() bool {
	h.visible = !h.visible
	return h.visible
}

// Visible reports whether the HUD is drawn.
func (h *HUD) Visible() bool {
	return h.visible
}

// Draw renders the HUD and returns any button presses.
func (h *HUD) Draw(data HUDData) HUDAction {
	var action HUDAction
	if !h.visible {
		return action
	}

	t := h.Theme
	width := int32(240)
	buttonRows := int32(1 + (len(data.States)+1)/2)
	height := 2*t.Padding + 3*t.LineHeight + 8 + buttonRows*(t.ButtonHeight+4)
	DrawPanel(h.x, h.y, width, height, t)

	x, y := h.x+t.Padding, h.y+t.Padding
	rl.DrawText(data.State, x, y, t.HeaderFontSize, t.SectionHeader)
	y += t.LineHeight + 4

	timer := fmt.Sprintf("%.1fs", data.Elapsed)
	if data.Duration > 0 {
		timer = fmt.Sprintf("%.1f / %.0fs", data.Elapsed, data.Duration)
	}
	if data.Paused {
		timer += "  PAUSED"
	}
	rl.DrawText(timer, x, y, t.FontSize, t.ValueColor)
	y += t.LineHeight
	rl.DrawText(fmt.Sprintf("Particles: %d | Tick: %d | FPS: %d", data.Particles, data.Tick, data.FPS), x, y, t.FontSize, t.LabelColor)
	y += t.LineHeight + 4

	inner := float32(width - 2*t.Padding)
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: inner, Height: float32(t.ButtonHeight)}, "Next") {
		action.Next = true
	}
	y += t.ButtonHeight + 4

	half := (inner - 4) / 2
	for i, name := range data.States {
		bx := float32(x)
		if i%2 == 1 {
			bx += half + 4
		}
		if gui.Button(rl.Rectangle{X: bx, Y: float32(y), Width: half, Height: float32(t.ButtonHeight)}, name) {
			action.Force = name
		}
		if i%2 == 1 {
			y += t.ButtonHeight + 4
		}
	}
	return action
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	if !h.visible {
		return
	}
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

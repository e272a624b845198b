package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// BackgroundRenderer clears the canvas with a vertical gradient.
type BackgroundRenderer struct {
	Top, Bottom      rl.Color
	screenW, screenH int32
}

// NewBackgroundRenderer creates a background for the given screen size.
func NewBackgroundRenderer(screenW, screenH int32, top, bottom rl.Color) *BackgroundRenderer {
	return &BackgroundRenderer{
		Top:     top,
		Bottom:  bottom,
		screenW: screenW,
		screenH: screenH,
	}
}

// Resize updates the screen size.
func (b *BackgroundRenderer) Resize(screenW, screenH int32) {
	b.screenW = screenW
	b.screenH = screenH
}

// Draw fills the screen.
func (b *BackgroundRenderer) Draw() {
	if b.Top == b.Bottom {
		rl.ClearBackground(b.Top)
		return
	}
	rl.DrawRectangleGradientV(0, 0, b.screenW, b.screenH, b.Top, b.Bottom)
}

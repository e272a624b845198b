// Package camera maps between the simulation canvas and a grid of display
// cells, such as a terminal.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Viewport maps a canvas onto Cols x Rows cells of CellW x CellH canvas
// pixels each. The canvas size always follows the cell grid.
type Viewport struct {
	Cols, Rows   int
	CellW, CellH float64
}

// New creates a viewport. Non-positive dimensions are raised to 1.
func New(cols, rows int, cellW, cellH float64) *Viewport {
	v := &Viewport{CellW: math.Max(cellW, 1), CellH: math.Max(cellH, 1)}
	v.Resize(cols, rows)
	return v
}

// CanvasSize returns the canvas dimensions in pixels.
func (v *Viewport) CanvasSize() (w, h int) {
	return int(float64(v.Cols) * v.CellW), int(float64(v.Rows) * v.CellH)
}

// Resize updates the cell grid. Returns true if it changed.
func (v *Viewport) Resize(cols, rows int) bool {
	cols, rows = max(cols, 1), max(rows, 1)
	if cols == v.Cols && rows == v.Rows {
		return false
	}
	v.Cols = cols
	v.Rows = rows
	return true
}

// WorldToCell converts a canvas position to a cell. ok is false when the
// position falls outside the grid.
func (v *Viewport) WorldToCell(p r2.Vec) (col, row int, ok bool) {
	col = int(math.Floor(p.X / v.CellW))
	row = int(math.Floor(p.Y / v.CellH))
	ok = col >= 0 && col < v.Cols && row >= 0 && row < v.Rows
	return col, row, ok
}

// CellToWorld returns the canvas position at the center of a cell.
func (v *Viewport) CellToWorld(col, row int) r2.Vec {
	return r2.Vec{
		X: (float64(col) + 0.5) * v.CellW,
		Y: (float64(row) + 0.5) * v.CellH,
	}
}

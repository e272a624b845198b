package systems

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// SpatialGrid provides neighbor lookups using a cell-based grid over the
// canvas. Entries are population indices. Points outside the canvas are
// stored in the nearest edge cell, so queries stay exact for particles that
// have drifted off screen.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	width    float64
	height   float64
	cells    [][]int // flat grid of index lists
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	g := &SpatialGrid{}
	g.Reset(width, height, cellSize)
	return g
}

// Reset resizes the grid and empties it. Storage is reused when the cell
// count does not change.
func (g *SpatialGrid) Reset(width, height, cellSize float64) {
	if cellSize <= 0 {
		cellSize = max(width, height, 1)
	}
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	if cols*rows != len(g.cells) {
		g.cells = make([][]int, cols*rows)
		for i := range g.cells {
			g.cells[i] = make([]int, 0, 8) // pre-allocate small capacity
		}
	}
	g.cellSize = cellSize
	g.cols = cols
	g.rows = rows
	g.width = width
	g.height = height
	g.Clear()
}

// Matches reports whether the grid was built for these dimensions.
func (g *SpatialGrid) Matches(width, height, cellSize float64) bool {
	return g.width == width && g.height == height && g.cellSize == cellSize
}

// Clear removes all entries from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds index i at pos.
func (g *SpatialGrid) Insert(i int, pos r2.Vec) {
	col, row := g.cell(pos.X, pos.Y)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], i)
}

// QueryRadiusInto appends to dst every index whose body lies within radius
// of pos, excluding exclude. bodies is the slice the grid was filled from.
// Returns the updated slice. Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []int, pos r2.Vec, radius float64, exclude int, bodies []Body) []int {
	minCol, minRow := g.cell(pos.X-radius, pos.Y-radius)
	maxCol, maxRow := g.cell(pos.X+radius, pos.Y+radius)
	radiusSq := radius * radius

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, i := range g.cells[row*g.cols+col] {
				if i == exclude {
					continue
				}
				if r2.Norm2(r2.Sub(bodies[i].Pos, pos)) <= radiusSq {
					dst = append(dst, i)
				}
			}
		}
	}

	return dst
}

// cell returns the clamped cell coordinates for a world position.
func (g *SpatialGrid) cell(x, y float64) (col, row int) {
	col = int(x / g.cellSize)
	row = int(y / g.cellSize)

	// Clamp to valid range
	if x < 0 || col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if y < 0 || row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}

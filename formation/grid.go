// Package formation generates target layouts for the particle population.
// Generators are pure: the same inputs always give the same points, and the
// number of points does not depend on how many particles will use them.
package formation

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// GridDims picks rows and columns for count points in an area with the given
// width/height aspect, keeping cells close to square.
func GridDims(count int, aspect float64) (rows, cols int) {
	if count < 1 {
		count = 1
	}
	if aspect <= 0 || math.IsNaN(aspect) || math.IsInf(aspect, 0) {
		aspect = 1
	}
	rows = max(int(math.Round(math.Sqrt(float64(count)/aspect))), 1)
	cols = max(int(math.Round(float64(rows)*aspect)), ceilDiv(count, rows), 1)
	return rows, cols
}

// Grid lays out rows*cols points row by row inside area, using square cells
// sized to fit the tighter dimension and centering the result. Missing rows
// or cols (<= 0) are derived from count.
func Grid(count, rows, cols int, area r2.Box) []r2.Vec {
	size := area.Size()
	switch {
	case rows <= 0 && cols <= 0:
		rows, cols = GridDims(count, size.X/size.Y)
	case rows <= 0:
		rows = ceilDiv(max(count, 1), cols)
	case cols <= 0:
		cols = ceilDiv(max(count, 1), rows)
	}

	cell := math.Min(size.X/float64(max(cols-1, 1)), size.Y/float64(max(rows-1, 1)))
	if cols == 1 && rows == 1 {
		cell = 0
	}
	start := r2.Vec{
		X: area.Min.X + (size.X-cell*float64(cols-1))/2,
		Y: area.Min.Y + (size.Y-cell*float64(rows-1))/2,
	}

	points := make([]r2.Vec, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			points = append(points, r2.Vec{
				X: start.X + float64(col)*cell,
				Y: start.Y + float64(row)*cell,
			})
		}
	}
	return points
}

// Inset returns bounds shrunk by fractions of its width and height on each side.
func Inset(bounds r2.Box, fracX, fracY float64) r2.Box {
	size := bounds.Size()
	d := r2.Vec{X: size.X * fracX, Y: size.Y * fracY}
	return r2.Box{Min: r2.Add(bounds.Min, d), Max: r2.Sub(bounds.Max, d)}
}

// Shuffle returns a Fisher-Yates shuffled copy of points.
func Shuffle(points []r2.Vec, rng *rand.Rand) []r2.Vec {
	out := append([]r2.Vec(nil), points...)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Assign returns the target for particle i: points[i % len(points)].
// ok is false when there are no points.
func Assign(i int, points []r2.Vec) (p r2.Vec, ok bool) {
	if len(points) == 0 || i < 0 {
		return r2.Vec{}, false
	}
	return points[i%len(points)], true
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

package formation

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// CirclesOverlapping places count points on circleCount rings of the given
// radius. Ring centers are vertically centered and spread horizontally by
// overlap*width around the middle of bounds. Each ring gets
// count/circleCount evenly spaced points starting at angle 0, and never
// fewer than one.
func CirclesOverlapping(count, circleCount int, radius, overlap float64, bounds r2.Box) []r2.Vec {
	if circleCount < 1 {
		circleCount = 1
	}
	perCircle := max(count/circleCount, 1)
	center := bounds.Center()
	width := bounds.Size().X

	points := make([]r2.Vec, 0, perCircle*circleCount)
	for k := 0; k < circleCount; k++ {
		shift := (float64(k) - float64(circleCount-1)/2) * overlap
		c := r2.Vec{X: bounds.Min.X + width*(0.5+shift), Y: center.Y}
		for i := 0; i < perCircle; i++ {
			angle := 2 * math.Pi * float64(i) / float64(perCircle)
			points = append(points, r2.Vec{
				X: c.X + radius*math.Cos(angle),
				Y: c.Y + radius*math.Sin(angle),
			})
		}
	}
	return points
}

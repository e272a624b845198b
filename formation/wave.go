package formation

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// WaveSpec describes the twin sine wave layout.
type WaveSpec struct {
	PerBranch int     // Points on each branch
	Amplitude float64 // Peak displacement from the centerline
	Offset    float64 // Gap between the two centerlines
	Cycles    float64 // Full periods across the branch
	Margin    float64 // Horizontal layout: inset in pixels from left and right
	VMargin   float64 // Vertical layout: inset as a fraction of height, top and bottom
	Phase     float64 // In cycles; advances with time
	Vertical  bool    // Run the branches top to bottom instead of left to right
}

// TwinWave generates the two branches of a sine wave. Branch a adds the sine
// displacement to its centerline and branch b subtracts it, so the pair
// mirror each other like a double helix.
func TwinWave(s WaveSpec, bounds r2.Box) (a, b []r2.Vec) {
	n := max(s.PerBranch, 0)
	a = make([]r2.Vec, n)
	b = make([]r2.Vec, n)
	denom := float64(max(n-1, 1))
	center := bounds.Center()
	size := bounds.Size()

	for i := 0; i < n; i++ {
		t := float64(i) / denom
		disp := s.Amplitude * math.Sin(2*math.Pi*(s.Cycles*t+s.Phase))

		if s.Vertical {
			top := bounds.Min.Y + size.Y*s.VMargin
			span := size.Y - 2*size.Y*s.VMargin
			y := top + t*span
			a[i] = r2.Vec{X: center.X - s.Offset/2 + disp, Y: y}
			b[i] = r2.Vec{X: center.X + s.Offset/2 - disp, Y: y}
			continue
		}

		x := bounds.Min.X + s.Margin + t*(size.X-2*s.Margin)
		a[i] = r2.Vec{X: x, Y: center.Y - s.Offset/2 + disp}
		b[i] = r2.Vec{X: x, Y: center.Y + s.Offset/2 - disp}
	}
	return a, b
}

// Package vec provides the 2D vector helpers used by the steering and
// formation code. Vectors are gonum r2.Vec values; everything here is
// zero-safe so callers never see NaN from a degenerate normalize.
package vec

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Zero is the zero vector.
var Zero = r2.Vec{}

// Mag returns the Euclidean length of v.
func Mag(v r2.Vec) float64 {
	return r2.Norm(v)
}

// Dist returns the distance between a and b.
func Dist(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// IsZero reports whether both components are exactly zero.
func IsZero(v r2.Vec) bool {
	return v.X == 0 && v.Y == 0
}

// Normalize returns the unit vector of v, or the zero vector when v is zero.
// r2.Unit returns NaN for the zero vector.
func Normalize(v r2.Vec) r2.Vec {
	if IsZero(v) {
		return Zero
	}
	return r2.Unit(v)
}

// SetMag returns v rescaled to length m. The zero vector stays zero.
func SetMag(v r2.Vec, m float64) r2.Vec {
	if IsZero(v) {
		return Zero
	}
	return r2.Scale(m/r2.Norm(v), v)
}

// Limit clamps the length of v to maxMag while preserving direction.
// Returns v unchanged if it is already short enough.
func Limit(v r2.Vec, maxMag float64) r2.Vec {
	if maxMag <= 0 {
		return Zero
	}
	n2 := r2.Norm2(v)
	if n2 <= maxMag*maxMag {
		return v
	}
	return r2.Scale(maxMag/math.Sqrt(n2), v)
}

// FromAngle returns the unit vector at angle a (radians).
func FromAngle(a float64) r2.Vec {
	return r2.Vec{X: math.Cos(a), Y: math.Sin(a)}
}

// Lerp moves a toward b by fraction t.
func Lerp(a, b r2.Vec, t float64) r2.Vec {
	return r2.Add(a, r2.Scale(t, r2.Sub(b, a)))
}

// Lerp1 is the scalar form of Lerp.
func Lerp1(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Remap linearly maps v from [inLo, inHi] to [outLo, outHi]. A degenerate
// input range maps everything to outLo.
func Remap(v, inLo, inHi, outLo, outHi float64) float64 {
	if inHi == inLo {
		return outLo
	}
	return outLo + (v-inLo)*(outHi-outLo)/(inHi-inLo)
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

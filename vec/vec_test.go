package vec

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestNormalizeZero(t *testing.T) {
	got := Normalize(r2.Vec{})
	if got != Zero {
		t.Errorf("Normalize(0) = %v, want zero", got)
	}
	if math.IsNaN(got.X) || math.IsNaN(got.Y) {
		t.Error("Normalize(0) produced NaN")
	}
}

func TestLimit(t *testing.T) {
	tests := []struct {
		name string
		v    r2.Vec
		max  float64
		want float64
	}{
		{"short vector unchanged", r2.Vec{X: 1, Y: 1}, 5, math.Sqrt2},
		{"long vector clamped", r2.Vec{X: 30, Y: 40}, 5, 5},
		{"zero max", r2.Vec{X: 3, Y: 4}, 0, 0},
		{"zero vector", r2.Vec{}, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mag(Limit(tt.v, tt.max))
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("|Limit(%v, %v)| = %v, want %v", tt.v, tt.max, got, tt.want)
			}
		})
	}
}

func TestLimitKeepsDirection(t *testing.T) {
	v := Limit(r2.Vec{X: 30, Y: 40}, 5)
	if math.Abs(v.X-3) > 1e-9 || math.Abs(v.Y-4) > 1e-9 {
		t.Errorf("Limit direction = %v, want (3, 4)", v)
	}
}

func TestSetMag(t *testing.T) {
	v := SetMag(r2.Vec{X: 0, Y: -2}, 7)
	if math.Abs(v.Y+7) > 1e-9 || v.X != 0 {
		t.Errorf("SetMag = %v, want (0, -7)", v)
	}
	if SetMag(r2.Vec{}, 3) != Zero {
		t.Error("SetMag(0) should stay zero")
	}
}

func TestRemap(t *testing.T) {
	if got := Remap(75, 50, 100, 0, 255); math.Abs(got-127.5) > 1e-9 {
		t.Errorf("Remap = %v, want 127.5", got)
	}
	if got := Remap(3, 1, 1, 9, 10); got != 9 {
		t.Errorf("degenerate Remap = %v, want 9", got)
	}
}

func TestLerp(t *testing.T) {
	got := Lerp(r2.Vec{X: 0, Y: 10}, r2.Vec{X: 10, Y: 0}, 0.1)
	if math.Abs(got.X-1) > 1e-9 || math.Abs(got.Y-9) > 1e-9 {
		t.Errorf("Lerp = %v, want (1, 9)", got)
	}
}

// Package input turns raw pointer samples into the per-tick snapshot the
// simulation reads.
package input

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Frame is the pointer state for one tick. It is read-only to the core.
type Frame struct {
	Pointers []r2.Vec // Active pointers inside the canvas
	Moved    bool     // Some pointer travelled past the motion threshold since the last tick
	Inside   bool     // At least one pointer is over the canvas
}

// Active reports whether any pointer is available.
func (f Frame) Active() bool {
	return f.Inside && len(f.Pointers) > 0
}

// Tracker remembers the previous sample so it can tell hovering from moving.
type Tracker struct {
	threshold float64
	prev      []r2.Vec
}

// NewTracker creates a tracker that reports motion above threshold pixels per tick.
func NewTracker(threshold float64) *Tracker {
	return &Tracker{threshold: threshold}
}

// SetThreshold changes the motion threshold.
func (t *Tracker) SetThreshold(threshold float64) {
	t.threshold = threshold
}

// Sample builds the frame for this tick from raw pointer positions. Points
// outside bounds are dropped. A pointer that appears counts as motion.
func (t *Tracker) Sample(points []r2.Vec, bounds r2.Box) Frame {
	var f Frame
	for _, p := range points {
		if bounds.Contains(p) {
			f.Pointers = append(f.Pointers, p)
		}
	}
	f.Inside = len(f.Pointers) > 0

	switch {
	case len(f.Pointers) != len(t.prev):
		f.Moved = f.Inside
	default:
		for i, p := range f.Pointers {
			if r2.Norm(r2.Sub(p, t.prev[i])) > t.threshold {
				f.Moved = true
				break
			}
		}
	}

	t.prev = append(t.prev[:0], f.Pointers...)
	return f
}

// Reset forgets the previous sample.
func (t *Tracker) Reset() {
	t.prev = t.prev[:0]
}

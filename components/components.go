// Package components defines ECS components for the simulation.
package components

import "gonum.org/v1/gonum/spatial/r2"

// Group is the role a particle plays in the loading animation.
type Group uint8

const (
	GroupCenter Group = iota // Waits invisibly at the center
	GroupPulse               // One of the two visible oscillating particles
	GroupEdge                // Starts on a canvas edge and drifts inward
)

// Slot holds the stable population index of a particle.
// Formation targets and snapshots are ordered by it.
type Slot struct {
	Index int
}

// View is the read-only data a renderer needs for one particle.
type View struct {
	Pos   r2.Vec
	Trail []r2.Vec // Most recent first
	Alpha float64
}

// Package swarm owns the particle population. Particles live in an ark ECS
// world; the Slot component keeps a stable index for target assignment and
// ordered snapshots.
package swarm

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/drift/components"
	"github.com/pthm-cable/drift/systems"
)

// EdgeMode selects how particles leaving the canvas are handled.
type EdgeMode uint8

const (
	EdgeNone  EdgeMode = iota // No wrapping
	EdgeWrap                  // Wrap both axes
	EdgeWrapX                 // Wrap x only; y is left to boundary forces
)

// System is the particle aggregate.
type System struct {
	world    *ecs.World
	mapper   *ecs.Map2[components.Particle, components.Slot]
	filter   ecs.Filter2[components.Particle, components.Slot]
	partMap  *ecs.Map[components.Particle]
	entities []ecs.Entity // By slot index

	// Start-of-tick snapshot
	bodies  []systems.Body
	grid    *systems.SpatialGrid
	idxBuf  []int
	nearBuf []systems.Body
}

// New creates an empty particle system.
func New() *System {
	world := ecs.NewWorld()
	return &System{
		world:   world,
		mapper:  ecs.NewMap2[components.Particle, components.Slot](world),
		filter:  *ecs.NewFilter2[components.Particle, components.Slot](world),
		partMap: ecs.NewMap[components.Particle](world),
		grid:    systems.NewSpatialGrid(1, 1, 1),
	}
}

// Rebuild replaces the whole population. particles[i] gets slot i.
func (s *System) Rebuild(particles []components.Particle) {
	for _, e := range s.entities {
		s.world.RemoveEntity(e)
	}
	s.entities = s.entities[:0]

	for i := range particles {
		p := particles[i]
		slot := components.Slot{Index: i}
		s.entities = append(s.entities, s.mapper.NewEntity(&p, &slot))
	}
	s.bodies = s.bodies[:0]
}

// Len returns the population size.
func (s *System) Len() int {
	return len(s.entities)
}

// At returns particle i for in-place mutation.
func (s *System) At(i int) *components.Particle {
	return s.partMap.Get(s.entities[i])
}

// Each calls fn for every particle with its slot index.
func (s *System) Each(fn func(i int, p *components.Particle)) {
	query := s.filter.Query()
	for query.Next() {
		p, slot := query.Get()
		fn(slot.Index, p)
	}
}

// Capture copies every position and velocity into the index-ordered
// snapshot and refills the spatial grid from it. Steering that reads
// neighbors must use the snapshot so update order does not matter.
func (s *System) Capture(width, height, cellSize float64) {
	n := len(s.entities)
	if cap(s.bodies) < n {
		s.bodies = make([]systems.Body, n)
	}
	s.bodies = s.bodies[:n]

	if !s.grid.Matches(width, height, cellSize) {
		s.grid.Reset(width, height, cellSize)
	} else {
		s.grid.Clear()
	}

	s.Each(func(i int, p *components.Particle) {
		s.bodies[i] = systems.Body{Pos: p.Pos, Vel: p.Vel}
	})
	for i, b := range s.bodies {
		s.grid.Insert(i, b.Pos)
	}
}

// Body returns the snapshot of particle i.
func (s *System) Body(i int) systems.Body {
	return s.bodies[i]
}

// Neighbors returns the snapshot bodies within radius of particle i,
// excluding i. The slice is reused by the next call.
func (s *System) Neighbors(i int, radius float64) []systems.Body {
	s.idxBuf = s.grid.QueryRadiusInto(s.idxBuf[:0], s.bodies[i].Pos, radius, i, s.bodies)
	s.nearBuf = s.nearBuf[:0]
	for _, j := range s.idxBuf {
		s.nearBuf = append(s.nearBuf, s.bodies[j])
	}
	return s.nearBuf
}

// Views returns render data ordered by slot.
func (s *System) Views() []components.View {
	views := make([]components.View, len(s.entities))
	s.Each(func(i int, p *components.Particle) {
		views[i] = p.View()
	})
	return views
}

// Centroid returns the mean particle position, zero for an empty system.
func (s *System) Centroid() r2.Vec {
	var sum r2.Vec
	n := 0
	s.Each(func(_ int, p *components.Particle) {
		sum = r2.Add(sum, p.Pos)
		n++
	})
	if n == 0 {
		return sum
	}
	return r2.Scale(1/float64(n), sum)
}

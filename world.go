package feather2d

import (
	"github.com/akmonengine/feather2d/actor"
	"github.com/akmonengine/feather2d/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

type World struct {
	// Gravity acceleration (units/s²)
	Gravity    mgl64.Vec2
	Correction constraint.Correction

	registry    *Registry
	spatialGrid *SpatialGrid

	Events Events
}

// Snapshot is what one step detected, for rendering and debugging.
// It holds copies only; bodies are read through the World with the handles it contains.
type Snapshot struct {
	Grid      GridSnapshot
	Pairs     []Pair
	Manifolds []Manifold
}

// NewWorld creates an empty world from a validated configuration
func NewWorld(config Config) (*World, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &World{
		Gravity: config.gravity(),
		Correction: constraint.Correction{
			Percentage: config.Correction.Percentage,
			Slop:       config.Correction.Slop,
		},
		registry:    NewRegistry(),
		spatialGrid: NewSpatialGrid(config.Grid.Columns, config.Grid.Rows, config.extent()),
		Events:      NewEvents(),
	}, nil
}

// AddBody adds a copy of a rigid body to the world
func (w *World) AddBody(body actor.RigidBody) BodyHandle {
	return w.registry.Insert(body)
}

// RemoveBody removes a rigid body from the world. Other handles stay valid.
func (w *World) RemoveBody(h BodyHandle) bool {
	if !w.registry.Remove(h) {
		return false
	}
	w.Events.forget(h)

	return true
}

// Body borrows a body. The pointer is valid until the next AddBody.
func (w *World) Body(h BodyHandle) (*actor.RigidBody, bool) {
	return w.registry.Get(h)
}

// Bodies returns the handles of every body, in slot order
func (w *World) Bodies() []BodyHandle {
	return w.registry.Handles()
}

// BodyCount returns the number of bodies in the world
func (w *World) BodyCount() int {
	return w.registry.Len()
}

// SetViewport stretches the broad phase grid over a new window extent
func (w *World) SetViewport(width, height float64) {
	w.spatialGrid.Resize(mgl64.Vec2{width, height})
}

// Step advances the simulation by dt seconds
func (w *World) Step(dt float64) Snapshot {
	// Phase 1: External forces
	w.applyGravity()

	// Phase 2: Integrate velocities and positions
	w.integrate(dt)

	// Phase 3.0: Collision pair finding - Broad phase
	// Phase 3.1: Collision pair finding - narrow phase
	pairs := BroadPhase(w.spatialGrid, w.registry)
	contacts := NarrowPhase(w.registry, pairs)

	manifolds := make([]Manifold, len(contacts))
	for i, c := range contacts {
		manifolds[i] = c.Manifold()
	}

	// Phase 4: Single pass of impulses and positional correction, triggers excluded
	w.resolve(w.Events.recordContacts(contacts))

	w.Events.flush()

	return Snapshot{
		Grid:      w.spatialGrid.Snapshot(),
		Pairs:     pairs,
		Manifolds: manifolds,
	}
}

func (w *World) applyGravity() {
	if w.Gravity == (mgl64.Vec2{}) {
		return
	}

	w.registry.Each(func(_ BodyHandle, body *actor.RigidBody) {
		body.AddForce(w.Gravity.Mul(body.Mass()))
	})
}

func (w *World) integrate(dt float64) {
	w.registry.Each(func(_ BodyHandle, body *actor.RigidBody) {
		body.Update(dt)
	})
}

func (w *World) resolve(contacts []Contact) {
	for _, c := range contacts {
		c.Constraint.Solve(w.Correction)
	}
}

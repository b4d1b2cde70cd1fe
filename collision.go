package feather2d

import (
	"github.com/akmonengine/feather2d/actor"
	"github.com/akmonengine/feather2d/constraint"
	"github.com/akmonengine/feather2d/sat"
	"github.com/go-gl/mathgl/mgl64"
)

// Contact is a confirmed collision between the two bodies of a pair
type Contact struct {
	Pair       Pair
	Constraint *constraint.ContactConstraint
}

// Manifold is the copy of a contact published for debugging and rendering.
// Normal points from BodyA towards BodyB of the pair.
type Manifold struct {
	Pair        Pair
	Normal      mgl64.Vec2
	Penetration float64
	Points      []mgl64.Vec2
}

// BroadPhase rebuilds the grid from scratch and returns the candidate pairs
func BroadPhase(spatialGrid *SpatialGrid, registry *Registry) []Pair {
	spatialGrid.Clear()
	registry.Each(func(h BodyHandle, body *actor.RigidBody) {
		spatialGrid.Insert(h, body.AABB())
	})

	return spatialGrid.FindPairs(registry)
}

// NarrowPhase runs the separating axis test on every candidate pair
func NarrowPhase(registry *Registry, pairs []Pair) []Contact {
	contacts := make([]Contact, 0, len(pairs))

	for _, pair := range pairs {
		bodyA, okA := registry.Get(pair.BodyA)
		bodyB, okB := registry.Get(pair.BodyB)
		if !okA || !okB {
			continue
		}

		contact, collision := sat.Collide(bodyA, bodyB)
		if !collision {
			continue
		}

		contacts = append(contacts, Contact{Pair: pair, Constraint: &contact})
	}

	return contacts
}

// Manifold copies the contact data, before resolution reorders the bodies
func (c Contact) Manifold() Manifold {
	return Manifold{
		Pair:        c.Pair,
		Normal:      c.Constraint.Normal,
		Penetration: c.Constraint.Penetration,
		Points:      append([]mgl64.Vec2(nil), c.Constraint.Points...),
	}
}

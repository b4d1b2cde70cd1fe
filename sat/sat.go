// Package sat implements the Separating Axis Theorem for convex polygons.
//
// Two convex polygons do not overlap if and only if there is an axis onto which their
// projections are disjoint. For polygons the only candidate axes are the edge normals
// of both shapes, so the test is exhaustive and exits on the first separating axis.
// When no axis separates the shapes, the axis with the smallest overlap gives the
// minimum translation vector: its direction is the contact normal and its length the
// penetration depth.
package sat

import (
	"math"

	"github.com/akmonengine/feather2d/actor"
	"github.com/akmonengine/feather2d/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// parallelTolerance bounds |n1 × n2| for two unit normals to be treated as the same axis
const parallelTolerance = 1e-9

// Collide tests two bodies for overlap.
// On collision it returns a contact constraint whose normal points from a towards b.
func Collide(a, b *actor.RigidBody) (constraint.ContactConstraint, bool) {
	verticesA := a.WorldVertices()
	verticesB := b.WorldVertices()

	bestOverlap := math.MaxFloat64
	var bestAxis mgl64.Vec2

	for _, axis := range Axes(a.WorldNormals(), b.WorldNormals()) {
		minA, maxA := Project(verticesA, axis)
		minB, maxB := Project(verticesB, axis)

		// Touching shapes are not colliding
		if maxA <= minB || maxB <= minA {
			return constraint.ContactConstraint{}, false
		}

		overlap := intervalOverlap(minA, maxA, minB, maxB)
		if overlap < bestOverlap {
			bestOverlap = overlap
			bestAxis = axis
		}
	}

	if b.Center().Sub(a.Center()).Dot(bestAxis) < 0 {
		bestAxis = bestAxis.Mul(-1)
	}

	return constraint.ContactConstraint{
		BodyA:       a,
		BodyB:       b,
		Normal:      bestAxis,
		Penetration: bestOverlap,
		Points:      ContactPoints(verticesA, verticesB),
	}, true
}

// Axes merges both normal sets, keeping one axis per direction.
// Parallel and anti-parallel normals yield the same projections and are tested once.
func Axes(normalsA, normalsB []mgl64.Vec2) []mgl64.Vec2 {
	axes := make([]mgl64.Vec2, 0, len(normalsA)+len(normalsB))

	for _, normals := range [2][]mgl64.Vec2{normalsA, normalsB} {
	next:
		for _, n := range normals {
			for _, axis := range axes {
				if math.Abs(actor.Cross(n, axis)) < parallelTolerance {
					continue next
				}
			}
			axes = append(axes, n)
		}
	}

	return axes
}

// Project returns the [min, max] interval of the vertices along axis
func Project(vertices []mgl64.Vec2, axis mgl64.Vec2) (float64, float64) {
	min := math.MaxFloat64
	max := -math.MaxFloat64
	for _, v := range vertices {
		d := v.Dot(axis)
		min = math.Min(min, d)
		max = math.Max(max, d)
	}

	return min, max
}

// intervalOverlap is the length of the intersection of two overlapping intervals.
// When one contains the other, the smaller end gap is added: the inner shape has to travel
// its whole length plus that gap to get out.
func intervalOverlap(minA, maxA, minB, maxB float64) float64 {
	overlap := math.Min(maxA, maxB) - math.Max(minA, minB)

	containsB := minA <= minB && maxB <= maxA
	containsA := minB <= minA && maxA <= maxB
	if containsA || containsB {
		overlap += math.Min(math.Abs(minA-minB), math.Abs(maxA-maxB))
	}

	return overlap
}

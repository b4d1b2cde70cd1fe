package sat

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// contactTolerance is the distance under which two candidates are considered equally deep,
// or two points the same point
const contactTolerance = 1e-5

// ContactPoints finds up to two contact points between two overlapping polygons.
// Every vertex of each polygon is measured against every edge of the other one; the vertices
// closest to an opposing edge are the contacts. A face resting on a face yields two points,
// a vertex pushed into a face yields one.
func ContactPoints(verticesA, verticesB []mgl64.Vec2) []mgl64.Vec2 {
	var first, second mgl64.Vec2
	count := 0
	best := math.MaxFloat64

	consider := func(point mgl64.Vec2, polygon []mgl64.Vec2) {
		for i := range polygon {
			distance := distanceToSegment(point, polygon[i], polygon[(i+1)%len(polygon)])

			switch {
			case math.Abs(distance-best) <= contactTolerance:
				if point.Sub(first).Len() > contactTolerance {
					second = point
					count = 2
				}
			case distance < best:
				best = distance
				first = point
				count = 1
			}
		}
	}

	for _, v := range verticesA {
		consider(v, verticesB)
	}
	for _, v := range verticesB {
		consider(v, verticesA)
	}

	switch count {
	case 0:
		return nil
	case 1:
		return []mgl64.Vec2{first}
	default:
		return []mgl64.Vec2{first, second}
	}
}

// distanceToSegment returns the distance between p and the closest point of segment [a, b]
func distanceToSegment(p, a, b mgl64.Vec2) float64 {
	ab := b.Sub(a)
	lenSqr := ab.Dot(ab)
	if lenSqr == 0 {
		return p.Sub(a).Len()
	}

	t := p.Sub(a).Dot(ab) / lenSqr
	t = math.Max(0, math.Min(1, t))

	return p.Sub(a.Add(ab.Mul(t))).Len()
}

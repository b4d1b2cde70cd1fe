package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position and an orientation in 2D space
type Transform struct {
	Position mgl64.Vec2
	Rotation float64 // radians, counter-clockwise
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec2{0, 0},
		Rotation: 0,
	}
}

// Rotate applies the rotation only (directions, normals)
func (t Transform) Rotate(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Rotate2D(t.Rotation).Mul2x1(v)
}

// Apply maps a body-local point to world space
func (t Transform) Apply(local mgl64.Vec2) mgl64.Vec2 {
	return t.Rotate(local).Add(t.Position)
}

// Cross returns the z component of the 3D cross product of a and b.
func Cross(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}

// CrossScalar returns w × r, where w is an angular velocity around the z axis.
func CrossScalar(w float64, r mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-w * r.Y(), w * r.X()}
}

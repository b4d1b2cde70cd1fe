package actor

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// BodyDef holds the parameters of a body, as supplied by scene setup code.
// Radius and Sides describe a ShapeTypePolygon, Width and Height a ShapeTypeRectangle.
// When Mass is zero and Density is set, the mass is derived from the shape area.
type BodyDef struct {
	Shape    ShapeType
	Position mgl64.Vec2
	Rotation float64

	Radius float64
	Sides  int
	Width  float64
	Height float64

	Mass    float64
	Density float64

	Restitution     float64
	StaticFriction  float64
	DynamicFriction float64
	LinearDamping   float64
	AngularDamping  float64

	Frozen       bool
	IsTrigger    bool
	Group        int
	IgnoreGroups []int
}

// NewBody validates def and returns a fully initialized body
func NewBody(def BodyDef) (RigidBody, error) {
	var shape *Polygon
	var err error

	switch def.Shape {
	case ShapeTypePolygon:
		shape, err = NewRegularPolygon(def.Radius, def.Sides)
	case ShapeTypeRectangle:
		shape, err = NewRectangle(def.Width, def.Height)
	default:
		return RigidBody{}, errors.Wrapf(ErrUnknownShape, "shape %d", int(def.Shape))
	}
	if err != nil {
		return RigidBody{}, errors.Wrapf(err, "invalid %s", def.Shape)
	}

	mass := def.Mass
	if mass == 0 && def.Density > 0 {
		mass = shape.ComputeMass(def.Density)
	}
	rb, err := newRigidBody(
		Transform{Position: def.Position, Rotation: def.Rotation},
		shape,
		mass,
		Material{
			Restitution:     def.Restitution,
			StaticFriction:  def.StaticFriction,
			DynamicFriction: def.DynamicFriction,
			LinearDamping:   def.LinearDamping,
			AngularDamping:  def.AngularDamping,
		},
		def.Frozen,
	)
	if err != nil {
		return RigidBody{}, err
	}

	rb.IsTrigger = def.IsTrigger
	rb.Group = def.Group
	if len(def.IgnoreGroups) > 0 {
		rb.IgnoreGroups = append([]int(nil), def.IgnoreGroups...)
	}

	return rb, nil
}

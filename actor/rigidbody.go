package actor

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

var ErrInvalidMass = errors.New("mass must be positive for a body that is not frozen")

type Material struct {
	Restitution float64 // 0= no rebound, 1= perfect restitution

	StaticFriction  float64
	DynamicFriction float64
	LinearDamping   float64 // 0.0 - 1.0, typical : 0.01
	AngularDamping  float64 // 0.0 - 1.0, typical : 0.05
}

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	// Spatial properties
	Transform Transform

	// Linear motion
	Velocity mgl64.Vec2 // units/s

	// Angular motion
	AngularVelocity float64 // rad/s

	mass           float64
	inverseMass    float64
	inertia        float64
	inverseInertia float64

	accumulatedForce  mgl64.Vec2
	accumulatedTorque float64

	// Physical properties
	Material Material
	// Frozen bodies are immovable: zero inverse mass and inertia whatever their mass
	Frozen bool
	// Triggers are detected and reported but never resolved
	IsTrigger bool

	// Collision filtering
	Group        int
	IgnoreGroups []int

	// Collision shape
	Shape *Polygon

	geometry geometry
}

// geometry caches the world-space view of the shape for one transform
type geometry struct {
	valid     bool
	transform Transform
	vertices  []mgl64.Vec2
	normals   []mgl64.Vec2
	aabb      AABB
}

// NewRigidBody creates a new movable rigid body with the given properties. mass must be positive.
func NewRigidBody(transform Transform, shape *Polygon, mass float64, material Material) (RigidBody, error) {
	return newRigidBody(transform, shape, mass, material, false)
}

// NewFrozenBody creates an immovable body. Its mass may be zero; it is only reported by Mass.
func NewFrozenBody(transform Transform, shape *Polygon, mass float64, material Material) (RigidBody, error) {
	return newRigidBody(transform, shape, mass, material, true)
}

func newRigidBody(transform Transform, shape *Polygon, mass float64, material Material, frozen bool) (RigidBody, error) {
	if shape == nil {
		return RigidBody{}, errors.Wrap(ErrUnknownShape, "nil shape")
	}
	if math.IsNaN(mass) || math.IsInf(mass, 0) || mass < 0 || (!frozen && mass == 0) {
		return RigidBody{}, errors.Wrapf(ErrInvalidMass, "mass %v", mass)
	}

	rb := RigidBody{
		Transform: transform,
		Shape:     shape,
		Material:  material,
		Frozen:    frozen,
		mass:      mass,
	}

	if mass > 0 {
		rb.inverseMass = 1.0 / mass
		rb.inertia = shape.ComputeInertia(mass)
		rb.inverseInertia = 1.0 / rb.inertia
	}

	return rb, nil
}

// Mass returns the stored mass, frozen or not
func (rb *RigidBody) Mass() float64 {
	return rb.mass
}

// Inertia returns the moment of inertia around the centroid
func (rb *RigidBody) Inertia() float64 {
	return rb.inertia
}

// InverseMass is zero for frozen bodies
func (rb *RigidBody) InverseMass() float64 {
	if rb.Frozen {
		return 0
	}
	return rb.inverseMass
}

// InverseInertia is zero for frozen bodies
func (rb *RigidBody) InverseInertia() float64 {
	if rb.Frozen {
		return 0
	}
	return rb.inverseInertia
}

// Update advances the body with semi-implicit Euler and clears the accumulators
func (rb *RigidBody) Update(dt float64) {
	if rb.Frozen {
		return
	}

	// ========== LINEAR ==========
	rb.Velocity = rb.Velocity.Add(rb.accumulatedForce.Mul(rb.inverseMass * dt))
	if rb.Material.LinearDamping > 0 {
		rb.Velocity = rb.Velocity.Mul(math.Exp(-rb.Material.LinearDamping * dt))
	}

	// ========== ANGULAR ==========
	rb.AngularVelocity += rb.accumulatedTorque * rb.inverseInertia * dt
	if rb.Material.AngularDamping > 0 {
		rb.AngularVelocity *= math.Exp(-rb.Material.AngularDamping * dt)
	}

	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Mul(dt))
	rb.Transform.Rotation += rb.AngularVelocity * dt

	rb.ClearForces()
}

// AddForce accumulates a force applied at the center of mass until the next Update
func (rb *RigidBody) AddForce(force mgl64.Vec2) {
	if !rb.Frozen {
		rb.accumulatedForce = rb.accumulatedForce.Add(force)
	}
}

// AddTorque accumulates a torque until the next Update
func (rb *RigidBody) AddTorque(torque float64) {
	if !rb.Frozen {
		rb.accumulatedTorque += torque
	}
}

// AddForceAtPoint accumulates a force applied at a world point, producing torque
func (rb *RigidBody) AddForceAtPoint(force mgl64.Vec2, point mgl64.Vec2) {
	rb.AddForce(force)
	rb.AddTorque(Cross(point.Sub(rb.Center()), force))
}

func (rb *RigidBody) Force() mgl64.Vec2 {
	return rb.accumulatedForce
}

func (rb *RigidBody) Torque() float64 {
	return rb.accumulatedTorque
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec2{0, 0}
	rb.accumulatedTorque = 0
}

// ApplyImpulse changes the velocities immediately. r is the lever arm from the center of mass.
// Frozen bodies are left untouched.
func (rb *RigidBody) ApplyImpulse(impulse mgl64.Vec2, r mgl64.Vec2) {
	if rb.Frozen {
		return
	}

	rb.Velocity = rb.Velocity.Add(impulse.Mul(rb.inverseMass))
	rb.AngularVelocity += Cross(r, impulse) * rb.inverseInertia
}

// Center is the world-space center of mass
func (rb *RigidBody) Center() mgl64.Vec2 {
	// vertices are centered on the centroid, so the origin is the center of mass
	return rb.Transform.Position
}

// VelocityAt returns the velocity of the body at a world point
func (rb *RigidBody) VelocityAt(point mgl64.Vec2) mgl64.Vec2 {
	return rb.Velocity.Add(CrossScalar(rb.AngularVelocity, point.Sub(rb.Center())))
}

// Ignores reports whether collisions with the given group are filtered out
func (rb *RigidBody) Ignores(group int) bool {
	return slices.Contains(rb.IgnoreGroups, group)
}

// WorldVertices returns the shape vertices at the current transform.
// The returned slice must not be modified.
func (rb *RigidBody) WorldVertices() []mgl64.Vec2 {
	rb.refreshGeometry()
	return rb.geometry.vertices
}

// WorldNormals returns the outward edge normals at the current transform.
// The returned slice must not be modified.
func (rb *RigidBody) WorldNormals() []mgl64.Vec2 {
	rb.refreshGeometry()
	return rb.geometry.normals
}

// AABB returns the world bounding box at the current transform
func (rb *RigidBody) AABB() AABB {
	rb.refreshGeometry()
	return rb.geometry.aabb
}

func (rb *RigidBody) refreshGeometry() {
	if rb.geometry.valid && rb.geometry.transform == rb.Transform {
		return
	}

	n := rb.Shape.VertexCount()
	// Fresh slices: a copied RigidBody must never share its cache with the original
	vertices := make([]mgl64.Vec2, n)
	normals := make([]mgl64.Vec2, n)
	for i := 0; i < n; i++ {
		vertices[i] = rb.Transform.Apply(rb.Shape.Vertex(i))
		normals[i] = rb.Transform.Rotate(rb.Shape.Normal(i))
	}

	rb.geometry = geometry{
		valid:     true,
		transform: rb.Transform,
		vertices:  vertices,
		normals:   normals,
		aabb:      rb.Shape.ComputeAABB(rb.Transform),
	}
}

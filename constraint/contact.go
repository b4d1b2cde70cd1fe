package constraint

import (
	"math"

	"github.com/akmonengine/feather2d/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-10

// ContactConstraint is the manifold of one colliding pair.
// Normal is a unit vector pointing from BodyA towards BodyB.
type ContactConstraint struct {
	BodyA       *actor.RigidBody
	BodyB       *actor.RigidBody
	Points      []mgl64.Vec2
	Normal      mgl64.Vec2
	Penetration float64
}

// Solve resolves the contact in a single pass: impulses first, then positional correction
func (c *ContactConstraint) Solve(correction Correction) {
	c.canonicalize()
	c.SolveVelocity()
	c.SolvePosition(correction)
}

// canonicalize orders the bodies so that BodyA has the lowest projection on the normal
func (c *ContactConstraint) canonicalize() {
	if c.BodyA.Center().Dot(c.Normal) > c.BodyB.Center().Dot(c.Normal) {
		c.BodyA, c.BodyB = c.BodyB, c.BodyA
	}
}

// SolveVelocity applies the normal impulse (restitution) and the friction impulse of every point
func (c *ContactConstraint) SolveVelocity() {
	if len(c.Points) == 0 {
		return
	}

	bodyA := c.BodyA
	bodyB := c.BodyB

	invMassA := bodyA.InverseMass()
	invMassB := bodyB.InverseMass()
	invInertiaA := bodyA.InverseInertia()
	invInertiaB := bodyB.InverseInertia()
	if invMassA+invMassB+invInertiaA+invInertiaB <= epsilon {
		return
	}

	restitution := ComputeRestitution(bodyA.Material, bodyB.Material)
	staticFriction := ComputeStaticFriction(bodyA.Material, bodyB.Material)
	dynamicFriction := ComputeDynamicFriction(bodyA.Material, bodyB.Material)
	count := float64(len(c.Points))

	for _, point := range c.Points {
		rA := point.Sub(bodyA.Center())
		rB := point.Sub(bodyB.Center())

		// ========== Velocities ==========
		relativeVel := bodyB.VelocityAt(point).Sub(bodyA.VelocityAt(point))
		normalVel := relativeVel.Dot(c.Normal)

		// Already separating
		if normalVel > 0 {
			continue
		}

		// ========== NORMAL IMPULSE (restitution) ==========
		rACrossN := actor.Cross(rA, c.Normal)
		rBCrossN := actor.Cross(rB, c.Normal)
		effectiveMassNormal := invMassA + invMassB +
			rACrossN*rACrossN*invInertiaA + rBCrossN*rBCrossN*invInertiaB
		if effectiveMassNormal <= epsilon {
			continue
		}

		lambdaNormal := -(1 + restitution) * normalVel / effectiveMassNormal / count
		normalImpulse := c.Normal.Mul(lambdaNormal)

		bodyA.ApplyImpulse(normalImpulse.Mul(-1), rA)
		bodyB.ApplyImpulse(normalImpulse, rB)

		// ========== TANGENTIAL IMPULSE (friction) ==========
		relativeVel = bodyB.VelocityAt(point).Sub(bodyA.VelocityAt(point))
		tangentVel := relativeVel.Sub(c.Normal.Mul(relativeVel.Dot(c.Normal)))
		tangentSpeed := tangentVel.Len()
		if tangentSpeed <= 1e-9 {
			continue
		}
		tangentDir := tangentVel.Mul(1.0 / tangentSpeed)

		rACrossT := actor.Cross(rA, tangentDir)
		rBCrossT := actor.Cross(rB, tangentDir)
		effectiveMassTangent := invMassA + invMassB +
			rACrossT*rACrossT*invInertiaA + rBCrossT*rBCrossT*invInertiaB
		if effectiveMassTangent <= epsilon {
			continue
		}

		lambdaTangent := -relativeVel.Dot(tangentDir) / effectiveMassTangent / count

		// Coulomb's law: |F_friction| <= mu * |F_normal|
		var frictionImpulse mgl64.Vec2
		if math.Abs(lambdaTangent) <= staticFriction*lambdaNormal {
			frictionImpulse = tangentDir.Mul(lambdaTangent)
		} else {
			frictionImpulse = tangentDir.Mul(-lambdaNormal * dynamicFriction)
		}

		bodyA.ApplyImpulse(frictionImpulse.Mul(-1), rA)
		bodyB.ApplyImpulse(frictionImpulse, rB)
	}
}

// SolvePosition pushes the bodies apart along the normal, proportionally to their inverse mass.
// Penetration below the slop is left alone. A frozen body takes no share, so its partner moves
// by the whole correction.
func (c *ContactConstraint) SolvePosition(correction Correction) {
	if len(c.Points) == 0 {
		return
	}

	invMassA := c.BodyA.InverseMass()
	invMassB := c.BodyB.InverseMass()
	invMassSum := invMassA + invMassB
	if invMassSum <= epsilon {
		return
	}

	overlap := math.Max(c.Penetration-correction.Slop, 0)
	if overlap == 0 {
		return
	}

	shift := c.Normal.Mul(overlap * correction.Percentage / invMassSum)

	if !c.BodyA.Frozen {
		c.BodyA.Transform.Position = c.BodyA.Transform.Position.Sub(shift.Mul(invMassA))
	}
	if !c.BodyB.Frozen {
		c.BodyB.Transform.Position = c.BodyB.Transform.Position.Add(shift.Mul(invMassB))
	}
}

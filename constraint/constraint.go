package constraint

import (
	"math"

	"github.com/akmonengine/feather2d/actor"
)

// Correction tunes the positional correction applied after the impulses
type Correction struct {
	// Share of the remaining penetration removed per step, in (0,1]
	Percentage float64
	// Penetration tolerated without correction, >= 0
	Slop float64
}

var DefaultCorrection = Correction{
	Percentage: 0.2,
	Slop:       0.01,
}

// ComputeRestitution keeps the least elastic material: a clay ball does not bounce off rubber
func ComputeRestitution(matA, matB actor.Material) float64 {
	return math.Min(matA.Restitution, matB.Restitution)
}

func ComputeStaticFriction(matA, matB actor.Material) float64 {
	return math.Sqrt(matA.StaticFriction*matA.StaticFriction + matB.StaticFriction*matB.StaticFriction)
}

func ComputeDynamicFriction(matA, matB actor.Material) float64 {
	return math.Sqrt(matA.DynamicFriction*matA.DynamicFriction + matB.DynamicFriction*matB.DynamicFriction)
}

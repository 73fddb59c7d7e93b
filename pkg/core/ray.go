package core

import "math"

// NoHitID is the element id stored in a ray that has not intersected any
// geometry.
const NoHitID int32 = -1

// NoDataValue is the sampled value reported for rays that hit nothing.
var NoDataValue = math.NaN()

// Ray represents a query ray with an origin, direction and a mutable
// intersection state. TNear/TFar bound the active parametric interval;
// TFar shrinks as closer hits are found, which is what gives nearest-hit
// semantics across candidate triangles. The reciprocal direction is
// precomputed for the slab test: components of zero direction become
// ±Inf under IEEE-754 division, which the slab test handles without
// branching on the zero case.
type Ray struct {
	Origin       Vec3
	Direction    Vec3
	InvDirection Vec3

	TNear float64
	TFar  float64

	HitElementID int32
	SampledValue float64
}

// NewRay creates a ray with an open intersection interval and no hit
// recorded.
func NewRay(origin, direction Vec3) Ray {
	return Ray{
		Origin:    origin,
		Direction: direction,
		InvDirection: Vec3{
			X: 1.0 / direction.X,
			Y: 1.0 / direction.Y,
			Z: 1.0 / direction.Z,
		},
		TNear:        0,
		TFar:         math.Inf(1),
		HitElementID: NoHitID,
		SampledValue: NoDataValue,
	}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

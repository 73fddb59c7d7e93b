package sampler

import "github.com/yt-project/meshray/pkg/core"

// Wedge interpolates over a 6-node triangular prism: barycentric within
// the triangular cross-section, linear through the thickness. Like the
// hexahedron, a general wedge's mapping has no closed-form inverse, so
// the reference coordinates are recovered by Newton iteration.
//
// Vertex order: 0-2 the bottom triangle, 3-5 the top triangle above it.
// Reference coordinates are (r, s) over the triangle (with
// barycentrics 1-r-s, r, s) and t in [-1, 1] through the thickness.
type Wedge struct{}

// Sample returns the interpolation of the six vertex field values at
// point.
func (Wedge) Sample(vertices []core.Vec3, fields []float64, point core.Vec3) float64 {
	ref := wedgeInverseMap(vertices, point)

	shapes := wedgeShapes(ref)
	value := 0.0
	for i := 0; i < 6; i++ {
		value += fields[i] * shapes[i]
	}
	return value
}

// wedgeShapes evaluates all six shape functions at reference
// coordinates ref.
func wedgeShapes(ref core.Vec3) [6]float64 {
	r, s, t := ref.X, ref.Y, ref.Z
	lambda0 := 1 - r - s
	lower := 0.5 * (1 - t)
	upper := 0.5 * (1 + t)
	return [6]float64{
		lambda0 * lower, r * lower, s * lower,
		lambda0 * upper, r * upper, s * upper,
	}
}

// wedgeGradients returns the reference-space gradients of the six shape
// functions at ref, one (d/dr, d/ds, d/dt) triple per shape.
func wedgeGradients(ref core.Vec3) [6][3]float64 {
	r, s, t := ref.X, ref.Y, ref.Z
	lambda0 := 1 - r - s
	lower := 0.5 * (1 - t)
	upper := 0.5 * (1 + t)
	return [6][3]float64{
		{-lower, -lower, -0.5 * lambda0},
		{lower, 0, -0.5 * r},
		{0, lower, -0.5 * s},
		{-upper, -upper, 0.5 * lambda0},
		{upper, 0, 0.5 * r},
		{0, upper, 0.5 * s},
	}
}

// wedgeInverseMap finds reference coordinates reproducing point under
// the wedge's shape-function map, starting from the element center.
func wedgeInverseMap(vertices []core.Vec3, point core.Vec3) core.Vec3 {
	ref := core.Vec3{X: 1.0 / 3.0, Y: 1.0 / 3.0, Z: 0}
	for iter := 0; iter < maxNewtonIterations; iter++ {
		shapes := wedgeShapes(ref)
		grads := wedgeGradients(ref)

		residual := point.Multiply(-1)
		var jac [3][3]float64
		for i := 0; i < 6; i++ {
			v := vertices[i]
			residual = residual.Add(v.Multiply(shapes[i]))
			jac[0][0] += v.X * grads[i][0]
			jac[0][1] += v.X * grads[i][1]
			jac[0][2] += v.X * grads[i][2]
			jac[1][0] += v.Y * grads[i][0]
			jac[1][1] += v.Y * grads[i][1]
			jac[1][2] += v.Y * grads[i][2]
			jac[2][0] += v.Z * grads[i][0]
			jac[2][1] += v.Z * grads[i][1]
			jac[2][2] += v.Z * grads[i][2]
		}

		if residual.Length() < newtonTolerance {
			break
		}
		step, ok := solve3(jac, residual)
		if !ok {
			break
		}
		ref = ref.Subtract(step)
	}
	return ref
}

package sampler

import "github.com/yt-project/meshray/pkg/core"

// Hexa interpolates trilinearly over an 8-node hexahedron. The physical
// point is first mapped back to reference coordinates in [-1,1]^3 by
// Newton iteration on the trilinear map (the mapping of a general
// hexahedron is not invertible in closed form), then the field is
// evaluated with the trilinear shape functions.
//
// Vertex order: 0-3 the bottom face counter-clockwise, 4-7 the top face
// directly above them.
type Hexa struct{}

// Reference-coordinate signs of the eight hexahedron vertices.
var hexaSigns = [8][3]float64{
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
}

// Sample returns the trilinear interpolation of the eight vertex field
// values at point.
func (Hexa) Sample(vertices []core.Vec3, fields []float64, point core.Vec3) float64 {
	ref := hexaInverseMap(vertices, point)

	value := 0.0
	for i := 0; i < 8; i++ {
		value += fields[i] * hexaShape(i, ref)
	}
	return value
}

// hexaShape evaluates the i-th trilinear shape function at reference
// coordinates ref.
func hexaShape(i int, ref core.Vec3) float64 {
	s := hexaSigns[i]
	return 0.125 * (1 + ref.X*s[0]) * (1 + ref.Y*s[1]) * (1 + ref.Z*s[2])
}

// hexaInverseMap finds reference coordinates ref such that the trilinear
// map of the element's vertices reproduces point, starting from the
// element center.
func hexaInverseMap(vertices []core.Vec3, point core.Vec3) core.Vec3 {
	ref := core.Vec3{}
	for iter := 0; iter < maxNewtonIterations; iter++ {
		// Residual of the forward map and its Jacobian at ref.
		residual := point.Multiply(-1)
		var jac [3][3]float64
		for i := 0; i < 8; i++ {
			s := hexaSigns[i]
			v := vertices[i]
			residual = residual.Add(v.Multiply(hexaShape(i, ref)))

			dx := 0.125 * s[0] * (1 + ref.Y*s[1]) * (1 + ref.Z*s[2])
			dy := 0.125 * s[1] * (1 + ref.X*s[0]) * (1 + ref.Z*s[2])
			dz := 0.125 * s[2] * (1 + ref.X*s[0]) * (1 + ref.Y*s[1])
			jac[0][0] += v.X * dx
			jac[0][1] += v.X * dy
			jac[0][2] += v.X * dz
			jac[1][0] += v.Y * dx
			jac[1][1] += v.Y * dy
			jac[1][2] += v.Y * dz
			jac[2][0] += v.Z * dx
			jac[2][1] += v.Z * dy
			jac[2][2] += v.Z * dz
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

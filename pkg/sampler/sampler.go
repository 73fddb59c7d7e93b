// Package sampler provides per-topology field interpolation for
// unstructured-mesh elements: given an element's vertex positions, its
// per-vertex field values and a point inside the element, each sampler
// returns the interpolated field value at that point. Samplers are
// stateless and safe for concurrent use.
package sampler

import (
	"fmt"
	"math"

	"github.com/yt-project/meshray/pkg/core"
)

const (
	// Newton iteration bounds for the hexahedron and wedge inverse
	// mappings from physical to reference coordinates.
	newtonTolerance     = 1e-8
	maxNewtonIterations = 50
)

// ForTopology returns the sampler for elements with the given vertex
// count: 4 tetrahedron, 6 wedge, 8 hexahedron. The topology set is
// closed; any other count fails with core.ErrUnsupportedTopology.
func ForTopology(vertexCount int) (core.Sampler, error) {
	switch vertexCount {
	case 4:
		return Tetra{}, nil
	case 6:
		return Wedge{}, nil
	case 8:
		return Hexa{}, nil
	default:
		return nil, fmt.Errorf("%w: no sampler for %d-vertex elements", core.ErrUnsupportedTopology, vertexCount)
	}
}

// solve3 solves the 3x3 linear system m*x = b by Cramer's rule. ok is
// false when the matrix is singular to working precision, which for the
// Newton iterations means a degenerate element; callers stop iterating
// and interpolate with whatever reference coordinates they have.
func solve3(m [3][3]float64, b core.Vec3) (core.Vec3, bool) {
	det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
	if math.Abs(det) < 1e-300 {
		return core.Vec3{}, false
	}
	inv := 1.0 / det

	x := (b.X*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(b.Y*m[2][2]-m[1][2]*b.Z) +
		m[0][2]*(b.Y*m[2][1]-m[1][1]*b.Z)) * inv
	y := (m[0][0]*(b.Y*m[2][2]-m[1][2]*b.Z) -
		b.X*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*b.Z-b.Y*m[2][0])) * inv
	z := (m[0][0]*(m[1][1]*b.Z-b.Y*m[2][1]) -
		m[0][1]*(m[1][0]*b.Z-b.Y*m[2][0]) +
		b.X*(m[1][0]*m[2][1]-m[1][1]*m[2][0])) * inv

	return core.Vec3{X: x, Y: y, Z: z}, true
}

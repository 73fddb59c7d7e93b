package sampler

import (
	"math"

	"github.com/yt-project/meshray/pkg/core"
)

// Tetra interpolates linearly over a 4-node tetrahedron using
// barycentric coordinates, computed directly from volume ratios (no
// iteration needed: the mapping is affine).
type Tetra struct{}

// Sample returns the linear interpolation of the four vertex field
// values at point.
func (Tetra) Sample(vertices []core.Vec3, fields []float64, point core.Vec3) float64 {
	e1 := vertices[1].Subtract(vertices[0])
	e2 := vertices[2].Subtract(vertices[0])
	e3 := vertices[3].Subtract(vertices[0])
	p := point.Subtract(vertices[0])

	volume := e1.Dot(e2.Cross(e3))
	if math.Abs(volume) < 1e-300 {
		// Degenerate (flat) tetrahedron; no meaningful interpolation.
		return fields[0]
	}
	inv := 1.0 / volume

	c1 := p.Dot(e2.Cross(e3)) * inv
	c2 := e1.Dot(p.Cross(e3)) * inv
	c3 := e1.Dot(e2.Cross(p)) * inv
	c0 := 1.0 - c1 - c2 - c3

	return c0*fields[0] + c1*fields[1] + c2*fields[2] + c3*fields[3]
}

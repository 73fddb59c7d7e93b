// Package scene provides built-in demo meshes for the CLI renderer and
// for tests: small analytic meshes whose geometry and field values are
// known exactly.
package scene

import (
	"fmt"

	"github.com/yt-project/meshray/pkg/core"
)

// Mesh bundles the flat construction buffers for a mesh: indexed vertex
// positions, per-element connectivity and per-element-per-vertex field
// values.
type Mesh struct {
	Vertices        []core.Vec3
	Connectivity    []int32
	Fields          []float64
	VertsPerElement int
}

// FieldFunc assigns a field value to a vertex position.
type FieldFunc func(core.Vec3) float64

// UnitHexahedron returns a single hexahedron spanning (0,0,0)-(1,1,1)
// with field values equal to the local vertex index (0..7).
func UnitHexahedron() Mesh {
	return Mesh{
		Vertices: []core.Vec3{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
		},
		Connectivity:    []int32{0, 1, 2, 3, 4, 5, 6, 7},
		Fields:          []float64{0, 1, 2, 3, 4, 5, 6, 7},
		VertsPerElement: 8,
	}
}

// UnitTetrahedron returns a single tetrahedron with field values equal
// to the local vertex index (0..3).
func UnitTetrahedron() Mesh {
	return Mesh{
		Vertices: []core.Vec3{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1},
		},
		Connectivity:    []int32{0, 1, 2, 3},
		Fields:          []float64{0, 1, 2, 3},
		VertsPerElement: 4,
	}
}

// UnitWedge returns a single triangular prism with field values equal
// to the local vertex index (0..5).
func UnitWedge() Mesh {
	return Mesh{
		Vertices: []core.Vec3{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 1},
		},
		Connectivity:    []int32{0, 1, 2, 3, 4, 5},
		Fields:          []float64{0, 1, 2, 3, 4, 5},
		VertsPerElement: 6,
	}
}

// HexahedronGrid returns an nx x ny x nz grid of unit hexahedra filling
// [0,nx] x [0,ny] x [0,nz], with field values assigned per vertex by
// field.
func HexahedronGrid(nx, ny, nz int, field FieldFunc) Mesh {
	// Shared grid points.
	pointIndex := func(x, y, z int) int32 {
		return int32(x + y*(nx+1) + z*(nx+1)*(ny+1))
	}

	vertices := make([]core.Vec3, 0, (nx+1)*(ny+1)*(nz+1))
	for z := 0; z <= nz; z++ {
		for y := 0; y <= ny; y++ {
			for x := 0; x <= nx; x++ {
				vertices = append(vertices, core.NewVec3(float64(x), float64(y), float64(z)))
			}
		}
	}

	// Local vertex order matches the hexahedron topology: bottom face
	// counter-clockwise, then the top face above it.
	connectivity := make([]int32, 0, nx*ny*nz*8)
	fields := make([]float64, 0, nx*ny*nz*8)
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				corners := [8]int32{
					pointIndex(x, y, z), pointIndex(x+1, y, z), pointIndex(x+1, y+1, z), pointIndex(x, y+1, z),
					pointIndex(x, y, z+1), pointIndex(x+1, y, z+1), pointIndex(x+1, y+1, z+1), pointIndex(x, y+1, z+1),
				}
				for _, ci := range corners {
					connectivity = append(connectivity, ci)
					fields = append(fields, field(vertices[ci]))
				}
			}
		}
	}

	return Mesh{
		Vertices:        vertices,
		Connectivity:    connectivity,
		Fields:          fields,
		VertsPerElement: 8,
	}
}

// ByName returns a built-in demo mesh by name.
func ByName(name string) (Mesh, error) {
	switch name {
	case "hex":
		return UnitHexahedron(), nil
	case "tet":
		return UnitTetrahedron(), nil
	case "wedge":
		return UnitWedge(), nil
	case "hexgrid":
		// Smooth radial field over a modest grid.
		center := core.NewVec3(4, 4, 4)
		return HexahedronGrid(8, 8, 8, func(p core.Vec3) float64 {
			return p.Subtract(center).Length()
		}), nil
	default:
		return Mesh{}, fmt.Errorf("unknown scene %q (want hex, tet, wedge or hexgrid)", name)
	}
}

package geometry

import (
	"fmt"

	"github.com/yt-project/meshray/pkg/core"
)

// Supported element topologies, identified by their vertex count.
const (
	TetraVertexCount = 4
	WedgeVertexCount = 6
	HexaVertexCount  = 8
)

// Topology describes how one volumetric element decomposes into surface
// triangles. Faces holds local vertex index triples; this is static
// configuration shared by all elements of a topology, not built per
// mesh.
type Topology struct {
	VertexCount int
	Faces       [][3]int
}

// Tetrahedron: the four faces.
var tetraFaces = [][3]int{
	{0, 1, 2},
	{0, 1, 3},
	{0, 2, 3},
	{1, 2, 3},
}

// Wedge (triangular prism, vertices 0-2 bottom cap, 3-5 top cap): two
// triangular caps plus three quad sides split in two.
var wedgeFaces = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{0, 1, 4}, {0, 4, 3},
	{1, 2, 5}, {1, 5, 4},
	{2, 0, 3}, {2, 3, 5},
}

// Hexahedron (vertices 0-3 bottom face counter-clockwise, 4-7 top face
// above them): six quad faces split in two.
var hexaFaces = [][3]int{
	{0, 1, 2}, {0, 2, 3},
	{4, 5, 6}, {4, 6, 7},
	{0, 1, 5}, {0, 5, 4},
	{1, 2, 6}, {1, 6, 5},
	{2, 3, 7}, {2, 7, 6},
	{3, 0, 4}, {3, 4, 7},
}

// TopologyFor returns the triangle decomposition for elements with the
// given vertex count. Unsupported counts fail with
// core.ErrUnsupportedTopology.
func TopologyFor(vertexCount int) (Topology, error) {
	switch vertexCount {
	case TetraVertexCount:
		return Topology{VertexCount: vertexCount, Faces: tetraFaces}, nil
	case WedgeVertexCount:
		return Topology{VertexCount: vertexCount, Faces: wedgeFaces}, nil
	case HexaVertexCount:
		return Topology{VertexCount: vertexCount, Faces: hexaFaces}, nil
	default:
		return Topology{}, fmt.Errorf("%w: %d vertices per element", core.ErrUnsupportedTopology, vertexCount)
	}
}

// TrianglesPerElement returns how many triangles one element of this
// topology contributes to the BVH.
func (t Topology) TrianglesPerElement() int {
	return len(t.Faces)
}

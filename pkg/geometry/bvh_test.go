package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/yt-project/meshray/pkg/core"
)

// tetStripMesh builds n disjoint tetrahedra laid out along the x axis,
// with field values equal to the owning element id.
func tetStripMesh(n int) ([]core.Vec3, []int32, []float64) {
	vertices := make([]core.Vec3, 0, 4*n)
	connectivity := make([]int32, 0, 4*n)
	fields := make([]float64, 0, 4*n)
	for e := 0; e < n; e++ {
		x := float64(2 * e)
		base := int32(len(vertices))
		vertices = append(vertices,
			core.NewVec3(x, 0, 0),
			core.NewVec3(x+1, 0, 0),
			core.NewVec3(x, 1, 0),
			core.NewVec3(x, 0, 1),
		)
		for j := int32(0); j < 4; j++ {
			connectivity = append(connectivity, base+j)
			fields = append(fields, float64(e))
		}
	}
	return vertices, connectivity, fields
}

// unitHexMesh is the single unit-cube hexahedron with field values
// equal to the local vertex index.
func unitHexMesh() ([]core.Vec3, []int32, []float64) {
	vertices := []core.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	connectivity := []int32{0, 1, 2, 3, 4, 5, 6, 7}
	fields := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	return vertices, connectivity, fields
}

// verifyTree checks the structural invariants of a built tree: the
// children of every internal node exactly partition its range, every
// node's box contains the boxes of all triangles in its range, and no
// leaf exceeds the leaf size.
func verifyTree(t *testing.T, m *MeshBVH) {
	t.Helper()

	root := m.nodes[0]
	if root.begin != 0 || int(root.end) != len(m.triangles) {
		t.Fatalf("Root range [%d,%d) does not cover %d triangles", root.begin, root.end, len(m.triangles))
	}

	var walk func(idx int32)
	walk = func(idx int32) {
		node := m.nodes[idx]

		if node.begin > node.end {
			t.Errorf("Node %d has inverted range [%d,%d)", idx, node.begin, node.end)
		}
		for i := node.begin; i < node.end; i++ {
			if !node.bounds.Contains(m.triangles[i].Bounds) {
				t.Errorf("Node %d bounds do not contain triangle %d", idx, i)
			}
		}

		if node.left < 0 {
			if node.right >= 0 {
				t.Errorf("Leaf %d has a right child", idx)
			}
			if node.end-node.begin > m.leafSize {
				t.Errorf("Leaf %d holds %d triangles, leaf size is %d", idx, node.end-node.begin, m.leafSize)
			}
			return
		}

		left := m.nodes[node.left]
		right := m.nodes[node.right]
		if left.begin != node.begin {
			t.Errorf("Node %d: left child begins at %d, want %d", idx, left.begin, node.begin)
		}
		if left.end != right.begin {
			t.Errorf("Node %d: gap or overlap between children (%d vs %d)", idx, left.end, right.begin)
		}
		if right.end != node.end {
			t.Errorf("Node %d: right child ends at %d, want %d", idx, right.end, node.end)
		}
		walk(node.left)
		walk(node.right)
	}
	walk(0)
}

// bruteForceCast intersects the ray against every triangle linearly,
// the ground truth for traversal.
func bruteForceCast(m *MeshBVH, origin, direction core.Vec3) core.Ray {
	ray := core.NewRay(origin, direction)
	for i := range m.triangles {
		m.triangles[i].IntersectRay(&ray)
	}
	return ray
}

func TestMeshBVH_TreeInvariants(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 17, 100, 500} {
		vertices, connectivity, fields := tetStripMesh(n)
		m, err := NewMeshBVH(vertices, connectivity, fields, 4, nil)
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if m.TriangleCount() != 4*n {
			t.Errorf("n=%d: expected %d triangles, got %d", n, 4*n, m.TriangleCount())
		}
		verifyTree(t, m)
	}
}

func TestMeshBVH_ForcedSplitOnClusteredCentroids(t *testing.T) {
	// All elements coincide, so every triangle centroid is identical
	// and the midpoint partition leaves one side empty. The builder
	// must fall back to an even split and still terminate with a valid
	// tree.
	const n = 40
	vertices, connectivity, fields := tetStripMesh(1)
	allConnectivity := make([]int32, 0, 4*n)
	allFields := make([]float64, 0, 4*n)
	for e := 0; e < n; e++ {
		allConnectivity = append(allConnectivity, connectivity...)
		allFields = append(allFields, fields...)
	}

	m, err := NewMeshBVH(vertices, allConnectivity, allFields, 4, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	verifyTree(t, m)
}

func TestMeshBVH_HitMatchesBruteForce(t *testing.T) {
	vertices, connectivity, fields := unitHexMesh()
	m, err := NewMeshBVH(vertices, connectivity, fields, 8, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	rays := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
	}{
		{"front face", core.NewVec3(0.5, 0.5, -1), core.NewVec3(0, 0, 1)},
		{"side face", core.NewVec3(-1, 0.5, 0.5), core.NewVec3(1, 0, 0)},
		{"diagonal", core.NewVec3(-0.3, -0.4, -0.5), core.NewVec3(0.6, 0.7, 0.8)},
		{"miss", core.NewVec3(5, 5, -1), core.NewVec3(0, 0, 1)},
	}

	for _, tc := range rays {
		t.Run(tc.name, func(t *testing.T) {
			want := bruteForceCast(m, tc.origin, tc.direction)

			ray := core.NewRay(tc.origin, tc.direction)
			m.Cast(&ray)

			if ray.HitElementID != want.HitElementID {
				t.Errorf("Expected element %d, got %d", want.HitElementID, ray.HitElementID)
			}
			if want.HitElementID != core.NoHitID && math.Abs(ray.TFar-want.TFar) > 1e-6 {
				t.Errorf("Expected t=%f, got %f", want.TFar, ray.TFar)
			}
		})
	}
}

func TestMeshBVH_TraversalMatchesBruteForce_ManyElements(t *testing.T) {
	vertices, connectivity, fields := tetStripMesh(100)
	m, err := NewMeshBVH(vertices, connectivity, fields, 4, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Sweep rays down onto each element from above.
	for e := 0; e < 100; e++ {
		origin := core.NewVec3(float64(2*e)+0.25, 0.25, 5)
		direction := core.NewVec3(0, 0, -1)

		want := bruteForceCast(m, origin, direction)
		ray := core.NewRay(origin, direction)
		m.Cast(&ray)

		if ray.HitElementID != want.HitElementID {
			t.Fatalf("Element %d: expected hit on %d, got %d", e, want.HitElementID, ray.HitElementID)
		}
		if math.Abs(ray.TFar-want.TFar) > 1e-6 {
			t.Fatalf("Element %d: expected t=%f, got %f", e, want.TFar, ray.TFar)
		}
	}
}

func TestMeshBVH_MissReturnsSentinel(t *testing.T) {
	vertices, connectivity, fields := unitHexMesh()
	m, err := NewMeshBVH(vertices, connectivity, fields, 8, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Aimed entirely outside the mesh bounds.
	ray := core.NewRay(core.NewVec3(10, 10, 10), core.NewVec3(0, 0, 1))
	m.Cast(&ray)

	if ray.HitElementID != core.NoHitID {
		t.Errorf("Expected no hit, got element %d", ray.HitElementID)
	}
	if !math.IsNaN(ray.SampledValue) {
		t.Errorf("Expected NoDataValue, got %f", ray.SampledValue)
	}
}

func TestMeshBVH_HexahedronScenario(t *testing.T) {
	// Unit hexahedron, field = vertex index, ray through the z=0 face:
	// hit at t ~ 1.0 and the trilinear interpolation at (0.5, 0.5, 0)
	// averages the four z=0 corner values (0+1+2+3)/4 = 1.5.
	vertices, connectivity, fields := unitHexMesh()
	m, err := NewMeshBVH(vertices, connectivity, fields, 8, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ray := core.NewRay(core.NewVec3(0.5, 0.5, -1), core.NewVec3(0, 0, 1))
	m.Cast(&ray)

	if ray.HitElementID != 0 {
		t.Fatalf("Expected hit on element 0, got %d", ray.HitElementID)
	}
	if math.Abs(ray.TFar-1.0) > 1e-6 {
		t.Errorf("Expected hit at t=1.0, got %f", ray.TFar)
	}
	if math.Abs(ray.SampledValue-1.5) > 1e-6 {
		t.Errorf("Expected sampled value 1.5, got %f", ray.SampledValue)
	}
}

func TestNewMeshBVH_UnsupportedTopology(t *testing.T) {
	vertices := []core.Vec3{{}, {}, {}, {}, {}}

	for _, k := range []int{1, 2, 3, 5, 7, 9} {
		connectivity := make([]int32, k)
		fields := make([]float64, k)
		m, err := NewMeshBVH(vertices, connectivity, fields, k, nil)
		if !errors.Is(err, core.ErrUnsupportedTopology) {
			t.Errorf("k=%d: expected ErrUnsupportedTopology, got %v", k, err)
		}
		if m != nil {
			t.Errorf("k=%d: no partial BVH may be returned", k)
		}
	}
}

func TestNewMeshBVH_InvalidBuffers(t *testing.T) {
	vertices, connectivity, fields := unitHexMesh()

	tests := []struct {
		name         string
		connectivity []int32
		fields       []float64
	}{
		{"empty connectivity", []int32{}, []float64{}},
		{"ragged connectivity", connectivity[:6], fields[:6]},
		{"field length mismatch", connectivity, fields[:4]},
		{"vertex index out of range", []int32{0, 1, 2, 3, 4, 5, 6, 99}, fields},
		{"negative vertex index", []int32{0, 1, 2, 3, 4, 5, 6, -1}, fields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMeshBVH(vertices, tt.connectivity, tt.fields, 8, nil)
			if err == nil {
				t.Error("Expected construction error")
			}
			if m != nil {
				t.Error("No partial BVH may be returned")
			}
		})
	}
}

func TestMeshBVH_OwnsBufferCopies(t *testing.T) {
	vertices, connectivity, fields := unitHexMesh()
	m, err := NewMeshBVH(vertices, connectivity, fields, 8, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	castValue := func() float64 {
		ray := core.NewRay(core.NewVec3(0.5, 0.5, -1), core.NewVec3(0, 0, 1))
		m.Cast(&ray)
		return ray.SampledValue
	}

	before := castValue()

	// Scribbling over the caller's buffers must not change results.
	for i := range vertices {
		vertices[i] = core.NewVec3(999, 999, 999)
	}
	for i := range fields {
		fields[i] = -12345
	}
	for i := range connectivity {
		connectivity[i] = 0
	}

	after := castValue()
	if before != after {
		t.Errorf("BVH must own its buffers: value changed from %f to %f", before, after)
	}
}

func TestMeshBVH_LeafSizeOption(t *testing.T) {
	vertices, connectivity, fields := tetStripMesh(64)
	m, err := NewMeshBVH(vertices, connectivity, fields, 4, &MeshBVHOptions{LeafSize: 4})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if m.leafSize != 4 {
		t.Fatalf("Expected leaf size 4, got %d", m.leafSize)
	}
	verifyTree(t, m)
}

package geometry

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yt-project/meshray/pkg/core"
	"github.com/yt-project/meshray/pkg/sampler"
)

// DefaultLeafSize is the triangle count at or below which a node range
// becomes a leaf.
const DefaultLeafSize = 16

// bvhNode is one node of the hierarchy, stored in a contiguous arena.
// begin/end is a half-open range into the shared triangle array; left
// and right are arena indices, or -1 for a leaf. For every internal
// node the children's ranges exactly partition [begin, end).
type bvhNode struct {
	bounds      core.AABB
	begin, end  int32
	left, right int32
}

// MeshBVHOptions contains optional parameters for BVH construction
type MeshBVHOptions struct {
	LeafSize int         // Leaf threshold override (default DefaultLeafSize)
	Logger   *zap.Logger // Build diagnostics (default no logging)
}

// MeshBVH is a bounding volume hierarchy over the triangulated surface
// of an unstructured volumetric mesh. It owns contiguous copies of the
// per-element vertex positions and field values, flattened at
// construction so its lifetime is decoupled from the caller's mesh
// buffers. The tree is built once by the constructor and is immutable
// afterwards: Cast may be called concurrently from any number of
// goroutines.
type MeshBVH struct {
	nodes     []bvhNode
	triangles []Triangle

	// Flattened per-element copies, element e occupying
	// [e*vertsPerElement, (e+1)*vertsPerElement).
	vertices []core.Vec3
	fields   []float64

	vertsPerElement int
	leafSize        int32
	sampler         core.Sampler

	logger *zap.Logger
}

// buildStats accumulates tree shape diagnostics during construction.
type buildStats struct {
	nodes    int
	leaves   int
	maxDepth int
}

// NewMeshBVH constructs a traversal-ready BVH from flat mesh buffers:
// vertex positions, per-element connectivity (vertsPerElement vertex
// indices per element) and per-element-per-vertex field values.
// vertsPerElement selects the topology (4 tetrahedron, 6 wedge,
// 8 hexahedron); anything else fails with core.ErrUnsupportedTopology
// and no partial BVH is returned. The caller's buffers are only read
// during construction.
func NewMeshBVH(vertices []core.Vec3, connectivity []int32, fields []float64, vertsPerElement int, options *MeshBVHOptions) (*MeshBVH, error) {
	topology, err := TopologyFor(vertsPerElement)
	if err != nil {
		return nil, err
	}
	fieldSampler, err := sampler.ForTopology(vertsPerElement)
	if err != nil {
		return nil, err
	}

	if len(connectivity) == 0 || len(connectivity)%vertsPerElement != 0 {
		return nil, fmt.Errorf("connectivity length %d is not a positive multiple of %d", len(connectivity), vertsPerElement)
	}
	numElements := len(connectivity) / vertsPerElement
	if len(fields) != len(connectivity) {
		return nil, fmt.Errorf("field values length %d does not match connectivity length %d", len(fields), len(connectivity))
	}
	for i, vi := range connectivity {
		if vi < 0 || int(vi) >= len(vertices) {
			return nil, fmt.Errorf("connectivity[%d] = %d out of range for %d vertices", i, vi, len(vertices))
		}
	}

	leafSize := DefaultLeafSize
	logger := zap.NewNop()
	if options != nil {
		if options.LeafSize > 0 {
			leafSize = options.LeafSize
		}
		if options.Logger != nil {
			logger = options.Logger
		}
	}

	m := &MeshBVH{
		vertices:        make([]core.Vec3, len(connectivity)),
		fields:          make([]float64, len(fields)),
		triangles:       make([]Triangle, 0, numElements*topology.TrianglesPerElement()),
		vertsPerElement: vertsPerElement,
		leafSize:        int32(leafSize),
		sampler:         fieldSampler,
		logger:          logger,
	}
	copy(m.fields, fields)

	// Flatten the caller's indexed vertices into per-element storage and
	// triangulate each element via the static topology table.
	for e := 0; e < numElements; e++ {
		offset := e * vertsPerElement
		for j := 0; j < vertsPerElement; j++ {
			m.vertices[offset+j] = vertices[connectivity[offset+j]]
		}
		for _, face := range topology.Faces {
			m.triangles = append(m.triangles, NewTriangle(
				m.vertices[offset+face[0]],
				m.vertices[offset+face[1]],
				m.vertices[offset+face[2]],
				int32(e),
			))
		}
	}

	start := time.Now()
	var stats buildStats
	m.buildRange(0, int32(len(m.triangles)), 0, &stats)

	m.logger.Debug("bvh build complete",
		zap.Int("elements", numElements),
		zap.Int("triangles", len(m.triangles)),
		zap.Int("nodes", stats.nodes),
		zap.Int("leaves", stats.leaves),
		zap.Int("maxDepth", stats.maxDepth),
		zap.Duration("elapsed", time.Since(start)),
	)

	return m, nil
}

// buildRange recursively builds the subtree over triangles
// [begin, end), returning the new node's arena index. Partitioning
// swaps triangles in place; this is the only mutation the builder
// performs and it runs single-threaded before any traversal starts.
func (m *MeshBVH) buildRange(begin, end int32, depth int, stats *buildStats) int32 {
	bounds := m.triangles[begin].Bounds
	for i := begin + 1; i < end; i++ {
		bounds = bounds.Union(m.triangles[i].Bounds)
	}

	nodeIndex := int32(len(m.nodes))
	m.nodes = append(m.nodes, bvhNode{bounds: bounds, begin: begin, end: end, left: -1, right: -1})
	stats.nodes++
	if depth > stats.maxDepth {
		stats.maxDepth = depth
	}

	if end-begin <= m.leafSize {
		stats.leaves++
		return nodeIndex
	}

	axis := bounds.LongestAxis()
	split := (bounds.Min.Axis(axis) + bounds.Max.Axis(axis)) * 0.5
	mid := m.partition(begin, end, axis, split)

	// Clustered centroids can leave one side empty; force an even split
	// to guarantee progress.
	if mid == begin || mid == end {
		mid = begin + (end-begin)/2
	}

	left := m.buildRange(begin, mid, depth+1, stats)
	right := m.buildRange(mid, end, depth+1, stats)
	m.nodes[nodeIndex].left = left
	m.nodes[nodeIndex].right = right

	return nodeIndex
}

// partition swaps triangles in [begin, end) so those with centroid <=
// split along axis come first, returning the boundary index.
func (m *MeshBVH) partition(begin, end int32, axis int, split float64) int32 {
	mid := begin
	for i := begin; i < end; i++ {
		if m.triangles[i].Centroid.Axis(axis) <= split {
			m.triangles[i], m.triangles[mid] = m.triangles[mid], m.triangles[i]
			mid++
		}
	}
	return mid
}

// Cast traces one ray through the hierarchy, recording the nearest hit
// on the ray and resolving it to an interpolated field value. Rays that
// hit nothing come back with HitElementID == core.NoHitID and
// SampledValue == core.NoDataValue; the sampler is never invoked for
// them. Cast is safe for concurrent use as long as each ray is owned by
// a single caller.
func (m *MeshBVH) Cast(ray *core.Ray) {
	m.castNode(0, ray)

	if ray.HitElementID == core.NoHitID {
		ray.SampledValue = core.NoDataValue
		return
	}

	point := ray.At(ray.TFar)
	offset := int(ray.HitElementID) * m.vertsPerElement
	ray.SampledValue = m.sampler.Sample(
		m.vertices[offset:offset+m.vertsPerElement],
		m.fields[offset:offset+m.vertsPerElement],
		point,
	)
}

// castNode walks the subtree rooted at nodeIndex. Both children of an
// internal node are always visited; pruning comes from the box test and
// from the ray's shrinking TFar window.
func (m *MeshBVH) castNode(nodeIndex int32, ray *core.Ray) {
	node := &m.nodes[nodeIndex]
	if !node.bounds.HitInterval(ray.Origin, ray.InvDirection, ray.TNear, ray.TFar) {
		return
	}

	if node.left < 0 {
		for i := node.begin; i < node.end; i++ {
			m.triangles[i].IntersectRay(ray)
		}
		return
	}

	m.castNode(node.left, ray)
	m.castNode(node.right, ray)
}

// Bounds returns the bounding box of the entire mesh surface.
func (m *MeshBVH) Bounds() core.AABB {
	return m.nodes[0].bounds
}

// TriangleCount returns the number of triangles in the hierarchy.
func (m *MeshBVH) TriangleCount() int {
	return len(m.triangles)
}

// ElementCount returns the number of mesh elements the BVH was built
// over.
func (m *MeshBVH) ElementCount() int {
	return len(m.vertices) / m.vertsPerElement
}

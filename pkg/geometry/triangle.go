package geometry

import "github.com/yt-project/meshray/pkg/core"

// Epsilon below which the Möller–Trumbore determinant is treated as a
// miss (near-parallel ray/triangle), and below which a hit distance is
// rejected as self-intersection noise.
const intersectionEpsilon = 1e-10

// Triangle is one face of a triangulated mesh element. The centroid and
// bounding box are precomputed at construction; triangles are immutable
// afterwards except for being swapped around inside the BVH's triangle
// array during the build.
type Triangle struct {
	P0, P1, P2 core.Vec3
	Centroid   core.Vec3
	Bounds     core.AABB
	ElementID  int32
}

// NewTriangle creates a triangle belonging to the given mesh element,
// precomputing its centroid and bounding box.
func NewTriangle(p0, p1, p2 core.Vec3, elementID int32) Triangle {
	return Triangle{
		P0:        p0,
		P1:        p1,
		P2:        p2,
		Centroid:  p0.Add(p1).Add(p2).Multiply(1.0 / 3.0),
		Bounds:    core.NewAABBFromPoints(p0, p1, p2),
		ElementID: elementID,
	}
}

// IntersectRay tests the ray against the triangle using the
// Möller–Trumbore algorithm and records the hit on the ray itself. A
// hit only counts if it is strictly closer than the ray's current TFar,
// so repeated calls across candidate triangles leave the nearest hit on
// the ray without any sorting. Returns whether this call recorded a hit.
func (t *Triangle) IntersectRay(ray *core.Ray) bool {
	edge1 := t.P1.Subtract(t.P0)
	edge2 := t.P2.Subtract(t.P0)

	h := ray.Direction.Cross(edge2)
	det := edge1.Dot(h)

	// Near-zero determinant: ray lies in the plane of the triangle.
	if det > -intersectionEpsilon && det < intersectionEpsilon {
		return false
	}

	invDet := 1.0 / det
	s := ray.Origin.Subtract(t.P0)
	u := invDet * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return false
	}

	q := s.Cross(edge1)
	v := invDet * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return false
	}

	tHit := invDet * edge2.Dot(q)
	if tHit <= intersectionEpsilon || tHit >= ray.TFar {
		return false
	}

	ray.TFar = tHit
	ray.HitElementID = t.ElementID
	return true
}

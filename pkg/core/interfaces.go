package core

import "errors"

// ErrUnsupportedTopology is returned when a mesh uses an element
// topology (vertices per element) outside the supported set of
// tetrahedra (4), wedges (6) and hexahedra (8).
var ErrUnsupportedTopology = errors.New("unsupported element topology")

// Sampler interpolates a field value at a point inside a mesh element.
// vertices and fields hold the element's vertex positions and
// per-vertex field values in the element's local vertex order. The
// result is defined only for points inside the element; callers are
// expected to pass points they already resolved as interior (e.g. a
// ray/element hit point).
type Sampler interface {
	Sample(vertices []Vec3, fields []float64, point Vec3) float64
}

package core

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min := points[0]
	max := points[0]
	for _, point := range points[1:] {
		min = min.Min(point)
		max = max.Max(point)
	}

	return AABB{Min: min, Max: max}
}

// HitInterval tests if a ray intersects this AABB using the slab method.
// The caller supplies the ray's precomputed reciprocal direction; axes
// with zero direction produce ±Inf slab distances and the 0*Inf NaN that
// can arise when the origin sits exactly on a slab plane falls out of
// the comparisons as "no constraint from this axis". A hit requires the
// intersection of the three axis intervals to be non-empty and to end at
// or after the ray origin.
func (aabb AABB) HitInterval(origin, invDir Vec3, tMin, tMax float64) bool {
	t1 := (aabb.Min.X - origin.X) * invDir.X
	t2 := (aabb.Max.X - origin.X) * invDir.X
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > tMin {
		tMin = t1
	}
	if t2 < tMax {
		tMax = t2
	}

	t1 = (aabb.Min.Y - origin.Y) * invDir.Y
	t2 = (aabb.Max.Y - origin.Y) * invDir.Y
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > tMin {
		tMin = t1
	}
	if t2 < tMax {
		tMax = t2
	}

	t1 = (aabb.Min.Z - origin.Z) * invDir.Z
	t2 = (aabb.Max.Z - origin.Z) * invDir.Z
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > tMin {
		tMin = t1
	}
	if t2 < tMax {
		tMax = t2
	}

	return tMin <= tMax && tMax >= 0
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: aabb.Min.Min(other.Min),
		Max: aabb.Max.Max(other.Max),
	}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the greatest extent.
// Ties keep the lower axis index: a later axis wins only on a strictly
// greater extent.
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	axis := 0
	extent := size.X
	if size.Y > extent {
		axis = 1
		extent = size.Y
	}
	if size.Z > extent {
		axis = 2
	}
	return axis
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// Contains reports whether other lies entirely inside this AABB.
func (aabb AABB) Contains(other AABB) bool {
	return aabb.Min.X <= other.Min.X && other.Max.X <= aabb.Max.X &&
		aabb.Min.Y <= other.Min.Y && other.Max.Y <= aabb.Max.Y &&
		aabb.Min.Z <= other.Min.Z && other.Max.Z <= aabb.Max.Z
}

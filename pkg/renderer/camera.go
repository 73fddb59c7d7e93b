package renderer

import (
	"math"

	"github.com/yt-project/meshray/pkg/core"
)

// OrthoCamera generates a grid of parallel rays covering a bounding
// region, one ray per pixel of a width x height image. All rays share
// the camera direction, which makes its output a natural input for
// Caster.CastShared.
type OrthoCamera struct {
	Direction core.Vec3
	Width     int
	Height    int

	origin core.Vec3 // Center of the image plane
	right  core.Vec3 // Image-plane basis, scaled to half extents
	up     core.Vec3
}

// NewOrthoCamera frames the given bounds from the chosen view
// direction: the image plane is centered on the bounds and pulled back
// far enough that every ray starts outside the geometry.
func NewOrthoCamera(bounds core.AABB, direction core.Vec3, width, height int) *OrthoCamera {
	dir := direction.Normalize()
	center := bounds.Center()
	radius := bounds.Max.Subtract(center).Length()
	if radius == 0 {
		radius = 1
	}

	// Any vector not parallel to dir works as the up seed.
	seed := core.NewVec3(0, 1, 0)
	if math.Abs(dir.Y) > 0.9 {
		seed = core.NewVec3(1, 0, 0)
	}
	right := dir.Cross(seed).Normalize()
	up := right.Cross(dir)

	return &OrthoCamera{
		Direction: dir,
		Width:     width,
		Height:    height,
		origin:    center.Subtract(dir.Multiply(2 * radius)),
		right:     right.Multiply(radius),
		up:        up.Multiply(radius),
	}
}

// Origins returns the per-pixel ray origins in row-major order, top row
// first.
func (c *OrthoCamera) Origins() []core.Vec3 {
	origins := make([]core.Vec3, 0, c.Width*c.Height)
	for py := 0; py < c.Height; py++ {
		// Pixel centers, mapped to [-1, 1] with +v at the top row.
		v := 1 - 2*(float64(py)+0.5)/float64(c.Height)
		for px := 0; px < c.Width; px++ {
			u := 2*(float64(px)+0.5)/float64(c.Width) - 1
			origins = append(origins, c.origin.Add(c.right.Multiply(u)).Add(c.up.Multiply(v)))
		}
	}
	return origins
}

package types

import (
	"fmt"
	"math"
)

// An axis-aligned bounding box.
type BBox struct {
	Min Vec3
	Max Vec3
}

// Create an empty bbox. The empty bbox contains nothing and acts as the
// identity element for Union.
func EmptyBBox() BBox {
	inf := float32(math.Inf(1))
	return BBox{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// Create a bbox spanning two corner points given in any order.
func NewBBox(a, b Vec3) BBox {
	return BBox{
		Min: MinVec3(a, b),
		Max: MaxVec3(a, b),
	}
}

// Returns true if the bbox is inverted along any axis.
func (b BBox) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Get the smallest bbox enclosing both b and o.
func (b BBox) Union(o BBox) BBox {
	return BBox{
		Min: MinVec3(b.Min, o.Min),
		Max: MaxVec3(b.Max, o.Max),
	}
}

// Get the smallest bbox enclosing both b and p.
func (b BBox) Grow(p Vec3) BBox {
	return BBox{
		Min: MinVec3(b.Min, p),
		Max: MaxVec3(b.Max, p),
	}
}

// Get the bbox extents.
func (b BBox) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Get the bbox center.
func (b BBox) Center() Vec3 {
	return b.Min.Add(b.Size().Mul(0.5))
}

// Calculate the bbox surface area. Empty boxes have zero area.
func (b BBox) SurfaceArea() float32 {
	if b.IsEmpty() {
		return 0
	}
	s := b.Size()
	return 2.0 * (s[0]*s[1] + s[1]*s[2] + s[2]*s[0])
}

// Calculate the bbox volume. Empty boxes have zero volume.
func (b BBox) Volume() float32 {
	if b.IsEmpty() {
		return 0
	}
	s := b.Size()
	return s[0] * s[1] * s[2]
}

// Get the axis with the largest extent. Ties are resolved in X, Y, Z order.
func (b BBox) LargestAxis() Axis {
	s := b.Size()
	axis := XAxis
	if s[1] > s[axis] {
		axis = YAxis
	}
	if s[2] > s[axis] {
		axis = ZAxis
	}
	return axis
}

// Returns true if p lies inside the bbox (boundary included).
func (b BBox) Contains(p Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Returns true if p lies inside the bbox grown by eps along every axis.
func (b BBox) ApproxContains(p Vec3, eps float32) bool {
	return p[0]-b.Min[0] > -eps && p[0]-b.Max[0] < eps &&
		p[1]-b.Min[1] > -eps && p[1]-b.Max[1] < eps &&
		p[2]-b.Min[2] > -eps && p[2]-b.Max[2] < eps
}

// Returns true if o is fully enclosed by b. The empty bbox is enclosed by
// every bbox.
func (b BBox) ContainsBBox(o BBox) bool {
	if o.IsEmpty() {
		return true
	}
	return b.Contains(o.Min) && b.Contains(o.Max)
}

// Returns true if the two boxes share at least one point.
func (b BBox) Overlaps(o BBox) bool {
	return b.Min[0] <= o.Max[0] && b.Max[0] >= o.Min[0] &&
		b.Min[1] <= o.Max[1] && b.Max[1] >= o.Min[1] &&
		b.Min[2] <= o.Max[2] && b.Max[2] >= o.Min[2]
}

// Alias for Overlaps that allows a bbox to be used as a region query.
func (b BBox) IntersectsBBox(o BBox) bool {
	return b.Overlaps(o)
}

// Get the bbox corner selected by a ray sign bit: 0 for Min and 1 for Max.
func (b BBox) corner(sign int) Vec3 {
	if sign == 0 {
		return b.Min
	}
	return b.Max
}

// Clip the ray parameter range against the three slabs of the bbox and
// return the resulting [tMin, tMax] range. Axes where the ray direction is
// zero are handled explicitly; otherwise a ray running parallel to a slab
// but outside it would produce an [Inf, Inf] range that looks like a hit.
func (b BBox) clipRay(r Ray) (tMin, tMax float32, ok bool) {
	tMin = float32(math.Inf(-1))
	tMax = float32(math.Inf(1))

	for axis := 0; axis < 3; axis++ {
		if r.Dir[axis] == 0 {
			if r.Origin[axis] < b.Min[axis] || r.Origin[axis] > b.Max[axis] {
				return 0, 0, false
			}
			continue
		}

		near := (b.corner(r.Sign[axis])[axis] - r.Origin[axis]) * r.InvDir[axis]
		far := (b.corner(1-r.Sign[axis])[axis] - r.Origin[axis]) * r.InvDir[axis]
		if near > tMin {
			tMin = near
		}
		if far < tMax {
			tMax = far
		}
		if tMin > tMax {
			return 0, 0, false
		}
	}

	return tMin, tMax, true
}

// Test whether a ray intersects the bbox using the slab method. Boxes
// that lie entirely behind the ray origin (t_exit <= 0) are rejected.
func (b BBox) IntersectsRay(r Ray) bool {
	_, tMax, ok := b.clipRay(r)
	return ok && tMax > 0
}

// Calculate the distance along the ray where it enters the bbox. If the
// ray origin lies inside the bbox the returned distance is 0.
func (b BBox) RayIntersection(r Ray) (tEntry float32, hit bool) {
	tMin, tMax, ok := b.clipRay(r)
	if !ok || tMax <= 0 {
		return 0, false
	}
	if tMin < 0 {
		tMin = 0
	}
	return tMin, true
}

func (b BBox) String() string {
	return fmt.Sprintf(
		"(X: %v <> %v, Y: %v <> %v, Z: %v <> %v)",
		b.Min[0], b.Max[0],
		b.Min[1], b.Max[1],
		b.Min[2], b.Max[2],
	)
}

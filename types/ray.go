package types

// A Ray with precomputed values for the slab test. Rays should be created
// via NewRay and then reused across all bbox tests performed for them.
type Ray struct {
	Origin Vec3
	Dir    Vec3

	// Component-wise reciprocal of Dir.
	InvDir Vec3

	// Sign[axis] is 1 if the ray travels towards -axis, 0 otherwise. It
	// selects the near/far bbox corner for each slab.
	Sign [3]int
}

// Create a new ray and precompute its inverse direction and sign bits.
func NewRay(origin, dir Vec3) Ray {
	r := Ray{
		Origin: origin,
		Dir:    dir,
		InvDir: dir.Inverse(),
	}
	for axis := 0; axis < 3; axis++ {
		if r.InvDir[axis] < 0 {
			r.Sign[axis] = 1
		}
	}
	return r
}

// Get the point at distance t along the ray.
func (r Ray) Point(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Test whether the ray intersects a bbox. This allows rays to be used
// as bvh queries.
func (r Ray) IntersectsBBox(b BBox) bool {
	return b.IntersectsRay(r)
}

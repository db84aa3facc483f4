package mesh

import "github.com/achilleasa/bvh/types"

// Rays closer than this to the triangle plane are treated as parallel.
const intersectEpsilon = 1e-7

// A Triangle defined by three vertices in world space.
type Triangle struct {
	Vertices [3]types.Vec3
}

// Get the triangle bbox.
func (tri Triangle) BBox() types.BBox {
	return types.NewBBox(tri.Vertices[0], tri.Vertices[1]).Grow(tri.Vertices[2])
}

// Intersect the triangle with a ray using the Möller-Trumbore algorithm.
// Returns the distance along the ray to the hit point.
func (tri Triangle) Intersect(r types.Ray) (float32, bool) {
	e01 := tri.Vertices[1].Sub(tri.Vertices[0])
	e02 := tri.Vertices[2].Sub(tri.Vertices[0])

	pVec := r.Dir.Cross(e02)
	det := e01.Dot(pVec)
	if det > -intersectEpsilon && det < intersectEpsilon {
		return 0, false
	}
	invDet := 1.0 / det

	tVec := r.Origin.Sub(tri.Vertices[0])
	u := tVec.Dot(pVec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	qVec := tVec.Cross(e01)
	v := r.Dir.Dot(qVec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := e02.Dot(qVec) * invDet
	if t <= intersectEpsilon {
		return 0, false
	}
	return t, true
}

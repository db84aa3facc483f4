package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitCube(center Vec3) BBox {
	half := Vec3{0.5, 0.5, 0.5}
	return BBox{Min: center.Sub(half), Max: center.Add(half)}
}

func TestEmptyBBox(t *testing.T) {
	empty := EmptyBBox()
	require.True(t, empty.IsEmpty())
	assert.False(t, empty.Contains(Vec3{}))
	assert.Equal(t, float32(0), empty.SurfaceArea())
	assert.Equal(t, float32(0), empty.Volume())

	box := NewBBox(Vec3{1, 2, 3}, Vec3{-1, -2, -3})
	assert.Equal(t, box, empty.Union(box))
	assert.Equal(t, box, box.Union(empty))
	assert.True(t, box.ContainsBBox(empty))
	assert.False(t, empty.Overlaps(box))
}

func TestBBoxUnionAndGrow(t *testing.T) {
	a := NewBBox(Vec3{0, 0, 0}, Vec3{1, 1, 1})
	b := NewBBox(Vec3{2, -1, 0.5}, Vec3{3, 0, 4})

	u := a.Union(b)
	assert.Equal(t, Vec3{0, -1, 0}, u.Min)
	assert.Equal(t, Vec3{3, 1, 4}, u.Max)
	assert.True(t, u.ContainsBBox(a))
	assert.True(t, u.ContainsBBox(b))

	g := EmptyBBox().Grow(Vec3{1, 2, 3})
	assert.False(t, g.IsEmpty())
	assert.Equal(t, Vec3{1, 2, 3}, g.Min)
	assert.Equal(t, Vec3{1, 2, 3}, g.Max)
}

func TestBBoxMeasures(t *testing.T) {
	box := NewBBox(Vec3{-1, 0, 2}, Vec3{1, 3, 6})

	assert.Equal(t, Vec3{2, 3, 4}, box.Size())
	assert.Equal(t, Vec3{0, 1.5, 4}, box.Center())
	assert.Equal(t, float32(2*(6+12+8)), box.SurfaceArea())
	assert.Equal(t, float32(24), box.Volume())
	assert.True(t, box.Contains(box.Center()))
}

func TestLargestAxis(t *testing.T) {
	specs := []struct {
		size Vec3
		exp  Axis
	}{
		{Vec3{3, 2, 1}, XAxis},
		{Vec3{1, 3, 2}, YAxis},
		{Vec3{1, 2, 3}, ZAxis},
		{Vec3{2, 2, 2}, XAxis},
		{Vec3{1, 2, 2}, YAxis},
		{Vec3{0, 0, 0}, XAxis},
	}

	for index, s := range specs {
		box := BBox{Max: s.size}
		assert.Equal(t, s.exp, box.LargestAxis(), "spec %d", index)
	}
}

func TestApproxContains(t *testing.T) {
	box := NewBBox(Vec3{-1, -1, -1}, Vec3{1, 1, 1})
	assert.True(t, box.ApproxContains(Vec3{1.0000001, -1.0000001, 1.000000001}, 1e-5))
	assert.False(t, box.ApproxContains(Vec3{1, -2, 4}, 1e-5))
}

func TestOverlaps(t *testing.T) {
	a := NewBBox(Vec3{0, 0, 0}, Vec3{1, 1, 1})

	assert.True(t, a.Overlaps(NewBBox(Vec3{0.5, 0.5, 0.5}, Vec3{2, 2, 2})))
	assert.True(t, a.Overlaps(NewBBox(Vec3{1, 1, 1}, Vec3{2, 2, 2})), "touching boxes overlap")
	assert.False(t, a.Overlaps(NewBBox(Vec3{1.1, 0, 0}, Vec3{2, 1, 1})))
	assert.True(t, a.IntersectsBBox(a))
}

func TestIntersectsRay(t *testing.T) {
	box := unitCube(Vec3{0, 0, 0})

	specs := []struct {
		origin Vec3
		dir    Vec3
		exp    bool
	}{
		// Axis aligned hits from both sides
		{Vec3{-5, 0, 0}, Vec3{1, 0, 0}, true},
		{Vec3{5, 0, 0}, Vec3{-1, 0, 0}, true},
		{Vec3{0, 10, 0}, Vec3{0, -1, 0}, true},
		// Box behind the origin
		{Vec3{5, 0, 0}, Vec3{1, 0, 0}, false},
		// Origin inside the box
		{Vec3{0, 0, 0}, Vec3{0, 0, 1}, true},
		// Parallel to a slab but outside of it
		{Vec3{10, 10, 0}, Vec3{0, -1, 0}, false},
		{Vec3{-5, 2, 0}, Vec3{1, 0, 0}, false},
		// Diagonal hit and miss
		{Vec3{-5, -5, -5}, Vec3{1, 1, 1}, true},
		{Vec3{-5, -5, -5}, Vec3{1, 1, -1}, false},
		// Grazing a face
		{Vec3{-5, 0.5, 0}, Vec3{1, 0, 0}, true},
	}

	for index, s := range specs {
		r := NewRay(s.origin, s.dir)
		assert.Equal(t, s.exp, box.IntersectsRay(r), "spec %d", index)
		assert.Equal(t, s.exp, r.IntersectsBBox(box), "spec %d", index)
	}

	assert.False(t, EmptyBBox().IntersectsRay(NewRay(Vec3{}, Vec3{1, 1, 1})))
}

func TestIntersectsRayFlatBox(t *testing.T) {
	// Zero thickness along Y, as produced by an axis-aligned triangle
	flat := NewBBox(Vec3{-1, 0, -1}, Vec3{1, 0, 1})

	assert.True(t, flat.IntersectsRay(NewRay(Vec3{0, 5, 0}, Vec3{0, -1, 0})))
	assert.True(t, flat.IntersectsRay(NewRay(Vec3{0, 5, 0}, Vec3{0.1, -1, 0.1})))
	assert.False(t, flat.IntersectsRay(NewRay(Vec3{0, 5, 0}, Vec3{0, 1, 0})))
}

func TestRayIntersection(t *testing.T) {
	box := unitCube(Vec3{0, 0, 0})

	tEntry, hit := box.RayIntersection(NewRay(Vec3{-5, 0, 0}, Vec3{1, 0, 0}))
	require.True(t, hit)
	assert.InDelta(t, 4.5, tEntry, 1e-6)

	tEntry, hit = box.RayIntersection(NewRay(Vec3{0, 0, 0}, Vec3{1, 0, 0}))
	require.True(t, hit)
	assert.Equal(t, float32(0), tEntry)

	_, hit = box.RayIntersection(NewRay(Vec3{5, 0, 0}, Vec3{1, 0, 0}))
	assert.False(t, hit)
}

func TestNewRay(t *testing.T) {
	r := NewRay(Vec3{1, 2, 3}, Vec3{2, -4, 0})

	assert.Equal(t, Vec3{0.5, -0.25, float32(math.Inf(1))}, r.InvDir)
	assert.Equal(t, [3]int{0, 1, 0}, r.Sign)
	assert.Equal(t, Vec3{3, -2, 3}, r.Point(1))
}

func TestBBoxString(t *testing.T) {
	box := NewBBox(Vec3{0, 1, 2}, Vec3{3, 4, 5})
	assert.Equal(t, "(X: 0 <> 3, Y: 1 <> 4, Z: 2 <> 5)", box.String())
}

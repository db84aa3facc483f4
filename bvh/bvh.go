// Package bvh implements a bounding volume hierarchy for answering
// "which objects could this ray or region intersect?" queries without
// scanning every object.
//
// A Tree is built once from a slice of Boundable objects and can then be
// queried concurrently from any number of goroutines. The tree never copies
// or owns the indexed objects; it only records their position in the slice
// passed to Build. Callers must therefore keep the slice contents unchanged
// for the lifetime of the tree:
//
// IMPORTANT: mutating the geometry of an indexed object without rebuilding
// the tree silently desynchronizes the cached node bounds. Queries will then
// miss objects that moved outside their cached bounds. This is not detected
// at runtime; rebuild the tree whenever the object set changes.
//
// Objects reporting non-finite or inverted bounds poison the bounds of every
// node above them. Building from such input never panics but the query
// results are undefined, so inputs should be validated upstream.
package bvh

import "github.com/achilleasa/bvh/types"

// The Boundable interface is implemented by all objects that can be
// indexed by a bvh. BBox must be free of side effects and return the same
// value for as long as the object is indexed.
type Boundable interface {
	BBox() types.BBox
}

// A Query is any shape that can be tested against a bbox. Both types.Ray
// and types.BBox implement this interface. Tests must be conservative: a
// query may report an intersection that does not exist but must never miss
// one.
type Query interface {
	IntersectsBBox(types.BBox) bool
}

// A Tree is a bvh built over a slice of objects of type T. Trees are
// immutable once built.
type Tree[T Boundable] struct {
	// Nodes stored as a contiguous list in pre-order; the root is at index 0.
	nodes []Node

	// The union bbox of all indexed objects.
	bbox types.BBox

	// The number of indexed objects.
	objects int
}

// Get the node arena. The returned slice must not be modified.
func (t *Tree[T]) Nodes() []Node {
	return t.nodes
}

// Get the number of indexed objects.
func (t *Tree[T]) Len() int {
	return t.objects
}

// Returns true if the tree indexes no objects.
func (t *Tree[T]) Empty() bool {
	return len(t.nodes) == 0
}

// Get the bbox enclosing all indexed objects. For an empty tree this
// returns the empty bbox.
func (t *Tree[T]) BBox() types.BBox {
	return t.bbox
}

package bvh

// Collect the indices of all objects whose bbox intersects the query.
//
// The result may contain objects that the query does not actually
// intersect (bbox tests are conservative) but it never omits an object
// whose bbox is hit. No ordering is guaranteed. The objects slice must be
// the same slice the tree was built from.
//
// Traverse is safe for concurrent use.
func (t *Tree[T]) Traverse(q Query, objects []T) []int {
	candidates := make([]int, 0)
	t.TraverseFunc(q, objects, func(object int) bool {
		candidates = append(candidates, object)
		return true
	})
	return candidates
}

// Invoke fn for every object whose bbox intersects the query. The walk
// stops as soon as fn returns false.
func (t *Tree[T]) TraverseFunc(q Query, objects []T, fn func(object int) bool) {
	if len(t.nodes) == 0 {
		return
	}
	t.visit(0, q, objects, fn)
}

// Depth-first walk of the subtree rooted at nodeIndex. Returns false if
// the walk was aborted by the visitor.
func (t *Tree[T]) visit(nodeIndex uint32, q Query, objects []T, fn func(object int) bool) bool {
	node := &t.nodes[nodeIndex]

	if node.Kind == Leaf {
		if !q.IntersectsBBox(objects[node.Object].BBox()) {
			return true
		}
		return fn(int(node.Object))
	}

	if q.IntersectsBBox(node.LeftBBox) && !t.visit(node.Left, q, objects, fn) {
		return false
	}
	if q.IntersectsBBox(node.RightBBox) && !t.visit(node.Right, q, objects, fn) {
		return false
	}
	return true
}

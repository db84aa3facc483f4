package bvh

import "github.com/achilleasa/bvh/types"

// The Object value of flat nodes that do not reference an object.
const NoObject int32 = -1

// A node of a flattened bvh. Flat nodes are stored in pre-order so the
// first child of an internal node immediately follows it. Exit holds the
// index one past the node's subtree; a scan jumps there whenever the node
// bbox is missed.
type FlatNode struct {
	BBox types.BBox

	// Object index for leafs; NoObject for internal nodes.
	Object int32

	Exit uint32
}

// Returns true if this node references an object.
func (n *FlatNode) IsLeaf() bool {
	return n.Object != NoObject
}

// A FlatTree is a stackless representation of a bvh which can be
// traversed with a single forward scan. FlatTrees are immutable and safe
// for concurrent use.
type FlatTree struct {
	nodes []FlatNode
}

// Convert the tree into its flat representation. Object indices must fit
// in an int32.
func (t *Tree[T]) Flatten() *FlatTree {
	flat := &FlatTree{
		nodes: make([]FlatNode, 0, len(t.nodes)),
	}
	if len(t.nodes) == 0 {
		return flat
	}

	flat.nodes = t.flattenNode(flat.nodes, 0, t.bbox)
	return flat
}

// Append the subtree rooted at nodeIndex in pre-order. bbox is the bbox of
// the node itself which, for non-root nodes, is cached by the parent.
func (t *Tree[T]) flattenNode(out []FlatNode, nodeIndex uint32, bbox types.BBox) []FlatNode {
	node := &t.nodes[nodeIndex]
	pos := len(out)

	if node.Kind == Leaf {
		return append(out, FlatNode{
			BBox:   bbox,
			Object: int32(node.Object),
			Exit:   uint32(pos + 1),
		})
	}

	out = append(out, FlatNode{BBox: bbox, Object: NoObject})
	out = t.flattenNode(out, node.Left, node.LeftBBox)
	out = t.flattenNode(out, node.Right, node.RightBBox)
	out[pos].Exit = uint32(len(out))
	return out
}

// Get the flat node list. The returned slice must not be modified.
func (f *FlatTree) Nodes() []FlatNode {
	return f.nodes
}

// Get the number of flat nodes.
func (f *FlatTree) Len() int {
	return len(f.nodes)
}

// Collect the indices of all objects whose bbox intersects the query. The
// returned set is identical to the one returned by Tree.Traverse for the
// tree this FlatTree was generated from.
func (f *FlatTree) Traverse(q Query) []int {
	candidates := make([]int, 0)
	f.TraverseFunc(q, func(object int) bool {
		candidates = append(candidates, object)
		return true
	})
	return candidates
}

// Invoke fn for every object whose bbox intersects the query. The scan
// stops as soon as fn returns false.
func (f *FlatTree) TraverseFunc(q Query, fn func(object int) bool) {
	nodeCount := uint32(len(f.nodes))
	for index := uint32(0); index < nodeCount; {
		node := &f.nodes[index]
		if !q.IntersectsBBox(node.BBox) {
			index = node.Exit
			continue
		}

		if node.Object != NoObject && !fn(int(node.Object)) {
			return
		}
		index++
	}
}

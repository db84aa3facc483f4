package bvh

import "github.com/achilleasa/bvh/types"

// The type of a bvh node.
type NodeKind uint8

const (
	Leaf NodeKind = iota
	Internal
)

func (k NodeKind) String() string {
	if k == Leaf {
		return "leaf"
	}
	return "internal"
}

// Bvh nodes are stored in a contiguous arena and reference each other by
// index. A node is either a leaf or an internal node:
//
// - Leaf nodes reference exactly one object via Object.
// - Internal nodes reference two child nodes via Left/Right and cache the
// bboxes of both children so that traversal can prune a child without
// loading it.
//
// The root is always stored at index 0 and its Parent field points to itself.
type Node struct {
	Kind NodeKind

	Parent uint32
	Depth  uint32

	// Index of the object referenced by a leaf.
	Object uint32

	// Child node indices and bboxes for internal nodes.
	Left      uint32
	Right     uint32
	LeftBBox  types.BBox
	RightBBox types.BBox
}

func newLeaf(parent, depth, object uint32) Node {
	return Node{
		Kind:   Leaf,
		Parent: parent,
		Depth:  depth,
		Object: object,
	}
}

func newInternal(parent, depth, left uint32, leftBBox types.BBox, right uint32, rightBBox types.BBox) Node {
	return Node{
		Kind:      Internal,
		Parent:    parent,
		Depth:     depth,
		Left:      left,
		LeftBBox:  leftBBox,
		Right:     right,
		RightBBox: rightBBox,
	}
}

// Returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.Kind == Leaf
}

// Add offset to the node's own links. Used when a privately built subtree
// is spliced into a larger arena.
func (n *Node) offsetLinks(offset uint32) {
	n.Parent += offset
	if n.Kind == Leaf {
		return
	}

	n.Left += offset
	n.Right += offset
}

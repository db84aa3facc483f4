package bvh

import (
	"fmt"

	"github.com/achilleasa/bvh/types"
)

// Check the tree against the objects it was built from. Validate reports
// an error wrapping ErrInconsistentTree if:
//
// - the object count differs from the one used to build the tree.
// - any object is referenced by zero or more than one leaf.
// - any internal node caches a child bbox that is not the tight union of
// the objects below that child.
// - parent/depth links are broken or nodes are unreachable from the root.
//
// Validate is mostly useful for detecting objects that were mutated after
// the tree was built.
func (t *Tree[T]) Validate(objects []T) error {
	if len(objects) != t.objects {
		return fmt.Errorf("%w: tree indexes %d objects; got %d", ErrInconsistentTree, t.objects, len(objects))
	}

	if len(objects) == 0 {
		if len(t.nodes) != 0 {
			return fmt.Errorf("%w: empty tree contains %d nodes", ErrInconsistentTree, len(t.nodes))
		}
		return nil
	}

	if expNodes := 2*len(objects) - 1; len(t.nodes) != expNodes {
		return fmt.Errorf("%w: expected %d nodes for %d objects; got %d", ErrInconsistentTree, expNodes, len(objects), len(t.nodes))
	}

	root := &t.nodes[0]
	if root.Parent != 0 || root.Depth != 0 {
		return fmt.Errorf("%w: root node has parent %d and depth %d", ErrInconsistentTree, root.Parent, root.Depth)
	}

	v := &validator[T]{
		tree:        t,
		objects:     objects,
		seenNodes:   make([]bool, len(t.nodes)),
		seenObjects: make([]bool, len(objects)),
	}

	bbox, err := v.check(0)
	if err != nil {
		return err
	}

	if bbox != t.bbox {
		return fmt.Errorf("%w: tree bbox %v does not match object bbox %v", ErrInconsistentTree, t.bbox, bbox)
	}

	for index, seen := range v.seenObjects {
		if !seen {
			return fmt.Errorf("%w: object %d is not referenced by any leaf", ErrInconsistentTree, index)
		}
	}
	return nil
}

type validator[T Boundable] struct {
	tree        *Tree[T]
	objects     []T
	seenNodes   []bool
	seenObjects []bool
}

// Recursively check the subtree rooted at nodeIndex and return the tight
// bbox of the objects it contains.
func (v *validator[T]) check(nodeIndex uint32) (types.BBox, error) {
	if int(nodeIndex) >= len(v.tree.nodes) {
		return types.BBox{}, fmt.Errorf("%w: node index %d out of range", ErrInconsistentTree, nodeIndex)
	}
	if v.seenNodes[nodeIndex] {
		return types.BBox{}, fmt.Errorf("%w: node %d is referenced more than once", ErrInconsistentTree, nodeIndex)
	}
	v.seenNodes[nodeIndex] = true

	node := &v.tree.nodes[nodeIndex]
	if node.Kind == Leaf {
		if int(node.Object) >= len(v.objects) {
			return types.BBox{}, fmt.Errorf("%w: leaf %d references unknown object %d", ErrInconsistentTree, nodeIndex, node.Object)
		}
		if v.seenObjects[node.Object] {
			return types.BBox{}, fmt.Errorf("%w: object %d is referenced by more than one leaf", ErrInconsistentTree, node.Object)
		}
		v.seenObjects[node.Object] = true
		return v.objects[node.Object].BBox(), nil
	}

	children := [2]struct {
		index uint32
		bbox  types.BBox
		name  string
	}{
		{node.Left, node.LeftBBox, "left"},
		{node.Right, node.RightBBox, "right"},
	}

	bbox := types.EmptyBBox()
	for _, child := range children {
		if int(child.index) < len(v.tree.nodes) {
			childNode := &v.tree.nodes[child.index]
			if childNode.Parent != nodeIndex {
				return types.BBox{}, fmt.Errorf("%w: node %d has parent %d; expected %d", ErrInconsistentTree, child.index, childNode.Parent, nodeIndex)
			}
			if childNode.Depth != node.Depth+1 {
				return types.BBox{}, fmt.Errorf("%w: node %d has depth %d; expected %d", ErrInconsistentTree, child.index, childNode.Depth, node.Depth+1)
			}
		}

		childBBox, err := v.check(child.index)
		if err != nil {
			return types.BBox{}, err
		}
		if childBBox != child.bbox {
			return types.BBox{}, fmt.Errorf("%w: node %d caches %s bbox %v; expected %v", ErrInconsistentTree, nodeIndex, child.name, child.bbox, childBBox)
		}
		bbox = bbox.Union(childBBox)
	}

	return bbox, nil
}

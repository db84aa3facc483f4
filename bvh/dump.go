package bvh

import (
	"fmt"
	"io"
	"strings"
)

// Write an indented, human readable representation of the tree to w.
func (t *Tree[T]) Dump(w io.Writer) error {
	if len(t.nodes) == 0 {
		_, err := fmt.Fprintln(w, "<empty>")
		return err
	}

	_, err := fmt.Fprintf(w, "root %v\n", t.bbox)
	if err != nil {
		return err
	}
	return t.dumpNode(w, 0)
}

func (t *Tree[T]) dumpNode(w io.Writer, nodeIndex uint32) error {
	node := &t.nodes[nodeIndex]
	indent := strings.Repeat("  ", int(node.Depth))

	if node.Kind == Leaf {
		_, err := fmt.Fprintf(w, "%s#%d leaf object=%d\n", indent, nodeIndex, node.Object)
		return err
	}

	_, err := fmt.Fprintf(w, "%s#%d internal\n%s  left  -> #%d %v\n%s  right -> #%d %v\n",
		indent, nodeIndex,
		indent, node.Left, node.LeftBBox,
		indent, node.Right, node.RightBBox,
	)
	if err != nil {
		return err
	}

	if err = t.dumpNode(w, node.Left); err != nil {
		return err
	}
	return t.dumpNode(w, node.Right)
}

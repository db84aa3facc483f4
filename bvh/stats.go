package bvh

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Structural statistics for a built tree.
type Stats struct {
	Objects  int
	Nodes    int
	Leaves   int
	Internal int
	MaxDepth int

	// Average leaf depth.
	AvgDepth float64

	// Sum of leaf depths weighted by the surface area of the leaf bbox
	// relative to the root bbox; an estimate of the expected traversal
	// cost of a random ray.
	SAHCost float64

	// Size of the node arena.
	ArenaBytes int
}

// Gather tree statistics.
func (t *Tree[T]) Stats() Stats {
	s := Stats{
		Objects:    t.objects,
		Nodes:      len(t.nodes),
		ArenaBytes: int(reflect.TypeOf(Node{}).Size()) * len(t.nodes),
	}
	if len(t.nodes) == 0 {
		return s
	}

	rootArea := float64(t.bbox.SurfaceArea())
	depthSum := 0
	for index := range t.nodes {
		node := &t.nodes[index]
		if int(node.Depth) > s.MaxDepth {
			s.MaxDepth = int(node.Depth)
		}

		if node.Kind == Leaf {
			s.Leaves++
			depthSum += int(node.Depth)
			continue
		}

		s.Internal++
		if rootArea > 0 {
			s.SAHCost += float64(node.LeftBBox.SurfaceArea()+node.RightBBox.SurfaceArea()) / rootArea
		}
	}
	s.AvgDepth = float64(depthSum) / float64(s.Leaves)

	return s
}

// Build a tabular representation of the tree statistics.
func (s Stats) String() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Objects", fmt.Sprint(s.Objects)})
	table.Append([]string{"Nodes", fmt.Sprint(s.Nodes)})
	table.Append([]string{"Leaves", fmt.Sprint(s.Leaves)})
	table.Append([]string{"Internal nodes", fmt.Sprint(s.Internal)})
	table.Append([]string{"Max depth", fmt.Sprint(s.MaxDepth)})
	table.Append([]string{"Avg leaf depth", fmt.Sprintf("%.2f", s.AvgDepth)})
	table.Append([]string{"SAH cost", fmt.Sprintf("%.2f", s.SAHCost)})
	table.SetFooter([]string{"Arena size", strings.TrimLeft(fmtSize(s.ArenaBytes), " ")})

	table.Render()
	return buf.String()
}

// Format a byte count using the appropriate byte/kb/mb unit.
func fmtSize(totalBytes int) string {
	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", totalBytes)
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", float32(totalBytes)/1e3)
	}
	return fmt.Sprintf("%5.1f mb", float32(totalBytes)/1e6)
}

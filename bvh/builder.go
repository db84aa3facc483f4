package bvh

import (
	"sort"
	"time"

	"github.com/achilleasa/bvh/log"
	"github.com/achilleasa/bvh/types"
	"golang.org/x/sync/semaphore"
)

// A candidate split between two adjacent SAH buckets.
type splitScore struct {
	// Objects whose centroid falls in a bucket < bucket go to the left.
	bucket int

	leftCount, rightCount int
	score                 float32
}

type builder struct {
	logger log.Logger
	opts   options

	// Object bboxes and centers, captured once so that BBox is invoked
	// exactly once per object.
	bboxes  []types.BBox
	centers []types.Vec3

	// Bounds the number of subtrees built on their own goroutine. Nil
	// when parallel construction is disabled.
	workers *semaphore.Weighted
}

// Construct a BVH from a set of objects.
//
// The builder recursively partitions the objects along the largest axis
// of their union bbox. Candidate splits are evaluated by binning object
// centroids into equal-width buckets and scoring every bucket boundary
// using the surface area heuristic:
//
// score = left count * left bbox area + right count * right bbox area
//
// If all centroids fall into the same bucket the objects are split in two
// halves by count instead.
//
// Building from the same input always yields the same tree regardless of
// whether parallel construction is enabled.
func Build[T Boundable](objects []T, opts ...Option) *Tree[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New("bvh builder")
	}

	tree := &Tree[T]{
		bbox:    types.EmptyBBox(),
		objects: len(objects),
	}
	if len(objects) == 0 {
		return tree
	}

	b := newBuilder(objects, o)
	workList := b.initialWorkList()

	start := time.Now()
	tree.nodes, tree.bbox = b.partition(make([]Node, 0, 2*len(objects)-1), workList, 0, 0)

	if log.Enabled(log.Debug) {
		stats := tree.Stats()
		b.logger.Debugf(
			"BVH tree build time: %d ms, objects: %d, nodes: %d, maxDepth: %d",
			time.Since(start).Nanoseconds()/1e6,
			stats.Objects, stats.Nodes, stats.MaxDepth,
		)
	}
	return tree
}

func newBuilder[T Boundable](objects []T, o options) *builder {
	b := &builder{
		logger:  o.logger,
		opts:    o,
		bboxes:  make([]types.BBox, len(objects)),
		centers: make([]types.Vec3, len(objects)),
	}
	if o.workers > 0 && o.parallelThreshold > 0 {
		b.workers = semaphore.NewWeighted(int64(o.workers))
	}

	for index, obj := range objects {
		bbox := obj.BBox()
		b.bboxes[index] = bbox
		b.centers[index] = bbox.Center()
	}
	return b
}

// Get a work list containing every object index.
func (b *builder) initialWorkList() []uint32 {
	workList := make([]uint32, len(b.bboxes))
	for index := range workList {
		workList[index] = uint32(index)
	}
	return workList
}

// Partition workList, append the resulting subtree to the arena in
// pre-order and return the updated arena together with the subtree bbox.
// The subtree root is stored at the arena length observed on entry.
func (b *builder) partition(arena []Node, workList []uint32, parent, depth uint32) ([]Node, types.BBox) {
	bbox := b.unionBBox(workList)

	if len(workList) == 1 {
		return append(arena, newLeaf(parent, depth, workList[0])), bbox
	}

	leftWorkList, rightWorkList := b.split(workList, bbox)

	// Reserve a slot for this node; it is filled in once both children
	// have been placed.
	nodeIndex := uint32(len(arena))
	arena = append(arena, Node{})

	var (
		leftIndex, rightIndex uint32
		leftBBox, rightBBox   types.BBox
	)

	if b.fork(len(workList)) {
		// The left subtree is built by a worker while this goroutine builds
		// the right one. Both use private arenas that are spliced in once
		// the worker is joined.
		var leftArena, rightArena []Node
		leftDone := make(chan struct{})
		go func() {
			defer close(leftDone)
			defer b.workers.Release(1)
			leftArena, leftBBox = b.partition(make([]Node, 0, 2*len(leftWorkList)-1), leftWorkList, 0, depth+1)
		}()
		rightArena, rightBBox = b.partition(make([]Node, 0, 2*len(rightWorkList)-1), rightWorkList, 0, depth+1)
		<-leftDone

		leftIndex = uint32(len(arena))
		arena = splice(arena, leftArena, nodeIndex)
		rightIndex = uint32(len(arena))
		arena = splice(arena, rightArena, nodeIndex)
	} else {
		leftIndex = uint32(len(arena))
		arena, leftBBox = b.partition(arena, leftWorkList, nodeIndex, depth+1)
		rightIndex = uint32(len(arena))
		arena, rightBBox = b.partition(arena, rightWorkList, nodeIndex, depth+1)
	}

	arena[nodeIndex] = newInternal(parent, depth, leftIndex, leftBBox, rightIndex, rightBBox)
	return arena, bbox
}

// Check whether the children of a work list of the given size should be
// built concurrently and, if so, reserve a worker. When all workers are
// busy the subtree is built serially; this never changes the resulting
// tree, only which goroutine builds it.
func (b *builder) fork(workListLen int) bool {
	if b.workers == nil || workListLen < b.opts.parallelThreshold {
		return false
	}
	return b.workers.TryAcquire(1)
}

// Append a subtree that was built in its own arena, offsetting all of its
// node links. The subtree root is re-parented to parent.
func splice(arena, subtree []Node, parent uint32) []Node {
	offset := uint32(len(arena))
	for index, node := range subtree {
		node.offsetLinks(offset)
		if index == 0 {
			node.Parent = parent
		}
		arena = append(arena, node)
	}
	return arena
}

// Calculate the union bbox of all items in the work list.
func (b *builder) unionBBox(workList []uint32) types.BBox {
	bbox := types.EmptyBBox()
	for _, item := range workList {
		bbox = bbox.Union(b.bboxes[item])
	}
	return bbox
}

// Split the work list into two non-empty sets. Both returned slices
// preserve the relative order of the input.
func (b *builder) split(workList []uint32, bbox types.BBox) (left, right []uint32) {
	axis := bbox.LargestAxis()

	bucketOf, best, ok := b.bestBucketSplit(workList, bbox, axis)
	if !ok {
		return b.medianSplit(workList, axis)
	}

	left = make([]uint32, 0, best.leftCount)
	right = make([]uint32, 0, best.rightCount)
	for index, item := range workList {
		if bucketOf[index] < best.bucket {
			left = append(left, item)
		} else {
			right = append(right, item)
		}
	}
	return left, right
}

// Bin the work list centroids and select the bucket boundary with the
// lowest SAH score. Ties are resolved in favor of the boundary whose left
// count is closest to half the work list and then in favor of the lowest
// boundary. Returns false if no boundary separates the work list into two
// non-empty sets.
func (b *builder) bestBucketSplit(workList []uint32, bbox types.BBox, axis types.Axis) (bucketOf []int, best splitScore, ok bool) {
	numBuckets := b.opts.buckets
	lo := bbox.Min[axis]
	extent := bbox.Max[axis] - lo

	// Also catches NaN extents.
	if !(extent > 0) {
		return nil, best, false
	}

	var (
		counts [maxBuckets]int
		boxes  [maxBuckets]types.BBox
	)
	for k := 0; k < numBuckets; k++ {
		boxes[k] = types.EmptyBBox()
	}

	bucketOf = make([]int, len(workList))
	for index, item := range workList {
		k := bucketIndex(b.centers[item][axis], lo, extent, numBuckets)
		bucketOf[index] = k
		counts[k]++
		boxes[k] = boxes[k].Union(b.bboxes[item])
	}

	// Sweep from the right so that the right hand side of each boundary
	// is available in O(1) during the left sweep.
	var (
		rightCounts [maxBuckets]int
		rightBoxes  [maxBuckets]types.BBox
	)
	accBBox := types.EmptyBBox()
	accCount := 0
	for k := numBuckets - 1; k > 0; k-- {
		accBBox = accBBox.Union(boxes[k])
		accCount += counts[k]
		rightBoxes[k] = accBBox
		rightCounts[k] = accCount
	}

	total := len(workList)
	bestBalance := 0
	accBBox = types.EmptyBBox()
	accCount = 0
	for k := 1; k < numBuckets; k++ {
		accBBox = accBBox.Union(boxes[k-1])
		accCount += counts[k-1]

		// Make sure that we don't generate empty partitions
		if accCount == 0 || rightCounts[k] == 0 {
			continue
		}

		score := float32(accCount)*accBBox.SurfaceArea() + float32(rightCounts[k])*rightBoxes[k].SurfaceArea()
		balance := abs(2*accCount - total)
		if !ok || score < best.score || (score == best.score && balance < bestBalance) {
			best = splitScore{
				bucket:     k,
				leftCount:  accCount,
				rightCount: rightCounts[k],
				score:      score,
			}
			bestBalance = balance
			ok = true
		}
	}

	return bucketOf, best, ok
}

// Split the work list in two halves by count after ordering it by centroid
// position along axis. Items with identical centroids keep their object
// order so the result is deterministic.
func (b *builder) medianSplit(workList []uint32, axis types.Axis) (left, right []uint32) {
	sorted := make([]uint32, len(workList))
	copy(sorted, workList)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := b.centers[sorted[i]][axis], b.centers[sorted[j]][axis]
		if ci != cj {
			return ci < cj
		}
		return sorted[i] < sorted[j]
	})

	mid := len(sorted) / 2
	return sorted[:mid], sorted[mid:]
}

// Map a centroid coordinate to a bucket in [0, numBuckets).
func bucketIndex(c, lo, extent float32, numBuckets int) int {
	k := int(float32(numBuckets) * ((c - lo) / extent))
	if k < 0 {
		return 0
	} else if k >= numBuckets {
		return numBuckets - 1
	}
	return k
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

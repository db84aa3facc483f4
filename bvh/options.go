package bvh

import (
	"runtime"

	"github.com/achilleasa/bvh/log"
)

const (
	// Number of equal-width buckets used for binning object centroids along
	// the split axis.
	DefaultBuckets = 6

	// Subtrees with at least this many objects have their children built
	// in parallel.
	DefaultParallelThreshold = 256

	minBuckets = 2
	maxBuckets = 64
)

type options struct {
	buckets           int
	parallelThreshold int
	workers           int
	logger            log.Logger
}

// Option configures the bvh builder.
type Option func(*options)

// WithBuckets sets the number of SAH buckets. Values are clamped to the
// [2, 64] range.
func WithBuckets(n int) Option {
	return func(o *options) {
		if n < minBuckets {
			n = minBuckets
		} else if n > maxBuckets {
			n = maxBuckets
		}
		o.buckets = n
	}
}

// WithParallelThreshold sets the subtree size at or above which the two
// child partitions are built concurrently. A value <= 0 forces a serial
// build.
func WithParallelThreshold(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.parallelThreshold = n
	}
}

// WithWorkers sets the maximum number of subtrees that may be built
// concurrently on their own goroutine. A value <= 0 forces a serial build.
// Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.workers = n
	}
}

// WithLogger overrides the logger used for reporting build statistics.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func defaultOptions() options {
	return options{
		buckets:           DefaultBuckets,
		parallelThreshold: DefaultParallelThreshold,
		workers:           runtime.GOMAXPROCS(0),
	}
}

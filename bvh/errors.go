package bvh

import "errors"

// ErrInconsistentTree is returned by Validate when a tree violates one of
// its structural invariants.
var ErrInconsistentTree = errors.New("bvh: inconsistent tree")

// Package runutil holds small run-planning helpers shared by the CLIs and the
// server: worker counts and up-front workload estimates.
package runutil

import (
	"runtime"

	"seqtree-core/align"
	"seqtree-core/errs"
	"seqtree-core/matrix"
)

// DefaultMaxCells bounds the combined DP work of one build.
const DefaultMaxCells int64 = 200_000_000

// EffectiveThreads maps 0 (or anything below 1) to runtime.NumCPU().
func EffectiveThreads(threads int) int {
	if threads < 1 {
		return runtime.NumCPU()
	}
	return threads
}

// PlannedCells sums the DP cells every alignment of a build will need.
// For the reference strategy ref is the chosen reference index.
// The sum saturates once it passes limit (when limit > 0).
func PlannedCells(strategy matrix.Strategy, lens []int, ref int, limit int64) int64 {
	var total int64
	add := func(c int64) bool {
		total += c
		return limit > 0 && total > limit
	}
	switch strategy {
	case matrix.Reference:
		if ref < 0 || ref >= len(lens) {
			return 0
		}
		for _, n := range lens {
			if add(align.Cells(lens[ref], n)) {
				return total
			}
		}
	default:
		for i := 0; i < len(lens); i++ {
			for j := i + 1; j < len(lens); j++ {
				if add(align.Cells(lens[i], lens[j])) {
					return total
				}
			}
		}
	}
	return total
}

// CheckWorkload fails with WorkloadExceeded when planned exceeds limit.
// A non-positive limit disables the check.
func CheckWorkload(planned, limit int64) error {
	if limit > 0 && planned > limit {
		return errs.WorkloadExceeded("build needs more than %d DP cells, limit %d", planned, limit)
	}
	return nil
}

// PairCount is n*(n-1)/2.
func PairCount(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// Package parentfinder implements the ancestor-discovery pass over a
// batch of sets pre-sorted by ascending cardinality: for each set i it
// looks for the first larger set j > i of which set i is a subset.
package parentfinder

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Find returns ancestor[0..len(sets)) where ancestor[i] is the index
// of a candidate superset of sets[i], or -1 if none was found.
//
// sets must already be ordered by ascending len(sets[i]); Find relies
// on that ordering to only ever scan forward from i+1. Each set must
// itself be strictly ascending; Find does not validate this, it is a
// construction precondition enforced upstream.
//
// Work across i is distributed dynamically: a shared atomic cursor
// hands the next unclaimed i to whichever worker asks for it, rather
// than statically partitioning the range. Scans started at small i
// tend to run far longer than scans at large i (more candidates to
// check before the cardinality ordering rules them out), so a static
// split would leave some workers idle while others are still stuck on
// the expensive small-i scans. workers <= 0 defaults to runtime.GOMAXPROCS(0).
func Find(ctx context.Context, sets [][]uint32, workers int) ([]int, error) {
	n := len(sets)
	ancestor := make([]int, n)
	for i := range ancestor {
		ancestor[i] = -1
	}
	if n == 0 {
		return ancestor, nil
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	var cursor atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				i := int(cursor.Add(1)) - 1
				if i >= n {
					return nil
				}

				ancestor[i] = findOne(sets, i)
			}
		})
	}

	if err := g.Wait(); err != nil {
		return ancestor, err
	}
	return ancestor, nil
}

// findOne scans j = i+1 .. n-1 for the first superset of sets[i].
func findOne(sets [][]uint32, i int) int {
	si := sets[i]
	for j := i + 1; j < len(sets); j++ {
		sj := sets[j]
		if len(si) >= len(sj) {
			continue
		}
		if subsetOf(si, sj) {
			return j
		}
	}
	return -1
}

// subsetOf reports whether every element of a appears in b, via a
// linear merge walk over two strictly ascending sequences.
func subsetOf(a, b []uint32) bool {
	j := 0
	for _, x := range a {
		for j < len(b) && b[j] < x {
			j++
		}
		if j >= len(b) || b[j] != x {
			return false
		}
		j++
	}
	return true
}

package hcs

import (
	"context"
	"fmt"

	"github.com/cdbg/hcs/internal/depthlimit"
	"github.com/cdbg/hcs/internal/packedvec"
	"github.com/cdbg/hcs/internal/parentfinder"
)

// Options configures a full New build, covering the parts of the
// pipeline that sit above the core components (worker count for
// parent discovery, the depth bound applied before planning).
type Options struct {
	// Workers is the number of goroutines used by parent discovery.
	// Zero means runtime.GOMAXPROCS(0).
	Workers int

	// DepthLimit bounds subset-chain length before layout planning
	// runs. Zero disables chains entirely (every subset with a parent
	// still a chain of one).
	DepthLimit int
}

// New runs the full construction pipeline — parent discovery, depth
// limiting, layout planning, and container assembly — over sets and
// returns the resulting HCS, the input-index-to-HCS-index mapping,
// and summary Stats.
//
// sets should already be ordered by ascending cardinality; parent
// discovery only ever looks forward from i, so an un-sorted batch
// will simply find fewer (or no) ancestors, not fail. See the colorio
// package for the pre-pass that establishes this order.
func New(ctx context.Context, sets []ColorSet, opts Options) (*HCS, []int, Stats, error) {
	for i, s := range sets {
		if err := s.Validate(); err != nil {
			return nil, nil, Stats{}, fmt.Errorf("set %d: %w", i, err)
		}
	}

	raw := make([][]uint32, len(sets))
	var maxElem uint32
	for i, s := range sets {
		raw[i] = []uint32(s)
		if m := s.max(); m > maxElem {
			maxElem = m
		}
	}

	ancestor, err := parentfinder.Find(ctx, raw, opts.Workers)
	if err != nil {
		return nil, nil, Stats{}, err
	}

	depthlimit.Limit(ancestor, opts.DepthLimit)

	encWidth := packedvec.BitsFor(uint64(maxElem))
	return Build(raw, ancestor, encWidth)
}

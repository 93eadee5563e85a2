package hcs

import (
	"fmt"
	"sync"

	"github.com/cdbg/hcs/internal/bitvec"
	"github.com/cdbg/hcs/internal/packedvec"
	"github.com/cdbg/hcs/internal/planner"
)

// HCS is the immutable tuple of seven packed/bit containers described
// in the design: dense and sparse roots, subset selectors over an
// ancestor, and the parent pointers tying subsets to their ancestors.
type HCS struct {
	encWidth uint

	denseCount  int
	sparseCount int
	subsetCount int

	denseContainer *bitvec.Vector
	denseStarts    *packedvec.Vector

	sparseContainer *packedvec.Vector
	sparseStarts    *packedvec.Vector

	subsetContainer *bitvec.Vector
	subsetStarts    *packedvec.Vector

	parentVec *packedvec.Vector

	scratchOnce sync.Once
	scratch     *scratchPool
}

func (h *HCS) initScratchOnce() {
	h.scratchOnce.Do(func() {
		h.scratch = newScratchPool()
	})
}

// Size returns dense_count + sparse_count + subset_count, the total
// number of sets held by the container.
func (h *HCS) Size() int {
	return h.denseCount + h.sparseCount + h.subsetCount
}

// Stats summarizes a construction run, for reporting by callers such
// as the hcsctl CLI.
type Stats struct {
	Sets         int
	DenseCount   int
	SparseCount  int
	SubsetCount  int
	DenseBytes   int
	SparseBytes  int
	SubsetBytes  int
	StartsBytes  int
	ParentBytes  int
	MaxChainLen  int
	MeanChainLen float64
}

// Build assembles an HCS from sets and a finalized ancestor vector
// (the output of parentfinder.Find, optionally refined by
// depthlimit.Limit). ancestor is consumed by the layout planner and
// may be rewritten in place when a subset is demoted to a root; the
// version Build observes after planning is the one reflected in the
// returned Stats and in parent_vec.
//
// Build returns the HCS, a mapping from input index i to its HCS
// index, and summary Stats.
func Build(sets [][]uint32, ancestor []int, encWidth uint) (*HCS, []int, Stats, error) {
	n := len(sets)
	ptrWidth := packedvec.BitsFor(uint64(n))

	plan := planner.Plan(sets, ancestor, encWidth, ptrWidth)

	h := &HCS{
		encWidth:    encWidth,
		denseCount:  plan.DenseCount,
		sparseCount: plan.SparseCount,
		subsetCount: plan.SubsetCount,
	}
	rootCount := plan.DenseCount + plan.SparseCount

	// Phase 1: assign HCS indices. Assignment depends only on each
	// set's own class and the running per-class counters, never on
	// another set's assignment, so it completes in one linear pass
	// before any container is written. Per the design notes on
	// ancestor over-counting, plan.Ancestor (== ancestor, mutated in
	// place) is the final word on each set's parent from here on.
	mapping := make([]int, n)
	denseNext, sparseNext, subsetNext := 0, plan.DenseCount, rootCount
	for i, class := range plan.Classes {
		switch class {
		case planner.ClassDenseRoot:
			mapping[i] = denseNext
			denseNext++
		case planner.ClassSparseRoot:
			mapping[i] = sparseNext
			sparseNext++
		case planner.ClassSubset:
			mapping[i] = subsetNext
			subsetNext++
		}
	}

	// Phase 2: size every container exactly, per the planner's tallies.
	h.denseContainer = bitvec.New(uint(plan.DenseBits))
	h.denseStarts = packedvec.New(uint(plan.DenseCount+1), packedvec.BitsFor(plan.DenseBits))

	h.sparseContainer = packedvec.New(uint(plan.SparseElems), encWidth)
	h.sparseStarts = packedvec.New(uint(plan.SparseCount+1), packedvec.BitsFor(plan.SparseElems))

	h.subsetContainer = bitvec.New(uint(plan.SubsetBits))
	h.subsetStarts = packedvec.New(uint(plan.SubsetCount+1), packedvec.BitsFor(plan.SubsetBits))

	h.parentVec = packedvec.New(uint(plan.SubsetCount), ptrWidth)

	// Phase 3: fill, walking the input in original order.
	var denseBitCursor, sparseElemCursor, subsetBitCursor uint
	denseOrdinal, sparseOrdinal, subsetOrdinal := 0, 0, 0

	h.denseStarts.Set(0, 0)
	h.sparseStarts.Set(0, 0)
	h.subsetStarts.Set(0, 0)

	var maxChain, sumChain int

	for i, s := range sets {
		switch plan.Classes[i] {
		case planner.ClassDenseRoot:
			base := denseBitCursor
			for _, e := range s {
				h.denseContainer.Set(base + uint(e))
			}
			denseBitCursor += uint(denseCostOf(s))
			denseOrdinal++
			h.denseStarts.Set(uint(denseOrdinal), uint64(denseBitCursor))

		case planner.ClassSparseRoot:
			base := sparseElemCursor
			for k, e := range s {
				h.sparseContainer.Set(base+uint(k), uint64(e))
			}
			sparseElemCursor += uint(len(s))
			sparseOrdinal++
			h.sparseStarts.Set(uint(sparseOrdinal), uint64(sparseElemCursor))

		case planner.ClassSubset:
			a := ancestor[i]
			anc := sets[a]
			base := subsetBitCursor
			if err := writeSelector(h.subsetContainer, base, anc, s); err != nil {
				return nil, nil, Stats{}, err
			}
			subsetBitCursor += uint(len(anc))
			subsetOrdinal++
			h.subsetStarts.Set(uint(subsetOrdinal), uint64(subsetBitCursor))

			h.parentVec.Set(uint(subsetOrdinal-1), uint64(mapping[a]))

			depth := chainDepth(ancestor, i)
			if depth > maxChain {
				maxChain = depth
			}
			sumChain += depth
		}
	}

	stats := Stats{
		Sets:        n,
		DenseCount:  plan.DenseCount,
		SparseCount: plan.SparseCount,
		SubsetCount: plan.SubsetCount,
		DenseBytes:  wordBytes(len(h.denseContainer.Words())),
		SparseBytes: wordBytes(len(h.sparseContainer.Words())),
		SubsetBytes: wordBytes(len(h.subsetContainer.Words())),
		StartsBytes: wordBytes(len(h.denseStarts.Words())) + wordBytes(len(h.sparseStarts.Words())) + wordBytes(len(h.subsetStarts.Words())),
		ParentBytes: wordBytes(len(h.parentVec.Words())),
		MaxChainLen: maxChain,
	}
	if plan.SubsetCount > 0 {
		stats.MeanChainLen = float64(sumChain) / float64(plan.SubsetCount)
	}

	return h, mapping, stats, nil
}

// writeSelector merge-walks the ancestor's elements against the
// subset's own elements s, appending one selector bit per ancestor
// element starting at bit offset base of dst: 1 if that ancestor
// element also appears in s, 0 otherwise. It returns ErrNonAscending
// if the merge walk can't account for every element of s, which means
// s contained an element absent from its ancestor or was not strictly
// ascending.
func writeSelector(dst *bitvec.Vector, base uint, ancestor, s []uint32) error {
	j := 0
	for m, v := range ancestor {
		if j < len(s) && s[j] == v {
			dst.Set(base + uint(m))
			j++
		}
	}
	if j != len(s) {
		return fmt.Errorf("%w: subset has an element absent from its ancestor", ErrNonAscending)
	}
	return nil
}

func denseCostOf(s []uint32) uint64 {
	if len(s) == 0 {
		return 0
	}
	return uint64(s[len(s)-1]) + 1
}

func wordBytes(nwords int) int { return nwords * 8 }

// chainDepth counts the hops from i up to its root via ancestor.
func chainDepth(ancestor []int, i int) int {
	d := 0
	for x := ancestor[i]; x != -1; x = ancestor[x] {
		d++
	}
	return d
}

package hcs

import (
	"math/bits"

	"github.com/cdbg/hcs/internal/bitvec"
)

// Extract decodes and returns the sorted element vector of the i-th
// set held by h. i must be in [0, h.Size()); an out-of-range index is
// a programmer error and panics, per the narrow core error surface.
func (h *HCS) Extract(i int) []uint32 {
	return h.ExtractInto(nil, i)
}

// ExtractInto decodes set i, appending its elements to dst and
// returning the result. Passing a reused dst[:0] across many calls
// avoids repeated allocation, e.g. in a benchmark loop.
func (h *HCS) ExtractInto(dst []uint32, i int) []uint32 {
	size := h.Size()
	if i < 0 || i >= size {
		extractPanic(i, size)
	}

	switch {
	case i < h.denseCount:
		return h.extractDense(dst, i)
	case i < h.denseCount+h.sparseCount:
		return h.extractSparse(dst, i)
	default:
		return h.extractSubset(dst, i)
	}
}

func (h *HCS) extractDense(dst []uint32, i int) []uint32 {
	start := h.denseStarts.Get(uint(i))
	end := h.denseStarts.Get(uint(i + 1))
	return bitvec.CopyRange(h.denseContainer, uint(start), uint(end-start)).Positions(dst)
}

func (h *HCS) extractSparse(dst []uint32, i int) []uint32 {
	ord := uint(i - h.denseCount)
	start := h.sparseStarts.Get(ord)
	end := h.sparseStarts.Get(ord + 1)
	for k := start; k < end; k++ {
		dst = append(dst, uint32(h.sparseContainer.Get(uint(k))))
	}
	return dst
}

// rootCount is the number of HCS indices occupied by dense and sparse
// roots, i.e. the first HCS index that belongs to a subset.
func (h *HCS) rootCount() int { return h.denseCount + h.sparseCount }

// extractSubset is the scatter-bits reconstruction: walk ancestor
// pointers to the root, materialize the root's bitmap, then replay
// each chain link's selector, nearest-to-root first, to narrow the
// bitmap down to the target subset.
func (h *HCS) extractSubset(dst []uint32, i int) []uint32 {
	// local scratch: the traversal stack must not be shared across
	// calls, or concurrent Extract callers would corrupt each other's
	// chain walk. ExtractPooled reuses a pool-provided buf instead.
	buf := &scratchBuf{stack: make([]int, 0, 8)}
	return h.extractSubsetWith(dst, i, buf)
}

// extractSubsetWith is the scatter-bits reconstruction, using buf as
// exclusively-owned scratch for the traversal stack.
func (h *HCS) extractSubsetWith(dst []uint32, i int, buf *scratchBuf) []uint32 {
	rootCount := h.rootCount()

	cur := i
	for cur >= rootCount {
		buf.stack = append(buf.stack, cur)
		ord := uint(cur - rootCount)
		cur = int(h.parentVec.Get(ord))
	}
	root := cur

	bv := h.materializeRoot(root)

	for k := len(buf.stack) - 1; k >= 0; k-- {
		s := buf.stack[k]
		ord := uint(s - rootCount)
		start := h.subsetStarts.Get(ord)
		end := h.subsetStarts.Get(ord + 1)
		scatter(bv, h.subsetContainer, uint(start), uint(end))
	}

	return bv.Positions(dst)
}

// materializeRoot builds the bitmap for root HCS index r, whether r is
// a dense or a sparse root.
func (h *HCS) materializeRoot(r int) *bitvec.Vector {
	if r < h.denseCount {
		start := h.denseStarts.Get(uint(r))
		end := h.denseStarts.Get(uint(r + 1))
		return bitvec.CopyRange(h.denseContainer, uint(start), uint(end-start))
	}

	ord := uint(r - h.denseCount)
	start := h.sparseStarts.Get(ord)
	end := h.sparseStarts.Get(ord + 1)

	var last uint64
	if end > start {
		last = h.sparseContainer.Get(uint(end - 1))
	}

	bv := bitvec.New(uint(last) + 1)
	for k := start; k < end; k++ {
		bv.Set(uint(h.sparseContainer.Get(uint(k))))
	}
	return bv
}

// scatter rewrites bv in place, word by word, so that its set bits
// narrow down from "every element of the current ancestor" to "every
// element selected by this chain link". selStart/selEnd delimit this
// link's selector bits in container, consumed in order across the
// whole rewrite (elemCursor in the spec's terms).
//
// For each word, the k-th set bit (by increasing position, found via
// a trailing-zeros scan against a shrinking mask) is kept set in the
// rewritten word iff the k-th selector bit read from container is 1.
// A word with zero set bits consumes no selector bits and becomes 0.
func scatter(bv *bitvec.Vector, container *bitvec.Vector, selStart, selEnd uint) {
	words := bv.Words()
	pos := selStart

	for wIdx := range words {
		orig := words[wIdx]
		cnt := bits.OnesCount64(orig)

		mask := ^uint64(0)
		var next uint64
		for b := 0; b < cnt; b++ {
			k := bits.TrailingZeros64(orig & mask)
			if container.Test(pos) {
				next |= 1 << uint(k)
			}
			pos++
			mask &^= 1 << uint(k)
		}
		words[wIdx] = next
	}

	if pos != selEnd {
		panic("hcs: scatter consumed a different number of selector bits than the subset stored")
	}
}

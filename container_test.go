package hcs

import (
	"errors"
	"testing"

	"github.com/cdbg/hcs/internal/bitvec"
	"github.com/cdbg/hcs/internal/packedvec"
)

func equalU32(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Singleton with a tie between dense and sparse cost: dense cost for
// {0} is 1 bit, sparse cost is BitsFor(0) = 1 bit too. Ties break
// toward dense.
func TestBuildSingletonTieBreaksDense(t *testing.T) {
	sets := [][]uint32{{0}}
	ancestor := []int{-1}

	h, mapping, stats, err := Build(sets, ancestor, packedvec.BitsFor(0))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if stats.DenseCount != 1 || stats.SparseCount != 0 || stats.SubsetCount != 0 {
		t.Fatalf("stats = %+v, want one dense root", stats)
	}
	if h.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", h.Size())
	}
	if got := h.Extract(mapping[0]); !equalU32(got, []uint32{0}) {
		t.Fatalf("Extract = %v, want [0]", got)
	}
}

// Dense-vs-sparse crossover: {0, 1000000} costs 1,000,001 dense bits
// vs 2*encWidth sparse bits, so the planner must choose sparse.
func TestBuildDenseVsSparseCrossover(t *testing.T) {
	sets := [][]uint32{{0, 1000000}}
	ancestor := []int{-1}
	encWidth := packedvec.BitsFor(1000000)

	h, mapping, stats, err := Build(sets, ancestor, encWidth)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if stats.SparseCount != 1 || stats.DenseCount != 0 {
		t.Fatalf("stats = %+v, want one sparse root", stats)
	}
	if got := h.Extract(mapping[0]); !equalU32(got, []uint32{0, 1000000}) {
		t.Fatalf("Extract = %v, want [0, 1000000]", got)
	}
}

// Two sets in a subset relation. Whichever encoding the planner
// actually picks for the smaller set, both extracts must round-trip.
func TestBuildTwoSetsSubsetRelation(t *testing.T) {
	sets := [][]uint32{
		{2, 5},
		{0, 2, 5, 9},
	}
	ancestor := []int{1, -1}
	encWidth := packedvec.BitsFor(9)

	h, mapping, _, err := Build(sets, ancestor, encWidth)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := h.Extract(mapping[0]); !equalU32(got, []uint32{2, 5}) {
		t.Fatalf("Extract(0) = %v, want [2, 5]", got)
	}
	if got := h.Extract(mapping[1]); !equalU32(got, []uint32{0, 2, 5, 9}) {
		t.Fatalf("Extract(1) = %v, want [0, 2, 5, 9]", got)
	}
}

// Subset chain of depth 2: A subset-of B subset-of C, where every
// set shares the large element 1000000 so the subset encoding beats
// both root forms for A and B regardless of the global enc_width.
func chainABC() (sets [][]uint32, ancestor []int, encWidth uint) {
	a := []uint32{1000000}
	b := []uint32{3, 1000000}
	c := []uint32{1, 3, 7, 1000000}
	return [][]uint32{a, b, c}, []int{1, 2, -1}, packedvec.BitsFor(1000000)
}

func TestBuildSubsetChainDepthTwo(t *testing.T) {
	sets, ancestor, encWidth := chainABC()

	h, mapping, stats, err := Build(sets, ancestor, encWidth)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if stats.SubsetCount != 2 {
		t.Fatalf("stats = %+v, want 2 subsets (A and B chained to C)", stats)
	}
	if stats.MaxChainLen != 2 {
		t.Fatalf("MaxChainLen = %d, want 2", stats.MaxChainLen)
	}

	if got := h.Extract(mapping[0]); !equalU32(got, []uint32{1000000}) {
		t.Fatalf("Extract(A) = %v, want [1000000]", got)
	}
	if got := h.Extract(mapping[1]); !equalU32(got, []uint32{3, 1000000}) {
		t.Fatalf("Extract(B) = %v, want [3, 1000000]", got)
	}
	if got := h.Extract(mapping[2]); !equalU32(got, []uint32{1, 3, 7, 1000000}) {
		t.Fatalf("Extract(C) = %v, want [1, 3, 7, 1000000]", got)
	}
}

func TestBuildAssignsValidMapping(t *testing.T) {
	sets, ancestor, encWidth := chainABC()
	h, mapping, _, err := Build(sets, ancestor, encWidth)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(mapping) != len(sets) {
		t.Fatalf("mapping has %d entries, want %d", len(mapping), len(sets))
	}
	seen := make(map[int]bool)
	for _, m := range mapping {
		if m < 0 || m >= h.Size() {
			t.Fatalf("mapping entry %d out of range [0,%d)", m, h.Size())
		}
		if seen[m] {
			t.Fatalf("mapping entry %d assigned twice", m)
		}
		seen[m] = true
	}
}

func TestWriteSelectorRejectsElementAbsentFromAncestor(t *testing.T) {
	dst := bitvec.New(4)
	ancestor := []uint32{0, 2, 5, 9}
	s := []uint32{2, 3} // 3 is absent from ancestor
	if err := writeSelector(dst, 0, ancestor, s); !errors.Is(err, ErrNonAscending) {
		t.Fatalf("writeSelector: got %v, want ErrNonAscending", err)
	}
}

// Package planner chooses, for each input set, the cheapest of three
// encodings: a dense bitmap root, a sparse integer-vector root, or a
// selector bitmap over an already-chosen ancestor.
package planner

// Class identifies how a set ends up stored in the HCS container.
type Class int

const (
	ClassDenseRoot Class = iota
	ClassSparseRoot
	ClassSubset
)

// Result is the per-set classification produced by Plan, together with
// the running totals needed to size the seven HCS containers.
type Result struct {
	Classes []Class

	// Ancestor is the caller's ancestor vector, rewritten in place:
	// any set demoted from subset to root has its entry set to -1.
	Ancestor []int

	DenseCount, SparseCount, SubsetCount int

	// DenseBits and SparseElems and SubsetBits are the running totals
	// needed to size dense_container, sparse_container and
	// subset_container respectively.
	DenseBits, SparseElems, SubsetBits uint64
}

// Plan computes the cheapest encoding for every set.
//
// sets[i] must be strictly ascending; ancestor[i] is either -1 or the
// index of a set that sets[i] is known to be a subset of (as produced
// by parentfinder, optionally passed through depthlimit). ancestor is
// modified in place when a subset is demoted to a root because its
// selector cost is not strictly cheaper than both root encodings.
//
// encWidth is the bit width used to store one element in the sparse
// encoding; ptrWidth is the bit width used to store one HCS index
// (the ancestor pointer) in the subset cost estimate.
func Plan(sets [][]uint32, ancestor []int, encWidth, ptrWidth uint) *Result {
	n := len(sets)
	p := &Result{
		Classes:  make([]Class, n),
		Ancestor: ancestor,
	}

	for i, s := range sets {
		dCost := denseCost(s)
		sCost := uint64(len(s)) * uint64(encWidth)

		a := ancestor[i]
		if a != -1 {
			subCost := uint64(len(sets[a])) + uint64(ptrWidth)
			if subCost < dCost && subCost < sCost {
				p.Classes[i] = ClassSubset
				p.SubsetCount++
				p.SubsetBits += uint64(len(sets[a]))
				continue
			}
			// not cheaper than either root form: demote.
			ancestor[i] = -1
		}

		// ties break toward dense: sparse must be strictly cheaper to win.
		if sCost < dCost {
			p.Classes[i] = ClassSparseRoot
			p.SparseCount++
			p.SparseElems += uint64(len(s))
		} else {
			p.Classes[i] = ClassDenseRoot
			p.DenseCount++
			p.DenseBits += dCost
		}
	}

	return p
}

// denseCost is the number of bits needed for a characteristic bitmap
// covering [0, max(s)]; the empty set costs 0 bits (no elements, no
// anchor bit required).
func denseCost(s []uint32) uint64 {
	if len(s) == 0 {
		return 0
	}
	return uint64(s[len(s)-1]) + 1
}

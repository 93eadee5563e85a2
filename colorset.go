package hcs

import "fmt"

// ColorSet is a strictly increasing sequence of 32-bit unsigned
// integers: one input color set of the colored de Bruijn graph (or
// any other domain's sorted integer set).
type ColorSet []uint32

// Validate reports a non-nil error if cs is not strictly ascending.
func (cs ColorSet) Validate() error {
	for i := 1; i < len(cs); i++ {
		if cs[i] <= cs[i-1] {
			return fmt.Errorf("%w: element %d (%d) does not exceed element %d (%d)",
				ErrNonAscending, i, cs[i], i-1, cs[i-1])
		}
	}
	return nil
}

// max returns the largest element of cs, or 0 if cs is empty.
func (cs ColorSet) max() uint32 {
	if len(cs) == 0 {
		return 0
	}
	return cs[len(cs)-1]
}

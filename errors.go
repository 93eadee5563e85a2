package hcs

import (
	"errors"
	"fmt"
)

// ErrNonAscending is returned when a color set is not strictly
// increasing. New detects this eagerly for every set via
// [ColorSet.Validate]; Build detects it only during the subset merge
// walk, so a non-ascending root set passed to Build is not reported.
var ErrNonAscending = errors.New("hcs: color set is not strictly ascending")

// ErrCorrupted is returned by Load when a serialized HCS fails its
// width/length/payload-size consistency checks.
var ErrCorrupted = errors.New("hcs: corrupted serialized container")

// extractPanic is used by Extract/ExtractInto to report an
// out-of-range index. It is a programmer error, not a recoverable
// condition: the caller asked for a set that was never constructed.
func extractPanic(i, size int) {
	panic(fmt.Sprintf("hcs: extract index %d out of range [0,%d)", i, size))
}

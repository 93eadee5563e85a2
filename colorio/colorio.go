// Package colorio reads and writes the binary record formats that
// color sets and parent arrays are exchanged in, and provides the
// ascending-cardinality sort pre-pass that parent discovery expects.
package colorio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/cdbg/hcs"
)

// ErrTruncatedRecord is returned when a record's declared size runs
// past the end of the stream.
var ErrTruncatedRecord = errors.New("colorio: truncated record")

// DecodeSets reads the color-set file format from r: a sequence of
// records, each a u32 little-endian cardinality k followed by k u32
// little-endian elements, until r is exhausted.
func DecodeSets(r io.Reader) ([]hcs.ColorSet, error) {
	br := bufio.NewReader(r)
	var sets []hcs.ColorSet
	var offset int64

	for {
		var k uint32
		if err := binary.Read(br, binary.LittleEndian, &k); err != nil {
			if errors.Is(err, io.EOF) {
				return sets, nil
			}
			return nil, fmt.Errorf("%w at offset %d: reading cardinality: %v", ErrTruncatedRecord, offset, err)
		}
		offset += 4

		s := make(hcs.ColorSet, k)
		for i := range s {
			if err := binary.Read(br, binary.LittleEndian, &s[i]); err != nil {
				return nil, fmt.Errorf("%w at offset %d: record declared %d elements, ran out after %d", ErrTruncatedRecord, offset, k, i)
			}
			offset += 4
		}
		sets = append(sets, s)
	}
}

// EncodeSets writes sets to w in the color-set file format.
func EncodeSets(w io.Writer, sets []hcs.ColorSet) error {
	bw := bufio.NewWriter(w)
	for _, s := range sets {
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(s))); err != nil {
			return err
		}
		for _, e := range s {
			if err := binary.Write(bw, binary.LittleEndian, e); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// DecodeParents reads a dense parent file: one i64 little-endian
// ancestor index per entry, -1 meaning no ancestor, until r is
// exhausted.
func DecodeParents(r io.Reader) ([]int, error) {
	br := bufio.NewReader(r)
	var out []int
	var offset int64

	for {
		var v int64
		if err := binary.Read(br, binary.LittleEndian, &v); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("%w at offset %d: reading ancestor entry: %v", ErrTruncatedRecord, offset, err)
		}
		offset += 8
		out = append(out, int(v))
	}
}

// EncodeParents writes ancestor as a dense parent file.
func EncodeParents(w io.Writer, ancestor []int) error {
	bw := bufio.NewWriter(w)
	for _, a := range ancestor {
		if err := binary.Write(bw, binary.LittleEndian, int64(a)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Sort returns sets reordered by ascending cardinality (stable, so
// sets of equal size keep their relative order) together with a
// permutation such that perm[originalIndex] = sortedIndex. Parent
// discovery only ever looks forward from an index, so this ordering
// places every strictly larger candidate ancestor of a set after it.
func Sort(sets []hcs.ColorSet) (sorted []hcs.ColorSet, perm []int) {
	n := len(sets)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return len(sets[order[a]]) < len(sets[order[b]])
	})

	sorted = make([]hcs.ColorSet, n)
	perm = make([]int, n)
	for sortedIdx, origIdx := range order {
		sorted[sortedIdx] = sets[origIdx]
		perm[origIdx] = sortedIdx
	}
	return sorted, perm
}

// Package packedvec implements a fixed-width packed unsigned integer
// vector: a sequence of N integers, each using exactly W bits (1..64),
// stored back to back across a contiguous stream of 64-bit words.
//
// It generalizes the same word-indexing arithmetic used by
// [internal/bitvec] from a fixed width of 1 to an arbitrary width,
// so sparse_container, the three *_starts vectors, and parent_vec all
// share one implementation.
package packedvec

const (
	wordSize     = 64
	log2WordSize = 6
)

// Vector is a packed array of length-many W-bit unsigned integers.
type Vector struct {
	words  []uint64
	length uint
	width  uint
}

// New allocates a Vector holding length elements of width bits each,
// all zero. width must be in [1,64].
func New(length, width uint) *Vector {
	if width < 1 || width > 64 {
		panic("packedvec: width out of range [1,64]")
	}
	nbits := length * width
	return &Vector{
		words:  make([]uint64, (nbits+wordSize-1)>>log2WordSize),
		length: length,
		width:  width,
	}
}

// FromWords wraps an existing word slice produced by a matching New
// call (or a deserializer) as a Vector.
func FromWords(words []uint64, length, width uint) *Vector {
	return &Vector{words: words, length: length, width: width}
}

// Len returns the number of packed elements.
func (v *Vector) Len() uint { return v.length }

// Width returns the bit width of each element.
func (v *Vector) Width() uint { return v.width }

// Words exposes the raw backing words, e.g. for serialization.
func (v *Vector) Words() []uint64 { return v.words }

// Get returns the i-th element.
func (v *Vector) Get(i uint) uint64 {
	off := i * v.width
	wordIdx := off >> log2WordSize
	bitIdx := off & (wordSize - 1)

	lo := v.words[wordIdx] >> bitIdx
	if bitIdx+v.width <= wordSize {
		return maskLow(lo, v.width)
	}
	hi := v.words[wordIdx+1] << (wordSize - bitIdx)
	return maskLow(lo|hi, v.width)
}

// Set stores val (truncated to width bits) as the i-th element.
func (v *Vector) Set(i uint, val uint64) {
	val = maskLow(val, v.width)
	off := i * v.width
	wordIdx := off >> log2WordSize
	bitIdx := off & (wordSize - 1)

	v.words[wordIdx] &^= maskLow(^uint64(0), v.width) << bitIdx
	v.words[wordIdx] |= val << bitIdx

	if bitIdx+v.width > wordSize {
		spill := bitIdx + v.width - wordSize
		v.words[wordIdx+1] &^= maskLow(^uint64(0), spill)
		v.words[wordIdx+1] |= val >> (wordSize - bitIdx)
	}
}

func maskLow(x uint64, width uint) uint64 {
	if width >= wordSize {
		return x
	}
	return x & (1<<width - 1)
}

// BitsFor returns the minimum bit width needed to represent the
// unsigned value n (0 representable in 1 bit), i.e. ceil(log2(n+1))
// clamped to a minimum of 1.
func BitsFor(n uint64) uint {
	width := uint(0)
	for v := n; v != 0; v >>= 1 {
		width++
	}
	if width == 0 {
		width = 1
	}
	return width
}

package hcs

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cdbg/hcs/internal/bitvec"
	"github.com/cdbg/hcs/internal/packedvec"
)

// Serialize writes the seven HCS containers to w as a plain
// concatenation: dense_container, dense_starts, sparse_container,
// sparse_starts, subset_container, subset_starts, parent_vec. Each
// container is written as (u64 length, u64 width, payload words),
// little-endian throughout. This is the whole persisted format; there
// is no header and no trailer.
func (h *HCS) Serialize(w io.Writer) error {
	bw := bufio.NewWriter(w)

	writers := []func() error{
		func() error { return writeBitvec(bw, h.denseContainer) },
		func() error { return writePacked(bw, h.denseStarts) },
		func() error { return writePacked(bw, h.sparseContainer) },
		func() error { return writePacked(bw, h.sparseStarts) },
		func() error { return writeBitvec(bw, h.subsetContainer) },
		func() error { return writePacked(bw, h.subsetStarts) },
		func() error { return writePacked(bw, h.parentVec) },
	}
	for _, fn := range writers {
		if err := fn(); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeHeader(w io.Writer, length, width uint64) error {
	var hdr [16]byte
	binary.LittleEndian.PutUint64(hdr[0:8], length)
	binary.LittleEndian.PutUint64(hdr[8:16], width)
	_, err := w.Write(hdr[:])
	return err
}

func writeWords(w io.Writer, words []uint64) error {
	buf := make([]byte, 8*len(words))
	for i, word := range words {
		binary.LittleEndian.PutUint64(buf[i*8:], word)
	}
	_, err := w.Write(buf)
	return err
}

func writeBitvec(w io.Writer, v *bitvec.Vector) error {
	if err := writeHeader(w, uint64(v.Len()), 1); err != nil {
		return err
	}
	return writeWords(w, v.Words())
}

func writePacked(w io.Writer, v *packedvec.Vector) error {
	if err := writeHeader(w, uint64(v.Len()), uint64(v.Width())); err != nil {
		return err
	}
	return writeWords(w, v.Words())
}

// Load reads a serialized HCS back from r, reconstructing all seven
// containers and the root/subset counts implied by their lengths.
// Load returns ErrCorrupted, wrapped with detail, if any container's
// header is inconsistent with the bytes actually available.
func Load(r io.Reader) (*HCS, error) {
	br := bufio.NewReader(r)

	denseContainer, err := readBitvec(br)
	if err != nil {
		return nil, fmt.Errorf("dense_container: %w", err)
	}
	denseStarts, err := readPacked(br)
	if err != nil {
		return nil, fmt.Errorf("dense_starts: %w", err)
	}
	sparseContainer, err := readPacked(br)
	if err != nil {
		return nil, fmt.Errorf("sparse_container: %w", err)
	}
	sparseStarts, err := readPacked(br)
	if err != nil {
		return nil, fmt.Errorf("sparse_starts: %w", err)
	}
	subsetContainer, err := readBitvec(br)
	if err != nil {
		return nil, fmt.Errorf("subset_container: %w", err)
	}
	subsetStarts, err := readPacked(br)
	if err != nil {
		return nil, fmt.Errorf("subset_starts: %w", err)
	}
	parentVec, err := readPacked(br)
	if err != nil {
		return nil, fmt.Errorf("parent_vec: %w", err)
	}

	if denseStarts.Len() == 0 || sparseStarts.Len() == 0 || subsetStarts.Len() == 0 {
		return nil, fmt.Errorf("%w: a *_starts vector has zero length, want at least 1", ErrCorrupted)
	}

	h := &HCS{
		encWidth:        sparseContainer.Width(),
		denseCount:      int(denseStarts.Len() - 1),
		sparseCount:     int(sparseStarts.Len() - 1),
		subsetCount:     int(subsetStarts.Len() - 1),
		denseContainer:  denseContainer,
		denseStarts:     denseStarts,
		sparseContainer: sparseContainer,
		sparseStarts:    sparseStarts,
		subsetContainer: subsetContainer,
		subsetStarts:    subsetStarts,
		parentVec:       parentVec,
	}
	return h, nil
}

func readHeader(r io.Reader) (length, width uint64, err error) {
	var hdr [16]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, 0, fmt.Errorf("%w: reading header: %v", ErrCorrupted, err)
	}
	return binary.LittleEndian.Uint64(hdr[0:8]), binary.LittleEndian.Uint64(hdr[8:16]), nil
}

func readWords(r io.Reader, nwords uint64) ([]uint64, error) {
	buf := make([]byte, 8*nwords)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: reading payload: %v", ErrCorrupted, err)
	}
	words := make([]uint64, nwords)
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(buf[i*8:])
	}
	return words, nil
}

func readBitvec(r io.Reader) (*bitvec.Vector, error) {
	length, width, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if width != 1 {
		return nil, fmt.Errorf("%w: bitvector width = %d, want 1", ErrCorrupted, width)
	}
	nwords := (length + 63) / 64
	words, err := readWords(r, nwords)
	if err != nil {
		return nil, err
	}
	return bitvec.FromWords(words, uint(length)), nil
}

func readPacked(r io.Reader) (*packedvec.Vector, error) {
	length, width, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if width < 1 || width > 64 {
		return nil, fmt.Errorf("%w: packed vector width = %d, want [1,64]", ErrCorrupted, width)
	}
	nwords := (length*width + 63) / 64
	words, err := readWords(r, nwords)
	if err != nil {
		return nil, err
	}
	return packedvec.FromWords(words, uint(length), uint(width)), nil
}

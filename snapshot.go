package hcs

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// encoderPool and decoderPool amortize zstd's construction cost across
// repeated snapshot writes/reads, the same pooling idiom used
// elsewhere in this package for Extract's scratch buffers.
var (
	encoderPool = sync.Pool{
		New: func() any {
			enc, err := zstd.NewWriter(nil)
			if err != nil {
				panic(err)
			}
			return enc
		},
	}
	decoderPool = sync.Pool{
		New: func() any {
			dec, err := zstd.NewReader(nil)
			if err != nil {
				panic(err)
			}
			return dec
		},
	}
)

// WriteSnapshot serializes h exactly as Serialize does, then wraps the
// result in a single zstd frame. This is an optional, additive
// persistence form; the plain Serialize/Load pair remains the
// baseline on-disk layout.
func (h *HCS) WriteSnapshot(w io.Writer) error {
	var raw bytes.Buffer
	if err := h.Serialize(&raw); err != nil {
		return err
	}

	enc := encoderPool.Get().(*zstd.Encoder)
	defer encoderPool.Put(enc)
	enc.Reset(w)

	if _, err := enc.Write(raw.Bytes()); err != nil {
		return err
	}
	return enc.Close()
}

// ReadSnapshot reads back an HCS written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*HCS, error) {
	dec := decoderPool.Get().(*zstd.Decoder)
	defer decoderPool.Put(dec)
	if err := dec.Reset(r); err != nil {
		return nil, err
	}
	return Load(dec.IOReadCloser())
}

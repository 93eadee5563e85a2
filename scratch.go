package hcs

import (
	"sync"
	"sync/atomic"
)

// scratchBuf holds the per-call traversal stack reused by
// ExtractPooled. It must never be shared across
// concurrent calls; the pool hands out exclusive ownership for the
// duration of one Extract and nothing else touches it meanwhile.
type scratchBuf struct {
	stack []int
}

func (s *scratchBuf) reset() {
	s.stack = s.stack[:0]
}

// scratchPool is a type-safe wrapper around sync.Pool specialized for
// scratchBuf, mirroring the node-pool pattern used elsewhere for
// reusing short-lived allocations under concurrent load: it tracks
// how many buffers are live for debugging and sizing the pool's
// steady-state footprint.
type scratchPool struct {
	sync.Pool

	totalAllocated atomic.Int64
	currentLive    atomic.Int64
}

func newScratchPool() *scratchPool {
	p := &scratchPool{}
	p.New = func() any {
		p.totalAllocated.Add(1)
		return &scratchBuf{stack: make([]int, 0, 8)}
	}
	return p
}

func (p *scratchPool) get() *scratchBuf {
	p.currentLive.Add(1)
	return p.Pool.Get().(*scratchBuf)
}

func (p *scratchPool) put(b *scratchBuf) {
	p.currentLive.Add(-1)
	b.reset()
	p.Pool.Put(b)
}

// stats reports how many scratch buffers are currently checked out
// and how many have ever been allocated.
func (p *scratchPool) stats() (live, total int64) {
	return p.currentLive.Load(), p.totalAllocated.Load()
}

// ScratchStats reports the live/total scratch buffer counts for h's
// ExtractPooled pool, for diagnostics; it is (0,0) until the first
// ExtractPooled call on a subset index lazily creates the pool.
func (h *HCS) ScratchStats() (live, total int64) {
	if h.scratch == nil {
		return 0, 0
	}
	return h.scratch.stats()
}

// ExtractPooled behaves exactly like ExtractInto but draws its
// traversal stack from a per-HCS sync.Pool instead of allocating one
// per call. Safe for concurrent use across many callers; prefer it
// over ExtractInto in a tight loop (e.g. a benchmark) that issues
// many subset extracts.
func (h *HCS) ExtractPooled(dst []uint32, i int) []uint32 {
	size := h.Size()
	if i < 0 || i >= size {
		extractPanic(i, size)
	}
	if i < h.rootCount() {
		return h.ExtractInto(dst, i)
	}

	h.initScratchOnce()

	buf := h.scratch.get()
	defer h.scratch.put(buf)

	return h.extractSubsetWith(dst, i, buf)
}

package gfx

// Snapshot pool for the black-and-white framebuffer contents across a
// multi-pass grayscale display cycle. The pool is package-lifetime and
// intentionally never released: on the device, freeing and reacquiring
// a buffer of this size every cycle fragments the constrained heap, so
// the memory is acquired once and kept. A restore only marks the
// snapshot invalid.

const poolChunks = 4

// poolAlloc is the allocator used for the snapshot pool. It is a
// variable so tests can exercise the chunked fallback and the
// all-or-nothing failure path; nil means the allocation failed.
var poolAlloc = func(size int) []byte {
	return make([]byte, size)
}

type bwPool struct {
	chunks [][]byte
	size   int
	valid  bool
}

// sharedPool is lazily initialized on the first store and kept for the
// life of the process.
var sharedPool *bwPool

// newBWPool carves the pool out of one contiguous allocation, falling
// back to independently allocated chunks. On partial failure nothing is
// kept; the pool is never left half-initialized.
func newBWPool(size int) *bwPool {
	chunkSize := (size + poolChunks - 1) / poolChunks

	if buf := poolAlloc(size); buf != nil {
		p := &bwPool{size: size}
		for off := 0; off < size; off += chunkSize {
			end := off + chunkSize
			if end > size {
				end = size
			}
			p.chunks = append(p.chunks, buf[off:end])
		}
		return p
	}

	Logger().Warn("gfx: contiguous snapshot pool unavailable, trying chunks",
		"size", size, "chunkSize", chunkSize)

	p := &bwPool{size: size}
	for off := 0; off < size; off += chunkSize {
		end := off + chunkSize
		if end > size {
			end = size
		}
		c := poolAlloc(end - off)
		if c == nil {
			Logger().Warn("gfx: failed to allocate snapshot chunk", "offset", off)
			return nil
		}
		p.chunks = append(p.chunks, c)
	}
	return p
}

// StoreBWBuffer snapshots the framebuffer into the snapshot pool,
// allocating it on first use. Without a framebuffer or pool memory the
// call is a logged no-op and no later restore will run.
func (r *Renderer) StoreBWBuffer() {
	fb := r.panel.FrameBuffer()
	if fb == nil {
		Logger().Warn("gfx: no framebuffer to store")
		return
	}

	if sharedPool == nil || sharedPool.size != len(fb) {
		p := newBWPool(len(fb))
		if p == nil {
			Logger().Warn("gfx: failed to allocate snapshot pool")
			return
		}
		sharedPool = p
	}

	off := 0
	for _, c := range sharedPool.chunks {
		copy(c, fb[off:off+len(c)])
		off += len(c)
	}
	sharedPool.valid = true
}

// RestoreBWBuffer copies the snapshot back into the framebuffer and
// lets the panel clean up its grayscale buffers. Without a valid,
// unconsumed snapshot it does nothing; a restore consumes the
// snapshot but keeps the pool memory.
func (r *Renderer) RestoreBWBuffer() {
	if sharedPool == nil || !sharedPool.valid {
		return
	}

	fb := r.panel.FrameBuffer()
	if fb == nil {
		Logger().Warn("gfx: no framebuffer to restore into")
		return
	}

	off := 0
	for _, c := range sharedPool.chunks {
		copy(fb[off:off+len(c)], c)
		off += len(c)
	}

	r.panel.CleanupGrayscale(fb)
	sharedPool.valid = false
}

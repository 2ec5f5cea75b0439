package alloc

import "github.com/joshuapare/heapkit/internal/format"

// findFit returns the first free block of at least asize bytes, scanning
// classes upward from classOf(asize) and each list in LIFO order.
func (a *Allocator) findFit(asize int) block {
	for c := classOf(asize); c < NumClasses; c++ {
		for b := a.idx.head(c); b != noBlock; b = a.v.free(b).next() {
			if a.v.size(b) >= asize {
				return b
			}
		}
	}
	return noBlock
}

// place allocates asize bytes at the start of free block b, splitting off
// the tail as a new free block when it can stand on its own.
func (a *Allocator) place(b block, asize int) {
	v := a.v
	csize := v.size(b)
	a.idx.remove(b)

	// The block before a free block is always allocated, so prevAlloc is true.
	if csize-asize >= format.MinBlockSize {
		v.writeHeader(b, asize, true, true)

		rest := v.next(b)
		v.writeHeader(rest, csize-asize, false, true)
		v.writeFooter(rest, csize-asize, false)
		a.idx.insert(rest)

		v.setPrevAlloc(v.next(rest), false)
		a.stats.Splits++
		return
	}

	v.writeHeader(b, csize, true, true)
	v.setPrevAlloc(v.next(b), true)
}

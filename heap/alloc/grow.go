package alloc

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/joshuapare/heapkit/internal/format"
)

// extend grows the region by n bytes (a multiple of 16), turns the new
// space into one free block starting where the old epilogue was, writes a
// new epilogue after it and coalesces. Returns the resulting free block.
//
// On failure the heap is left exactly as it was.
func (a *Allocator) extend(n int) (block, error) {
	if a.onGrow != nil {
		a.onGrow(n)
	}

	oldLen := len(a.r.Bytes())
	b := block(oldLen - format.WordSize) // old epilogue
	prevAlloc := a.v.isPrevAlloc(b)

	if err := a.r.Append(int64(n)); err != nil {
		a.log.Debug("extend failed",
			zap.Int("bytes", n),
			zap.Int("heapSize", oldLen),
			zap.Error(err))
		return noBlock, errors.Mark(errors.Wrapf(err, "alloc: extend heap by %d bytes", n), ErrNoSpace)
	}
	if got := len(a.r.Bytes()); got != oldLen+n {
		return noBlock, errors.Wrapf(ErrGrowFail, "region grew to %d bytes, want %d", got, oldLen+n)
	}

	a.stats.GrowCalls++
	a.stats.GrowBytes += int64(n)

	a.v.writeHeader(b, n, false, prevAlloc)
	a.v.writeFooter(b, n, false)
	a.v.writeHeader(a.v.next(b), 0, true, false)

	a.log.Debug("extend heap",
		zap.Int("bytes", n),
		zap.Int("heapSize", oldLen+n),
		zap.Int("growCalls", a.stats.GrowCalls))

	return a.coalesce(b), nil
}

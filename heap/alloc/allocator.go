package alloc

import (
	"math"
	"math/bits"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/internal/format"
)

// Ptr is the region offset of a payload, as handed to callers. Payload
// offsets are 16-aligned relative to the start of the region.
type Ptr int

// Nil is the null payload pointer.
const Nil Ptr = 0

// prologue is the offset of the prologue tag.
const prologue block = 0

// maxRequest is the largest request whose adjusted size still fits in a tag.
const maxRequest = format.MaxBlockSize - format.DoubleWordSize

// Allocator manages one region as a heap of boundary-tagged blocks with
// segregated free lists.
//
// NOT thread-safe. Callers needing concurrent access must serialize every
// call on the same Allocator.
type Allocator struct {
	r   heap.Region
	v   view
	idx freeIndex
	dt  dirty.DirtyTracker
	log *zap.Logger

	chunkSize int
	ready     bool

	stats Counters

	// Test hook: called before each growth with the requested byte count.
	onGrow func(int)
}

// New returns an allocator over r. Call Init before anything else.
func New(r heap.Region, opts ...Option) *Allocator {
	a := &Allocator{
		r:         r,
		chunkSize: format.ChunkSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = defaultLogger()
	}
	a.v = view{r: r, dt: a.dt}
	a.idx = freeIndex{v: a.v}
	return a
}

// Init resets the region, writes the prologue and epilogue, clears every
// free list and grows the heap by one chunk. Calling Init again discards
// the whole heap.
func (a *Allocator) Init() error {
	a.ready = false
	a.idx.reset()
	a.stats = Counters{}

	if err := a.r.Reset(); err != nil {
		return errors.Wrap(err, "alloc: reset region")
	}
	if err := a.r.Append(format.SentinelSize); err != nil {
		return errors.Mark(errors.Wrap(err, "alloc: write sentinels"), ErrNoSpace)
	}
	a.v.writeHeader(prologue, 0, true, true)
	a.v.writeHeader(firstBlock, 0, true, true)

	if _, err := a.extend(a.chunkSize); err != nil {
		return err
	}
	a.ready = true
	a.log.Debug("init", zap.Int("heapSize", a.HeapSize()), zap.Int("chunkSize", a.chunkSize))
	return nil
}

// Malloc returns a 16-aligned payload of at least size bytes. A zero size
// returns Nil without error. Fails with ErrNoSpace when the region cannot
// grow enough; the heap is unchanged in that case.
func (a *Allocator) Malloc(size int) (Ptr, error) {
	if !a.ready {
		return Nil, ErrNotInitialized
	}
	a.stats.MallocCalls++

	switch {
	case size == 0:
		return Nil, nil
	case size < 0:
		return Nil, errors.Wrapf(ErrBadSize, "malloc(%d)", size)
	case size > maxRequest:
		return Nil, errors.Wrapf(ErrNoSpace, "malloc(%d): request too large", size)
	}

	asize := format.AdjustedSize(size)
	b := a.findFit(asize)
	if b == noBlock {
		a.stats.FitMisses++
		var err error
		if b, err = a.extend(max(asize, a.chunkSize)); err != nil {
			return Nil, errors.Wrapf(err, "malloc(%d)", size)
		}
	} else {
		a.stats.FitHits++
	}
	a.place(b, asize)

	p := a.v.payload(b)
	if ce := a.log.Check(zap.DebugLevel, "malloc"); ce != nil {
		ce.Write(zap.Int("size", size), zap.Int("asize", asize), zap.Int("ptr", int(p)))
	}
	return p, nil
}

// Free releases a payload returned by Malloc, Realloc or Calloc. Free(Nil)
// is a no-op. Freeing anything else, or freeing twice, corrupts the heap.
func (a *Allocator) Free(p Ptr) {
	if p == Nil || !a.ready {
		return
	}
	a.stats.FreeCalls++

	b := a.v.fromPayload(p)
	if ce := a.log.Check(zap.DebugLevel, "free"); ce != nil {
		ce.Write(zap.Int("ptr", int(p)), zap.Int("size", a.v.size(b)))
	}
	a.coalesce(b)
}

// Realloc moves a payload to a block of at least size bytes, preserving
// the first min(size, old payload size) bytes. Realloc(Nil, n) is
// Malloc(n); Realloc(p, 0) frees p and returns Nil. If the new block
// cannot be allocated, p is left untouched and the error is returned.
func (a *Allocator) Realloc(p Ptr, size int) (Ptr, error) {
	if !a.ready {
		return Nil, ErrNotInitialized
	}
	a.stats.ReallocCalls++

	if size == 0 {
		a.Free(p)
		return Nil, nil
	}
	if p == Nil {
		return a.Malloc(size)
	}

	n := min(size, a.v.payloadSize(a.v.fromPayload(p)))
	np, err := a.Malloc(size)
	if err != nil {
		return Nil, errors.Wrapf(err, "realloc(%d, %d)", p, size)
	}

	// Malloc may have moved the region.
	data := a.r.Bytes()
	copy(data[np:int(np)+n], data[p:int(p)+n])
	a.Free(p)
	return np, nil
}

// Calloc allocates count*size bytes and zeroes them. Fails with ErrOverflow
// before touching the heap if the product does not fit in an int.
func (a *Allocator) Calloc(count, size int) (Ptr, error) {
	if !a.ready {
		return Nil, ErrNotInitialized
	}
	a.stats.CallocCalls++

	if count < 0 || size < 0 {
		return Nil, errors.Wrapf(ErrBadSize, "calloc(%d, %d)", count, size)
	}
	hi, total := bits.Mul64(uint64(count), uint64(size))
	if hi != 0 || total > math.MaxInt {
		return Nil, errors.Wrapf(ErrOverflow, "calloc(%d, %d)", count, size)
	}

	p, err := a.Malloc(int(total))
	if err != nil || p == Nil {
		return p, err
	}
	clear(a.r.Bytes()[p : int(p)+int(total)])
	return p, nil
}

// Payload returns the caller-owned bytes of an allocated block. The slice
// is only valid until the next call that may grow the heap.
func (a *Allocator) Payload(p Ptr) []byte {
	if p == Nil || !a.ready {
		return nil
	}
	end := int(p) + a.PayloadSize(p)
	return a.r.Bytes()[p:end:end]
}

// PayloadSize returns the usable size of the block holding p, which may
// exceed the size originally requested.
func (a *Allocator) PayloadSize(p Ptr) int {
	if p == Nil || !a.ready {
		return 0
	}
	return a.v.payloadSize(a.v.fromPayload(p))
}

// HeapSize returns the number of bytes the heap currently spans, sentinels
// included.
func (a *Allocator) HeapSize() int {
	return len(a.r.Bytes())
}

// Initialized reports whether Init has completed successfully.
func (a *Allocator) Initialized() bool { return a.ready }

package driver

import (
	"context"
	"math/rand"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spaolacci/murmur3"
	"go.uber.org/zap"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/trace"
)

// Replay initializes a and runs t against it. The first failing op stops
// the replay; the error names the op and wraps the cause.
func Replay(ctx context.Context, a *alloc.Allocator, t *trace.Trace, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if err := a.Init(); err != nil {
		return nil, errors.Wrap(err, "driver: init")
	}

	r := newReplayer(a, t.NumIDs, opts)
	start := time.Now()
	for i, op := range t.Ops {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.apply(op); err != nil {
			return nil, errors.Wrapf(err, "%s op %d (%s id %d)", t.Name, i, op.Kind, op.ID)
		}
		if opts.CheckHeap {
			if err := a.Validate(); err != nil {
				return nil, errors.Mark(errors.Wrapf(err, "%s after op %d (%s id %d)", t.Name, i, op.Kind, op.ID), ErrHeapCheck)
			}
		}
	}

	res := &Result{
		Name:     t.Name,
		Ops:      len(t.Ops),
		PeakLive: r.peak,
		HeapSize: a.HeapSize(),
		Elapsed:  time.Since(start),
		Stats:    a.Stats(),
	}
	if res.HeapSize > 0 {
		res.Utilization = float64(res.PeakLive) / float64(res.HeapSize)
	}
	log.Debug("replay done",
		zap.String("trace", t.Name),
		zap.Int("ops", res.Ops),
		zap.Int("peakLive", res.PeakLive),
		zap.Int("heapSize", res.HeapSize),
		zap.Float64("utilization", res.Utilization),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

// liveBlock is what the replayer remembers about a live id.
type liveBlock struct {
	p    alloc.Ptr
	size int
	sum  uint64
}

// span is a live payload [start, end) owned by id.
type span struct {
	start, end int
	id         int
}

type replayer struct {
	a      *alloc.Allocator
	verify bool
	rng    *rand.Rand

	live      map[int]liveBlock
	spans     []span // sorted by start
	liveBytes int
	peak      int
}

func newReplayer(a *alloc.Allocator, numIDs int, opts Options) *replayer {
	return &replayer{
		a:      a,
		verify: opts.Verify,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		live:   make(map[int]liveBlock, numIDs),
	}
}

func (r *replayer) apply(op trace.Op) error {
	switch op.Kind {
	case trace.Alloc, trace.Calloc:
		return r.allocate(op)
	case trace.Realloc:
		return r.resize(op)
	case trace.Free:
		return r.release(op)
	default:
		return errors.Newf("driver: unknown op kind %q", byte(op.Kind))
	}
}

func (r *replayer) allocate(op trace.Op) error {
	if _, ok := r.live[op.ID]; ok {
		return ErrDuplicateID
	}

	var (
		p   alloc.Ptr
		err error
	)
	if op.Kind == trace.Calloc {
		p, err = r.a.Calloc(op.Count, op.Size)
	} else {
		p, err = r.a.Malloc(op.Size)
	}
	if err != nil {
		return err
	}

	size := op.Bytes()
	if r.verify {
		if err := r.claim(op.ID, p, size); err != nil {
			return err
		}
		if op.Kind == trace.Calloc {
			if i := firstNonZero(r.payload(p, size)); i >= 0 {
				return errors.Mark(errors.Newf("driver: calloc byte %d is %#x, want 0", i, r.payload(p, size)[i]), ErrPayloadCorrupt)
			}
		}
	}
	lb := liveBlock{p: p, size: size}
	if r.verify {
		lb.sum = r.fill(p, 0, size)
	}
	r.live[op.ID] = lb
	r.account(size)
	return nil
}

func (r *replayer) resize(op trace.Op) error {
	old, ok := r.live[op.ID]
	if !ok {
		return ErrUnknownID
	}

	keep := min(old.size, op.Size)
	var prefixSum uint64
	if r.verify {
		if err := r.checkSum(old); err != nil {
			return err
		}
		prefixSum = murmur3.Sum64(r.payload(old.p, keep))
	}

	p, err := r.a.Realloc(old.p, op.Size)
	if err != nil {
		return err
	}

	lb := liveBlock{p: p, size: op.Size}
	if r.verify {
		r.unclaim(old.p)
		if err := r.claim(op.ID, p, op.Size); err != nil {
			return err
		}
		if got := murmur3.Sum64(r.payload(p, keep)); got != prefixSum {
			return errors.Mark(errors.Newf("driver: resize from %d to %d bytes lost the first %d bytes", old.size, op.Size, keep), ErrPayloadCorrupt)
		}
		lb.sum = r.fill(p, keep, op.Size)
	}
	r.live[op.ID] = lb
	r.account(op.Size - old.size)
	return nil
}

func (r *replayer) release(op trace.Op) error {
	lb, ok := r.live[op.ID]
	if !ok {
		return ErrUnknownID
	}
	if r.verify {
		if err := r.checkSum(lb); err != nil {
			return err
		}
		r.unclaim(lb.p)
	}
	r.a.Free(lb.p)
	delete(r.live, op.ID)
	r.account(-lb.size)
	return nil
}

func (r *replayer) account(delta int) {
	r.liveBytes += delta
	r.peak = max(r.peak, r.liveBytes)
}

func (r *replayer) payload(p alloc.Ptr, n int) []byte {
	if p == alloc.Nil || n == 0 {
		return nil
	}
	return r.a.Payload(p)[:n]
}

// fill writes fresh pattern bytes to payload[from:to] and returns the
// checksum of the whole payload.
func (r *replayer) fill(p alloc.Ptr, from, to int) uint64 {
	buf := r.payload(p, to)
	if from < to {
		r.rng.Read(buf[from:])
	}
	return murmur3.Sum64(buf)
}

func (r *replayer) checkSum(lb liveBlock) error {
	if got := murmur3.Sum64(r.payload(lb.p, lb.size)); got != lb.sum {
		return errors.Mark(errors.Newf("driver: %d-byte payload at %d changed while live", lb.size, lb.p), ErrPayloadCorrupt)
	}
	return nil
}

// claim records p as live and checks it for alignment and overlap.
func (r *replayer) claim(id int, p alloc.Ptr, size int) error {
	if p == alloc.Nil {
		return nil
	}
	if !format.IsAligned16(int(p)) {
		return errors.Mark(errors.Newf("driver: payload at %d is not 16-byte aligned", p), ErrMisaligned)
	}
	s := span{start: int(p), end: int(p) + size, id: id}
	i, _ := slices.BinarySearchFunc(r.spans, s.start, func(e span, t int) int { return e.start - t })
	if i > 0 && r.spans[i-1].end > s.start {
		prev := r.spans[i-1]
		return errors.Mark(errors.Newf("driver: payload [%d,%d) overlaps id %d at [%d,%d)", s.start, s.end, prev.id, prev.start, prev.end), ErrOverlap)
	}
	if i < len(r.spans) && r.spans[i].start < s.end {
		next := r.spans[i]
		return errors.Mark(errors.Newf("driver: payload [%d,%d) overlaps id %d at [%d,%d)", s.start, s.end, next.id, next.start, next.end), ErrOverlap)
	}
	r.spans = slices.Insert(r.spans, i, s)
	return nil
}

func (r *replayer) unclaim(p alloc.Ptr) {
	if p == alloc.Nil {
		return
	}
	i, found := slices.BinarySearchFunc(r.spans, int(p), func(e span, t int) int { return e.start - t })
	if found {
		r.spans = slices.Delete(r.spans, i, i+1)
	}
}

func firstNonZero(b []byte) int {
	for i, c := range b {
		if c != 0 {
			return i
		}
	}
	return -1
}

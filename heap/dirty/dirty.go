package dirty

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/joshuapare/heapkit/heap"
)

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
	defaultRangeCapacity = 64

	// standardPageSize is the typical OS page size (4KB).
	standardPageSize = 4096
)

// Range represents a dirty byte range (region offsets).
type Range struct {
	Off int64
	Len int64
}

// End returns the offset one past the range.
func (r Range) End() int64 { return r.Off + r.Len }

// Tracker accumulates dirty ranges and flushes them efficiently.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	r        heap.Region
	ranges   []Range
	pageSize int64
}

// NewTracker creates a dirty tracker for the given region.
func NewTracker(r heap.Region) *Tracker {
	return &Tracker{
		r:        r,
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: standardPageSize,
	}
}

// Add records a dirty range. It only appends; page alignment and merging
// happen at flush time.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	// Allocator writes are mostly single words at increasing offsets;
	// extend the previous range when they touch.
	if n := len(t.ranges); n > 0 {
		last := &t.ranges[n-1]
		if int64(off) >= last.Off && int64(off) <= last.End() {
			if end := int64(off + length); end > last.End() {
				last.Len = end - last.Off
			}
			return
		}
	}
	t.ranges = append(t.ranges, Range{Off: int64(off), Len: int64(length)})
}

// Flush syncs every dirty page through the region and clears the ranges.
//
// The context can be used to cancel the flush. If cancelled part way, the
// ranges are kept so a later Flush retries all of them.
func (t *Tracker) Flush(ctx context.Context) error {
	if len(t.ranges) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s, ok := t.r.(heap.Syncer)
	if !ok {
		t.Reset()
		return nil
	}

	size := int64(len(t.r.Bytes()))
	for _, rg := range t.coalesce() {
		if err := ctx.Err(); err != nil {
			return err
		}
		// Ranges past the end belong to a heap that was reset since.
		if rg.Off >= size {
			continue
		}
		n := min(rg.End(), size) - rg.Off
		if err := s.Sync(int(rg.Off), int(n)); err != nil {
			return errors.Wrapf(err, "dirty: sync [%d, %d)", rg.Off, rg.Off+n)
		}
	}
	t.Reset()
	return nil
}

// Reset clears all tracked ranges.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// Len returns the number of raw ranges recorded since the last flush.
func (t *Tracker) Len() int { return len(t.ranges) }

// DebugRanges returns a copy of the raw, uncoalesced ranges.
func (t *Tracker) DebugRanges() []Range {
	return slices.Clone(t.ranges)
}

// DebugCoalescedRanges returns the page-aligned, sorted, merged ranges
// that Flush would sync.
func (t *Tracker) DebugCoalescedRanges() []Range {
	return t.coalesce()
}

// coalesce page-aligns all ranges, sorts them, and merges overlapping/adjacent ranges.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize
		end := r.End()
		if end%t.pageSize != 0 {
			end = ((end / t.pageSize) + 1) * t.pageSize
		}
		aligned[i] = Range{Off: start, Len: end - start}
	}

	slices.SortFunc(aligned, func(a, b Range) int {
		switch {
		case a.Off < b.Off:
			return -1
		case a.Off > b.Off:
			return 1
		}
		return 0
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]
	for _, next := range aligned[1:] {
		if next.Off <= current.End() {
			if next.End() > current.End() {
				current.Len = next.End() - current.Off
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

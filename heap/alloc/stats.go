package alloc

import (
	"go.uber.org/zap"
)

// Counters are the running allocator counters. Reset by Init.
type Counters struct {
	MallocCalls  int   // Malloc calls, including those made by Realloc and Calloc
	FreeCalls    int   // Free calls with a non-nil pointer, including those made by Realloc
	ReallocCalls int   // Realloc calls
	CallocCalls  int   // Calloc calls
	FitHits      int   // Allocations served from a free list
	FitMisses    int   // Allocations that had to grow the heap
	GrowCalls    int   // Successful growths, the initial chunk included
	GrowBytes    int64 // Total bytes added by growth
	Splits       int   // Placements that split off a free remainder

	// Coalesce outcomes by neighbor state.
	CoalesceNone int // both neighbors allocated
	CoalesceNext int // next block merged
	CoalescePrev int // previous block merged
	CoalesceBoth int // both neighbors merged
}

// Stats is a snapshot of the allocator: its counters plus a summary from
// walking every block.
type Stats struct {
	Counters

	HeapSize    int // bytes spanned by the heap, sentinels included
	Blocks      int // real blocks between the sentinels
	AllocBlocks int
	AllocBytes  int // total size of allocated blocks, headers included
	FreeBlocks  int
	FreeBytes   int
	LargestFree int

	// ClassLens is the length of each free list.
	ClassLens [NumClasses]int
}

// Counters returns only the running counters, without walking the heap.
func (a *Allocator) Counters() Counters {
	return a.stats
}

// Stats walks the heap and returns a full snapshot. O(blocks).
func (a *Allocator) Stats() Stats {
	s := Stats{Counters: a.stats}
	if !a.ready {
		return s
	}
	s.HeapSize = a.HeapSize()
	a.walk(func(b block) bool {
		size := a.v.size(b)
		s.Blocks++
		if a.v.isAlloc(b) {
			s.AllocBlocks++
			s.AllocBytes += size
		} else {
			s.FreeBlocks++
			s.FreeBytes += size
			s.LargestFree = max(s.LargestFree, size)
		}
		return true
	})
	for c := range NumClasses {
		s.ClassLens[c] = a.idx.len(c)
	}
	return s
}

// Utilization returns allocated block bytes over heap size.
func (s Stats) Utilization() float64 {
	if s.HeapSize == 0 {
		return 0
	}
	return float64(s.AllocBytes) / float64(s.HeapSize)
}

// walk calls fn for every real block in address order until fn returns
// false. It trusts sizes; use Validate on a heap that may be corrupt.
func (a *Allocator) walk(fn func(b block) bool) {
	for b := firstBlock; a.v.size(b) > 0; b = a.v.next(b) {
		if !fn(b) {
			return
		}
	}
}

// LogStats writes the snapshot to the allocator's logger at info level.
func (a *Allocator) LogStats() {
	s := a.Stats()
	a.log.Info("allocator stats",
		zap.Int("heapSize", s.HeapSize),
		zap.Int("blocks", s.Blocks),
		zap.Int("allocBlocks", s.AllocBlocks),
		zap.Int("allocBytes", s.AllocBytes),
		zap.Int("freeBlocks", s.FreeBlocks),
		zap.Int("freeBytes", s.FreeBytes),
		zap.Int("largestFree", s.LargestFree),
		zap.Ints("classLens", s.ClassLens[:]),
		zap.Int("mallocCalls", s.MallocCalls),
		zap.Int("freeCalls", s.FreeCalls),
		zap.Int("growCalls", s.GrowCalls),
		zap.Int64("growBytes", s.GrowBytes),
		zap.Int("splits", s.Splits),
		zap.Int("fitHits", s.FitHits),
		zap.Int("fitMisses", s.FitMisses))
}

// DebugLogAllBlocks logs one line per block in address order.
func (a *Allocator) DebugLogAllBlocks(logger *zap.Logger) {
	if !a.ready {
		return
	}
	a.walk(func(b block) bool {
		logger.Debug("block",
			zap.Int("offset", int(b)),
			zap.Int("size", a.v.size(b)),
			zap.Bool("allocated", a.v.isAlloc(b)),
			zap.Bool("prevAllocated", a.v.isPrevAlloc(b)))
		return true
	})
}

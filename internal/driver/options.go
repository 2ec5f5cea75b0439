package driver

import (
	"time"

	"go.uber.org/zap"

	"github.com/joshuapare/heapkit/heap/alloc"
)

// Options configures Replay.
type Options struct {
	// CheckHeap validates the heap after every op.
	CheckHeap bool
	// Verify fills payloads and checks alignment, overlap and contents.
	Verify bool
	// Seed seeds the payload fill pattern.
	Seed int64
	// Logger receives progress at debug level. Nil discards.
	Logger *zap.Logger
}

// Result summarizes one replay.
type Result struct {
	Name string
	// Ops is the number of ops executed.
	Ops int
	// PeakLive is the largest total of live request sizes seen.
	PeakLive int
	// HeapSize is the heap size after the last op.
	HeapSize int
	// Utilization is PeakLive / HeapSize.
	Utilization float64
	Elapsed     time.Duration
	Stats       alloc.Stats
}

// Throughput returns ops per second.
func (r *Result) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Ops) / r.Elapsed.Seconds()
}

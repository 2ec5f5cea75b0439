package dirty

import "context"

// DirtyTracker is the minimal interface for tracking dirty (modified) byte ranges.
// The allocator only reports writes; flushing is left to the owner of the tracker.
type DirtyTracker interface {
	// Add marks a byte range as dirty.
	// off is the offset from the start of the region, length is the number of bytes.
	Add(off, length int)
}

// FlushableTracker extends DirtyTracker with flushing.
type FlushableTracker interface {
	DirtyTracker

	// Flush writes all dirty ranges to stable storage and clears them.
	Flush(ctx context.Context) error
}

var _ FlushableTracker = (*Tracker)(nil)

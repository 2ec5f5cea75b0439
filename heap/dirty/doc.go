// Package dirty tracks which byte ranges of a heap region an allocator has
// written, and flushes only those pages when the region is persistent.
//
// The allocator reports every tag and link write through the DirtyTracker
// interface. Tracker coalesces the reported ranges into sorted, page-aligned,
// non-overlapping ranges at flush time and hands them to the region's
// heap.Syncer implementation (msync for a mapped region). Regions that do
// not implement heap.Syncer have nothing to flush.
package dirty

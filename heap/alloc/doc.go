// Package alloc implements a general-purpose allocator over a growable heap
// region: malloc, free, realloc and calloc on boundary-tagged blocks kept in
// segregated free lists.
//
// # Overview
//
// The heap is one contiguous region bounded by a prologue tag at offset 0 and
// an epilogue tag in its last word. Between them lie blocks, each starting
// with an 8-byte header. Allocated blocks are header plus payload; free
// blocks also carry two list links and a footer copying the header, so a
// freed block can find its left neighbor in O(1) when that neighbor is free.
//
// # Block Layout
//
//	allocated:  [header][payload ..................................]
//	free:       [header][next][prev][unused .............][footer]
//
// A header packs the block size (a multiple of 16, at least 32) with two
// flags: bit 0 marks the block allocated, bit 1 marks the block before it
// allocated. Because of bit 1, allocated blocks need no footer and the
// caller gets those 8 bytes.
//
// # Usage Example
//
//	a := alloc.New(heap.NewMemory(0))
//	if err := a.Init(); err != nil {
//	    return err
//	}
//
//	p, err := a.Malloc(100)
//	if err != nil {
//	    return err
//	}
//	copy(a.Payload(p), data)
//
//	p, err = a.Realloc(p, 400)
//	...
//	a.Free(p)
//
// Pointers are region offsets (Ptr), not Go pointers: a region may move
// when it grows. Slices from Payload must not be held across calls that
// may grow the heap.
//
// # Size Classes
//
// Free blocks are filed by size into 8 LIFO doubly linked lists:
//
//	Class 0:    32 bytes
//	Class 1:    48 -   64 bytes
//	Class 2:    80 -  128 bytes
//	Class 3:   144 -  256 bytes
//	Class 4:   272 -  512 bytes
//	Class 5:   528 - 1024 bytes
//	Class 6:  1040 - 2048 bytes
//	Class 7:  2064+      bytes
//
// Allocation takes the first block large enough, scanning from the
// request's own class upward. The remainder is split off when it is at
// least 32 bytes. Free merges the block with any free neighbor, so no two
// free blocks are ever adjacent.
//
// # Growth
//
// When no list holds a fit, the allocator appends max(request, chunk size)
// bytes to the region. The new space becomes a free block where the old
// epilogue stood, merged with a free block before it if there is one.
// Growth failure surfaces as ErrNoSpace and leaves the heap untouched.
//
// # Validation
//
// Validate walks the whole heap and every free list and reports the first
// broken invariant. It is meant for tests and debugging tools.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must synchronize access
// externally.
//
// # Related Packages
//
//   - github.com/joshuapare/heapkit/heap: Regions the allocator grows
//   - github.com/joshuapare/heapkit/heap/dirty: Tracks modified pages for flushing
//   - github.com/joshuapare/heapkit/internal/format: Tag encoding and constants
package alloc

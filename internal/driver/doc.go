// Package driver replays allocation traces against an allocator and
// measures it.
//
// Replay runs every op of a trace in order. With Options.Verify set it
// also fills each payload with a seeded pattern and checks, by murmur3
// checksum, that the allocator never disturbs it: not while the block is
// live, not across a resize (the common prefix must survive), and not
// before it is freed. Payloads must be 16-byte aligned and must not overlap
// any other live payload; calloc payloads must arrive zeroed. With
// Options.CheckHeap set, the heap is validated after every op.
//
// The result reports peak utilization (the largest total of live request
// sizes over the final heap size) and throughput.
package driver

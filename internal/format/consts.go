// Package format houses the low-level encoding of the managed heap: word
// access, alignment, and the boundary tags stored at block headers and
// footers. Nothing outside this package masks tag bits directly.
package format

const (
	// WordSize is the width of a boundary tag and of a free-list link.
	WordSize = 8

	// DoubleWordSize is the alignment unit for block sizes and payloads.
	DoubleWordSize = 16

	// Alignment is the payload alignment guaranteed to callers.
	Alignment = DoubleWordSize

	// Align16Mask is the bitmask used for aligning to 16-byte boundaries (Alignment - 1).
	Align16Mask = Alignment - 1

	// HeaderSize is the per-block overhead charged against an allocated block.
	HeaderSize = WordSize

	// MinBlockSize is the smallest block that can hold a header, two links
	// and a footer while free.
	MinBlockSize = 2 * DoubleWordSize

	// ChunkSize is the default number of bytes requested from the region
	// when the free lists cannot satisfy an allocation.
	ChunkSize = 1 << 12

	// SentinelSize is the span of the prologue plus the epilogue header
	// written by initialization.
	SentinelSize = 2 * WordSize
)

const (
	// Free-block layout, as offsets from the block header.
	//   0x00  header tag
	//   0x08  next link (block offset, 0 = none)
	//   0x10  prev link (block offset, 0 = none)
	//   ...   unused
	//   size-8 footer tag (copy of the header)
	NextLinkOffset = WordSize
	PrevLinkOffset = 2 * WordSize
)

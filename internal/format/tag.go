package format

import "math"

// Tag is a boundary tag: a block size with two flag bits packed into the
// low bits the 16-byte size alignment leaves unused.
//
// Layout:
//
//	bit 0     block is allocated
//	bit 1     preceding block is allocated
//	bits 2-3  reserved, always zero
//	bits 4-63 size
type Tag uint64

const (
	allocBit     Tag = 1 << 0
	prevAllocBit Tag = 1 << 1
	flagMask     Tag = Align16Mask

	// MaxBlockSize is the largest size a tag can carry.
	MaxBlockSize = math.MaxInt &^ Align16Mask
)

// Pack encodes size and both allocation flags into a tag. size must be a
// multiple of 16.
func Pack(size int, alloc, prevAlloc bool) Tag {
	t := Tag(size)
	if alloc {
		t |= allocBit
	}
	if prevAlloc {
		t |= prevAllocBit
	}
	return t
}

// Size returns the block size stored in the tag.
func (t Tag) Size() int { return int(t &^ flagMask) }

// Alloc reports whether the tagged block is allocated.
func (t Tag) Alloc() bool { return t&allocBit != 0 }

// PrevAlloc reports whether the block preceding the tagged block is allocated.
func (t Tag) PrevAlloc() bool { return t&prevAllocBit != 0 }

// WithPrevAlloc returns t with the preceding-block flag replaced.
func (t Tag) WithPrevAlloc(prevAlloc bool) Tag {
	if prevAlloc {
		return t | prevAllocBit
	}
	return t &^ prevAllocBit
}

// Reserved reports whether either reserved bit is set, which no valid tag has.
func (t Tag) Reserved() bool { return t&(flagMask&^(allocBit|prevAllocBit)) != 0 }

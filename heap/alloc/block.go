package alloc

import (
	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/internal/format"
)

// block is the region offset of a block header.
type block int

// noBlock terminates free lists. Offset 0 holds the prologue, so no real
// block ever starts there.
const noBlock block = 0

// firstBlock is where the first real block starts: right after the
// prologue. Every block starts 8 bytes past a 16-byte boundary so that
// payloads are 16-aligned.
const firstBlock block = format.WordSize

// view reads and writes boundary tags at fixed offsets from block headers.
// All byte offset arithmetic of the allocator lives here. Bytes is re-read
// on every access because growth may move the region.
type view struct {
	r  heap.Region
	dt dirty.DirtyTracker
}

func (v view) tag(b block) format.Tag {
	return format.ReadTag(v.r.Bytes(), int(b))
}

func (v view) size(b block) int         { return v.tag(b).Size() }
func (v view) isAlloc(b block) bool     { return v.tag(b).Alloc() }
func (v view) isPrevAlloc(b block) bool { return v.tag(b).PrevAlloc() }

// next returns the block that follows b. b must not be the epilogue.
func (v view) next(b block) block {
	return b + block(v.size(b))
}

// prevFooter returns the offset of the footer of the block before b.
// Only meaningful when b's prevAlloc flag is clear.
func (v view) prevFooter(b block) int {
	return int(b) - format.WordSize
}

// prev returns the block before b by reading its footer. Only valid when
// b's prevAlloc flag is clear.
func (v view) prev(b block) block {
	return b - block(format.ReadTag(v.r.Bytes(), v.prevFooter(b)).Size())
}

// footerTag reads the footer of a free block, located from its header size.
func (v view) footerTag(b block) format.Tag {
	return format.ReadTag(v.r.Bytes(), v.footerOffset(b))
}

func (v view) footerOffset(b block) int {
	return int(b) + v.size(b) - format.WordSize
}

func (v view) writeHeader(b block, size int, alloc, prevAlloc bool) {
	v.put(int(b), format.Pack(size, alloc, prevAlloc))
}

// writeFooter duplicates b's header at its tail. The header must already
// carry size; footers are only written for free blocks.
func (v view) writeFooter(b block, size int, alloc bool) {
	v.put(v.footerOffset(b), format.Pack(size, alloc, v.isPrevAlloc(b)))
}

// setPrevAlloc rewrites only the prevAlloc flag of b's header.
func (v view) setPrevAlloc(b block, prevAlloc bool) {
	v.put(int(b), v.tag(b).WithPrevAlloc(prevAlloc))
}

func (v view) put(off int, t format.Tag) {
	format.PutTag(v.r.Bytes(), off, t)
	if v.dt != nil {
		v.dt.Add(off, format.WordSize)
	}
}

// payload returns the caller pointer for b.
func (v view) payload(b block) Ptr {
	return Ptr(int(b) + format.HeaderSize)
}

// fromPayload is the inverse of payload.
func (v view) fromPayload(p Ptr) block {
	return block(int(p) - format.HeaderSize)
}

// payloadSize is the number of bytes a caller owns in allocated block b.
func (v view) payloadSize(b block) int {
	return v.size(b) - format.HeaderSize
}

// free returns the link accessors of b. b must be free: on an allocated
// block these words belong to the caller's payload.
func (v view) free(b block) freeBlock {
	return freeBlock{v: v, b: b}
}

// freeBlock is a free block seen through its list links.
type freeBlock struct {
	v view
	b block
}

func (f freeBlock) next() block {
	return block(format.ReadU64(f.v.r.Bytes(), int(f.b)+format.NextLinkOffset))
}

func (f freeBlock) prev() block {
	return block(format.ReadU64(f.v.r.Bytes(), int(f.b)+format.PrevLinkOffset))
}

func (f freeBlock) setNext(n block) { f.putLink(format.NextLinkOffset, n) }
func (f freeBlock) setPrev(p block) { f.putLink(format.PrevLinkOffset, p) }

func (f freeBlock) putLink(rel int, to block) {
	off := int(f.b) + rel
	format.PutU64(f.v.r.Bytes(), off, uint64(to))
	if f.v.dt != nil {
		f.v.dt.Add(off, format.WordSize)
	}
}

package alloc

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/joshuapare/heapkit/internal/format"
)

// CheckHeap validates the heap and logs the first violation with tag.
// Returns true if the heap is consistent.
func (a *Allocator) CheckHeap(tag string) bool {
	if err := a.Validate(); err != nil {
		a.log.Error("heap check failed", zap.String("tag", tag), zap.Error(err))
		return false
	}
	return true
}

// Validate walks the heap from prologue to epilogue and then every free
// list, and returns an error wrapping ErrCorrupt describing the first
// broken invariant. It never trusts a size it has not bounds-checked, so
// it is safe to run on a corrupted heap.
func (a *Allocator) Validate() error {
	if !a.ready {
		return ErrNotInitialized
	}
	if err := a.validate(); err != nil {
		return errors.Mark(err, ErrCorrupt)
	}
	return nil
}

func (a *Allocator) validate() error {
	data := a.r.Bytes()
	v := a.v

	if len(data) < format.SentinelSize {
		return errors.Wrapf(format.ErrTruncated, "heap size %d cannot hold both sentinels", len(data))
	}
	if !format.IsAligned16(len(data)) {
		return errors.Wrapf(format.ErrMisaligned, "heap size %d", len(data))
	}
	if t := v.tag(prologue); t.Size() != 0 || !t.Alloc() {
		return errors.Newf("prologue at 0 has size %d allocated=%t", t.Size(), t.Alloc())
	}
	epilogue := block(len(data) - format.WordSize)

	// Forward walk: sizes, alignment, flags and footers.
	free := make(map[block]bool)
	prevAlloc := true
	b := firstBlock
	for b < epilogue {
		t := v.tag(b)
		size := t.Size()
		switch {
		case t.Reserved():
			return errors.Newf("block at %d has reserved tag bits set (%#x)", b, uint64(t))
		case size == 0:
			return errors.Newf("zero-size block at %d before the epilogue at %d", b, epilogue)
		case size < format.MinBlockSize:
			return errors.Newf("block at %d has size %d, below the minimum %d", b, size, format.MinBlockSize)
		case size > int(epilogue-b):
			return errors.Newf("block at %d of size %d runs past the epilogue at %d", b, size, epilogue)
		case !format.IsAligned16(int(v.payload(b))):
			return errors.Wrapf(format.ErrMisaligned, "payload of block at %d", b)
		case t.PrevAlloc() != prevAlloc:
			return errors.Newf("block at %d has prevAlloc=%t but the previous block has alloc=%t", b, t.PrevAlloc(), prevAlloc)
		}

		if !t.Alloc() {
			if !prevAlloc {
				return errors.Newf("block at %d and the block before it are both free", b)
			}
			ft := v.footerTag(b)
			if ft.Size() != size || ft.Alloc() {
				return errors.Newf("free block at %d has header size %d but footer size %d allocated=%t",
					b, size, ft.Size(), ft.Alloc())
			}
			free[b] = false
		}
		prevAlloc = t.Alloc()
		b += block(size)
	}
	if b != epilogue {
		return errors.Newf("block walk ended at %d, not at the epilogue at %d", b, epilogue)
	}
	if t := v.tag(epilogue); t.Size() != 0 || !t.Alloc() {
		return errors.Newf("epilogue at %d has size %d allocated=%t", epilogue, t.Size(), t.Alloc())
	} else if t.PrevAlloc() != prevAlloc {
		return errors.Newf("epilogue at %d has prevAlloc=%t but the last block has alloc=%t", epilogue, t.PrevAlloc(), prevAlloc)
	}

	// Free lists: every linked block is a free block of the right class,
	// linked once, with consistent back links.
	linked := 0
	for c := range NumClasses {
		n := 0
		prev := noBlock
		for cur := a.idx.head(c); cur != noBlock; cur = v.free(cur).next() {
			seen, ok := free[cur]
			switch {
			case !ok:
				return errors.Newf("class %d links %d, which is not a free block", c, cur)
			case seen:
				return errors.Newf("free block at %d is linked more than once", cur)
			case classOf(v.size(cur)) != c:
				return errors.Newf("free block at %d of size %d is in class %d, want %d", cur, v.size(cur), c, classOf(v.size(cur)))
			case v.free(cur).prev() != prev:
				return errors.Newf("free block at %d has prev link %d, want %d", cur, v.free(cur).prev(), prev)
			}
			free[cur] = true
			prev = cur
			n++
		}
		if n != a.idx.len(c) {
			return errors.Newf("class %d holds %d blocks but counts %d", c, n, a.idx.len(c))
		}
		linked += n
	}
	if linked != len(free) {
		for fb, seen := range free {
			if !seen {
				return errors.Newf("free block at %d of size %d is not in any list", fb, v.size(fb))
			}
		}
	}
	return nil
}

package alloc

// coalesce turns b into a free block, merges it with whichever neighbors
// are free, files the result in the index and returns it. b's header must
// hold its size; its alloc bit is ignored. Neither neighbor of the result
// is free afterwards.
func (a *Allocator) coalesce(b block) block {
	v := a.v
	size := v.size(b)
	prevAlloc := v.isPrevAlloc(b)
	next := v.next(b)
	nextAlloc := v.isAlloc(next)

	switch {
	case prevAlloc && nextAlloc:
		v.writeHeader(b, size, false, true)
		v.writeFooter(b, size, false)
		a.stats.CoalesceNone++

	case prevAlloc && !nextAlloc:
		a.idx.remove(next)
		size += v.size(next)
		v.writeHeader(b, size, false, true)
		v.writeFooter(b, size, false)
		a.stats.CoalesceNext++

	case !prevAlloc && nextAlloc:
		prev := v.prev(b)
		a.idx.remove(prev)
		size += v.size(prev)
		v.writeHeader(prev, size, false, v.isPrevAlloc(prev))
		v.writeFooter(prev, size, false)
		b = prev
		a.stats.CoalescePrev++

	default:
		prev := v.prev(b)
		a.idx.remove(prev)
		a.idx.remove(next)
		size += v.size(prev) + v.size(next)
		v.writeHeader(prev, size, false, v.isPrevAlloc(prev))
		v.writeFooter(prev, size, false)
		b = prev
		a.stats.CoalesceBoth++
	}

	a.idx.insert(b)
	v.setPrevAlloc(v.next(b), false)
	return b
}

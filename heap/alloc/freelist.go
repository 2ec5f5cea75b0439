package alloc

// freeIndex is the segregated free-list index: one LIFO doubly linked list
// per size class, threaded through the free blocks themselves.
type freeIndex struct {
	v     view
	heads [NumClasses]block
	lens  [NumClasses]int
}

func (x *freeIndex) reset() {
	x.heads = [NumClasses]block{}
	x.lens = [NumClasses]int{}
}

// insert pushes free, unlinked b at the head of its class list.
func (x *freeIndex) insert(b block) {
	c := classOf(x.v.size(b))
	fb := x.v.free(b)
	head := x.heads[c]

	fb.setNext(head)
	fb.setPrev(noBlock)
	if head != noBlock {
		x.v.free(head).setPrev(b)
	}
	x.heads[c] = b
	x.lens[c]++
}

// remove unlinks b from its class list. b's header size must still be the
// size it was inserted with.
func (x *freeIndex) remove(b block) {
	c := classOf(x.v.size(b))
	fb := x.v.free(b)
	next, prev := fb.next(), fb.prev()

	if prev == noBlock {
		x.heads[c] = next
	} else {
		x.v.free(prev).setNext(next)
	}
	if next != noBlock {
		x.v.free(next).setPrev(prev)
	}
	x.lens[c]--
}

// head returns the first block of class c, or noBlock.
func (x *freeIndex) head(c int) block { return x.heads[c] }

// len returns the number of blocks linked in class c.
func (x *freeIndex) len(c int) int { return x.lens[c] }

// total returns the number of blocks linked across all classes.
func (x *freeIndex) total() int {
	n := 0
	for _, l := range x.lens {
		n += l
	}
	return n
}

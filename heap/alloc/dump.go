package alloc

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// DetailedMapJSON returns the heap map written by WriteDetailedMap.
func (a *Allocator) DetailedMapJSON() ([]byte, error) {
	w := jwriter.NewWriter()
	a.WriteDetailedMap(&w)
	if err := w.Error(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// WriteDetailedMap writes a JSON object describing the heap: summary
// figures, every block in address order and the contents of every free
// list. Intended for debugging; it trusts the heap, so run Validate first
// if the heap may be corrupt.
func (a *Allocator) WriteDetailedMap(w *jwriter.Writer) {
	obj := w.Object()
	defer obj.End()

	obj.Name("initialized").Bool(a.ready)
	if !a.ready {
		return
	}

	s := a.Stats()
	a.writeMapHeader(&obj, s)

	blocks := obj.Name("blocks").Array()
	a.walk(func(b block) bool {
		bo := w.Object()
		bo.Name("offset").Int(int(b))
		bo.Name("size").Int(a.v.size(b))
		bo.Name("allocated").Bool(a.v.isAlloc(b))
		bo.Name("prevAllocated").Bool(a.v.isPrevAlloc(b))
		if a.v.isAlloc(b) {
			bo.Name("payload").Int(int(a.v.payload(b)))
		} else {
			bo.Name("class").Int(classOf(a.v.size(b)))
		}
		bo.End()
		return true
	})
	blocks.End()

	classes := obj.Name("classes").Array()
	for c := range NumClasses {
		co := w.Object()
		co.Name("class").Int(c)
		co.Name("min").Int(ClassLowerBound(c))
		co.Name("limit").Int(ClassLimit(c))
		co.Name("length").Int(a.idx.len(c))
		members := co.Name("blocks").Array()
		for b := a.idx.head(c); b != noBlock; b = a.v.free(b).next() {
			w.Int(int(b))
		}
		members.End()
		co.End()
	}
	classes.End()
}

func (a *Allocator) writeMapHeader(obj *jwriter.ObjectState, s Stats) {
	obj.Name("heapSize").Int(s.HeapSize)
	obj.Name("totalBlocks").Int(s.Blocks)
	obj.Name("allocatedBlocks").Int(s.AllocBlocks)
	obj.Name("allocatedBytes").Int(s.AllocBytes)
	obj.Name("freeBlocks").Int(s.FreeBlocks)
	obj.Name("freeBytes").Int(s.FreeBytes)
	obj.Name("largestFree").Int(s.LargestFree)
	obj.Name("utilization").Float64(s.Utilization())
	obj.Name("growCalls").Int(s.GrowCalls)
}

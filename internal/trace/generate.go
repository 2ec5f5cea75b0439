package trace

import "math/rand"

// GenOptions shapes a generated trace. Zero fields take the defaults below.
type GenOptions struct {
	// Ops is the total op count, including the frees that drain the heap.
	Ops int
	// MaxSize bounds a single request in bytes.
	MaxSize int
	// MaxLive bounds the number of ids live at once.
	MaxLive int
	// ReallocPct is the chance, in percent, that a step on a live id
	// resizes it rather than freeing it.
	ReallocPct int
	// CallocPct is the chance, in percent, that a new id is zero-allocated.
	CallocPct int
}

const (
	defaultGenOps     = 1000
	defaultMaxSize    = 4096
	defaultMaxLive    = 512
	defaultReallocPct = 20
	defaultCallocPct  = 10
	smallSizeLimit    = 256
)

func (o GenOptions) withDefaults() GenOptions {
	if o.Ops <= 0 {
		o.Ops = defaultGenOps
	}
	if o.MaxSize <= 0 {
		o.MaxSize = defaultMaxSize
	}
	if o.MaxLive <= 0 {
		o.MaxLive = defaultMaxLive
	}
	if o.ReallocPct <= 0 {
		o.ReallocPct = defaultReallocPct
	}
	if o.CallocPct <= 0 {
		o.CallocPct = defaultCallocPct
	}
	return o
}

// Generate returns a random well-formed trace: ids are allocated before use,
// freed at most once, resized only while live, and every id is freed by the
// end. The trace holds exactly opts.Ops ops, except that a single op cannot
// both allocate and free, so Ops of 1 yields an empty trace. The same rng
// state yields the same trace.
func Generate(rng *rand.Rand, opts GenOptions) *Trace {
	opts = opts.withDefaults()
	t := &Trace{Weight: 1, Ops: make([]Op, 0, opts.Ops)}

	var live []int
	nextID := 0
	pickLive := func() (int, int) {
		i := rng.Intn(len(live))
		return i, live[i]
	}
	drop := func(i int) {
		live[i] = live[len(live)-1]
		live = live[:len(live)-1]
	}
	size := func() int {
		if rng.Intn(4) == 0 {
			return 1 + rng.Intn(opts.MaxSize)
		}
		return 1 + rng.Intn(min(opts.MaxSize, smallSizeLimit))
	}

loop:
	for len(t.Ops) < opts.Ops {
		// slack is the number of ops left beyond one free per live id.
		slack := opts.Ops - len(t.Ops) - len(live)
		switch {
		case slack <= 0:
			i, id := pickLive()
			drop(i)
			t.Ops = append(t.Ops, Op{Kind: Free, ID: id})

		case slack == 1:
			// An allocation would need two ops and a free keeps slack at
			// one, so resize to close the gap.
			if len(live) == 0 {
				break loop
			}
			_, id := pickLive()
			t.Ops = append(t.Ops, Op{Kind: Realloc, ID: id, Size: size()})

		case len(live) > 0 && (len(live) >= opts.MaxLive || rng.Intn(100) < 40):
			i, id := pickLive()
			if rng.Intn(100) < opts.ReallocPct {
				t.Ops = append(t.Ops, Op{Kind: Realloc, ID: id, Size: size()})
				continue
			}
			drop(i)
			t.Ops = append(t.Ops, Op{Kind: Free, ID: id})

		default:
			id := nextID
			nextID++
			live = append(live, id)
			if rng.Intn(100) < opts.CallocPct {
				count := 1 + rng.Intn(16)
				t.Ops = append(t.Ops, Op{Kind: Calloc, ID: id, Count: count, Size: max(1, size()/count)})
				continue
			}
			t.Ops = append(t.Ops, Op{Kind: Alloc, ID: id, Size: size()})
		}
	}
	t.NumIDs = nextID
	return t
}

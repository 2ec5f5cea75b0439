// Package trace reads, writes and generates allocation traces: scripted
// sequences of malloc, realloc, calloc and free requests keyed by id.
//
// A trace file may begin with a four-line header (suggested heap size,
// number of ids, number of ops, weight), followed by one op per line:
//
//	a <id> <size>           allocate
//	r <id> <size>           resize
//	c <id> <count> <size>   zero-allocate
//	f <id>                  free
//
// Blank lines and lines starting with '#' are ignored.
package trace

import "strconv"

// Kind identifies a trace operation.
type Kind byte

const (
	Alloc   Kind = 'a'
	Realloc Kind = 'r'
	Calloc  Kind = 'c'
	Free    Kind = 'f'
)

func (k Kind) String() string {
	switch k {
	case Alloc:
		return "alloc"
	case Realloc:
		return "realloc"
	case Calloc:
		return "calloc"
	case Free:
		return "free"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Op is one request. Count is used by Calloc only; Size is unused by Free.
type Op struct {
	Kind  Kind
	ID    int
	Size  int
	Count int
}

// Bytes returns the payload size the op asks for.
func (o Op) Bytes() int {
	if o.Kind == Calloc {
		return o.Count * o.Size
	}
	return o.Size
}

// Trace is a parsed trace.
type Trace struct {
	// Name is the file base name for loaded traces.
	Name string
	// SuggestedHeap is the header's heap size hint, 0 if absent.
	SuggestedHeap int
	// NumIDs is one past the largest id used.
	NumIDs int
	// Weight is the header's scoring weight, 1 if absent.
	Weight int
	Ops    []Op
}

// Len returns the number of ops.
func (t *Trace) Len() int { return len(t.Ops) }

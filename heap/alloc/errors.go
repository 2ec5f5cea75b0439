package alloc

import "github.com/cockroachdb/errors"

var (
	// ErrNoSpace indicates that no free block was large enough and the region
	// could not grow. The heap is unchanged and smaller requests may still succeed.
	ErrNoSpace = errors.New("alloc: out of space")

	// ErrOverflow indicates that count*size in Calloc does not fit in an int.
	ErrOverflow = errors.New("alloc: size calculation overflows")

	// ErrBadSize indicates a negative size or count.
	ErrBadSize = errors.New("alloc: negative size")

	// ErrNotInitialized indicates a call before Init succeeded.
	ErrNotInitialized = errors.New("alloc: allocator not initialized")

	// ErrGrowFail indicates the region reported success but did not grow by the requested amount.
	ErrGrowFail = errors.New("alloc: grow failed")

	// ErrCorrupt indicates that heap validation found a broken invariant.
	ErrCorrupt = errors.New("alloc: heap corrupt")
)

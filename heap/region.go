package heap

//go:generate mockgen -source=region.go -destination=mocks/mock_region.go -package=mocks

// DefaultLimit is the size cap used when a region is created with a
// non-positive limit.
const DefaultLimit = 20 << 20

// Region is the growth primitive behind an allocator.
type Region interface {
	// Bytes returns the current contents of the region. The slice is
	// invalidated by Append and Reset.
	Bytes() []byte

	// Append grows the region by n bytes. The old contents are preserved
	// and the new bytes are zero. Returns an error wrapping ErrOutOfSpace
	// if the region cannot grow.
	Append(n int64) error

	// Reset shrinks the region back to zero length.
	Reset() error
}

// Syncer is implemented by regions whose contents are persisted and can
// be flushed range by range.
type Syncer interface {
	// Sync flushes bytes [off, off+n) to stable storage.
	Sync(off, n int) error
}

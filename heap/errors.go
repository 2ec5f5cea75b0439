package heap

import "github.com/cockroachdb/errors"

var (
	// ErrOutOfSpace indicates the region hit its limit or the OS refused to
	// provide more memory.
	ErrOutOfSpace = errors.New("heap: out of space")
	// ErrClosed indicates an operation on a closed region.
	ErrClosed = errors.New("heap: region closed")
	// ErrBadLength indicates a negative growth request.
	ErrBadLength = errors.New("heap: negative length")
)

func checkGrow(size, n, limit int64) error {
	if n < 0 {
		return errors.Wrapf(ErrBadLength, "append %d", n)
	}
	if size+n > limit || size+n < size {
		return errors.Wrapf(ErrOutOfSpace, "append %d bytes at size %d exceeds limit %d", n, size, limit)
	}
	return nil
}

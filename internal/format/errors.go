package format

import "github.com/cockroachdb/errors"

var (
	// ErrTruncated indicates a buffer too short for the words it must hold.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrMisaligned indicates a size or offset that is not a multiple of 16.
	ErrMisaligned = errors.New("format: misaligned value")
)

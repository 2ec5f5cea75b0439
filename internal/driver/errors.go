package driver

import "github.com/cockroachdb/errors"

var (
	// ErrUnknownID marks a resize or free of an id that is not live.
	ErrUnknownID = errors.New("driver: id is not live")
	// ErrDuplicateID marks an allocation for an id that is already live.
	ErrDuplicateID = errors.New("driver: id is already live")
	// ErrMisaligned marks a payload that is not 16-byte aligned.
	ErrMisaligned = errors.New("driver: payload is misaligned")
	// ErrOverlap marks a payload that overlaps another live payload.
	ErrOverlap = errors.New("driver: payloads overlap")
	// ErrPayloadCorrupt marks payload bytes that changed under the caller.
	ErrPayloadCorrupt = errors.New("driver: payload corrupted")
	// ErrHeapCheck marks a failed heap validation between ops.
	ErrHeapCheck = errors.New("driver: heap check failed")
)

package alloc

import (
	"os"

	"go.uber.org/zap"

	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/internal/format"
)

// logAllocEnv turns on debug logging for allocators built without an
// explicit logger.
const logAllocEnv = "HEAPKIT_LOG_ALLOC"

// Option configures an Allocator.
type Option func(*Allocator)

// WithLogger sets the logger. The default discards everything unless
// HEAPKIT_LOG_ALLOC is set.
func WithLogger(l *zap.Logger) Option {
	return func(a *Allocator) {
		if l != nil {
			a.log = l
		}
	}
}

// WithDirtyTracker reports every tag and link write to dt.
func WithDirtyTracker(dt dirty.DirtyTracker) Option {
	return func(a *Allocator) { a.dt = dt }
}

// WithChunkSize sets the minimum number of bytes requested from the region
// per growth. n is rounded up to 16 and raised to the minimum block size.
func WithChunkSize(n int) Option {
	return func(a *Allocator) {
		a.chunkSize = max(format.MinBlockSize, format.Align16(n))
	}
}

func defaultLogger() *zap.Logger {
	if os.Getenv(logAllocEnv) == "" {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l.Named("alloc")
}

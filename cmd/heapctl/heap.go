package main

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/dirty"
)

// heapFlags are shared by every command that replays a trace.
type heapFlags struct {
	limit  int64
	mapped string
	seed   int64
	chunk  int
}

func (f *heapFlags) register(fs *pflag.FlagSet) {
	fs.Int64Var(&f.limit, "limit", heap.DefaultLimit, "Maximum heap size in bytes")
	fs.StringVar(&f.mapped, "mmap", "", "Back the heap with this file instead of memory")
	fs.Int64Var(&f.seed, "seed", 1, "Seed for payload fill patterns")
	fs.IntVar(&f.chunk, "chunk", 0, "Minimum heap growth in bytes (0 for the default)")
}

// session is an allocator over a fresh region. Close flushes a mapped
// region's dirty pages before closing it.
type session struct {
	a       *alloc.Allocator
	mapped  *heap.Mapped
	tracker *dirty.Tracker
}

func (f *heapFlags) open() (*session, error) {
	opts := []alloc.Option{alloc.WithLogger(newLogger().Named("alloc"))}
	if f.chunk > 0 {
		opts = append(opts, alloc.WithChunkSize(f.chunk))
	}

	if f.mapped == "" {
		return &session{a: alloc.New(heap.NewMemory(f.limit), opts...)}, nil
	}

	m, err := heap.OpenMapped(f.mapped, f.limit)
	if err != nil {
		return nil, err
	}
	s := &session{mapped: m, tracker: dirty.NewTracker(m)}
	s.a = alloc.New(m, append(opts, alloc.WithDirtyTracker(s.tracker))...)
	return s, nil
}

func (s *session) Close(ctx context.Context) error {
	if s.mapped == nil {
		return nil
	}
	printVerbose("Flushing %d dirty ranges\n", s.tracker.Len())
	return errors.CombineErrors(s.tracker.Flush(ctx), s.mapped.Close())
}

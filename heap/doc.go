// Package heap provides the growable address ranges an allocator manages.
//
// A Region is append-only from the allocator's point of view: it starts
// empty after Reset, and Append extends it by n zeroed bytes or fails with
// ErrOutOfSpace. Offsets into a region stay valid across growth, but the
// slice returned by Bytes does not: any Append may move or remap the
// backing storage, so callers re-read Bytes after growing.
//
// Two implementations are provided:
//
//   - Memory keeps the heap in a Go byte slice with a hard size limit.
//   - Mapped keeps the heap in a file mapped read-write, growing it with
//     truncate and remap. On platforms without mmap it falls back to a
//     byte slice mirrored to the file on Sync.
package heap

package format

import "encoding/binary"

// Heap words are little-endian regardless of the host so that a mapped
// heap file reads the same on every platform.

// PutU64 writes a uint64 value to the buffer at the specified offset in little-endian format.
func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+WordSize], v)
}

// ReadU64 reads a uint64 value from the buffer at the specified offset in little-endian format.
func ReadU64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+WordSize])
}

// PutTag writes a boundary tag at off.
func PutTag(b []byte, off int, t Tag) {
	PutU64(b, off, uint64(t))
}

// ReadTag reads the boundary tag at off.
func ReadTag(b []byte, off int) Tag {
	return Tag(ReadU64(b, off))
}

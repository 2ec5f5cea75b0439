//go:build unix

package heap

import (
	"os"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// Mapped is a Region backed by a file mapped read-write. Growth truncates
// the file larger and remaps it, so the heap survives in the file after
// Close.
type Mapped struct {
	f     *os.File
	data  []byte
	size  int64
	limit int64
}

var (
	_ Region = (*Mapped)(nil)
	_ Syncer = (*Mapped)(nil)
)

// OpenMapped creates (or truncates) the file at path and returns an empty
// region over it. A non-positive limit selects DefaultLimit.
func OpenMapped(path string, limit int64) (*Mapped, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "heap: open %s", path)
	}
	return &Mapped{f: f, limit: limit}, nil
}

func (m *Mapped) Bytes() []byte { return m.data }

// Size returns the current length of the region.
func (m *Mapped) Size() int64 { return m.size }

// Append grows the backing file by n bytes and remaps it. The new bytes
// are zero-initialized by the OS. On failure the previous mapping is
// restored.
func (m *Mapped) Append(n int64) error {
	if m.f == nil {
		return ErrClosed
	}
	if err := checkGrow(m.size, n, m.limit); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	newSize := m.size + n

	if err := m.unmap(); err != nil {
		return errors.Wrap(err, "heap: unmap before grow")
	}
	if err := m.f.Truncate(newSize); err != nil {
		_ = m.remap(m.size)
		return errors.Mark(errors.Wrapf(err, "heap: truncate to %d", newSize), ErrOutOfSpace)
	}
	if err := m.remap(newSize); err != nil {
		_ = m.f.Truncate(m.size)
		_ = m.remap(m.size)
		return errors.Mark(errors.Wrapf(err, "heap: remap at %d", newSize), ErrOutOfSpace)
	}
	m.size = newSize
	return nil
}

// Reset truncates the backing file to zero length.
func (m *Mapped) Reset() error {
	if m.f == nil {
		return ErrClosed
	}
	if err := m.unmap(); err != nil {
		return errors.Wrap(err, "heap: unmap before reset")
	}
	if err := m.f.Truncate(0); err != nil {
		_ = m.remap(m.size)
		return errors.Wrap(err, "heap: truncate to 0")
	}
	m.size = 0
	return nil
}

// Sync flushes the pages covering [off, off+n) with msync.
func (m *Mapped) Sync(off, n int) error {
	if m.f == nil {
		return ErrClosed
	}
	page := unix.Getpagesize()
	start := off / page * page
	end := min(off+n, len(m.data))
	if start >= end {
		return nil
	}
	return unix.Msync(m.data[start:end], unix.MS_SYNC)
}

// Close unmaps the region and closes the backing file.
func (m *Mapped) Close() error {
	if m.f == nil {
		return nil
	}
	uerr := m.unmap()
	cerr := m.f.Close()
	m.f = nil
	return errors.CombineErrors(uerr, cerr)
}

func (m *Mapped) remap(size int64) error {
	if size == 0 {
		m.data = nil
		return nil
	}
	data, err := unix.Mmap(int(m.f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return err
	}
	m.data = data
	return nil
}

func (m *Mapped) unmap() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	return err
}

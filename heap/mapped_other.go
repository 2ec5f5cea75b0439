//go:build !unix

package heap

import (
	"os"

	"github.com/cockroachdb/errors"
)

// Mapped is a Region kept in a byte slice and mirrored to a file on Sync
// where mmap is unavailable.
type Mapped struct {
	f     *os.File
	data  []byte
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
func (m *Mapped) Size() int64 { return int64(len(m.data)) }

func (m *Mapped) Append(n int64) error {
	if m.f == nil {
		return ErrClosed
	}
	if err := checkGrow(m.Size(), n, m.limit); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	newSize := m.Size() + n
	if err := m.f.Truncate(newSize); err != nil {
		return errors.Mark(errors.Wrapf(err, "heap: truncate to %d", newSize), ErrOutOfSpace)
	}
	m.data = append(m.data, make([]byte, n)...)
	return nil
}

func (m *Mapped) Reset() error {
	if m.f == nil {
		return ErrClosed
	}
	if err := m.f.Truncate(0); err != nil {
		return errors.Wrap(err, "heap: truncate to 0")
	}
	m.data = m.data[:0]
	return nil
}

// Sync writes [off, off+n) through to the backing file.
func (m *Mapped) Sync(off, n int) error {
	if m.f == nil {
		return ErrClosed
	}
	end := min(off+n, len(m.data))
	if off >= end {
		return nil
	}
	_, err := m.f.WriteAt(m.data[off:end], int64(off))
	return err
}

func (m *Mapped) Close() error {
	if m.f == nil {
		return nil
	}
	err := m.f.Close()
	m.f = nil
	return err
}

package heap

// Memory is a Region backed by a Go byte slice.
type Memory struct {
	data  []byte
	limit int64
}

var _ Region = (*Memory)(nil)

// NewMemory returns an empty in-memory region that refuses to grow past
// limit bytes. A non-positive limit selects DefaultLimit.
func NewMemory(limit int64) *Memory {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Memory{limit: limit}
}

func (m *Memory) Bytes() []byte { return m.data }

// Size returns the current length of the region.
func (m *Memory) Size() int64 { return int64(len(m.data)) }

// Limit returns the maximum size of the region.
func (m *Memory) Limit() int64 { return m.limit }

// Append grows the region by n zero bytes.
func (m *Memory) Append(n int64) error {
	if err := checkGrow(m.Size(), n, m.limit); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	old := len(m.data)
	if cap(m.data)-old >= int(n) {
		// Reuse capacity left over from a Reset; it may hold stale bytes.
		m.data = m.data[:old+int(n)]
		clear(m.data[old:])
		return nil
	}
	m.data = append(m.data, make([]byte, n)...)
	return nil
}

// Reset truncates the region to zero length, keeping its capacity.
func (m *Memory) Reset() error {
	m.data = m.data[:0]
	return nil
}

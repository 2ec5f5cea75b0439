//go:build unix

package heap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMapped(t testing.TB, limit int64) (*Mapped, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "heap.bin")
	m, err := OpenMapped(path, limit)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m, path
}

func Test_Mapped_AppendRemaps(t *testing.T) {
	m, path := newTestMapped(t, 1<<20)
	require.Empty(t, m.Bytes())

	require.NoError(t, m.Append(4096))
	m.Bytes()[10] = 0x5A

	require.NoError(t, m.Append(8192))
	require.Len(t, m.Bytes(), 4096+8192)
	assert.Equal(t, byte(0x5A), m.Bytes()[10], "contents survive remap")
	assert.Equal(t, byte(0), m.Bytes()[5000])

	require.NoError(t, m.Sync(0, 16))

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(4096+8192), st.Size())
}

func Test_Mapped_Limit(t *testing.T) {
	m, _ := newTestMapped(t, 4096)
	require.NoError(t, m.Append(4096))

	err := m.Append(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfSpace))
	assert.Len(t, m.Bytes(), 4096)
}

func Test_Mapped_ResetAndClose(t *testing.T) {
	m, path := newTestMapped(t, 1<<20)
	require.NoError(t, m.Append(4096))
	m.Bytes()[0] = 1

	require.NoError(t, m.Reset())
	assert.Empty(t, m.Bytes())
	require.NoError(t, m.Append(16))
	assert.Equal(t, byte(0), m.Bytes()[0], "reset discards old contents")

	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "double close is a no-op")
	require.ErrorIs(t, m.Append(16), ErrClosed)

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(16), st.Size())
}

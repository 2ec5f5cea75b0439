package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPack_RoundTrip(t *testing.T) {
	sizes := []int{0, 16, 32, 48, 4096, 1 << 20, MaxBlockSize}
	for _, size := range sizes {
		for _, alloc := range []bool{false, true} {
			for _, prev := range []bool{false, true} {
				tag := Pack(size, alloc, prev)
				assert.Equal(t, size, tag.Size(), "size %d", size)
				assert.Equal(t, alloc, tag.Alloc(), "alloc for size %d", size)
				assert.Equal(t, prev, tag.PrevAlloc(), "prevAlloc for size %d", size)
				assert.False(t, tag.Reserved())
			}
		}
	}
}

func TestPack_Bits(t *testing.T) {
	assert.Equal(t, Tag(0x20), Pack(32, false, false))
	assert.Equal(t, Tag(0x21), Pack(32, true, false))
	assert.Equal(t, Tag(0x22), Pack(32, false, true))
	assert.Equal(t, Tag(0x3), Pack(0, true, true), "sentinel encoding")
}

func TestTag_WithPrevAlloc(t *testing.T) {
	tag := Pack(64, true, false)

	set := tag.WithPrevAlloc(true)
	assert.True(t, set.PrevAlloc())
	assert.True(t, set.Alloc(), "alloc bit must survive")
	assert.Equal(t, 64, set.Size())

	cleared := set.WithPrevAlloc(false)
	assert.Equal(t, tag, cleared)
}

func TestTag_Reserved(t *testing.T) {
	assert.True(t, Tag(0x24).Reserved())
	assert.True(t, Tag(0x28).Reserved())
	assert.False(t, Tag(0x23).Reserved())
}

func TestReadPutTag(t *testing.T) {
	buf := make([]byte, 32)
	PutTag(buf, 8, Pack(48, true, true))

	got := ReadTag(buf, 8)
	require.Equal(t, 48, got.Size())
	require.True(t, got.Alloc())
	require.True(t, got.PrevAlloc())

	// Little-endian: low byte first.
	assert.Equal(t, byte(0x33), buf[8])
	assert.Equal(t, uint64(0x33), ReadU64(buf, 8))
}

package alloc

import (
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/mocks"
	"github.com/joshuapare/heapkit/internal/format"
)

// newMockedRegion returns a mock region that forwards Bytes and Reset to an
// in-memory region. Append expectations are left to the caller.
func newMockedRegion(t *testing.T) (*mocks.MockRegion, *heap.Memory) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mem := heap.NewMemory(testLimit)
	r := mocks.NewMockRegion(ctrl)
	r.EXPECT().Bytes().DoAndReturn(mem.Bytes).AnyTimes()
	r.EXPECT().Reset().DoAndReturn(mem.Reset).AnyTimes()
	return r, mem
}

func Test_Grow_SecondLargeAllocForcesGrowth(t *testing.T) {
	a := newTestAllocator(t)
	grows := setupGrowCounter(a)

	p := mustMalloc(t, a, 4000)
	assert.Equal(t, 0, *grows, "first request fits the initial chunk")

	q := mustMalloc(t, a, 4000)
	assert.Equal(t, 1, *grows)
	assert.NotEqual(t, p, q)

	// Non-overlapping payloads.
	pEnd := int(p) + a.PayloadSize(p)
	qEnd := int(q) + a.PayloadSize(q)
	assert.True(t, pEnd <= int(q) || qEnd <= int(p), "payloads overlap: [%d,%d) [%d,%d)", p, pEnd, q, qEnd)
	assertInvariants(t, a)
}

func Test_Grow_MergesWithFreeTail(t *testing.T) {
	a := newTestAllocator(t)

	p := mustMalloc(t, a, 4000) // 4016, leaving an 80-byte tail
	tail := a.v.next(a.v.fromPayload(p))
	require.Equal(t, 80, a.v.size(tail))

	q := mustMalloc(t, a, 4000)
	assert.Equal(t, a.v.payload(tail), q, "new space merged with the tail before placing")
	assert.Equal(t, initialHeapSize+format.ChunkSize, a.HeapSize())
	assert.Equal(t, 1, a.Counters().CoalescePrev)
	assertInvariants(t, a)
}

func Test_Grow_RequestLargerThanChunk(t *testing.T) {
	a := newTestAllocator(t)
	before := a.HeapSize()

	p := mustMalloc(t, a, 10000)
	asize := format.AdjustedSize(10000)
	assert.Equal(t, before+asize, a.HeapSize(), "grows by the request, not the chunk")
	assert.GreaterOrEqual(t, a.PayloadSize(p), 10000)
	assertInvariants(t, a)
}

func Test_Grow_OutOfSpaceLeavesHeapUsable(t *testing.T) {
	a := newTestAllocatorWithLimit(t, initialHeapSize)
	before := freeListState(a)

	_, err := a.Malloc(5000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSpace))
	assert.True(t, errors.Is(err, heap.ErrOutOfSpace))

	assert.Equal(t, initialHeapSize, a.HeapSize())
	assert.Equal(t, before, freeListState(a))
	assertInvariants(t, a)

	p := mustMalloc(t, a, 100)
	assert.NotEqual(t, Nil, p)
}

func Test_Grow_MockRegionFailure(t *testing.T) {
	r, mem := newMockedRegion(t)
	gomock.InOrder(
		r.EXPECT().Append(int64(format.SentinelSize)).DoAndReturn(mem.Append),
		r.EXPECT().Append(int64(format.ChunkSize)).DoAndReturn(mem.Append),
		r.EXPECT().Append(gomock.Any()).Return(errors.Wrap(heap.ErrOutOfSpace, "mock refuses")),
	)

	a := New(r)
	require.NoError(t, a.Init())

	_, err := a.Malloc(8000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSpace))
	assertInvariants(t, a)

	// The initial chunk still serves small requests without growth.
	mustMalloc(t, a, 64)
	assertInvariants(t, a)
}

func Test_Grow_RegionThatDoesNotGrow(t *testing.T) {
	r, mem := newMockedRegion(t)
	gomock.InOrder(
		r.EXPECT().Append(int64(format.SentinelSize)).DoAndReturn(mem.Append),
		r.EXPECT().Append(int64(format.ChunkSize)).Return(nil),
	)

	err := New(r).Init()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGrowFail))
}

func Test_Grow_InitFailure(t *testing.T) {
	r, _ := newMockedRegion(t)
	r.EXPECT().Append(gomock.Any()).Return(errors.Wrap(heap.ErrOutOfSpace, "mock refuses"))

	a := New(r)
	err := a.Init()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSpace))
	assert.False(t, a.Initialized())

	_, err = a.Malloc(8)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func Test_Grow_ChunkSizeOption(t *testing.T) {
	a := newTestAllocator(t, WithChunkSize(100))
	assert.Equal(t, format.SentinelSize+112, a.HeapSize())

	grows := setupGrowCounter(a)
	mustMalloc(t, a, 200)
	assert.Equal(t, 1, *grows)
	assertInvariants(t, a)

	small := newTestAllocator(t, WithChunkSize(1))
	assert.Equal(t, format.SentinelSize+format.MinBlockSize, small.HeapSize())
}

func Test_Grow_MappedRegion(t *testing.T) {
	m, err := heap.OpenMapped(filepath.Join(t.TempDir(), "heap.bin"), testLimit)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	a := New(m)
	require.NoError(t, a.Init())

	var ptrs []Ptr
	for i := range 50 {
		p := mustMalloc(t, a, 100+i*37)
		fill(a, p, byte(i))
		ptrs = append(ptrs, p)
	}
	assertInvariants(t, a)
	for i, p := range ptrs {
		assert.Equal(t, byte(i), a.Payload(p)[0], "payload %d survived remaps", i)
	}
}

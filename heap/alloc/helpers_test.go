package alloc

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

// ============================================================================
// Allocator Creation Utilities
// ============================================================================

// testLimit is the region limit used by newTestAllocator.
const testLimit = 1 << 20

// initialHeapSize is the heap size right after Init with the default chunk.
const initialHeapSize = format.SentinelSize + format.ChunkSize

// newTestAllocator returns an initialized allocator over a fresh in-memory region.
func newTestAllocator(t testing.TB, opts ...Option) *Allocator {
	t.Helper()
	return newTestAllocatorWithLimit(t, testLimit, opts...)
}

func newTestAllocatorWithLimit(t testing.TB, limit int64, opts ...Option) *Allocator {
	t.Helper()
	a := New(heap.NewMemory(limit), opts...)
	require.NoError(t, a.Init())
	return a
}

// mustMalloc allocates size bytes and fails the test on error.
func mustMalloc(t testing.TB, a *Allocator, size int) Ptr {
	t.Helper()
	p, err := a.Malloc(size)
	require.NoError(t, err, "malloc(%d)", size)
	require.NotEqual(t, Nil, p, "malloc(%d) returned nil", size)
	return p
}

// ============================================================================
// Invariant Checking
// ============================================================================

// assertInvariants fails the test if the heap is inconsistent.
func assertInvariants(t testing.TB, a *Allocator) {
	t.Helper()
	require.NoError(t, a.Validate())
}

// freeBlockInfo identifies a free block for state comparisons.
type freeBlockInfo struct {
	Off  int
	Size int
}

// freeListState returns the contents of every class, sorted by offset so
// that LIFO reordering does not count as a difference.
func freeListState(a *Allocator) [NumClasses][]freeBlockInfo {
	var out [NumClasses][]freeBlockInfo
	for c := range NumClasses {
		for b := a.idx.head(c); b != noBlock; b = a.v.free(b).next() {
			out[c] = append(out[c], freeBlockInfo{Off: int(b), Size: a.v.size(b)})
		}
		slices.SortFunc(out[c], func(x, y freeBlockInfo) int { return x.Off - y.Off })
	}
	return out
}

// classList returns class c in list order.
func classList(a *Allocator, c int) []block {
	var out []block
	for b := a.idx.head(c); b != noBlock; b = a.v.free(b).next() {
		out = append(out, b)
	}
	return out
}

// ============================================================================
// Raw Heap Access
// ============================================================================

func readTag(a *Allocator, off int) format.Tag {
	return format.ReadTag(a.r.Bytes(), off)
}

func putTag(a *Allocator, off int, t format.Tag) {
	format.PutTag(a.r.Bytes(), off, t)
}

// fill writes v over the whole payload of p.
func fill(a *Allocator, p Ptr, v byte) {
	buf := a.Payload(p)
	for i := range buf {
		buf[i] = v
	}
}

// ============================================================================
// Dirty Tracking Spy
// ============================================================================

// MockDirtyTracker is a spy that records all Add() calls for testing.
type MockDirtyTracker struct {
	Calls []DirtyCall
}

// DirtyCall represents a single call to Add().
type DirtyCall struct {
	Off int
	Len int
}

func newMockDirtyTracker() *MockDirtyTracker {
	return &MockDirtyTracker{Calls: make([]DirtyCall, 0, 32)}
}

func (m *MockDirtyTracker) Add(off, length int) {
	m.Calls = append(m.Calls, DirtyCall{Off: off, Len: length})
}

// WasCalledAt returns true if Add() covered off.
func (m *MockDirtyTracker) WasCalledAt(off int) bool {
	for _, call := range m.Calls {
		if call.Off <= off && off < call.Off+call.Len {
			return true
		}
	}
	return false
}

func (m *MockDirtyTracker) Reset() {
	m.Calls = m.Calls[:0]
}

// ============================================================================
// Test Hook Setup
// ============================================================================

// setupGrowCounter counts extend calls. Returns a pointer to the counter.
func setupGrowCounter(a *Allocator) *int {
	growCount := 0
	a.onGrow = func(int) { growCount++ }
	return &growCount
}

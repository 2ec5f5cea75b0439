package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/joshuapare/heapkit/internal/format"
)

func Test_Stats_Walk(t *testing.T) {
	a := newTestAllocator(t)
	p := mustMalloc(t, a, 100) // 112
	mustMalloc(t, a, 16)       // 32
	a.Free(p)

	s := a.Stats()
	assert.Equal(t, initialHeapSize, s.HeapSize)
	assert.Equal(t, 3, s.Blocks)
	assert.Equal(t, 1, s.AllocBlocks)
	assert.Equal(t, 32, s.AllocBytes)
	assert.Equal(t, 2, s.FreeBlocks)
	assert.Equal(t, format.ChunkSize-32, s.FreeBytes)
	assert.Equal(t, format.ChunkSize-144, s.LargestFree)
	assert.Equal(t, 1, s.ClassLens[2])
	assert.Equal(t, 1, s.ClassLens[7])

	assert.Equal(t, 2, s.MallocCalls)
	assert.Equal(t, 1, s.FreeCalls)
	assert.Equal(t, 2, s.Splits)
	assert.Equal(t, 2, s.FitHits)
	assert.InDelta(t, 32.0/float64(initialHeapSize), s.Utilization(), 1e-9)
}

func Test_Stats_GrowCounters(t *testing.T) {
	a := newTestAllocator(t)
	assert.Equal(t, 1, a.Counters().GrowCalls, "initial chunk")

	mustMalloc(t, a, 8000)
	c := a.Counters()
	assert.Equal(t, 2, c.GrowCalls)
	assert.Equal(t, int64(format.ChunkSize+format.AdjustedSize(8000)), c.GrowBytes)
	assert.Equal(t, 1, c.FitMisses)
}

func Test_Stats_BeforeInit(t *testing.T) {
	a := New(nil)
	assert.Equal(t, Stats{}, a.Stats())
	assert.Zero(t, Stats{}.Utilization())
}

func Test_LogStats(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := newTestAllocator(t, WithLogger(zap.New(core)))
	mustMalloc(t, a, 64)

	a.LogStats()
	entries := logs.FilterMessage("allocator stats").All()
	assert.Len(t, entries, 1)
	assert.EqualValues(t, initialHeapSize, entries[0].ContextMap()["heapSize"])

	a.DebugLogAllBlocks(zap.New(core))
	assert.Equal(t, 2, logs.FilterMessage("block").Len())
}

func Test_Counters_MatchStats(t *testing.T) {
	a := newTestAllocator(t)
	p := mustMalloc(t, a, 64)
	a.Free(p)

	var c Counters = a.Counters()
	assert.Equal(t, 1, c.MallocCalls)
	assert.Equal(t, 1, c.FreeCalls)
	assert.Equal(t, c, a.Stats().Counters)
}

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/driver"
	"github.com/joshuapare/heapkit/internal/trace"
)

func TestRun_Text(t *testing.T) {
	resetGlobals(t)
	a := writeTrace(t, "short1.rep", shortTrace)
	b := writeTrace(t, "short2.rep", "a 0 4000\nf 0\n")

	out, err := captureOutput(t, func() error {
		return runRun(context.Background(), []string{a, b})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "short1.rep")
	assert.Contains(t, out, "short2.rep")
	assert.Contains(t, out, "Total")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 4)
}

func TestRun_JSON(t *testing.T) {
	resetGlobals(t)
	jsonOut = true
	path := writeTrace(t, "short1.rep", shortTrace)

	out, err := captureOutput(t, func() error {
		return runRun(context.Background(), []string{path})
	})
	require.NoError(t, err)

	var results []map[string]any
	assertJSON(t, out, &results)
	require.Len(t, results, 1)
	assert.Equal(t, "short1.rep", results[0]["trace"])
	assert.EqualValues(t, 7, results[0]["ops"])
	assert.EqualValues(t, 896, results[0]["peakLive"])
}

func TestRun_Mapped(t *testing.T) {
	resetGlobals(t)
	runHeap.mapped = filepath.Join(t.TempDir(), "heap.bin")
	path := writeTrace(t, "short1.rep", shortTrace)

	_, err := captureOutput(t, func() error {
		return runRun(context.Background(), []string{path})
	})
	require.NoError(t, err)

	info, err := os.Stat(runHeap.mapped)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRun_BadTrace(t *testing.T) {
	resetGlobals(t)
	path := writeTrace(t, "bad.rep", "a 0 8\nf 1\n")

	_, err := captureOutput(t, func() error {
		return runRun(context.Background(), []string{path})
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrUnknownID))
}

func TestCheck(t *testing.T) {
	resetGlobals(t)
	path := writeTrace(t, "short1.rep", shortTrace)

	out, err := captureOutput(t, func() error {
		return runCheck(context.Background(), []string{path})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "short1.rep: ok (7 ops)")
}

func TestDump_StopsEarly(t *testing.T) {
	resetGlobals(t)
	dumpOps = 2
	path := writeTrace(t, "short1.rep", shortTrace)

	out, err := captureOutput(t, func() error {
		return runDump(context.Background(), []string{path})
	})
	require.NoError(t, err)

	var m struct {
		Initialized     bool `json:"initialized"`
		AllocatedBlocks int  `json:"allocatedBlocks"`
		Blocks          []struct {
			Allocated bool `json:"allocated"`
		} `json:"blocks"`
	}
	assertJSON(t, out, &m)
	assert.True(t, m.Initialized)
	assert.Equal(t, 2, m.AllocatedBlocks)
	assert.NotEmpty(t, m.Blocks)
}

func TestGen_ToFile(t *testing.T) {
	resetGlobals(t)
	genOut = filepath.Join(t.TempDir(), "random.rep")
	genOpts.Ops = 300
	genSeed = 5

	require.NoError(t, runGen())

	tr, err := trace.Load(genOut)
	require.NoError(t, err)
	assert.Equal(t, 300, tr.Len())
}

func TestQuietSuppressesOutput(t *testing.T) {
	resetGlobals(t)
	quiet = true
	path := writeTrace(t, "short1.rep", shortTrace)

	out, err := captureOutput(t, func() error {
		return runCheck(context.Background(), []string{path})
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestVersion(t *testing.T) {
	resetGlobals(t)
	out, err := captureOutput(t, func() error {
		versionCmd.Run(versionCmd, nil)
		return nil
	})
	require.NoError(t, err)
	assert.Contains(t, out, "heapctl ")
	assert.Contains(t, out, "commit: none")
}

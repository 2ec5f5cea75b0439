package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const shortTrace = `# two ids and a zero-allocation
a 0 512
a 1 128
r 0 640
c 2 4 32
f 1
f 0
f 2
`

// writeTrace writes src to a trace file in a temp dir and returns its path.
func writeTrace(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON and decodes it into v.
func assertJSON(t *testing.T, output string, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(output), v), "output:\n%s", output)
}

// resetGlobals restores flag variables between tests.
func resetGlobals(t *testing.T) {
	t.Helper()
	verbose, quiet, jsonOut = false, false, false
	runHeap = heapFlags{seed: 1}
	runVerify = true
	checkHeap = heapFlags{seed: 1}
	dumpHeap = heapFlags{seed: 1}
	dumpOps = 0
	genOut, genSeed = "", 1
	genOpts.Ops = 1000
}

package trace

import (
	"bufio"
	"bytes"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/joshuapare/heapkit/internal/mmfile"
)

const headerLines = 4

// Load maps the file at path and parses it.
func Load(path string) (*Trace, error) {
	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, errors.Wrapf(err, "trace: open %s", path)
	}
	defer cleanup()

	t, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "trace: %s", filepath.Base(path))
	}
	t.Name = filepath.Base(path)
	return t, nil
}

// Parse reads a trace from r. A header is recognized when the first
// significant line is a single integer.
func Parse(r io.Reader) (*Trace, error) {
	t := &Trace{Weight: 1}
	var (
		header   []int
		inHeader bool
		sawOp    bool
		lineNo   int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		if !sawOp && len(header) == 0 && len(fields) == 1 {
			if _, err := strconv.Atoi(fields[0]); err == nil {
				inHeader = true
			}
		}
		if inHeader {
			if len(fields) != 1 {
				return nil, syntaxErr(lineNo, "header line %q must hold one integer", scanner.Text())
			}
			n, err := atoiNonNeg(fields[0])
			if err != nil {
				return nil, syntaxErr(lineNo, "header value %q: %v", fields[0], err)
			}
			header = append(header, n)
			if len(header) == headerLines {
				inHeader = false
			}
			continue
		}

		op, err := parseOp(fields)
		if err != nil {
			return nil, syntaxErr(lineNo, "%v", err)
		}
		sawOp = true
		t.Ops = append(t.Ops, op)
		t.NumIDs = max(t.NumIDs, op.ID+1)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "trace: read")
	}
	if inHeader {
		return nil, errors.Mark(errors.Newf("trace: header has %d of %d lines", len(header), headerLines), ErrSyntax)
	}

	if len(header) == headerLines {
		t.SuggestedHeap, t.Weight = header[0], header[3]
		if numOps := header[2]; numOps != len(t.Ops) {
			return nil, errors.Mark(errors.Newf("trace: header declares %d ops, found %d", numOps, len(t.Ops)), ErrHeader)
		}
		numIDs := header[1]
		if t.NumIDs > numIDs {
			return nil, errors.Mark(errors.Newf("trace: header declares %d ids, found id %d", numIDs, t.NumIDs-1), ErrHeader)
		}
		t.NumIDs = numIDs
	}
	return t, nil
}

func parseOp(fields []string) (Op, error) {
	if len(fields[0]) != 1 {
		return Op{}, errors.Newf("unknown op %q", fields[0])
	}
	op := Op{Kind: Kind(fields[0][0])}

	var want int
	switch op.Kind {
	case Alloc, Realloc:
		want = 3
	case Calloc:
		want = 4
	case Free:
		want = 2
	default:
		return Op{}, errors.Newf("unknown op %q", fields[0])
	}
	if len(fields) != want {
		return Op{}, errors.Newf("%s takes %d arguments, got %d", op.Kind, want-1, len(fields)-1)
	}

	nums := make([]int, len(fields)-1)
	for i, f := range fields[1:] {
		n, err := atoiNonNeg(f)
		if err != nil {
			return Op{}, errors.Wrapf(err, "%s argument %d", op.Kind, i+1)
		}
		nums[i] = n
	}
	op.ID = nums[0]
	switch op.Kind {
	case Alloc, Realloc:
		op.Size = nums[1]
	case Calloc:
		op.Count, op.Size = nums[1], nums[2]
	}
	return op, nil
}

func atoiNonNeg(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Newf("%q is not an integer", s)
	}
	if n < 0 {
		return 0, errors.Newf("%d is negative", n)
	}
	return n, nil
}

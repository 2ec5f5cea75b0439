package trace

import (
	"bufio"
	"io"
	"strconv"
)

// WriteTo writes t with a header so that Parse reads it back unchanged. A
// zero Weight is written as 1, the weight Parse assigns when none is given.
func (t *Trace) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	weight := t.Weight
	if weight == 0 {
		weight = 1
	}
	for _, n := range []int{t.SuggestedHeap, t.NumIDs, len(t.Ops), weight} {
		bw.WriteString(strconv.Itoa(n))
		bw.WriteByte('\n')
	}

	var buf []byte
	for _, op := range t.Ops {
		buf = append(buf[:0], byte(op.Kind), ' ')
		buf = strconv.AppendInt(buf, int64(op.ID), 10)
		switch op.Kind {
		case Alloc, Realloc:
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(op.Size), 10)
		case Calloc:
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(op.Count), 10)
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(op.Size), 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return cw.n, err
		}
	}
	err := bw.Flush()
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

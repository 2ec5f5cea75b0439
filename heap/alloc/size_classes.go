package alloc

import "github.com/joshuapare/heapkit/internal/format"

// NumClasses is the number of segregated free lists.
const NumClasses = 8

// classLimits holds the inclusive upper bound of every class but the last,
// which takes everything larger.
var classLimits = [NumClasses - 1]int{32, 64, 128, 256, 512, 1024, 2048}

// classOf returns the free list a block of the given size belongs to.
// Monotonic in size.
func classOf(size int) int {
	for i, limit := range classLimits {
		if size <= limit {
			return i
		}
	}
	return NumClasses - 1
}

// ClassLimit returns the inclusive upper bound of class c, or -1 for the
// unbounded last class.
func ClassLimit(c int) int {
	if c < 0 || c >= len(classLimits) {
		return -1
	}
	return classLimits[c]
}

// ClassLowerBound returns the smallest block size filed in class c.
func ClassLowerBound(c int) int {
	if c <= 0 {
		return format.MinBlockSize
	}
	return classLimits[c-1] + format.DoubleWordSize
}

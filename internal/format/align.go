package format

// Align16 returns n aligned up to the next 16-byte boundary.
//
// Example:
//
//	Align16(1)  = 16
//	Align16(16) = 16
//	Align16(17) = 32
func Align16(n int) int {
	return (n + Align16Mask) & ^Align16Mask
}

// IsAligned16 reports whether n is a multiple of 16.
func IsAligned16(n int) bool {
	return n&Align16Mask == 0
}

// AdjustedSize converts a caller request into a block size: the request
// plus the header, rounded up to the alignment unit, never below
// MinBlockSize.
//
// Example:
//
//	AdjustedSize(1)   = 32
//	AdjustedSize(24)  = 32
//	AdjustedSize(25)  = 48
//	AdjustedSize(100) = 112
func AdjustedSize(size int) int {
	return max(MinBlockSize, Align16(size+HeaderSize))
}

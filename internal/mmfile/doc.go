// Package mmfile maps input files read-only into memory. On unix the file
// is mapped with mmap; elsewhere it is read whole.
package mmfile

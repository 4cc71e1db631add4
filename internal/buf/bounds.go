// Package buf contains bounds-checked helpers for decoding fixed-layout index records.
package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// CheckTable validates that a table of count records of recordSize bytes,
// starting at offset, ends exactly at bufLen. Fixed-width index layouts carry
// no trailer, so any slack means the count field is not what it claims.
func CheckTable(bufLen, offset, count, recordSize int) error {
	if offset < 0 || count < 0 || recordSize <= 0 {
		return fmt.Errorf("invalid table geometry: offset=%d count=%d size=%d", offset, count, recordSize)
	}
	if count > (math.MaxInt-offset)/recordSize {
		return fmt.Errorf("overflow: count=%d * size=%d", count, recordSize)
	}
	if end := offset + count*recordSize; end != bufLen {
		return fmt.Errorf("table ends at %d, buffer is %d bytes", end, bufLen)
	}
	return nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}

// Within reports whether [off, off+n) lies inside a region of size total.
func Within(off, n uint32, total int64) bool {
	return int64(off)+int64(n) <= total
}

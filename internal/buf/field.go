package buf

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// U32 reads a little-endian uint32 at off. The caller guarantees bounds.
func U32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// PutU32 writes v little-endian at off. The caller guarantees bounds.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// Fixed returns the bytes of a NUL-padded field of width n at off, with the
// padding removed. Anything after the first NUL is ignored.
func Fixed(b []byte, off, n int) []byte {
	f := b[off : off+n]
	if i := bytes.IndexByte(f, 0); i >= 0 {
		return f[:i]
	}
	return f
}

// PutFixed copies name into the width-n field at off and zero-fills the rest.
func PutFixed(b []byte, off, n int, name []byte) error {
	if len(name) > n {
		return fmt.Errorf("name is %d bytes, field holds %d", len(name), n)
	}
	f := b[off : off+n]
	copy(f, name)
	clear(f[len(name):])
	return nil
}

// CString reads a NUL-terminated string starting at off, scanning at most
// limit bytes. It returns the string bytes and the offset just past the NUL.
func CString(b []byte, off, limit int) ([]byte, int, error) {
	if off < 0 || off >= len(b) {
		return nil, 0, fmt.Errorf("string at %d outside %d-byte buffer", off, len(b))
	}
	window := b[off:]
	if len(window) > limit+1 {
		window = window[:limit+1]
	}
	i := bytes.IndexByte(window, 0)
	if i < 0 {
		return nil, 0, fmt.Errorf("unterminated string at %d", off)
	}
	return window[:i], off + i + 1, nil
}

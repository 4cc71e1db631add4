// Package mmfile exposes a data file as a read-only byte range, memory
// mapped where the platform allows it.
package mmfile

import (
	"errors"
	"io"
)

// Mapping is a read-only view of a file. It implements io.ReaderAt.
type Mapping struct {
	data  []byte
	unmap func() error
}

// Bytes returns the mapped contents. The slice is invalid after Close.
func (m *Mapping) Bytes() []byte { return m.data }

// Len returns the mapped length.
func (m *Mapping) Len() int64 { return int64(len(m.data)) }

// ReadAt copies from the mapping at off.
func (m *Mapping) ReadAt(p []byte, off int64) (int, error) {
	if m.data == nil && m.unmap == nil {
		return 0, errors.New("mmfile: read after close")
	}
	if off < 0 {
		return 0, errors.New("mmfile: negative offset")
	}
	if off >= int64(len(m.data)) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close releases the mapping. Calling it twice is a no-op.
func (m *Mapping) Close() error {
	if m.unmap == nil {
		return nil
	}
	err := m.unmap()
	m.data, m.unmap = nil, nil
	return err
}

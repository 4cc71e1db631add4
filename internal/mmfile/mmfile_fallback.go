//go:build !unix

package mmfile

import "os"

// Open reads the whole file where mmap is unavailable or would pin the file
// against the rename that follows (Windows).
func Open(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Mapping{data: data, unmap: func() error { return nil }}, nil
}

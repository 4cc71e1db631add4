//go:build linux || freebsd

package writer

import (
	"os"

	"golang.org/x/sys/unix"
)

// datasync flushes file data; metadata other than size is not forced.
func datasync(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return unix.Fsync(int(d.Fd()))
}

//go:build darwin

package writer

import (
	"os"

	"golang.org/x/sys/unix"
)

// datasync uses F_FULLFSYNC so the drive cache is flushed as well.
func datasync(f *os.File) error {
	if _, err := unix.FcntlInt(f.Fd(), unix.F_FULLFSYNC, 0); err != nil {
		// Some filesystems (network, FUSE) reject F_FULLFSYNC.
		return unix.Fsync(int(f.Fd()))
	}
	return nil
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return unix.Fsync(int(d.Fd()))
}

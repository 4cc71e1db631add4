// Package writer holds the file primitives behind a transactional save:
// backups, same-directory temp files, durable sync and atomic swap.
package writer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// BackupSuffix is appended to a path to name its backup.
const BackupSuffix = ".bak"

// newFilePerm is the mode given to a target that does not exist yet.
const newFilePerm fs.FileMode = 0o644

// Temp is a temp file created next to its target so the final rename stays
// on one filesystem.
type Temp struct {
	Target string

	f    *os.File
	path string
	done bool
}

// NewTemp creates a temp file in the directory of target. The temp file
// carries target's permission bits, or newFilePerm when target is absent, so
// the rename in Commit changes contents only.
func NewTemp(target string) (*Temp, error) {
	perm := newFilePerm
	if st, err := os.Stat(target); err == nil {
		perm = st.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat target: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	if err := f.Chmod(perm); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("chmod temp file: %w", err)
	}
	return &Temp{Target: target, f: f, path: f.Name()}, nil
}

// Path returns the temp file's path.
func (t *Temp) Path() string { return t.path }

// Write appends p to the temp file.
func (t *Temp) Write(p []byte) (int, error) {
	if t.f == nil {
		return 0, errors.New("write to closed temp file")
	}
	return t.f.Write(p)
}

// Finish flushes the temp file to stable storage and closes it.
func (t *Temp) Finish() error {
	if t.f == nil {
		return nil
	}
	if err := datasync(t.f); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	err := t.f.Close()
	t.f = nil
	if err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return nil
}

// Commit finishes the temp file and renames it over Target.
func (t *Temp) Commit() error {
	if err := t.Finish(); err != nil {
		return err
	}
	if err := os.Rename(t.path, t.Target); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	t.done = true
	return syncDir(filepath.Dir(t.Target))
}

// Abort closes and removes the temp file unless it was committed. It is safe
// to defer unconditionally.
func (t *Temp) Abort() {
	if t.f != nil {
		_ = t.f.Close()
		t.f = nil
	}
	if !t.done {
		_ = os.Remove(t.path)
		t.done = true
	}
}

// WriteAtomic writes data to path via temp file + rename.
func WriteAtomic(path string, data []byte) error {
	t, err := NewTemp(path)
	if err != nil {
		return err
	}
	defer t.Abort()
	if _, err := t.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	return t.Commit()
}

// Backup copies path to path+BackupSuffix, replacing a stale backup, and
// returns the backup path.
func Backup(path string) (string, error) {
	bak := path + BackupSuffix
	if err := os.Remove(bak); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("remove stale backup: %w", err)
	}
	if err := copyFile(path, bak); err != nil {
		_ = os.Remove(bak)
		return "", fmt.Errorf("backup %s: %w", filepath.Base(path), err)
	}
	return bak, nil
}

// Restore moves a backup back over its original.
func Restore(bak, path string) error {
	if err := os.Rename(bak, path); err != nil {
		return fmt.Errorf("restore %s: %w", filepath.Base(path), err)
	}
	return syncDir(filepath.Dir(path))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	st, err := in.Stat()
	if err != nil {
		return err
	}

	// Chmod after open so the umask cannot narrow the restored mode.
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, st.Mode().Perm())
	if err != nil {
		return err
	}
	if err := out.Chmod(st.Mode().Perm()); err != nil {
		_ = out.Close()
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := datasync(out); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

package writer

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func entries(t *testing.T, dir string) []string {
	t.Helper()
	list, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range list {
		names = append(names, e.Name())
	}
	return names
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.pak")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, WriteAtomic(path, []byte("new contents")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "new contents", string(got))
	require.Equal(t, []string{"data.pak"}, entries(t, dir), "no temp files left behind")
}

func TestTempAbort(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "data.idx")

	tmp, err := NewTemp(target)
	require.NoError(t, err)
	require.Equal(t, dir, filepath.Dir(tmp.Path()))
	_, err = tmp.Write([]byte("partial"))
	require.NoError(t, err)

	tmp.Abort()
	tmp.Abort()
	require.Empty(t, entries(t, dir))
	require.NoFileExists(t, target)

	_, err = tmp.Write([]byte("x"))
	require.Error(t, err)
}

func TestTempAbortAfterCommitKeepsTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "data.idx")

	tmp, err := NewTemp(target)
	require.NoError(t, err)
	_, err = tmp.Write([]byte("index"))
	require.NoError(t, err)
	require.NoError(t, tmp.Commit())
	tmp.Abort()

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "index", string(got))
}

func TestBackupRestore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.pak")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))
	require.NoError(t, os.WriteFile(path+BackupSuffix, []byte("stale"), 0o644))

	bak, err := Backup(path)
	require.NoError(t, err)
	require.Equal(t, path+BackupSuffix, bak)

	got, err := os.ReadFile(bak)
	require.NoError(t, err)
	require.Equal(t, "original", string(got), "stale backup replaced")

	require.NoError(t, os.WriteFile(path, []byte("clobbered"), 0o644))
	require.NoError(t, Restore(bak, path))

	got, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "original", string(got))
	require.NoFileExists(t, bak)
}

func TestBackupMissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := Backup(filepath.Join(dir, "missing.pak"))
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Empty(t, entries(t, dir))
}

func fileMode(t *testing.T, path string) os.FileMode {
	t.Helper()
	st, err := os.Stat(path)
	require.NoError(t, err)
	return st.Mode().Perm()
}

func TestWriteAtomicKeepsMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "data.pak")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))
	require.NoError(t, os.Chmod(path, 0o640))

	require.NoError(t, WriteAtomic(path, []byte("new")))
	require.Equal(t, os.FileMode(0o640), fileMode(t, path))

	fresh := filepath.Join(dir, "fresh.idx")
	require.NoError(t, WriteAtomic(fresh, nil))
	require.Equal(t, os.FileMode(0o644), fileMode(t, fresh))
}

func TestBackupKeepsMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "data.pak")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o600))
	require.NoError(t, os.Chmod(path, 0o664))

	bak, err := Backup(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o664), fileMode(t, bak))

	require.NoError(t, os.Chmod(path, 0o600))
	require.NoError(t, Restore(bak, path))
	require.Equal(t, os.FileMode(0o664), fileMode(t, path), "restore brings back the original mode")
}

//go:build unix

package mmfile

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenReadOnlyUnix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pak")
	want := []byte{0xde, 0xad, 0xbe, 0xef, 0x42}
	require.NoError(t, os.WriteFile(path, want, 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, m.Close()) }()

	require.Equal(t, want, m.Bytes())
	require.Equal(t, int64(len(want)), m.Len())

	buf := make([]byte, 3)
	n, err := m.ReadAt(buf, 1)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, want[1:4], buf)

	n, err = m.ReadAt(buf, 3)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 2, n)
}

func TestOpenZeroLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pak")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	require.Zero(t, m.Len())

	n, err := m.ReadAt(nil, 0)
	require.NoError(t, err)
	require.Zero(t, n)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "second close is a no-op")
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.pak"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

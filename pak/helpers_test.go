package pak

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/pakkit/internal/testutil"
	"github.com/joshuapare/pakkit/pak/cipher"
	"github.com/joshuapare/pakkit/pak/format"
)

// testOptions carries material for every layout. The network and DES keys
// differ so a DES index is never mistaken for a ciphered OldL1 one.
func testOptions(t *testing.T) *Options {
	t.Helper()
	return &Options{Cipher: cipher.Config{
		Network:  testutil.Network(t, "pakkit01"),
		BlockKey: []byte("blowfish test key"),
		DESKey:   []byte("oldkey!!"),
	}}
}

type file struct {
	name string
	data []byte
}

func sampleFiles(n int) []file {
	out := make([]file, n)
	for i := range out {
		out[i] = file{
			name: fmt.Sprintf("entry%02d.bin", i),
			data: bytes.Repeat([]byte{byte(i + 1)}, 3+i*5),
		}
	}
	return out
}

// newArchive creates an archive of kind in a temp dir, saves files into it
// and returns the index path.
func newArchive(t *testing.T, kind format.Kind, encrypted bool, opts *Options, files []file) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.idx")
	c, err := CreateFormat(path, kind, encrypted, opts)
	require.NoError(t, err)
	for _, f := range files {
		require.NoError(t, c.Add(f.name, f.data, nil))
	}
	require.NoError(t, c.Save())
	return path
}

type fileState struct {
	index, data []byte
	entries     []string
}

func snapshot(t *testing.T, c *Container) fileState {
	t.Helper()
	idx, err := os.ReadFile(c.IndexPath())
	require.NoError(t, err)
	data, err := os.ReadFile(c.DataPath())
	require.NoError(t, err)
	return fileState{index: idx, data: data, entries: dirEntries(t, filepath.Dir(c.IndexPath()))}
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	list, err := os.ReadDir(dir)
	require.NoError(t, err)
	var out []string
	for _, e := range list {
		out = append(out, e.Name())
	}
	slices.Sort(out)
	return out
}

func requireContents(t *testing.T, c *Container, files []file) {
	t.Helper()
	require.Equal(t, len(files), c.Count())
	for i, f := range files {
		rec, err := c.Record(i)
		require.NoError(t, err)
		require.Equal(t, f.name, rec.Name)
		got, err := c.Extract(i)
		require.NoError(t, err, f.name)
		require.Equal(t, f.data, got, f.name)
	}
}

func bufferLogger(b *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(b, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

package pak

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/pakkit/pak/format"
	"github.com/joshuapare/pakkit/pkg/types"
)

func TestCatalog(t *testing.T) {
	base := newArchive(t, format.KindOldL1, false, nil, []file{
		{"a.txt", []byte("base a")},
		{"b.txt", []byte("base b")},
	})
	patch := newArchive(t, format.KindIdxV2, false, nil, []file{
		{"A.TXT", []byte("patched a")},
		{"c.txt", []byte("patch c")},
	})

	cat, err := OpenCatalog([]string{base, patch}, nil)
	require.NoError(t, err)
	require.Len(t, cat.Containers(), 2)

	recs := cat.Records()
	require.Len(t, recs, 4)
	require.Equal(t, base, recs[0].Source)
	require.Equal(t, patch, recs[3].Source)

	rec, ok := cat.Lookup("a.txt")
	require.True(t, ok)
	require.Equal(t, patch, rec.Source, "later archive overrides")
	got, err := cat.Extract(rec)
	require.NoError(t, err)
	require.Equal(t, "patched a", string(got))

	rec, ok = cat.Lookup("b.txt")
	require.True(t, ok)
	require.Equal(t, base, rec.Source)
	got, err = cat.Extract(rec)
	require.NoError(t, err)
	require.Equal(t, "base b", string(got))

	// The shadowed base copy is still reachable through its own record.
	got, err = cat.Extract(recs[0])
	require.NoError(t, err)
	require.Equal(t, "base a", string(got))

	_, ok = cat.Lookup("missing.txt")
	require.False(t, ok)

	rec.Source = filepath.Join(t.TempDir(), "other.idx")
	_, err = cat.Extract(rec)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestOpenCatalog_Error(t *testing.T) {
	_, err := OpenCatalog([]string{filepath.Join(t.TempDir(), "missing.idx")}, nil)
	require.ErrorIs(t, err, types.ErrNotFound)
}

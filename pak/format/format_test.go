package format

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/pakkit/internal/names"
	"github.com/joshuapare/pakkit/internal/testutil"
	"github.com/joshuapare/pakkit/pak/cipher"
	"github.com/joshuapare/pakkit/pkg/types"
)

// archive is an in-memory data file plus the records pointing into it.
type archive struct {
	data []byte
	recs []Record
}

func (a *archive) add(h Handler, name string, payload []byte) {
	rec, stored, err := h.EncodeEntry(Record{Name: name}, payload)
	if err != nil {
		panic(err)
	}
	rec.Offset = uint32(len(a.data))
	a.data = append(a.data, stored...)
	a.recs = append(a.recs, rec)
}

var samples = map[string][]byte{
	"tile001.img":  []byte("first payload"),
	"_sprite.spr":  bytes.Repeat([]byte("compressible "), 40),
	"list.txt":     []byte("x"),
	"a한글.txt":      []byte("korean name payload 0123456789"),
	".hidden":      {},
	"9lives.bin":   {1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13},
	"zz_last.json": []byte(`{"k":1}`),
}

var sampleOrder = []string{"tile001.img", "_sprite.spr", "list.txt", "a한글.txt", ".hidden", "9lives.bin", "zz_last.json"}

func build(t *testing.T, h Handler) ([]byte, *archive) {
	t.Helper()
	a := &archive{}
	for _, n := range sampleOrder {
		a.add(h, n, samples[n])
	}
	idx, err := h.BuildIndex(a.recs)
	require.NoError(t, err)
	return idx, a
}

func requireExtractsAll(t *testing.T, h Handler, a *archive, recs []Record) {
	t.Helper()
	require.Len(t, recs, len(sampleOrder))
	for i, r := range recs {
		require.Equal(t, sampleOrder[i], r.Name)
		got, err := h.ExtractEntry(bytes.NewReader(a.data), r)
		require.NoError(t, err, r.Name)
		require.Equal(t, samples[r.Name], got, r.Name)
	}
}

func networkConfig(t *testing.T, key string) cipher.Config {
	t.Helper()
	return cipher.Config{Network: testutil.Network(t, key)}
}

// cipheredIndex builds an index with mk under successive keys until the raw
// bytes no longer read as a plaintext table, so the test does not depend on
// one key's ciphertext happening to be illegal.
func cipheredIndex(t *testing.T, l layout, mk func(key string) ([]byte, *archive, cipher.Config)) ([]byte, *archive, cipher.Config) {
	t.Helper()
	for i := 0; i < 16; i++ {
		idx, a, cfg := mk(fmt.Sprintf("key%05d", i))
		if _, err := l.parse(idx); err != nil {
			return idx, a, cfg
		}
	}
	t.Fatal("every key produced a plaintext-legal table")
	return nil, nil, cipher.Config{}
}

func TestOldL1_Plain(t *testing.T) {
	idx, a := build(t, NewOldL1(cipher.Config{}, false))
	require.Len(t, idx, 4+28*len(sampleOrder))

	h, recs, err := Detect(idx, int64(len(a.data)), cipher.Config{}, nil)
	require.NoError(t, err)
	require.Equal(t, KindOldL1, h.Kind())
	require.Equal(t, LabelNone, h.EncryptionLabel())
	require.False(t, h.Protected())
	requireExtractsAll(t, h, a, recs)
}

func TestOldL1_Ciphered(t *testing.T) {
	idx, a, cfg := cipheredIndex(t, legacyLayout, func(key string) ([]byte, *archive, cipher.Config) {
		cfg := networkConfig(t, key)
		idx, a := build(t, NewOldL1(cfg, true))
		return idx, a, cfg
	})
	// The count stays in the clear.
	require.Equal(t, byte(len(sampleOrder)), idx[0])

	h, recs, err := Detect(idx, int64(len(a.data)), cfg, nil)
	require.NoError(t, err)
	require.Equal(t, KindOldL1, h.Kind())
	require.Equal(t, LabelL1, h.EncryptionLabel())
	require.True(t, h.Protected())
	requireExtractsAll(t, h, a, recs)

	// Payloads are ciphered too.
	require.NotEqual(t, samples["9lives.bin"][:8], a.data[recs[5].Offset:recs[5].Offset+8])
}

func TestOldL1_CipheredWithoutTables(t *testing.T) {
	idx, a, _ := cipheredIndex(t, legacyLayout, func(key string) ([]byte, *archive, cipher.Config) {
		cfg := networkConfig(t, key)
		idx, a := build(t, NewOldL1(cfg, true))
		return idx, a, cfg
	})
	_, _, err := Detect(idx, int64(len(a.data)), cipher.Config{}, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, types.ErrMalformed))
	require.True(t, errors.Is(err, types.ErrUninitializedCipher), "cause should surface: %v", err)
}

func TestOldL1_Empty(t *testing.T) {
	for _, raw := range [][]byte{make([]byte, 4), make([]byte, 31)} {
		h, recs, err := Detect(raw, 0, cipher.Config{}, nil)
		require.NoError(t, err)
		require.Equal(t, KindOldL1, h.Kind())
		require.Empty(t, recs)
	}
	// 32 zero bytes claim zero records but carry a full record's worth of slack.
	_, _, err := Detect(make([]byte, 32), 0, cipher.Config{}, nil)
	require.Error(t, err)
}

func TestOldDes(t *testing.T) {
	idx, a, cfg := cipheredIndex(t, legacyLayout, func(key string) ([]byte, *archive, cipher.Config) {
		cfg := cipher.Config{DESKey: []byte(key)}
		plain, a := build(t, NewOldL1(cipher.Config{}, false))
		ecb, err := cfg.DES()
		require.NoError(t, err)
		idx, err := ecb.Encrypt(plain, 4)
		require.NoError(t, err)
		return idx, a, cfg
	})

	h, recs, err := Detect(idx, int64(len(a.data)), cfg, nil)
	require.NoError(t, err)
	require.Equal(t, KindOldDes, h.Kind())
	require.Equal(t, LabelDES, h.EncryptionLabel())
	require.False(t, h.CanWrite())
	// Payloads were written in the clear.
	requireExtractsAll(t, h, a, recs)

	_, err = h.BuildIndex(recs)
	require.True(t, errors.Is(err, types.ErrUnsupported))
}

func TestIdxV2_PlainAndCiphered(t *testing.T) {
	idx, a := build(t, &IdxV2{})
	require.Equal(t, []byte("_IDX"), idx[:4])
	h, recs, err := Detect(idx, int64(len(a.data)), cipher.Config{}, nil)
	require.NoError(t, err)
	require.Equal(t, KindIdxV2, h.Kind())
	require.Equal(t, LabelNone, h.EncryptionLabel())
	requireExtractsAll(t, h, a, recs)

	idx, a, cfg := cipheredIndex(t, idxV2Layout, func(key string) ([]byte, *archive, cipher.Config) {
		cfg := cipher.Config{BlockKey: []byte(key)}
		ecb, err := cfg.Block()
		require.NoError(t, err)
		idx, a := build(t, &IdxV2{blockCipher{cfg: cfg, ecb: ecb, ciphered: true}})
		return idx, a, cfg
	})
	h, recs, err = Detect(idx, int64(len(a.data)), cfg, nil)
	require.NoError(t, err)
	require.Equal(t, KindIdxV2, h.Kind())
	require.Equal(t, LabelBlowfish, h.EncryptionLabel())
	require.True(t, h.Protected())
	requireExtractsAll(t, h, a, recs)
}

func TestExt_CipheredIndexNeedsDecryption(t *testing.T) {
	idx, a, cfg := cipheredIndex(t, extLayout, func(key string) ([]byte, *archive, cipher.Config) {
		cfg := cipher.Config{BlockKey: []byte(key)}
		ecb, err := cfg.Block()
		require.NoError(t, err)
		idx, a := build(t, &Ext{blockCipher{cfg: cfg, ecb: ecb, ciphered: true}})
		return idx, a, cfg
	})
	require.Equal(t, []byte("_EXT"), idx[:4])

	h, recs, err := Detect(idx, int64(len(a.data)), cfg, nil)
	require.NoError(t, err)
	require.Equal(t, KindExt, h.Kind())
	require.Equal(t, LabelBlowfish, h.EncryptionLabel())
	requireExtractsAll(t, h, a, recs)
}

func TestExt_BrotliEntries(t *testing.T) {
	h := &Ext{}
	idx, a := build(t, h)

	bound, recs, err := Detect(idx, int64(len(a.data)), cipher.Config{}, nil)
	require.NoError(t, err)
	require.Equal(t, KindExt, bound.Kind())
	requireExtractsAll(t, bound, a, recs)

	byName := map[string]Record{}
	for _, r := range recs {
		byName[r.Name] = r
	}
	spr := byName["_sprite.spr"]
	require.Equal(t, FlagBrotli, spr.Flags&FlagBrotli)
	require.Less(t, spr.StoredSize, spr.Size)
	require.Zero(t, byName["list.txt"].Flags&FlagBrotli, "incompressible entries are stored raw")
	require.Equal(t, byName["list.txt"].Size, byName["list.txt"].StoredSize)
}

func TestExt_PlainWinsTie(t *testing.T) {
	// An empty table reads as legal both ways; the plaintext reading wins.
	idx, err := (&Ext{}).BuildIndex(nil)
	require.NoError(t, err)
	h, recs, err := Detect(idx, 0, cipher.Config{BlockKey: []byte("any-key")}, nil)
	require.NoError(t, err)
	require.Equal(t, KindExt, h.Kind())
	require.Empty(t, recs)
	require.Equal(t, LabelNone, h.EncryptionLabel())
}

func extBIndex(recs []Record) []byte {
	out := append([]byte(nil), extBMagic...)
	out = append(out, 0, 0, 0, 0)
	out[6] = byte(len(recs))
	for _, r := range recs {
		var f [12]byte
		f[0], f[1], f[2], f[3] = byte(r.Offset), byte(r.Offset>>8), byte(r.Offset>>16), byte(r.Offset>>24)
		f[4], f[5] = byte(r.Size), byte(r.Size>>8)
		f[8], f[9] = byte(r.StoredSize), byte(r.StoredSize>>8)
		out = append(out, f[:]...)
		out = append(out, r.Name...)
		out = append(out, 0)
	}
	return out
}

func deflateRaw(t *testing.T, b []byte) []byte {
	t.Helper()
	var out bytes.Buffer
	w, err := flate.NewWriter(&out, flate.BestCompression)
	require.NoError(t, err)
	_, err = w.Write(b)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return out.Bytes()
}

func TestExtB_FallbackChain(t *testing.T) {
	brText := bytes.Repeat([]byte("brotli body "), 20)
	dfText := bytes.Repeat([]byte("deflate body "), 20)
	rawText := []byte("stored as-is")

	br, err := brotliCompress(brText)
	require.NoError(t, err)
	df := deflateRaw(t, dfText)

	var data []byte
	var recs []Record
	for _, e := range []struct {
		name   string
		stored []byte
		size   int
	}{
		{"brotli.txt", br, len(brText)},
		{"deflate.txt", df, len(dfText)},
		{"stored.txt", rawText, len(rawText)},
	} {
		recs = append(recs, Record{Name: e.name, Offset: uint32(len(data)), Size: uint32(e.size), StoredSize: uint32(len(e.stored))})
		data = append(data, e.stored...)
	}
	idx := extBIndex(recs)

	h, got, err := Detect(idx, int64(len(data)), cipher.Config{}, nil)
	require.NoError(t, err)
	require.Equal(t, KindExtB, h.Kind(), "ExtB must win over Ext for a _EXTB$ header")
	require.Equal(t, recs, got)

	want := [][]byte{brText, dfText, rawText}
	for i, r := range got {
		b, err := h.ExtractEntry(bytes.NewReader(data), r)
		require.NoError(t, err)
		require.Equal(t, want[i], b, r.Name)
	}

	require.False(t, h.CanWrite())
	_, _, err = h.EncodeEntry(Record{}, nil)
	require.True(t, errors.Is(err, types.ErrUnsupported))
}

func TestExtB_TrailingGarbage(t *testing.T) {
	idx := append(extBIndex([]Record{{Name: "a.txt"}}), 'x')
	_, err := (&ExtB{}).TryParse(idx)
	require.Error(t, err)
}

func TestExtB_HugeCount(t *testing.T) {
	idx := extBIndex([]Record{{Name: "a.txt"}})
	binary.LittleEndian.PutUint32(idx[len(extBMagic):], 0xffffffff)

	_, err := (&ExtB{}).TryParse(idx)
	require.ErrorContains(t, err, "cannot fit")

	_, _, err = Detect(idx, 0, cipher.Config{}, nil)
	require.True(t, errors.Is(err, types.ErrMalformed))
}

func TestDetect_Deterministic(t *testing.T) {
	idx, a := build(t, &IdxV2{})
	first, recs1, err := Detect(idx, int64(len(a.data)), cipher.Config{}, nil)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		h, recs, err := Detect(idx, int64(len(a.data)), cipher.Config{}, nil)
		require.NoError(t, err)
		require.Equal(t, first.Kind(), h.Kind())
		require.Equal(t, recs1, recs)
	}
}

func TestDetect_Malformed(t *testing.T) {
	_, _, err := Detect([]byte("definitely not an index"), 0, cipher.Config{}, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, types.ErrMalformed))
}

func TestDetect_ExtentOverrunFallsThrough(t *testing.T) {
	idx, a := build(t, NewOldL1(cipher.Config{}, false))
	_, _, err := Detect(idx, int64(len(a.data)-1), cipher.Config{}, nil)
	require.True(t, errors.Is(err, types.ErrMalformed))
}

func TestLayout_NameTooLong(t *testing.T) {
	_, err := legacyLayout.build([]Record{{Name: "this-name-is-way-too-long.txt"}})
	require.Error(t, err)

	raw, err := names.Encode("a한글.txt")
	require.NoError(t, err)
	require.LessOrEqual(t, len(raw), legacyLayout.nameLen)
}

func TestNewWritable(t *testing.T) {
	cfg := networkConfig(t, "writable")
	cfg.BlockKey = []byte("block key")

	for _, k := range []Kind{KindOldL1, KindExt, KindIdxV2} {
		h, err := NewWritable(k, cfg, true)
		require.NoError(t, err, k.String())
		require.Equal(t, k, h.Kind())
		require.True(t, h.CanWrite())
		require.True(t, h.Protected(), k.String())
	}

	_, err := NewWritable(KindExtB, cfg, false)
	require.ErrorIs(t, err, types.ErrUnsupported)
	_, err = NewWritable(KindOldDes, cfg, false)
	require.ErrorIs(t, err, types.ErrUnsupported)
	_, err = NewWritable(KindOldL1, cipher.Config{}, true)
	require.ErrorIs(t, err, types.ErrUninitializedCipher)
	_, err = NewWritable(KindExt, cipher.Config{}, true)
	require.ErrorIs(t, err, types.ErrUninitializedCipher)
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("idxv2")
	require.True(t, ok)
	require.Equal(t, KindIdxV2, k)
	k, ok = ParseKind("OldDes")
	require.True(t, ok)
	require.Equal(t, KindOldDes, k)
	_, ok = ParseKind("zip")
	require.False(t, ok)
}

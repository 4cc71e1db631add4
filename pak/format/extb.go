package format

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/joshuapare/pakkit/internal/buf"
	"github.com/joshuapare/pakkit/internal/names"
)

var extBMagic = []byte("_EXTB$")

const (
	extBHeader  = 10 // magic + uint32 count
	extBFixed   = 12 // offset, size, stored size
	extBNameMax = 200
)

// ExtB handles the variable-length index: each record is three uint32
// fields followed by a NUL-terminated UTF-8 name. Payloads are usually
// Brotli, sometimes raw deflate, occasionally stored. Read-only.
type ExtB struct{}

func (h *ExtB) Kind() Kind { return KindExtB }

func (h *ExtB) CanHandle(raw []byte) bool {
	return len(raw) >= extBHeader && string(raw[:len(extBMagic)]) == string(extBMagic)
}

func (h *ExtB) TryParse(raw []byte) ([]Record, error) {
	if !h.CanHandle(raw) {
		return nil, fmt.Errorf("missing %q header", extBMagic)
	}
	n := buf.U32(raw, len(extBMagic))
	// Smallest possible record is the fixed part plus a one-byte name and NUL.
	// Compare before converting so int stays non-negative on 32-bit targets.
	if uint64(n) > uint64((len(raw)-extBHeader)/(extBFixed+2)) {
		return nil, fmt.Errorf("count %d cannot fit in %d bytes", n, len(raw))
	}
	count := int(n)
	recs := make([]Record, 0, count)
	off := extBHeader
	for i := 0; i < count; i++ {
		fixed, ok := buf.Slice(raw, off, extBFixed)
		if !ok {
			return nil, fmt.Errorf("record %d: truncated at %d", i, off)
		}
		nameBytes, next, err := buf.CString(raw, off+extBFixed, extBNameMax)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		name := string(nameBytes)
		if !utf8.ValidString(name) || !names.Legal(name) {
			return nil, fmt.Errorf("record %d: illegal filename %q", i, name)
		}
		recs = append(recs, Record{
			Name:       name,
			Offset:     buf.U32(fixed, 0),
			Size:       buf.U32(fixed, 4),
			StoredSize: buf.U32(fixed, 8),
		})
		off = next
	}
	if off != len(raw) {
		return nil, fmt.Errorf("%d trailing bytes after %d records", len(raw)-off, count)
	}
	return recs, nil
}

// ExtractEntry tries Brotli, then raw deflate, then returns the stored bytes.
func (h *ExtB) ExtractEntry(r io.ReaderAt, rec Record) ([]byte, error) {
	b, err := readStored(r, rec.Offset, rec.Stored())
	if err != nil {
		return nil, err
	}
	if out, err := brotliDecompress(b, rec.Size); err == nil {
		return out, nil
	}
	if out, err := inflateRaw(b, rec.Size); err == nil {
		return out, nil
	}
	return b, nil
}

func (h *ExtB) CanWrite() bool { return false }

func (h *ExtB) EncodeEntry(Record, []byte) (Record, []byte, error) {
	return Record{}, nil, readOnly(h.Kind())
}

func (h *ExtB) BuildIndex([]Record) ([]byte, error) { return nil, readOnly(h.Kind()) }

func (h *ExtB) MaxFileNameBytes() int { return extBNameMax }

func (h *ExtB) EncodeName(name string) ([]byte, error) {
	if !utf8.ValidString(name) {
		return nil, fmt.Errorf("%q is not valid UTF-8", name)
	}
	return []byte(name), nil
}

func (h *ExtB) Protected() bool { return false }

func (h *ExtB) EncryptionLabel() string { return LabelNone }

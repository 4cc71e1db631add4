package format

import (
	"io"

	"github.com/joshuapare/pakkit/internal/names"
	"github.com/joshuapare/pakkit/pak/cipher"
)

// idxV2Layout: "_IDX", count, then 32-byte records of offset, size and a
// 24-byte name.
var idxV2Layout = layout{
	magic:      []byte("_IDX"),
	header:     8,
	recordSize: 32,
	offsetAt:   0,
	sizeAt:     4,
	nameAt:     8,
	nameLen:    24,
	storedAt:   -1,
	flagsAt:    -1,
}

// IdxV2 handles the second-generation index with optional Blowfish.
type IdxV2 struct {
	blockCipher
}

// NewIdxV2 returns an IdxV2 handler for a new archive.
func NewIdxV2(cfg cipher.Config, ciphered bool) (*IdxV2, error) {
	b, err := newBlockCipher(cfg, ciphered)
	if err != nil {
		return nil, err
	}
	return &IdxV2{b}, nil
}

func (h *IdxV2) Kind() Kind { return KindIdxV2 }

func (h *IdxV2) CanHandle(raw []byte) bool { return idxV2Layout.fits(raw) }

func (h *IdxV2) TryParse(raw []byte) ([]Record, error) { return h.parse(idxV2Layout, raw) }

func (h *IdxV2) ExtractEntry(r io.ReaderAt, rec Record) ([]byte, error) {
	b, err := readStored(r, rec.Offset, rec.Stored())
	if err != nil {
		return nil, err
	}
	return h.openPayload(b)
}

func (h *IdxV2) CanWrite() bool { return true }

func (h *IdxV2) EncodeEntry(rec Record, data []byte) (Record, []byte, error) {
	rec.Size = uint32(len(data))
	rec.StoredSize = 0
	rec.Flags = 0
	out, err := h.sealPayload(data)
	return rec, out, err
}

func (h *IdxV2) BuildIndex(recs []Record) ([]byte, error) {
	out, err := idxV2Layout.build(recs)
	if err != nil {
		return nil, err
	}
	return h.sealIndex(idxV2Layout, out)
}

func (h *IdxV2) MaxFileNameBytes() int { return idxV2Layout.nameLen }

func (h *IdxV2) EncodeName(name string) ([]byte, error) { return names.Encode(name) }

func (h *IdxV2) Protected() bool { return h.ciphered }

func (h *IdxV2) EncryptionLabel() string { return h.label() }

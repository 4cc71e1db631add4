package format

import (
	"fmt"
	"io"

	"github.com/joshuapare/pakkit/internal/names"
	"github.com/joshuapare/pakkit/pak/cipher"
)

// extLayout: "_EXT", count, then 128-byte records of offset, size, stored
// size, flags and a 112-byte name.
var extLayout = layout{
	magic:      []byte("_EXT"),
	header:     8,
	recordSize: 128,
	offsetAt:   0,
	sizeAt:     4,
	storedAt:   8,
	flagsAt:    12,
	nameAt:     16,
	nameLen:    112,
}

// Ext handles the extended index: optional Blowfish over index and
// payloads, and per-record Brotli compression.
type Ext struct {
	blockCipher
}

// NewExt returns an Ext handler for a new archive. A ciphered archive needs
// cfg.BlockKey.
func NewExt(cfg cipher.Config, ciphered bool) (*Ext, error) {
	b, err := newBlockCipher(cfg, ciphered)
	if err != nil {
		return nil, err
	}
	return &Ext{b}, nil
}

func (h *Ext) Kind() Kind { return KindExt }

func (h *Ext) CanHandle(raw []byte) bool { return extLayout.fits(raw) }

func (h *Ext) TryParse(raw []byte) ([]Record, error) { return h.parse(extLayout, raw) }

func (h *Ext) ExtractEntry(r io.ReaderAt, rec Record) ([]byte, error) {
	b, err := readStored(r, rec.Offset, rec.Stored())
	if err != nil {
		return nil, err
	}
	if b, err = h.openPayload(b); err != nil {
		return nil, err
	}
	if rec.Flags&FlagBrotli == 0 {
		return b, nil
	}
	out, err := brotliDecompress(b, rec.Size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rec.Name, err)
	}
	return out, nil
}

func (h *Ext) CanWrite() bool { return true }

// EncodeEntry compresses data with Brotli and keeps the compressed form only
// when it is smaller.
func (h *Ext) EncodeEntry(rec Record, data []byte) (Record, []byte, error) {
	rec.Size = uint32(len(data))
	rec.Flags &^= FlagBrotli
	stored := data
	if len(data) > 0 {
		c, err := brotliCompress(data)
		if err != nil {
			return Record{}, nil, err
		}
		if len(c) < len(data) {
			stored = c
			rec.Flags |= FlagBrotli
		}
	}
	rec.StoredSize = uint32(len(stored))
	out, err := h.sealPayload(stored)
	return rec, out, err
}

func (h *Ext) BuildIndex(recs []Record) ([]byte, error) {
	out, err := extLayout.build(recs)
	if err != nil {
		return nil, err
	}
	return h.sealIndex(extLayout, out)
}

func (h *Ext) MaxFileNameBytes() int { return extLayout.nameLen }

func (h *Ext) EncodeName(name string) ([]byte, error) { return names.Encode(name) }

func (h *Ext) Protected() bool { return h.ciphered }

func (h *Ext) EncryptionLabel() string { return h.label() }

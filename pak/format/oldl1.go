package format

import (
	"errors"
	"fmt"
	"io"

	"github.com/joshuapare/pakkit/internal/names"
	"github.com/joshuapare/pakkit/pak/cipher"
)

// legacyLayout is shared by OldL1 and OldDes: a plaintext uint32 count and
// 28-byte records of offset, 20-byte name, size.
var legacyLayout = layout{
	header:     4,
	recordSize: 28,
	offsetAt:   0,
	nameAt:     4,
	nameLen:    20,
	sizeAt:     24,
	storedAt:   -1,
	flagsAt:    -1,
}

// emptyLegacyLimit: an all-zero count in an index shorter than this is an
// empty container regardless of trailing bytes.
const emptyLegacyLimit = 32

// OldL1 is the original magic-less layout. Ciphered containers run the
// index (after the count) and every payload through the block network.
type OldL1 struct {
	net       *cipher.Network
	encrypted bool
}

// NewOldL1 returns a handler bound to an explicit encryption choice. It is
// used when creating a container, where there is nothing to detect.
func NewOldL1(cfg cipher.Config, encrypted bool) *OldL1 {
	return &OldL1{net: cfg.Network, encrypted: encrypted}
}

func (h *OldL1) Kind() Kind { return KindOldL1 }

func isEmptyLegacy(raw []byte) bool {
	return len(raw) >= 4 && len(raw) < emptyLegacyLimit &&
		raw[0] == 0 && raw[1] == 0 && raw[2] == 0 && raw[3] == 0
}

func (h *OldL1) CanHandle(raw []byte) bool {
	return isEmptyLegacy(raw) || legacyLayout.fits(raw)
}

func (h *OldL1) TryParse(raw []byte) ([]Record, error) {
	if isEmptyLegacy(raw) {
		h.encrypted = false
		return []Record{}, nil
	}
	recs, plainErr := legacyLayout.parse(raw)
	if plainErr == nil {
		h.encrypted = false
		return recs, nil
	}
	decoded, err := h.net.Decode(raw, 4)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("plain: %w", plainErr), err)
	}
	recs, err = legacyLayout.parse(decoded)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("plain: %w", plainErr), fmt.Errorf("ciphered: %w", err))
	}
	h.encrypted = true
	return recs, nil
}

func (h *OldL1) ExtractEntry(r io.ReaderAt, rec Record) ([]byte, error) {
	b, err := readStored(r, rec.Offset, rec.Stored())
	if err != nil || !h.encrypted {
		return b, err
	}
	return h.net.Decode(b, 0)
}

func (h *OldL1) CanWrite() bool { return true }

func (h *OldL1) EncodeEntry(rec Record, data []byte) (Record, []byte, error) {
	rec.Size = uint32(len(data))
	rec.StoredSize = 0
	rec.Flags = 0
	if !h.encrypted {
		return rec, data, nil
	}
	out, err := h.net.Encode(data, 0)
	return rec, out, err
}

func (h *OldL1) BuildIndex(recs []Record) ([]byte, error) {
	out, err := legacyLayout.build(recs)
	if err != nil || !h.encrypted {
		return out, err
	}
	return h.net.Encode(out, 4)
}

func (h *OldL1) MaxFileNameBytes() int { return legacyLayout.nameLen }

func (h *OldL1) EncodeName(name string) ([]byte, error) { return names.Encode(name) }

func (h *OldL1) Protected() bool { return h.encrypted }

func (h *OldL1) EncryptionLabel() string {
	if h.encrypted {
		return LabelL1
	}
	return LabelNone
}

// OldDes shares the OldL1 record table but ciphers only the index, with
// DES. Payload bytes are stored in the clear. Read-only.
type OldDes struct {
	cfg cipher.Config
}

func (h *OldDes) Kind() Kind { return KindOldDes }

func (h *OldDes) CanHandle(raw []byte) bool { return legacyLayout.fits(raw) }

func (h *OldDes) TryParse(raw []byte) ([]Record, error) {
	ecb, err := h.cfg.DES()
	if err != nil {
		return nil, err
	}
	decoded, err := ecb.Decrypt(raw, 4)
	if err != nil {
		return nil, err
	}
	return legacyLayout.parse(decoded)
}

func (h *OldDes) ExtractEntry(r io.ReaderAt, rec Record) ([]byte, error) {
	return readStored(r, rec.Offset, rec.Stored())
}

func (h *OldDes) CanWrite() bool { return false }

func (h *OldDes) EncodeEntry(Record, []byte) (Record, []byte, error) {
	return Record{}, nil, readOnly(h.Kind())
}

func (h *OldDes) BuildIndex([]Record) ([]byte, error) { return nil, readOnly(h.Kind()) }

func (h *OldDes) MaxFileNameBytes() int { return legacyLayout.nameLen }

func (h *OldDes) EncodeName(name string) ([]byte, error) { return names.Encode(name) }

func (h *OldDes) Protected() bool { return true }

func (h *OldDes) EncryptionLabel() string { return LabelDES }

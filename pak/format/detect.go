package format

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/joshuapare/pakkit/internal/buf"
	"github.com/joshuapare/pakkit/pak/cipher"
	"github.com/joshuapare/pakkit/pkg/types"
)

// Candidates returns fresh handlers in detection order: most specific magic
// first, magic-less legacy layouts last. "_EXTB$" begins with "_EXT", so
// ExtB must precede Ext.
func Candidates(cfg cipher.Config) []Handler {
	return []Handler{
		&ExtB{},
		&Ext{blockCipher{cfg: cfg}},
		&IdxV2{blockCipher{cfg: cfg}},
		&OldL1{net: cfg.Network},
		&OldDes{cfg: cfg},
	}
}

// Detect runs the cascade over raw index bytes and returns the first handler
// whose sniff and parse both succeed, with its records. Every record must
// also fit inside a data file of dataSize bytes. A single handler's failure
// only moves detection along; exhausting the list returns types.ErrMalformed
// joined with each handler's reason.
func Detect(raw []byte, dataSize int64, cfg cipher.Config, log *slog.Logger) (Handler, []Record, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	var failures []error
	for _, h := range Candidates(cfg) {
		if !h.CanHandle(raw) {
			continue
		}
		recs, err := h.TryParse(raw)
		if err == nil {
			err = checkExtents(recs, dataSize)
		}
		if err != nil {
			log.Debug("format candidate rejected", "format", h.Kind().String(), "err", err)
			failures = append(failures, fmt.Errorf("%s: %w", h.Kind(), err))
			continue
		}
		log.Debug("format detected", "format", h.Kind().String(), "records", len(recs), "encryption", h.EncryptionLabel())
		return h, recs, nil
	}
	if len(failures) == 0 {
		failures = append(failures, fmt.Errorf("no layout recognizes a %d-byte index", len(raw)))
	}
	return nil, nil, types.New(types.ErrKindMalformed, "cannot parse index", errors.Join(failures...))
}

func checkExtents(recs []Record, dataSize int64) error {
	for i, r := range recs {
		if !buf.Within(r.Offset, r.Stored(), dataSize) {
			return fmt.Errorf("record %d (%s): %d bytes at %d overrun %d-byte data file", i, r.Name, r.Stored(), r.Offset, dataSize)
		}
	}
	return nil
}

// NewWritable returns a fresh handler for creating an archive of kind k.
// Read-only kinds are rejected with types.ErrUnsupported; an encrypted
// OldL1 without tables with types.ErrUninitializedCipher.
func NewWritable(k Kind, cfg cipher.Config, encrypted bool) (Handler, error) {
	switch k {
	case KindOldL1:
		if encrypted && cfg.Network == nil {
			return nil, types.ErrUninitializedCipher
		}
		return NewOldL1(cfg, encrypted), nil
	case KindExt:
		h, err := NewExt(cfg, encrypted)
		if err != nil {
			return nil, err
		}
		return h, nil
	case KindIdxV2:
		h, err := NewIdxV2(cfg, encrypted)
		if err != nil {
			return nil, err
		}
		return h, nil
	default:
		return nil, readOnly(k)
	}
}

// ParseKind maps a layout name ("oldl1", "ext", ...) to its Kind.
func ParseKind(s string) (Kind, bool) {
	for k := KindExtB; k <= KindOldDes; k++ {
		if strings.EqualFold(s, k.String()) {
			return k, true
		}
	}
	return 0, false
}

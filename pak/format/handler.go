package format

import (
	"errors"
	"fmt"
	"io"

	"github.com/joshuapare/pakkit/pkg/types"
)

// Handler owns one index layout: detection, parsing, entry extraction and,
// for writable layouts, entry encoding and index serialization.
//
// A Handler instance is bound to a single container. State learned while
// parsing (for example whether the index was ciphered) is reused by every
// later call, so handlers are built fresh per open. After binding, the read
// methods are safe for concurrent use.
type Handler interface {
	Kind() Kind
	// CanHandle is a cheap sniff of the raw index bytes.
	CanHandle(raw []byte) bool
	// TryParse decodes the index. An error is local to this handler and
	// makes detection move on to the next candidate.
	TryParse(raw []byte) ([]Record, error)
	// ExtractEntry reads and decodes one entry from the data file.
	ExtractEntry(r io.ReaderAt, rec Record) ([]byte, error)
	CanWrite() bool
	// EncodeEntry turns caller bytes into stored bytes. The returned record
	// carries the sizes and flags; the caller assigns Offset.
	EncodeEntry(rec Record, data []byte) (Record, []byte, error)
	BuildIndex(recs []Record) ([]byte, error)
	MaxFileNameBytes() int
	// EncodeName returns the on-disk bytes of a filename.
	EncodeName(name string) ([]byte, error)
	Protected() bool
	EncryptionLabel() string
}

var errReadOnly = errors.New("format is read-only")

func readOnly(k Kind) error {
	return types.New(types.ErrKindUnsupported, fmt.Sprintf("%s archives cannot be written", k), errReadOnly)
}

// readStored reads exactly n bytes at off.
func readStored(r io.ReaderAt, off, n uint32) ([]byte, error) {
	b := make([]byte, n)
	if n == 0 {
		return b, nil
	}
	got, err := r.ReadAt(b, int64(off))
	if got == len(b) {
		return b, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return nil, fmt.Errorf("read %d bytes at %d: %w", n, off, err)
}

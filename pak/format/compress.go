package format

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
)

// brotliQuality trades speed for size when packing Ext entries.
const brotliQuality = 6

func brotliCompress(data []byte) ([]byte, error) {
	var out bytes.Buffer
	w := brotli.NewWriterLevel(&out, brotliQuality)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("brotli: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("brotli: %w", err)
	}
	return out.Bytes(), nil
}

// brotliDecompress decodes a complete stream. When want is non-zero the
// decoded length must match it.
func brotliDecompress(stored []byte, want uint32) ([]byte, error) {
	out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(stored)))
	if err != nil {
		return nil, fmt.Errorf("brotli: %w", err)
	}
	if want != 0 && uint32(len(out)) != want {
		return nil, fmt.Errorf("brotli: decoded %d bytes, record says %d", len(out), want)
	}
	return out, nil
}

// inflateRaw decodes a raw (headerless) deflate stream.
func inflateRaw(stored []byte, want uint32) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(stored))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if want != 0 && uint32(len(out)) != want {
		return nil, fmt.Errorf("deflate: decoded %d bytes, record says %d", len(out), want)
	}
	return out, nil
}

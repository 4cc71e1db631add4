// Package names converts archive filenames between Go strings and the legacy
// code page used by fixed-width index records, and implements the legal
// filename check the format detectors rely on.
//
// The legacy code page is EUC-KR as implemented by x/text, whose decoder also
// accepts the CP949 (Unified Hangul Code) extension found in real archives.
package names

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Decode converts legacy code page bytes to a UTF-8 string. Undecodable
// sequences become utf8.RuneError, which Legal rejects.
func Decode(raw []byte) string {
	if isASCII(raw) {
		return string(raw)
	}
	s, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), raw)
	if err != nil {
		return string(utf8.RuneError)
	}
	return string(s)
}

// Encode converts name to legacy code page bytes.
func Encode(name string) ([]byte, error) {
	if isASCII([]byte(name)) {
		return []byte(name), nil
	}
	b, _, err := transform.Bytes(korean.EUCKR.NewEncoder(), []byte(name))
	if err != nil {
		return nil, fmt.Errorf("names: %q not representable in EUC-KR: %w", name, err)
	}
	return b, nil
}

// Legal reports whether name looks like a real archive filename: non-empty,
// starting with an ASCII letter, digit, underscore or dot, and free of control
// characters and decoding errors.
func Legal(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '.') {
		return false
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f || r == utf8.RuneError {
			return false
		}
	}
	return true
}

// Equal compares two filenames case-insensitively.
func Equal(a, b string) bool {
	return strings.EqualFold(a, b)
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

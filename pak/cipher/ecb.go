package cipher

import (
	stdcipher "crypto/cipher"
	"crypto/des"
	"fmt"

	"golang.org/x/crypto/blowfish"

	"github.com/joshuapare/pakkit/pkg/types"
)

// ECB runs a standard block cipher in electronic-codebook mode without
// padding. Like the network, it leaves a trailing partial block untouched.
type ECB struct {
	b stdcipher.Block
}

// NewECB wraps b.
func NewECB(b stdcipher.Block) *ECB {
	return &ECB{b: b}
}

// NewBlowfishECB returns the Blowfish cipher used by the Ext and IdxV2
// layouts. An empty key reports types.ErrUninitializedCipher.
func NewBlowfishECB(key []byte) (*ECB, error) {
	if len(key) == 0 {
		return nil, types.New(types.ErrKindUninitialized, "blowfish key not supplied", nil)
	}
	b, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher: blowfish: %w", err)
	}
	return NewECB(b), nil
}

// NewDESECB returns the DES cipher used by the OldDes index layout.
func NewDESECB(key []byte) (*ECB, error) {
	if len(key) == 0 {
		return nil, types.New(types.ErrKindUninitialized, "DES key not supplied", nil)
	}
	b, err := des.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher: des: %w", err)
	}
	return NewECB(b), nil
}

// Transform returns a copy of src with whole blocks after skip bytes
// encrypted or decrypted.
func (e *ECB) Transform(src []byte, skip int, dir Direction) ([]byte, error) {
	if e == nil || e.b == nil {
		return nil, types.ErrUninitializedCipher
	}
	skip = min(max(skip, 0), len(src))
	out := make([]byte, len(src))
	copy(out, src)

	bs := e.b.BlockSize()
	body := out[skip:]
	for off := 0; off+bs <= len(body); off += bs {
		blk := body[off : off+bs]
		if dir == Encrypt {
			e.b.Encrypt(blk, blk)
		} else {
			e.b.Decrypt(blk, blk)
		}
	}
	return out, nil
}

// Encrypt is Transform(src, skip, Encrypt).
func (e *ECB) Encrypt(src []byte, skip int) ([]byte, error) { return e.Transform(src, skip, Encrypt) }

// Decrypt is Transform(src, skip, Decrypt).
func (e *ECB) Decrypt(src []byte, skip int) ([]byte, error) { return e.Transform(src, skip, Decrypt) }

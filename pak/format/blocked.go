package format

import (
	"errors"
	"fmt"

	"github.com/joshuapare/pakkit/pak/cipher"
)

// blockCipher is the detection and payload state shared by Ext and IdxV2:
// the table after the header is either plaintext or Blowfish ECB, and a
// ciphered index implies ciphered payloads.
type blockCipher struct {
	cfg      cipher.Config
	ecb      *cipher.ECB
	ciphered bool
}

func newBlockCipher(cfg cipher.Config, ciphered bool) (blockCipher, error) {
	b := blockCipher{cfg: cfg, ciphered: ciphered}
	if ciphered {
		ecb, err := cfg.Block()
		if err != nil {
			return blockCipher{}, err
		}
		b.ecb = ecb
	}
	return b, nil
}

// parse tries the plaintext table first. The plaintext reading wins
// whenever it yields legal names, even if the ciphered one would too.
func (b *blockCipher) parse(l layout, raw []byte) ([]Record, error) {
	recs, plainErr := l.parse(raw)
	if plainErr == nil {
		b.ciphered = false
		return recs, nil
	}
	ecb, err := b.cfg.Block()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("plain: %w", plainErr), err)
	}
	decoded, err := ecb.Decrypt(raw, l.header)
	if err != nil {
		return nil, err
	}
	recs, err = l.parse(decoded)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("plain: %w", plainErr), fmt.Errorf("ciphered: %w", err))
	}
	b.ecb = ecb
	b.ciphered = true
	return recs, nil
}

func (b *blockCipher) openPayload(p []byte) ([]byte, error) {
	if !b.ciphered {
		return p, nil
	}
	return b.ecb.Decrypt(p, 0)
}

func (b *blockCipher) sealPayload(p []byte) ([]byte, error) {
	if !b.ciphered {
		return p, nil
	}
	return b.ecb.Encrypt(p, 0)
}

func (b *blockCipher) sealIndex(l layout, idx []byte) ([]byte, error) {
	if !b.ciphered {
		return idx, nil
	}
	return b.ecb.Encrypt(idx, l.header)
}

func (b *blockCipher) label() string {
	if b.ciphered {
		return LabelBlowfish
	}
	return LabelNone
}

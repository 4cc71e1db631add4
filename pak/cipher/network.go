package cipher

import (
	"encoding/binary"

	"github.com/joshuapare/pakkit/pkg/types"
)

// BlockSize is the block width of the network in bytes.
const BlockSize = 8

// progressBlocks is how many blocks pass between progress callbacks (64 KiB).
const progressBlocks = 8192

// Direction selects encoding or decoding.
type Direction int

const (
	Encrypt Direction = iota
	Decrypt
)

// ProgressFunc receives the number of blocks processed so far and the total.
type ProgressFunc func(done, total int)

// Network is the compiled form of a Tables value. It is immutable and safe
// for concurrent use.
type Network struct {
	ip   [8][256]uint64
	fp   [8][256]uint64
	exp  [4][256]uint64
	sp   [8][64]uint32
	keys [16]uint64
}

// New compiles t into byte-indexed lookup tables. A nil t yields a nil
// *Network, whose methods report types.ErrUninitializedCipher.
func New(t *Tables) *Network {
	if t == nil {
		return nil
	}
	n := &Network{}

	var inverse [64]byte
	for k, p := range t.Initial {
		inverse[p-1] = byte(k + 1)
	}
	compile64(&n.ip, t.Initial[:])
	compile64(&n.fp, inverse[:])

	for i := 0; i < 4; i++ {
		for v := 0; v < 256; v++ {
			var out uint64
			for j, p := range t.Expansion {
				src := int(p) - 1
				if src/8 == i && v>>(7-src%8)&1 == 1 {
					out |= 1 << (47 - j)
				}
			}
			n.exp[i][v] = out
		}
	}

	for box := 0; box < 8; box++ {
		for six := 0; six < 64; six++ {
			row := (six>>4)&2 | six&1
			col := (six >> 1) & 0xf
			pre := uint32(t.SBoxes[box][row*16+col]) << (28 - 4*box)
			var out uint32
			for j, p := range t.Permute {
				if pre>>(32-int(p))&1 == 1 {
					out |= 1 << (31 - j)
				}
			}
			n.sp[box][six] = out
		}
	}

	for i, k := range t.RoundKeys {
		var v uint64
		for _, b := range k {
			v = v<<8 | uint64(b)
		}
		n.keys[i] = v
	}
	return n
}

func compile64(lut *[8][256]uint64, table []byte) {
	for i := 0; i < 8; i++ {
		for v := 0; v < 256; v++ {
			var out uint64
			for j, p := range table {
				src := int(p) - 1
				if src/8 == i && v>>(7-src%8)&1 == 1 {
					out |= 1 << (63 - j)
				}
			}
			lut[i][v] = out
		}
	}
}

func permute64(lut *[8][256]uint64, v uint64) uint64 {
	var out uint64
	for i := 0; i < 8; i++ {
		out |= lut[i][byte(v>>(56-8*i))]
	}
	return out
}

func (n *Network) feistel(r uint32, k uint64) uint32 {
	x := n.exp[0][byte(r>>24)] | n.exp[1][byte(r>>16)] | n.exp[2][byte(r>>8)] | n.exp[3][byte(r)]
	x ^= k
	var out uint32
	for box := 0; box < 8; box++ {
		out |= n.sp[box][(x>>(42-6*box))&0x3f]
	}
	return out
}

func (n *Network) block(v uint64, dir Direction) uint64 {
	v = permute64(&n.ip, v)
	l, r := uint32(v>>32), uint32(v)
	for i := 0; i < 16; i++ {
		k := n.keys[i]
		if dir == Decrypt {
			k = n.keys[15-i]
		}
		l, r = r, l^n.feistel(r, k)
	}
	return permute64(&n.fp, uint64(r)<<32|uint64(l))
}

// Transform returns a copy of src with every whole 8-byte block after the
// first skip bytes run through the network. The skipped prefix and any
// trailing remainder shorter than a block are copied unmodified; existing
// archives depend on that remainder staying in the clear.
func (n *Network) Transform(src []byte, skip int, dir Direction, progress ProgressFunc) ([]byte, error) {
	if n == nil {
		return nil, types.ErrUninitializedCipher
	}
	skip = min(max(skip, 0), len(src))
	out := make([]byte, len(src))
	copy(out, src)

	body := out[skip:]
	total := len(body) / BlockSize
	for i := 0; i < total; i++ {
		b := body[i*BlockSize : (i+1)*BlockSize]
		binary.BigEndian.PutUint64(b, n.block(binary.BigEndian.Uint64(b), dir))
		if progress != nil && (i+1)%progressBlocks == 0 {
			progress(i+1, total)
		}
	}
	if progress != nil {
		progress(total, total)
	}
	return out, nil
}

// Encode encrypts src after skipping skip bytes.
func (n *Network) Encode(src []byte, skip int) ([]byte, error) {
	return n.Transform(src, skip, Encrypt, nil)
}

// Decode reverses Encode.
func (n *Network) Decode(src []byte, skip int) ([]byte, error) {
	return n.Transform(src, skip, Decrypt, nil)
}

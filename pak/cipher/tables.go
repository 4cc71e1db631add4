package cipher

import (
	"encoding/binary"
	"fmt"
	"io/fs"
)

// Table file names read by LoadTables.
const (
	InitialFile   = "initial.tbl"
	ExpansionFile = "expansion.tbl"
	SBoxFile      = "sbox.tbl"
	PermuteFile   = "permute.tbl"
	RoundKeyFile  = "roundkeys.tbl"
)

// Tables holds the five lookup tables that parameterize the block network.
// Bit positions are 1-based and counted from the most significant bit, the
// way the published DES tables are written.
type Tables struct {
	Initial   [64]byte    // initial permutation; the final one is its inverse
	Expansion [48]byte    // right-half expansion, positions 1..32
	SBoxes    [8][64]byte // row-major, row = outer bits, column = inner four bits
	Permute   [32]byte    // permutation applied after substitution
	RoundKeys [16][6]byte // 48-bit subkeys, big-endian, in encode order
}

// NewTables validates raw table bytes and assembles a Tables value.
func NewTables(initial, expansion, sboxes, permute, roundKeys []byte) (*Tables, error) {
	t := &Tables{}
	if err := checkPermutation("initial", initial, 64); err != nil {
		return nil, err
	}
	if len(expansion) != 48 {
		return nil, fmt.Errorf("cipher: expansion table is %d bytes, want 48", len(expansion))
	}
	for i, p := range expansion {
		if p < 1 || p > 32 {
			return nil, fmt.Errorf("cipher: expansion[%d]=%d outside 1..32", i, p)
		}
	}
	if len(sboxes) != 8*64 {
		return nil, fmt.Errorf("cipher: substitution table is %d bytes, want 512", len(sboxes))
	}
	for i, v := range sboxes {
		if v > 15 {
			return nil, fmt.Errorf("cipher: sbox[%d][%d]=%d is not a nibble", i/64, i%64, v)
		}
	}
	if err := checkPermutation("permute", permute, 32); err != nil {
		return nil, err
	}
	if len(roundKeys) != 16*6 {
		return nil, fmt.Errorf("cipher: round-key table is %d bytes, want 96", len(roundKeys))
	}

	copy(t.Initial[:], initial)
	copy(t.Expansion[:], expansion)
	for i := range t.SBoxes {
		copy(t.SBoxes[i][:], sboxes[i*64:])
	}
	copy(t.Permute[:], permute)
	for i := range t.RoundKeys {
		copy(t.RoundKeys[i][:], roundKeys[i*6:])
	}
	return t, nil
}

// LoadTables reads the five table files from fsys. Use os.DirFS for tables
// shipped beside the game client or an embed.FS for bundled ones.
func LoadTables(fsys fs.FS) (*Tables, error) {
	files := []string{InitialFile, ExpansionFile, SBoxFile, PermuteFile, RoundKeyFile}
	raw := make([][]byte, len(files))
	for i, name := range files {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("cipher: load %s: %w", name, err)
		}
		raw[i] = b
	}
	return NewTables(raw[0], raw[1], raw[2], raw[3], raw[4])
}

// Bytes returns the five tables in the on-disk layout read by LoadTables, keyed
// by file name.
func (t *Tables) Bytes() map[string][]byte {
	sb := make([]byte, 0, 512)
	for i := range t.SBoxes {
		sb = append(sb, t.SBoxes[i][:]...)
	}
	rk := make([]byte, 0, 96)
	for i := range t.RoundKeys {
		rk = append(rk, t.RoundKeys[i][:]...)
	}
	return map[string][]byte{
		InitialFile:   append([]byte(nil), t.Initial[:]...),
		ExpansionFile: append([]byte(nil), t.Expansion[:]...),
		SBoxFile:      sb,
		PermuteFile:   append([]byte(nil), t.Permute[:]...),
		RoundKeyFile:  rk,
	}
}

func checkPermutation(name string, p []byte, n int) error {
	if len(p) != n {
		return fmt.Errorf("cipher: %s table is %d bytes, want %d", name, len(p), n)
	}
	var seen [65]bool
	for i, v := range p {
		if v < 1 || int(v) > n {
			return fmt.Errorf("cipher: %s[%d]=%d outside 1..%d", name, i, v, n)
		}
		if seen[v] {
			return fmt.Errorf("cipher: %s repeats position %d", name, v)
		}
		seen[v] = true
	}
	return nil
}

// StandardTables returns the published DES tables with round keys derived
// from an 8-byte key by the DES key schedule. A Network built from them is
// bit-identical to DES, which makes them a convenient known-answer fixture.
func StandardTables(key []byte) (*Tables, error) {
	if len(key) != 8 {
		return nil, fmt.Errorf("cipher: standard key is %d bytes, want 8", len(key))
	}
	t := &Tables{
		Initial:   desInitial,
		Expansion: desExpansion,
		SBoxes:    desSBoxes,
		Permute:   desPermute,
	}

	cd := permuteBits(binary.BigEndian.Uint64(key), 64, desPC1[:])
	c, d := uint32(cd>>28), uint32(cd&0x0fffffff)
	for i, s := range desShifts {
		c = (c<<s | c>>(28-s)) & 0x0fffffff
		d = (d<<s | d>>(28-s)) & 0x0fffffff
		sub := permuteBits(uint64(c)<<28|uint64(d), 56, desPC2[:])
		for j := 0; j < 6; j++ {
			t.RoundKeys[i][j] = byte(sub >> (40 - 8*j))
		}
	}
	return t, nil
}

// permuteBits applies a 1-based MSB-first bit selection table to the low
// inBits bits of in.
func permuteBits(in uint64, inBits int, table []byte) uint64 {
	var out uint64
	n := len(table)
	for j, p := range table {
		if in>>(inBits-int(p))&1 == 1 {
			out |= 1 << (n - 1 - j)
		}
	}
	return out
}

var desInitial = [64]byte{
	58, 50, 42, 34, 26, 18, 10, 2,
	60, 52, 44, 36, 28, 20, 12, 4,
	62, 54, 46, 38, 30, 22, 14, 6,
	64, 56, 48, 40, 32, 24, 16, 8,
	57, 49, 41, 33, 25, 17, 9, 1,
	59, 51, 43, 35, 27, 19, 11, 3,
	61, 53, 45, 37, 29, 21, 13, 5,
	63, 55, 47, 39, 31, 23, 15, 7,
}

var desExpansion = [48]byte{
	32, 1, 2, 3, 4, 5,
	4, 5, 6, 7, 8, 9,
	8, 9, 10, 11, 12, 13,
	12, 13, 14, 15, 16, 17,
	16, 17, 18, 19, 20, 21,
	20, 21, 22, 23, 24, 25,
	24, 25, 26, 27, 28, 29,
	28, 29, 30, 31, 32, 1,
}

var desPermute = [32]byte{
	16, 7, 20, 21, 29, 12, 28, 17,
	1, 15, 23, 26, 5, 18, 31, 10,
	2, 8, 24, 14, 32, 27, 3, 9,
	19, 13, 30, 6, 22, 11, 4, 25,
}

var desSBoxes = [8][64]byte{
	{
		14, 4, 13, 1, 2, 15, 11, 8, 3, 10, 6, 12, 5, 9, 0, 7,
		0, 15, 7, 4, 14, 2, 13, 1, 10, 6, 12, 11, 9, 5, 3, 8,
		4, 1, 14, 8, 13, 6, 2, 11, 15, 12, 9, 7, 3, 10, 5, 0,
		15, 12, 8, 2, 4, 9, 1, 7, 5, 11, 3, 14, 10, 0, 6, 13,
	},
	{
		15, 1, 8, 14, 6, 11, 3, 4, 9, 7, 2, 13, 12, 0, 5, 10,
		3, 13, 4, 7, 15, 2, 8, 14, 12, 0, 1, 10, 6, 9, 11, 5,
		0, 14, 7, 11, 10, 4, 13, 1, 5, 8, 12, 6, 9, 3, 2, 15,
		13, 8, 10, 1, 3, 15, 4, 2, 11, 6, 7, 12, 0, 5, 14, 9,
	},
	{
		10, 0, 9, 14, 6, 3, 15, 5, 1, 13, 12, 7, 11, 4, 2, 8,
		13, 7, 0, 9, 3, 4, 6, 10, 2, 8, 5, 14, 12, 11, 15, 1,
		13, 6, 4, 9, 8, 15, 3, 0, 11, 1, 2, 12, 5, 10, 14, 7,
		1, 10, 13, 0, 6, 9, 8, 7, 4, 15, 14, 3, 11, 5, 2, 12,
	},
	{
		7, 13, 14, 3, 0, 6, 9, 10, 1, 2, 8, 5, 11, 12, 4, 15,
		13, 8, 11, 5, 6, 15, 0, 3, 4, 7, 2, 12, 1, 10, 14, 9,
		10, 6, 9, 0, 12, 11, 7, 13, 15, 1, 3, 14, 5, 2, 8, 4,
		3, 15, 0, 6, 10, 1, 13, 8, 9, 4, 5, 11, 12, 7, 2, 14,
	},
	{
		2, 12, 4, 1, 7, 10, 11, 6, 8, 5, 3, 15, 13, 0, 14, 9,
		14, 11, 2, 12, 4, 7, 13, 1, 5, 0, 15, 10, 3, 9, 8, 6,
		4, 2, 1, 11, 10, 13, 7, 8, 15, 9, 12, 5, 6, 3, 0, 14,
		11, 8, 12, 7, 1, 14, 2, 13, 6, 15, 0, 9, 10, 4, 5, 3,
	},
	{
		12, 1, 10, 15, 9, 2, 6, 8, 0, 13, 3, 4, 14, 7, 5, 11,
		10, 15, 4, 2, 7, 12, 9, 5, 6, 1, 13, 14, 0, 11, 3, 8,
		9, 14, 15, 5, 2, 8, 12, 3, 7, 0, 4, 10, 1, 13, 11, 6,
		4, 3, 2, 12, 9, 5, 15, 10, 11, 14, 1, 7, 6, 0, 8, 13,
	},
	{
		4, 11, 2, 14, 15, 0, 8, 13, 3, 12, 9, 7, 5, 10, 6, 1,
		13, 0, 11, 7, 4, 9, 1, 10, 14, 3, 5, 12, 2, 15, 8, 6,
		1, 4, 11, 13, 12, 3, 7, 14, 10, 15, 6, 8, 0, 5, 9, 2,
		6, 11, 13, 8, 1, 4, 10, 7, 9, 5, 0, 15, 14, 2, 3, 12,
	},
	{
		13, 2, 8, 4, 6, 15, 11, 1, 10, 9, 3, 14, 5, 0, 12, 7,
		1, 15, 13, 8, 10, 3, 7, 4, 12, 5, 6, 11, 0, 14, 9, 2,
		7, 11, 4, 1, 9, 12, 14, 2, 0, 6, 10, 13, 15, 3, 5, 8,
		2, 1, 14, 7, 4, 10, 8, 13, 15, 12, 9, 0, 3, 5, 6, 11,
	},
}

var desPC1 = [56]byte{
	57, 49, 41, 33, 25, 17, 9,
	1, 58, 50, 42, 34, 26, 18,
	10, 2, 59, 51, 43, 35, 27,
	19, 11, 3, 60, 52, 44, 36,
	63, 55, 47, 39, 31, 23, 15,
	7, 62, 54, 46, 38, 30, 22,
	14, 6, 61, 53, 45, 37, 29,
	21, 13, 5, 28, 20, 12, 4,
}

var desPC2 = [48]byte{
	14, 17, 11, 24, 1, 5,
	3, 28, 15, 6, 21, 10,
	23, 19, 12, 4, 26, 8,
	16, 7, 27, 20, 13, 2,
	41, 52, 31, 37, 47, 55,
	30, 40, 51, 45, 33, 48,
	44, 49, 39, 56, 34, 53,
	46, 42, 50, 36, 29, 32,
}

var desShifts = [16]uint{1, 1, 2, 2, 2, 2, 2, 2, 1, 2, 2, 2, 2, 2, 2, 1}

// Package cipher implements the block transforms used by legacy asset
// archives.
//
// # Block network
//
// Network is a 16-round Feistel network over 8-byte blocks, parameterized by
// five lookup tables (Tables): an initial permutation, a right-half
// expansion, eight substitution boxes, a post-substitution permutation and
// sixteen 48-bit round keys. Each round computes
//
//	L, R = R, L ^ P(S(E(R) ^ K[i]))
//
// followed by a half swap and the inverse of the initial permutation.
// Decoding walks the round keys backwards.
//
// Tables are not bundled with game archives; they are loaded at runtime:
//
//	t, err := cipher.LoadTables(os.DirFS("/opt/client/tables"))
//	cfg := cipher.Config{Network: cipher.New(t)}
//
// # Remainders
//
// Both Network and ECB transform only whole blocks. A trailing remainder
// shorter than eight bytes is copied through unmodified in both directions.
// Archive writers in the wild do the same, so this must not be "fixed" with
// padding.
//
// # Standard ciphers
//
// ECB adapts any crypto/cipher.Block (Blowfish for the Ext and IdxV2 indexes,
// DES for the OldDes index) to the same skip-prefix and remainder rules.
package cipher

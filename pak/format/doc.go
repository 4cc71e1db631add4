// Package format implements the index layouts found in legacy asset archives
// and the cascade that tells them apart.
//
// # Layouts
//
// All integers are little-endian. Fixed-width names are NUL padded and
// EUC-KR encoded (see internal/names).
//
//	ExtB    "_EXTB$" count  { offset size stored name\0 }...        read-only
//	Ext     "_EXT"   count  { offset size stored flags name[112] }  128 bytes
//	IdxV2   "_IDX"   count  { offset size name[24] }                 32 bytes
//	OldL1            count  { offset name[20] size }                 28 bytes
//	OldDes           count  { offset name[20] size }                 28 bytes, read-only
//
// Ext and IdxV2 tables are plaintext or Blowfish ECB; ciphered tables imply
// ciphered payloads, and Ext payloads may also be Brotli compressed (flag
// bit 0). OldL1 tables are plaintext or run through the bespoke block
// network after the count, again with ciphered payloads. OldDes ciphers
// only the table, with DES.
//
// # Detection
//
// Detect tries handlers in a fixed order and binds the first whose
// CanHandle and TryParse both succeed. Layouts without a ciphered flag are
// told apart by decoding the table and checking that every filename is
// legal; the plaintext reading is always tried first and wins ties.
package format

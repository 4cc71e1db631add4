package cipher_test

import (
	"testing"

	"github.com/joshuapare/pakkit/pak/cipher"
)

func BenchmarkNetworkEncode(b *testing.B) {
	tables, err := cipher.StandardTables(testKey)
	if err != nil {
		b.Fatal(err)
	}
	n := cipher.New(tables)
	src := pattern(64 << 10)
	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := n.Encode(src, 0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBlowfishECB(b *testing.B) {
	ecb, err := cipher.NewBlowfishECB([]byte("benchmark key"))
	if err != nil {
		b.Fatal(err)
	}
	src := pattern(64 << 10)
	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ecb.Encrypt(src, 0); err != nil {
			b.Fatal(err)
		}
	}
}

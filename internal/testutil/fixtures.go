// Package testutil holds cipher fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/pakkit/pak/cipher"
)

// Tables returns DES-derived network tables keyed by key (8 bytes).
// Calls t.Fatal if the key is rejected.
func Tables(t testing.TB, key string) *cipher.Tables {
	t.Helper()
	tables, err := cipher.StandardTables([]byte(key))
	if err != nil {
		t.Fatalf("standard tables for %q: %v", key, err)
	}
	return tables
}

// Network returns a compiled network for Tables(t, key).
func Network(t testing.TB, key string) *cipher.Network {
	t.Helper()
	return cipher.New(Tables(t, key))
}

// WriteTables writes the table files for key into a fresh temp directory,
// in the layout cipher.LoadTables reads, and returns the directory.
func WriteTables(t testing.TB, key string) string {
	t.Helper()
	dir := t.TempDir()
	for name, b := range Tables(t, key).Bytes() {
		if err := os.WriteFile(filepath.Join(dir, name), b, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

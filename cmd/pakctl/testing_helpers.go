package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String(), fnErr
}

// resetFlags restores every global flag to its default.
func resetFlags() {
	verbose, quiet, jsonOut, logToFile = false, false, false, false
	tablesDir, keyHex, desKeyHex = "", "", ""
	extractOut = "."
	addName, addSorted, addOrder = "", false, "ordinal"
	auditOrder = "ordinal"
	createFormat, createEncrypted = "oldl1", false
}

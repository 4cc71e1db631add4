// Package types defines the typed errors shared by the pakkit packages.
//
// Every error surfaced by the archive engine is either an *Error or wraps
// one, so callers branch on Kind instead of message text:
//
//	if errors.Is(err, types.ErrNotFound) {
//	    // unknown filename or missing file
//	}
//
// This package has no dependencies beyond the standard library.
package types

// Package pak opens, browses and edits legacy .idx/.pak archive pairs.
//
// An archive is an index file listing names, offsets and sizes, and a data
// file holding the concatenated entry payloads. Open sniffs which of the
// supported index layouts a file uses (see package format) and binds that
// layout's handler for the container's lifetime:
//
//	c, err := pak.Open("data.idx", &pak.Options{Cipher: cfg})
//	if err != nil {
//	    return err
//	}
//	b, err := c.ExtractByName("tile001.img")
//
// Reads take effect immediately. Add, Delete and Replace only stage changes;
// Save applies them transactionally. Both files are backed up first, rewritten
// through temp files and swapped in, and on any failure restored from the
// backups so a failed Save is a no-op on disk:
//
//	if err := c.Add("new.txt", payload, nil); err != nil {
//	    return err // name rejected at stage time
//	}
//	if err := c.Save(); err != nil {
//	    return err // errors.Is(err, types.ErrCommit); files untouched
//	}
//
// A Container holds no open file handles. Extract may be called from many
// goroutines at once; staging and Save must be serialized by the caller.
package pak

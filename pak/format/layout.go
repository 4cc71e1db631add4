package format

import (
	"fmt"

	"github.com/joshuapare/pakkit/internal/buf"
	"github.com/joshuapare/pakkit/internal/names"
)

// layout describes a fixed-width record table preceded by an optional magic
// and a uint32 record count. A negative offset marks an absent field.
type layout struct {
	magic      []byte
	header     int // bytes before the first record; the count is the last four
	recordSize int
	offsetAt   int
	sizeAt     int
	storedAt   int
	flagsAt    int
	nameAt     int
	nameLen    int
}

func (l layout) countAt() int { return l.header - 4 }

// fits reports whether raw has the magic and exactly the length its count
// field implies.
func (l layout) fits(raw []byte) bool {
	if len(raw) < l.header || string(raw[:len(l.magic)]) != string(l.magic) {
		return false
	}
	count := int(buf.U32(raw, l.countAt()))
	return buf.CheckTable(len(raw), l.header, count, l.recordSize) == nil
}

// parse decodes a plaintext table. Every name must pass the legal filename
// check; that check is what separates a plaintext table from a ciphered one.
func (l layout) parse(raw []byte) ([]Record, error) {
	if len(raw) < l.header {
		return nil, fmt.Errorf("index is %d bytes, header needs %d", len(raw), l.header)
	}
	count := int(buf.U32(raw, l.countAt()))
	if err := buf.CheckTable(len(raw), l.header, count, l.recordSize); err != nil {
		return nil, err
	}
	recs := make([]Record, count)
	for i := range recs {
		rec, _ := buf.Slice(raw, l.header+i*l.recordSize, l.recordSize)
		name := names.Decode(buf.Fixed(rec, l.nameAt, l.nameLen))
		if !names.Legal(name) {
			return nil, fmt.Errorf("record %d: illegal filename %q", i, name)
		}
		r := Record{
			Name:   name,
			Offset: buf.U32(rec, l.offsetAt),
			Size:   buf.U32(rec, l.sizeAt),
		}
		if l.storedAt >= 0 {
			r.StoredSize = buf.U32(rec, l.storedAt)
		}
		if l.flagsAt >= 0 {
			r.Flags = buf.U32(rec, l.flagsAt)
		}
		recs[i] = r
	}
	return recs, nil
}

// build serializes recs as a plaintext table.
func (l layout) build(recs []Record) ([]byte, error) {
	out := make([]byte, l.header+len(recs)*l.recordSize)
	copy(out, l.magic)
	buf.PutU32(out, l.countAt(), uint32(len(recs)))
	for i, r := range recs {
		rec := out[l.header+i*l.recordSize : l.header+(i+1)*l.recordSize]
		name, err := names.Encode(r.Name)
		if err != nil {
			return nil, err
		}
		if err := buf.PutFixed(rec, l.nameAt, l.nameLen, name); err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, r.Name, err)
		}
		buf.PutU32(rec, l.offsetAt, r.Offset)
		buf.PutU32(rec, l.sizeAt, r.Size)
		if l.storedAt >= 0 {
			buf.PutU32(rec, l.storedAt, r.Stored())
		}
		if l.flagsAt >= 0 {
			buf.PutU32(rec, l.flagsAt, r.Flags)
		}
	}
	return out, nil
}

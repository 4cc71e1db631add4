package pak

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/joshuapare/pakkit/internal/buf"
	"github.com/joshuapare/pakkit/internal/mmfile"
	"github.com/joshuapare/pakkit/internal/writer"
	"github.com/joshuapare/pakkit/pak/format"
	"github.com/joshuapare/pakkit/pak/order"
	"github.com/joshuapare/pakkit/pkg/types"
)

// Save step names passed to the failpoint.
const (
	stepBackup   = "backup"
	stepData     = "data"
	stepIndex    = "index"
	stepSwapData = "swap-data"
)

// entry is one record of the post-save index. Fresh entries carry caller
// bytes still to be encoded; the rest are copied from the old data file.
type entry struct {
	rec   format.Record
	data  []byte
	fresh bool
}

// Save applies the staged changes. It is a no-op when nothing is staged and
// fails before touching any file when the bound layout is read-only.
//
// On failure both files are restored from their backups, the staged changes
// and committed records are left as they were, and the returned error
// matches types.ErrCommit.
func (c *Container) Save() error {
	if len(c.changes) == 0 {
		return nil
	}
	if !c.handler.CanWrite() {
		return types.New(types.ErrKindUnsupported, fmt.Sprintf("%s archives cannot be saved", c.handler.Kind()), nil)
	}

	recs, err := c.commit(c.plan())
	if err != nil {
		c.log.Warn("save rolled back", "index", c.indexPath, "err", err)
		return types.New(types.ErrKindCommit, "save failed and was rolled back", err)
	}
	c.log.Info("archive saved", "index", c.indexPath, "records", len(recs), "changes", len(c.changes))
	c.records = recs
	c.changes = nil
	return nil
}

// plan replays the staged changes against the committed records. Sorted
// inserts are placed before the committed record at their position (inserts
// sharing a position in name order), appends follow in staging order.
func (c *Container) plan() []entry {
	deleted := make(map[int]bool)
	replaced := make(map[int][]byte)
	at := make(map[int][]Change)
	var tail []Change
	for _, ch := range c.changes {
		switch ch.Kind {
		case ChangeDelete:
			deleted[ch.Index] = true
		case ChangeReplace:
			replaced[ch.Index] = ch.Data
		case ChangeInsert:
			if ch.Position < 0 {
				tail = append(tail, ch)
			} else {
				at[ch.Position] = append(at[ch.Position], ch)
			}
		}
	}

	out := make([]entry, 0, len(c.records)+len(tail))
	insert := func(chs []Change) {
		for _, ch := range chs {
			out = append(out, entry{rec: format.Record{Name: ch.Name, Source: c.indexPath}, data: ch.Data, fresh: true})
		}
	}
	for i := 0; i <= len(c.records); i++ {
		if chs := at[i]; len(chs) > 0 {
			slices.SortStableFunc(chs, func(a, b Change) int { return order.Compare(a.Order, a.Name, b.Name) })
			insert(chs)
		}
		if i == len(c.records) || deleted[i] {
			continue
		}
		if data, ok := replaced[i]; ok {
			out = append(out, entry{rec: c.records[i], data: data, fresh: true})
			continue
		}
		out = append(out, entry{rec: c.records[i]})
	}
	insert(tail)
	return out
}

func (c *Container) fail(step string) error {
	if c.failpoint == nil {
		return nil
	}
	return c.failpoint(step)
}

// backupPair is a .bak copy and the file it restores.
type backupPair struct{ bak, orig string }

func (c *Container) commit(plan []entry) ([]format.Record, error) {
	backups, err := c.backup()
	if err != nil {
		return nil, err
	}
	recs, err := c.rewrite(plan)
	if err != nil {
		for _, b := range backups {
			if rerr := writer.Restore(b.bak, b.orig); rerr != nil {
				err = errors.Join(err, rerr)
			}
		}
		return nil, err
	}
	for _, b := range backups {
		if rerr := os.Remove(b.bak); rerr != nil {
			c.log.Warn("backup not removed", "path", b.bak, "err", rerr)
		}
	}
	return recs, nil
}

// backup copies both files to .bak siblings. On error any backup already
// taken is removed; the originals have not been touched.
func (c *Container) backup() ([]backupPair, error) {
	var out []backupPair
	drop := func() {
		for _, b := range out {
			_ = os.Remove(b.bak)
		}
	}
	for _, p := range []string{c.indexPath, c.dataPath} {
		bak, err := writer.Backup(p)
		if err != nil {
			drop()
			return nil, err
		}
		out = append(out, backupPair{bak: bak, orig: p})
	}
	if err := c.fail(stepBackup); err != nil {
		drop()
		return nil, err
	}
	return out, nil
}

// rewrite writes the new data file and index through temp files and swaps
// them in, data first.
func (c *Container) rewrite(plan []entry) ([]format.Record, error) {
	old, err := mmfile.Open(c.dataPath)
	if err != nil {
		return nil, fmt.Errorf("map data file: %w", err)
	}
	defer old.Close()

	data, err := writer.NewTemp(c.dataPath)
	if err != nil {
		return nil, err
	}
	defer data.Abort()

	recs := make([]format.Record, 0, len(plan))
	var cursor uint64
	for _, e := range plan {
		rec, stored, err := c.stored(old, e)
		if err != nil {
			return nil, err
		}
		if cursor+uint64(len(stored)) > math.MaxUint32 {
			return nil, fmt.Errorf("data file would exceed %d bytes at %s", uint64(math.MaxUint32), rec.Name)
		}
		rec.Offset = uint32(cursor)
		if _, err := data.Write(stored); err != nil {
			return nil, fmt.Errorf("write %s: %w", rec.Name, err)
		}
		cursor += uint64(len(stored))
		recs = append(recs, rec)
	}
	if err := c.fail(stepData); err != nil {
		return nil, err
	}

	raw, err := c.handler.BuildIndex(recs)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	index, err := writer.NewTemp(c.indexPath)
	if err != nil {
		return nil, err
	}
	defer index.Abort()
	if _, err := index.Write(raw); err != nil {
		return nil, fmt.Errorf("write index: %w", err)
	}
	if err := c.fail(stepIndex); err != nil {
		return nil, err
	}

	if err := data.Finish(); err != nil {
		return nil, err
	}
	if err := index.Finish(); err != nil {
		return nil, err
	}
	if err := data.Commit(); err != nil {
		return nil, err
	}
	if err := c.fail(stepSwapData); err != nil {
		return nil, err
	}
	if err := index.Commit(); err != nil {
		return nil, err
	}
	return recs, nil
}

// stored returns the bytes e occupies in the new data file.
func (c *Container) stored(old *mmfile.Mapping, e entry) (format.Record, []byte, error) {
	if e.fresh {
		rec, b, err := c.handler.EncodeEntry(e.rec, e.data)
		if err != nil {
			return format.Record{}, nil, fmt.Errorf("encode %s: %w", e.rec.Name, err)
		}
		return rec, b, nil
	}
	b, ok := buf.Slice(old.Bytes(), int(e.rec.Offset), int(e.rec.Stored()))
	if !ok {
		return format.Record{}, nil, fmt.Errorf("%s: %d bytes at %d lie outside the %d-byte data file",
			e.rec.Name, e.rec.Stored(), e.rec.Offset, old.Len())
	}
	return e.rec, b, nil
}

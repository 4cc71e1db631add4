package pak

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joshuapare/pakkit/internal/names"
	"github.com/joshuapare/pakkit/pak/format"
)

// FindFileIndex returns the index of the committed record named name,
// compared case-insensitively, or -1.
func (c *Container) FindFileIndex(name string) int {
	for i, r := range c.records {
		if names.Equal(r.Name, name) {
			return i
		}
	}
	return -1
}

// Contains reports whether a committed record is named name.
func (c *Container) Contains(name string) bool { return c.FindFileIndex(name) >= 0 }

// Extract returns the decoded payload of record i. Each call opens its own
// read handle on the data file, so concurrent calls are safe.
func (c *Container) Extract(i int) ([]byte, error) {
	rec, err := c.Record(i)
	if err != nil {
		return nil, err
	}
	return c.extract(rec)
}

// ExtractByName is Extract for the record named name.
func (c *Container) ExtractByName(name string) ([]byte, error) {
	i := c.FindFileIndex(name)
	if i < 0 {
		return nil, nameNotFound(name)
	}
	return c.extract(c.records[i])
}

func (c *Container) extract(rec format.Record) ([]byte, error) {
	f, err := os.Open(c.dataPath)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	b, err := c.handler.ExtractEntry(f, rec)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", rec.Name, err)
	}
	return b, nil
}

// ProgressFunc reports that done of total entries have been written.
type ProgressFunc func(done, total int)

// ExtractAll writes every entry under dir using its stored name. Backslashes
// in names are treated as directory separators. Entries run sequentially;
// ctx is checked between them.
func (c *Container) ExtractAll(ctx context.Context, dir string, progress ProgressFunc) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	total := len(c.records)
	for i, rec := range c.records {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := outputName(rec.Name)
		if err != nil {
			return err
		}
		b, err := c.extract(rec)
		if err != nil {
			return err
		}
		dst := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, b, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
		if progress != nil {
			progress(i+1, total)
		}
	}
	c.log.Debug("archive extracted", "index", c.indexPath, "dir", dir, "records", total)
	return nil
}

// outputName maps an entry name to a relative path that cannot escape the
// output directory.
func outputName(name string) (string, error) {
	p := filepath.FromSlash(strings.ReplaceAll(name, `\`, "/"))
	if !filepath.IsLocal(p) {
		return "", fmt.Errorf("entry %q escapes the output directory", name)
	}
	return p, nil
}

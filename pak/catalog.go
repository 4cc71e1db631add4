package pak

import (
	"fmt"

	"github.com/joshuapare/pakkit/internal/names"
	"github.com/joshuapare/pakkit/pak/format"
)

// Catalog browses several archives as one. A name present in more than one
// archive resolves to the last archive that has it, so later archives act
// as patches over earlier ones.
type Catalog struct {
	containers []*Container
}

// OpenCatalog opens every path in order. The first failure is returned
// with the offending path.
func OpenCatalog(paths []string, opts *Options) (*Catalog, error) {
	cat := &Catalog{containers: make([]*Container, 0, len(paths))}
	for _, p := range paths {
		c, err := Open(p, opts)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", p, err)
		}
		cat.containers = append(cat.containers, c)
	}
	return cat, nil
}

// Containers returns the opened archives in order.
func (c *Catalog) Containers() []*Container {
	out := make([]*Container, len(c.containers))
	copy(out, c.containers)
	return out
}

// Records lists every committed record of every archive, in archive order.
// Each record's Source names its index file.
func (c *Catalog) Records() []format.Record {
	var out []format.Record
	for _, ct := range c.containers {
		out = append(out, ct.records...)
	}
	return out
}

// Lookup resolves name case-insensitively, later archives first.
func (c *Catalog) Lookup(name string) (format.Record, bool) {
	for i := len(c.containers) - 1; i >= 0; i-- {
		ct := c.containers[i]
		if j := ct.FindFileIndex(name); j >= 0 {
			return ct.records[j], true
		}
	}
	return format.Record{}, false
}

// Extract reads rec through the archive named by rec.Source.
func (c *Catalog) Extract(rec format.Record) ([]byte, error) {
	for _, ct := range c.containers {
		if ct.indexPath != rec.Source {
			continue
		}
		for _, r := range ct.records {
			if r.Offset == rec.Offset && names.Equal(r.Name, rec.Name) {
				return ct.extract(r)
			}
		}
		return nil, nameNotFound(rec.Name)
	}
	return nil, nameNotFound(rec.Source + ":" + rec.Name)
}

package pak

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/joshuapare/pakkit/internal/writer"
	"github.com/joshuapare/pakkit/pak/format"
	"github.com/joshuapare/pakkit/pkg/types"
)

const (
	indexExt = "idx"
	dataExt  = "pak"
)

// Container is an index/data pair bound to one format handler.
type Container struct {
	indexPath string
	dataPath  string
	handler   format.Handler
	records   []format.Record
	changes   []Change
	log       *slog.Logger

	// failpoint, when set, runs at each Save step; an error aborts the save.
	failpoint func(step string) error
}

// Paths returns the index and data paths for an archive given either one.
// The extension is swapped in the same letter case: a.IDX pairs with a.PAK.
func Paths(path string) (index, data string, err error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	switch strings.ToLower(ext) {
	case "." + indexExt:
		return path, base + swapExt(ext, dataExt), nil
	case "." + dataExt:
		return base + swapExt(ext, indexExt), path, nil
	default:
		return "", "", types.New(types.ErrKindNotFound, fmt.Sprintf("%s: not an .%s or .%s path", path, indexExt, dataExt), nil)
	}
}

// swapExt returns "."+to with each letter cased like the matching letter of
// ext.
func swapExt(ext, to string) string {
	out := []rune{'.'}
	src := []rune(ext[1:])
	for i, r := range to {
		if i < len(src) && unicode.IsUpper(src[i]) {
			r = unicode.ToUpper(r)
		}
		out = append(out, r)
	}
	return string(out)
}

func notFound(path string, err error) error {
	return types.New(types.ErrKindNotFound, "open "+path, err)
}

// Open reads the index named by path (or the index paired with a data path),
// detects its layout and returns the bound container. If no layout parses
// the index the error matches types.ErrMalformed and no container is
// returned.
func Open(path string, opts *Options) (*Container, error) {
	indexPath, dataPath, err := Paths(path)
	if err != nil {
		return nil, err
	}
	log := opts.logger()

	raw, err := os.ReadFile(indexPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(indexPath, err)
		}
		return nil, fmt.Errorf("read index: %w", err)
	}
	info, err := os.Stat(dataPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(dataPath, err)
		}
		return nil, fmt.Errorf("stat data file: %w", err)
	}

	h, recs, err := format.Detect(raw, info.Size(), opts.cipher(), log.With("index", indexPath))
	if err != nil {
		return nil, err
	}
	for i := range recs {
		recs[i].Source = indexPath
	}
	log.Debug("archive opened", "index", indexPath, "format", h.Kind().String(),
		"records", len(recs), "encryption", h.EncryptionLabel())

	return &Container{
		indexPath: indexPath,
		dataPath:  dataPath,
		handler:   h,
		records:   recs,
		log:       log,
	}, nil
}

// Create writes an empty legacy (OldL1) archive pair and returns it without
// running detection. An encrypted archive needs the block network in
// opts.Cipher. Create fails if either file already exists.
func Create(path string, encrypted bool, opts *Options) (*Container, error) {
	return CreateFormat(path, format.KindOldL1, encrypted, opts)
}

// CreateFormat is Create for any writable layout. An encrypted Ext or IdxV2
// archive needs opts.Cipher.BlockKey.
//
// An empty archive carries nothing ciphered, so reopening it before the
// first Save reports it as unencrypted.
func CreateFormat(path string, kind format.Kind, encrypted bool, opts *Options) (*Container, error) {
	indexPath, dataPath, err := Paths(path)
	if err != nil {
		return nil, err
	}
	h, err := format.NewWritable(kind, opts.cipher(), encrypted)
	if err != nil {
		return nil, err
	}
	for _, p := range []string{indexPath, dataPath} {
		if _, err := os.Lstat(p); err == nil {
			return nil, types.New(types.ErrKindState, "create "+p, fs.ErrExist)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("create %s: %w", p, err)
		}
	}

	idx, err := h.BuildIndex(nil)
	if err != nil {
		return nil, err
	}
	if err := writer.WriteAtomic(dataPath, nil); err != nil {
		return nil, fmt.Errorf("create data file: %w", err)
	}
	if err := writer.WriteAtomic(indexPath, idx); err != nil {
		_ = os.Remove(dataPath)
		return nil, fmt.Errorf("create index: %w", err)
	}

	log := opts.logger()
	log.Info("archive created", "index", indexPath, "format", kind.String(), "encryption", h.EncryptionLabel())
	return &Container{
		indexPath: indexPath,
		dataPath:  dataPath,
		handler:   h,
		records:   []format.Record{},
		log:       log,
	}, nil
}

// Count returns the number of committed records.
func (c *Container) Count() int { return len(c.records) }

// Records returns a copy of the committed records in index order.
func (c *Container) Records() []format.Record {
	out := make([]format.Record, len(c.records))
	copy(out, c.records)
	return out
}

// Record returns the committed record at i.
func (c *Container) Record(i int) (format.Record, error) {
	if i < 0 || i >= len(c.records) {
		return format.Record{}, indexNotFound(i, len(c.records))
	}
	return c.records[i], nil
}

// IsProtected reports whether the index or payloads are ciphered.
func (c *Container) IsProtected() bool { return c.handler.Protected() }

// EncryptionLabel names the resolved cipher scheme ("none", "l1", ...).
func (c *Container) EncryptionLabel() string { return c.handler.EncryptionLabel() }

// Format returns the bound layout.
func (c *Container) Format() format.Kind { return c.handler.Kind() }

// Writable reports whether Save is supported by the bound layout.
func (c *Container) Writable() bool { return c.handler.CanWrite() }

// MaxFileNameBytes is the encoded filename limit of the bound layout.
func (c *Container) MaxFileNameBytes() int { return c.handler.MaxFileNameBytes() }

func (c *Container) IndexPath() string { return c.indexPath }
func (c *Container) DataPath() string  { return c.dataPath }

func indexNotFound(i, n int) error {
	return types.New(types.ErrKindNotFound, fmt.Sprintf("record %d out of range [0,%d)", i, n), nil)
}

func nameNotFound(name string) error {
	return types.New(types.ErrKindNotFound, fmt.Sprintf("no entry named %q", name), nil)
}

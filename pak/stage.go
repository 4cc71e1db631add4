package pak

import (
	"fmt"
	"slices"

	"github.com/joshuapare/pakkit/internal/names"
	"github.com/joshuapare/pakkit/pak/order"
	"github.com/joshuapare/pakkit/pkg/types"
)

// ChangeKind identifies a staged change.
type ChangeKind int

const (
	ChangeInsert ChangeKind = iota
	ChangeDelete
	ChangeReplace
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeInsert:
		return "insert"
	case ChangeDelete:
		return "delete"
	case ChangeReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Change is one staged edit. Index refers to the committed record list;
// Position is the sorted insertion point for inserts, or -1 to append.
type Change struct {
	Kind     ChangeKind
	Name     string
	Index    int
	Position int
	Order    order.Order
	Data     []byte
}

// Pending returns the staged changes in the order they were made.
func (c *Container) Pending() []Change { return slices.Clone(c.changes) }

// Discard drops every staged change.
func (c *Container) Discard() { c.changes = nil }

// AuditSort reports committed records out of place under o.
func (c *Container) AuditSort(o order.Order) []order.Violation {
	return order.Audit(c.names(), o)
}

func (c *Container) names() []string {
	out := make([]string, len(c.records))
	for i, r := range c.records {
		out[i] = r.Name
	}
	return out
}

func nameViolation(name, why string, err error) error {
	return types.New(types.ErrKindNameViolation, fmt.Sprintf("filename %q %s", name, why), err)
}

// checkName is the stage-time filename validation for Add.
func (c *Container) checkName(name string) error {
	if name == "" {
		return types.New(types.ErrKindNameViolation, "filename is empty", nil)
	}
	if !names.Legal(name) {
		return nameViolation(name, "is not a legal filename", nil)
	}
	enc, err := c.handler.EncodeName(name)
	if err != nil {
		return nameViolation(name, "cannot be encoded", err)
	}
	if limit := c.handler.MaxFileNameBytes(); len(enc) > limit {
		return nameViolation(name, fmt.Sprintf("is %d bytes, limit is %d", len(enc), limit), nil)
	}
	if i := c.FindFileIndex(name); i >= 0 {
		return nameViolation(name, fmt.Sprintf("collides with record %d (%s)", i, c.records[i].Name), nil)
	}
	for _, ch := range c.changes {
		if ch.Kind == ChangeInsert && names.Equal(ch.Name, name) {
			return nameViolation(name, "is already staged for insert", nil)
		}
	}
	return nil
}

// Add stages a new entry. The name is validated now; whether the bound
// layout can be written is only checked by Save. data is copied.
func (c *Container) Add(name string, data []byte, opts *AddOptions) error {
	if err := c.checkName(name); err != nil {
		return err
	}
	ch := Change{Kind: ChangeInsert, Name: name, Index: -1, Position: -1, Data: slices.Clone(data)}
	if opts != nil && opts.MaintainSort {
		ch.Order = opts.Order
		ch.Position = order.InsertIndex(c.names(), name, opts.Order)
	}
	c.changes = append(c.changes, ch)
	return nil
}

func (c *Container) stagedDelete(i int) bool {
	return slices.ContainsFunc(c.changes, func(ch Change) bool {
		return ch.Kind == ChangeDelete && ch.Index == i
	})
}

// Delete stages removal of committed record i.
func (c *Container) Delete(i int) error {
	rec, err := c.Record(i)
	if err != nil {
		return err
	}
	if c.stagedDelete(i) {
		return types.New(types.ErrKindState, fmt.Sprintf("record %d (%s) is already staged for deletion", i, rec.Name), nil)
	}
	c.changes = append(c.changes, Change{Kind: ChangeDelete, Name: rec.Name, Index: i, Position: -1})
	return nil
}

// DeleteByName stages removal of the record named name.
func (c *Container) DeleteByName(name string) error {
	i := c.FindFileIndex(name)
	if i < 0 {
		return nameNotFound(name)
	}
	return c.Delete(i)
}

// Replace stages new contents for the record named name.
func (c *Container) Replace(name string, data []byte) error {
	i := c.FindFileIndex(name)
	if i < 0 {
		return nameNotFound(name)
	}
	return c.ReplaceAt(i, data)
}

// ReplaceAt stages new contents for committed record i. A later replace of
// the same record supersedes an earlier one.
func (c *Container) ReplaceAt(i int, data []byte) error {
	rec, err := c.Record(i)
	if err != nil {
		return err
	}
	if c.stagedDelete(i) {
		return types.New(types.ErrKindState, fmt.Sprintf("record %d (%s) is staged for deletion", i, rec.Name), nil)
	}
	c.changes = slices.DeleteFunc(c.changes, func(ch Change) bool {
		return ch.Kind == ChangeReplace && ch.Index == i
	})
	c.changes = append(c.changes, Change{Kind: ChangeReplace, Name: rec.Name, Index: i, Position: -1, Data: slices.Clone(data)})
	return nil
}

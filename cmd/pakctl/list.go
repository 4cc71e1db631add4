package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/pakkit/pak"
	"github.com/joshuapare/pakkit/pak/format"
)

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <archive>...",
		Short: "List the entries of one or more archives",
		Long: `The list command prints every entry of an archive with its position,
offset and sizes. Given several archives it lists them as one catalog; a
name found in a later archive shadows the same name in earlier ones.

Example:
  pakctl list data.idx
  pakctl list base.idx patch.idx --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(args)
		},
	}
	return cmd
}

type listEntry struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Offset uint32 `json:"offset"`
	Size   uint32 `json:"size"`
	Stored uint32 `json:"stored"`
	Brotli bool   `json:"brotli,omitempty"`
	Source string `json:"source,omitempty"`
}

func runList(args []string) error {
	opts, closer, err := loadOptions()
	if err != nil {
		return err
	}
	defer closer.Close()

	cat, err := pak.OpenCatalog(args, opts)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}

	var entries []listEntry
	for _, c := range cat.Containers() {
		for i, r := range c.Records() {
			e := listEntry{
				Index:  i,
				Name:   r.Name,
				Offset: r.Offset,
				Size:   r.Size,
				Stored: r.Stored(),
				Brotli: r.Flags&format.FlagBrotli != 0,
			}
			if len(args) > 1 {
				e.Source = r.Source
			}
			entries = append(entries, e)
		}
	}

	if jsonOut {
		if entries == nil {
			entries = []listEntry{}
		}
		return printJSON(entries)
	}

	for _, e := range entries {
		if e.Source != "" {
			printInfo("%s: ", e.Source)
		}
		printInfo("%5d  %-24s %10d %10d @%d\n", e.Index, e.Name, e.Size, e.Stored, e.Offset)
	}
	printVerbose("%d entries\n", len(entries))
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var extractOut string

func init() {
	rootCmd.AddCommand(newExtractCmd())
}

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <archive> [name...]",
		Short: "Extract entries to a directory",
		Long: `The extract command writes decoded entries to the output directory.
Without names every entry is extracted; backslashes in stored names become
subdirectories.

Example:
  pakctl extract data.idx -o out/
  pakctl extract data.idx tile001.img list.txt -o out/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.Context(), args)
		},
	}
	cmd.Flags().StringVarP(&extractOut, "output", "o", ".", "Output directory")
	return cmd
}

func runExtract(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c, closer, err := openArchive(args[0])
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer closer.Close()

	if len(args) == 1 {
		err := c.ExtractAll(ctx, extractOut, func(done, total int) {
			printVerbose("  [%d/%d]\n", done, total)
		})
		if err != nil {
			return err
		}
		printInfo("Extracted %d entries to %s\n", c.Count(), extractOut)
		return nil
	}

	if err := os.MkdirAll(extractOut, 0o755); err != nil {
		return err
	}
	for _, name := range args[1:] {
		b, err := c.ExtractByName(name)
		if err != nil {
			return err
		}
		dst := filepath.Join(extractOut, filepath.Base(filepath.FromSlash(name)))
		if err := os.WriteFile(dst, b, 0o644); err != nil {
			return err
		}
		printVerbose("  %s (%s)\n", name, formatSize(int64(len(b))))
	}
	printInfo("Extracted %d entries to %s\n", len(args)-1, extractOut)
	return nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joshuapare/pakkit/pak"
	"github.com/joshuapare/pakkit/pak/order"
)

var (
	addName   string
	addSorted bool
	addOrder  string
)

func init() {
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newRmCmd())
	rootCmd.AddCommand(newReplaceCmd())
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <archive> <file>...",
		Short: "Add files to an archive",
		Long: `The add command stores each file under its base name (or --name for a
single file) and commits the archive. With --sorted each entry is inserted
at its sorted position instead of appended.

Example:
  pakctl add data.idx new.txt
  pakctl add data.idx a.img b.img --sorted --order class`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(args)
		},
	}
	cmd.Flags().StringVar(&addName, "name", "", "Entry name (single file only)")
	cmd.Flags().BoolVar(&addSorted, "sorted", false, "Insert at the sorted position")
	cmd.Flags().StringVar(&addOrder, "order", "ordinal", "Sort order: ordinal or class")
	return cmd
}

func runAdd(args []string) error {
	if addName != "" && len(args) != 2 {
		return fmt.Errorf("--name needs exactly one file, got %d", len(args)-1)
	}
	o, ok := order.Parse(addOrder)
	if !ok {
		return fmt.Errorf("unknown order %q", addOrder)
	}
	c, closer, err := openArchive(args[0])
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer closer.Close()

	opts := &pak.AddOptions{MaintainSort: addSorted, Order: o}
	for _, path := range args[1:] {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		name := addName
		if name == "" {
			name = filepath.Base(path)
		}
		if err := c.Add(name, data, opts); err != nil {
			return err
		}
		printVerbose("  + %s (%s)\n", name, formatSize(int64(len(data))))
	}
	return save(c)
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <archive> <name>...",
		Short: "Delete entries from an archive",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRm(args)
		},
	}
}

func runRm(args []string) error {
	c, closer, err := openArchive(args[0])
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer closer.Close()

	for _, name := range args[1:] {
		if err := c.DeleteByName(name); err != nil {
			return err
		}
		printVerbose("  - %s\n", name)
	}
	return save(c)
}

func newReplaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replace <archive> <name> <file>",
		Short: "Replace the contents of an entry",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplace(args)
		},
	}
}

func runReplace(args []string) error {
	c, closer, err := openArchive(args[0])
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer closer.Close()

	data, err := os.ReadFile(args[2])
	if err != nil {
		return err
	}
	if err := c.Replace(args[1], data); err != nil {
		return err
	}
	return save(c)
}

func save(c *pak.Container) error {
	n := len(c.Pending())
	if err := c.Save(); err != nil {
		return err
	}
	printInfo("Saved %s: %d change(s), %d entries\n", c.IndexPath(), n, c.Count())
	return nil
}

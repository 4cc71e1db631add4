package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joshuapare/pakkit/pak"
	"github.com/joshuapare/pakkit/pak/format"
)

var (
	createFormat    string
	createEncrypted bool
)

func init() {
	rootCmd.AddCommand(newCreateCmd())
}

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <archive> [file...]",
		Short: "Create an archive pair",
		Long: `The create command writes a new index and data file, optionally seeded
with files. The default layout is OldL1; --encrypted ciphers it with the
block network (--tables), or with Blowfish (--key) for ext and idxv2.

An empty archive has nothing ciphered in it and reopens as unencrypted, so
pass the first files here to keep the encryption choice.

Example:
  pakctl create new.idx
  pakctl create new.idx a.img b.img --format ext --encrypted --key 0123456789abcdef`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(args)
		},
	}
	cmd.Flags().StringVar(&createFormat, "format", "oldl1", "Index layout: oldl1, ext or idxv2")
	cmd.Flags().BoolVar(&createEncrypted, "encrypted", false, "Cipher the index and payloads")
	return cmd
}

func runCreate(args []string) error {
	kind, ok := format.ParseKind(createFormat)
	if !ok {
		return fmt.Errorf("unknown format %q", createFormat)
	}
	opts, closer, err := loadOptions()
	if err != nil {
		return err
	}
	defer closer.Close()

	c, err := pak.CreateFormat(args[0], kind, createEncrypted, opts)
	if err != nil {
		return err
	}
	printInfo("Created %s (%s, encryption %s)\n", c.IndexPath(), c.Format(), c.EncryptionLabel())
	if len(args) == 1 {
		return nil
	}
	for _, path := range args[1:] {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := c.Add(filepath.Base(path), data, nil); err != nil {
			return err
		}
	}
	return save(c)
}

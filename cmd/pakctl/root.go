package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/pakkit/internal/logger"
	"github.com/joshuapare/pakkit/pak"
	"github.com/joshuapare/pakkit/pak/cipher"
)

var (
	// Global flags
	verbose   bool
	quiet     bool
	jsonOut   bool
	logToFile bool
	tablesDir string
	keyHex    string
	desKeyHex string
)

var rootCmd = &cobra.Command{
	Use:   "pakctl",
	Short: "Inspect and edit legacy .idx/.pak game archives",
	Long: `pakctl lists, extracts and edits legacy game archives made of an index
file (.idx) and a data file (.pak). The index layout and cipher are detected
automatically; edits are committed transactionally with automatic rollback.

Ciphered archives need their key material:
  --tables DIR   block network tables (initial.tbl, expansion.tbl, sbox.tbl,
                 permute.tbl, roundkeys.tbl)
  --key HEX      Blowfish key for ciphered Ext and IdxV2 indexes
  --des-key HEX  DES key for OldDes indexes`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logging to stderr")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&logToFile, "log", false, "Write a JSON log under ~/.pakctl/logs")
	rootCmd.PersistentFlags().StringVar(&tablesDir, "tables", "", "Directory holding the block network tables")
	rootCmd.PersistentFlags().StringVar(&keyHex, "key", "", "Blowfish key (hex)")
	rootCmd.PersistentFlags().StringVar(&desKeyHex, "des-key", "", "DES key (hex, 8 bytes)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// loadOptions turns the global flags into archive options. The returned
// closer flushes the log file, if any.
func loadOptions() (*pak.Options, io.Closer, error) {
	var cfg cipher.Config
	if tablesDir != "" {
		tables, err := cipher.LoadTables(os.DirFS(tablesDir))
		if err != nil {
			return nil, nil, fmt.Errorf("load tables: %w", err)
		}
		cfg.Network = cipher.New(tables)
	}
	var err error
	if cfg.BlockKey, err = decodeKey("--key", keyHex); err != nil {
		return nil, nil, err
	}
	if cfg.DESKey, err = decodeKey("--des-key", desKeyHex); err != nil {
		return nil, nil, err
	}

	log, closer, err := logger.New(logger.Options{Verbose: verbose && !quiet, File: logToFile})
	if err != nil {
		return nil, nil, fmt.Errorf("init logging: %w", err)
	}
	return &pak.Options{Cipher: cfg, Logger: log}, closer, nil
}

func decodeKey(flag, s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", flag, err)
	}
	return b, nil
}

// openArchive opens path with the global options.
func openArchive(path string) (*pak.Container, io.Closer, error) {
	opts, closer, err := loadOptions()
	if err != nil {
		return nil, nil, err
	}
	printVerbose("Opening archive: %s\n", path)
	c, err := pak.Open(path, opts)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return c, closer, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func formatSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d bytes", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
}

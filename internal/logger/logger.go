// Package logger builds the slog logger used by pakctl: discarded by default,
// text to stderr with --verbose, JSON to a dated file with --log.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	logPrefix     = "pakctl-"
	logSuffix     = ".log"
	retentionDays = 30
)

// Options configures New.
type Options struct {
	Verbose bool   // debug-level text output to Stderr
	File    bool   // JSON output to a dated file under Dir
	Dir     string // default: ~/.pakctl/logs
	Stderr  io.Writer
	Now     func() time.Time // for tests
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// New returns the configured logger and a closer for its log file.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	var handlers []slog.Handler
	var closer io.Closer = nopCloser{}

	if opts.Verbose {
		w := opts.Stderr
		if w == nil {
			w = os.Stderr
		}
		handlers = append(handlers, slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	if opts.File {
		dir := opts.Dir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, nil, err
			}
			dir = filepath.Join(home, ".pakctl", "logs")
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
		cleanOldLogs(dir, now())

		name := filepath.Join(dir, logPrefix+now().Format(time.DateOnly)+logSuffix)
		f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		closer = f
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	switch len(handlers) {
	case 0:
		return Discard(), closer, nil
	case 1:
		return slog.New(handlers[0]), closer, nil
	default:
		return slog.New(fanout(handlers)), closer, nil
	}
}

// cleanOldLogs removes pakctl-YYYY-MM-DD.log files older than retentionDays.
// Best effort.
func cleanOldLogs(dir string, now time.Time) {
	cutoff := now.AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}
		date, err := time.Parse(time.DateOnly, strings.TrimSuffix(strings.TrimPrefix(name, logPrefix), logSuffix))
		if err != nil {
			continue
		}
		if date.Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
}

// Package cliutil carries the plumbing shared by the dataforge command-line
// adapters: flag registration with short and long spellings, logger setup,
// and the interactive overwrite confirmation.
package cliutil

import (
	"flag"
	"io"
	"log/slog"
	"os"
)

// StringVar registers a string flag under both its short and long names so
// callers can pass either -s or --source.
func StringVar(fs *flag.FlagSet, p *string, short, long, value, usage string) {
	fs.StringVar(p, short, value, usage)
	fs.StringVar(p, long, value, usage)
}

// BoolVar registers a bool flag under both its short and long names.
func BoolVar(fs *flag.FlagSet, p *bool, short, long string, value bool, usage string) {
	fs.BoolVar(p, short, value, usage)
	fs.BoolVar(p, long, value, usage)
}

// NewLogger builds the tool logger: text output on stderr, debug level when
// verbose, otherwise warnings only so normal runs stay quiet.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewDiscardLogger builds a logger that drops everything.
func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

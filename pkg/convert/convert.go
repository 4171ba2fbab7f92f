// Package convert performs one-shot CSV to JSON conversions: validate the
// source and destination paths eagerly, read the CSV rows into an ordered
// row-table, and write it out as a JSON array of objects.
package convert

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/tidyops/dataforge/internal/fsutil"
	"github.com/tidyops/dataforge/pkg/fault"
)

// Converter holds the validated paths and settings for one conversion.
// Construct with New; the zero value is not usable.
type Converter struct {
	source      string
	destination string
	overwrite   bool
	delimiter   rune
	log         *slog.Logger
}

// Option mutates a Converter during construction.
type Option func(*Converter)

// WithOverwrite permits replacing an existing destination file.
func WithOverwrite(overwrite bool) Option {
	return func(c *Converter) { c.overwrite = overwrite }
}

// WithDelimiter sets the CSV field delimiter. Defaults to a comma.
func WithDelimiter(delim rune) Option {
	return func(c *Converter) { c.delimiter = delim }
}

// WithLogger attaches a logger for debug progress reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) { c.log = logger }
}

// New validates source and destination and returns a ready Converter. All
// path and argument checks happen here, before any transformation work, so
// Convert can only fail on I/O and content problems.
//
// A destination without a file extension is treated as a directory: it is
// created along with missing parents, and the output file name becomes the
// source base name with its extension swapped to ".json".
func New(source, destination string, opts ...Option) (*Converter, error) {
	c := &Converter{
		source:      source,
		destination: destination,
		delimiter:   ',',
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if c.source == "" {
		return nil, fault.New(fault.KindInvalidArgument, "", "a source file path is required")
	}
	if !fsutil.HasExtension(c.source, ".csv") {
		return nil, fault.New(fault.KindInvalidFormat, c.source,
			"the source file must have a '.csv' extension")
	}
	exists, err := fsutil.Exists(c.source)
	if err != nil {
		return nil, fault.Classify(err, c.source)
	}
	if !exists {
		return nil, fault.Newf(fault.KindNotFound, c.source,
			"the source file '%s' does not exist", c.source)
	}

	if c.destination == "" {
		return nil, fault.New(fault.KindInvalidArgument, "", "a destination path is required")
	}
	switch ext := filepath.Ext(c.destination); {
	case ext == "":
		// Extension-less destination is a directory.
		name := fsutil.ReplaceExtension(c.source, ".json")
		c.destination = filepath.Join(c.destination, name)
		if err := fsutil.EnsureDir(filepath.Dir(c.destination)); err != nil {
			return nil, fault.Classify(err, filepath.Dir(c.destination))
		}
	case !fsutil.HasExtension(c.destination, ".json"):
		return nil, fault.New(fault.KindInvalidFormat, c.destination,
			"the destination file must have a '.json' extension")
	}

	if c.delimiter == 0 {
		return nil, fault.New(fault.KindInvalidArgument, "", "the CSV delimiter must be a single character")
	}

	return c, nil
}

// Source returns the validated source path.
func (c *Converter) Source() string {
	return c.source
}

// Destination returns the resolved destination path, including the file name
// synthesized for directory destinations.
func (c *Converter) Destination() string {
	return c.destination
}

// Convert reads the CSV source and writes the JSON destination. The
// destination is written atomically, so failures never leave a half-written
// file behind.
func (c *Converter) Convert(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	exists, err := fsutil.Exists(c.destination)
	if err != nil {
		return fault.Classify(err, c.destination)
	}
	if exists && !c.overwrite {
		return fault.Newf(fault.KindAlreadyExists, c.destination,
			"the destination file '%s' already exists; use '--over-write' to overwrite it", c.destination)
	}

	data, err := os.ReadFile(c.source)
	if err != nil {
		return fault.Classify(err, c.source)
	}
	if !utf8.Valid(data) {
		return fault.Newf(fault.KindInvalidEncoding, c.source,
			"could not decode file '%s': invalid UTF-8", c.source)
	}
	c.log.Debug("source read", "path", c.source, "bytes", len(data))

	table, err := readTable(bytes.NewReader(data), c.delimiter)
	if err != nil {
		return fault.Classify(err, c.source)
	}
	if len(table.Rows) == 0 {
		return fault.Newf(fault.KindEmptyInput, c.source,
			"the source file '%s' is empty; nothing to convert", c.source)
	}
	c.log.Debug("source parsed", "columns", len(table.Header), "rows", len(table.Rows))

	encoded, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fault.Classify(err, c.destination)
	}
	if err := fsutil.WriteFileAtomic(c.destination, encoded, 0o644); err != nil {
		return fault.Classify(err, c.destination)
	}
	c.log.Debug("destination written", "path", c.destination)

	return nil
}

// readTable parses CSV-with-header content into a Table. The first record is
// the header; every following record must have the same field count, which
// encoding/csv enforces.
func readTable(r io.Reader, delim rune) (Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, err
	}
	if len(records) == 0 {
		return Table{}, nil
	}
	return Table{Header: records[0], Rows: records[1:]}, nil
}

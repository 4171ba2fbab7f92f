package flatten

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/tidyops/dataforge/internal/fsutil"
	"github.com/tidyops/dataforge/pkg/fault"
)

// OutputPrefix is prepended to the source file name to derive the output
// location, always in the same directory as the source.
const OutputPrefix = "flat_"

// Request describes one flattening run from a source file to its derived
// output path.
type Request struct {
	// Source is the path of the .json document to flatten.
	Source string
	// Overwrite permits replacing an existing output file.
	Overwrite bool
	// Flattener configures the separators; nil means defaults.
	Flattener *Flattener
	// Logger receives debug progress; nil means no logging.
	Logger *slog.Logger
}

// Run validates the request, flattens the source document, and writes the
// result next to the source with the OutputPrefix name. It returns the output
// path on success. All failures come back classified through pkg/fault.
func Run(ctx context.Context, req Request) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	logger := req.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if req.Source == "" {
		return "", fault.New(fault.KindInvalidArgument, "", "a source file path is required")
	}
	exists, err := fsutil.Exists(req.Source)
	if err != nil {
		return "", fault.Classify(err, req.Source)
	}
	if !exists {
		return "", fault.Newf(fault.KindNotFound, req.Source,
			"the source file path '%s' does not exist", req.Source)
	}
	if !fsutil.HasExtension(req.Source, ".json") {
		return "", fault.Newf(fault.KindInvalidFormat, req.Source,
			"invalid file type: expected '.json', got %q", filepath.Ext(req.Source))
	}

	output := fsutil.PrefixedSibling(req.Source, OutputPrefix)
	outExists, err := fsutil.Exists(output)
	if err != nil {
		return "", fault.Classify(err, output)
	}
	if outExists && !req.Overwrite {
		return "", fault.Newf(fault.KindAlreadyExists, output,
			"the output file path '%s' already exists; use -w or --overwrite to overwrite the output file", output)
	}

	flattener := req.Flattener
	if flattener == nil {
		if flattener, err = New(); err != nil {
			return "", err
		}
	}

	data, err := os.ReadFile(req.Source)
	if err != nil {
		return "", fault.Classify(err, req.Source)
	}
	if !utf8.Valid(data) {
		return "", fault.Newf(fault.KindInvalidEncoding, req.Source,
			"could not decode JSON from '%s': invalid UTF-8", req.Source)
	}
	logger.Debug("source read", "path", req.Source, "bytes", len(data))

	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return "", fault.Classify(err, req.Source)
	}

	flat, err := flattener.Flatten(doc)
	if err != nil {
		return "", err
	}
	logger.Debug("document flattened", "keys", flat.Len())

	encoded, err := json.MarshalIndent(flat, "", "  ")
	if err != nil {
		return "", fault.Classify(err, output)
	}
	if err := fsutil.WriteFileAtomic(output, encoded, 0o644); err != nil {
		return "", fault.Classify(err, output)
	}
	logger.Debug("output written", "path", output)

	return output, nil
}

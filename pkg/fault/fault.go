// Package fault defines the classified error values shared by the dataforge
// tools. Every failure that crosses a package boundary is wrapped in an
// *Error carrying a Kind, the path that was being processed, and the original
// cause, so CLI adapters can print a single diagnostic line and library
// callers can branch on the classification.
package fault

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
)

// Kind classifies a failure into the taxonomy shared by both tools.
type Kind int

const (
	// KindUnexpected wraps any condition the other kinds do not cover.
	KindUnexpected Kind = iota
	// KindInvalidArgument reports an unusable parameter value.
	KindInvalidArgument
	// KindInvalidFormat reports a wrong file extension or malformed content.
	KindInvalidFormat
	// KindNotFound reports a missing source file.
	KindNotFound
	// KindAlreadyExists reports a destination present without overwrite permission.
	KindAlreadyExists
	// KindEmptyInput reports a source with nothing to convert.
	KindEmptyInput
	// KindPermissionDenied reports a filesystem permission failure.
	KindPermissionDenied
	// KindInvalidEncoding reports a text decode or encode failure.
	KindInvalidEncoding
	// KindSerialization reports a value that cannot be represented in the
	// output format.
	KindSerialization
)

var kindNames = map[Kind]string{
	KindUnexpected:       "unexpected",
	KindInvalidArgument:  "invalid argument",
	KindInvalidFormat:    "invalid format",
	KindNotFound:         "not found",
	KindAlreadyExists:    "already exists",
	KindEmptyInput:       "empty input",
	KindPermissionDenied: "permission denied",
	KindInvalidEncoding:  "invalid encoding",
	KindSerialization:    "serialization",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unexpected"
}

// Error is a classified failure with optional path context and cause.
type Error struct {
	Kind Kind
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a classified error with a fixed message.
func New(kind Kind, path, msg string) *Error {
	return &Error{Kind: kind, Path: path, Msg: msg}
}

// Newf builds a classified error with a formatted message.
func Newf(kind Kind, path, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds a classified error preserving the original cause.
func Wrap(kind Kind, path, msg string, err error) *Error {
	return &Error{Kind: kind, Path: path, Msg: msg, Err: err}
}

// KindOf extracts the classification from err, or KindUnexpected when err is
// not a *fault.Error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnexpected
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == kind
}

// Classify maps well-known failure shapes from the standard library onto the
// taxonomy. Already-classified errors pass through untouched; anything
// unrecognized wraps as KindUnexpected with the cause preserved.
func Classify(err error, path string) *Error {
	if err == nil {
		return nil
	}

	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}

	switch {
	case errors.Is(err, fs.ErrPermission):
		return Wrap(KindPermissionDenied, path, fmt.Sprintf("permission denied while accessing %q", path), err)
	case errors.Is(err, fs.ErrNotExist):
		return Wrap(KindNotFound, path, fmt.Sprintf("the file %q does not exist", path), err)
	case errors.Is(err, fs.ErrExist):
		return Wrap(KindAlreadyExists, path, fmt.Sprintf("the file %q already exists", path), err)
	}

	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return Wrap(KindInvalidFormat, path, fmt.Sprintf("CSV format error in %q", path), err)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return Wrap(KindInvalidFormat, path, fmt.Sprintf("could not decode JSON from %q", path), err)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return Wrap(KindInvalidFormat, path, fmt.Sprintf("could not decode JSON from %q", path), err)
	}

	var unsupported *json.UnsupportedTypeError
	if errors.As(err, &unsupported) {
		return Wrap(KindSerialization, path, "could not serialize to JSON", err)
	}

	var unsupportedValue *json.UnsupportedValueError
	if errors.As(err, &unsupportedValue) {
		return Wrap(KindSerialization, path, "could not serialize to JSON", err)
	}

	return Wrap(KindUnexpected, path, fmt.Sprintf("unexpected error while processing %q", path), err)
}

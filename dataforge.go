// Package dataforge bundles two small file-transformation utilities: a CSV
// to JSON converter and a recursive JSON flattener. The implementation lives
// in pkg/convert and pkg/flatten; this package re-exports the entry points
// callers need for the common one-shot cases.
package dataforge

import (
	"context"

	"github.com/tidyops/dataforge/pkg/convert"
	"github.com/tidyops/dataforge/pkg/flatten"
)

// Table is the ordered row-table produced by parsing a CSV source.
type Table = convert.Table

// FlatMap is the insertion-ordered single-level mapping produced by
// flattening.
type FlatMap = flatten.FlatMap

// Value is the ordered JSON document node consumed by the flattener.
type Value = flatten.Value

// NewConverter exposes the validated converter constructor.
func NewConverter(source, destination string, opts ...convert.Option) (*convert.Converter, error) {
	return convert.New(source, destination, opts...)
}

// ConvertCSV validates the paths and performs one CSV to JSON conversion.
func ConvertCSV(ctx context.Context, source, destination string, opts ...convert.Option) error {
	c, err := convert.New(source, destination, opts...)
	if err != nil {
		return err
	}
	return c.Convert(ctx)
}

// NewFlattener exposes the validated flattener constructor.
func NewFlattener(opts ...flatten.Option) (*flatten.Flattener, error) {
	return flatten.New(opts...)
}

// FlattenFile flattens the JSON document at source and writes the result to
// the derived flat_<name> sibling path, returning that path.
func FlattenFile(ctx context.Context, source string, overwrite bool, opts ...flatten.Option) (string, error) {
	f, err := flatten.New(opts...)
	if err != nil {
		return "", err
	}
	return flatten.Run(ctx, flatten.Request{
		Source:    source,
		Overwrite: overwrite,
		Flattener: f,
	})
}

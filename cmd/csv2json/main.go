// Command csv2json converts a CSV file into a JSON array of row objects,
// preserving the header's field order.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/tidyops/dataforge/internal/cliutil"
	"github.com/tidyops/dataforge/internal/config"
	"github.com/tidyops/dataforge/pkg/convert"
	"github.com/tidyops/dataforge/pkg/fault"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Problem: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("csv2json", flag.ContinueOnError)
	fs.SetOutput(out)

	var (
		source      string
		destination string
		delimiter   string
		configPath  string
		overWrite   bool
		interactive bool
		verbose     bool
	)
	cliutil.StringVar(fs, &source, "s", "source", "", "Path to the source .csv file.")
	cliutil.StringVar(fs, &destination, "d", "destination", "output.json", "Destination .json file, or a directory.")
	fs.BoolVar(&overWrite, "over-write", false, "Overwrite an existing destination file.")
	fs.StringVar(&delimiter, "delimiter", "", "CSV field delimiter (default ',').")
	fs.StringVar(&configPath, "config", "", "Optional YAML configuration file.")
	cliutil.BoolVar(fs, &interactive, "i", "interactive", false, "Ask before overwriting an existing destination.")
	cliutil.BoolVar(fs, &verbose, "v", "verbose", false, "Enable debug logging on stderr.")

	fs.Usage = func() {
		fmt.Fprint(out, "Convert a CSV file into JSON format.\n\nUsage:\n  csv2json -s input.csv [-d output.json] [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if source == "" {
		return fault.New(fault.KindInvalidArgument, "", "the -s/--source flag is required")
	}

	logger := cliutil.NewLogger(verbose)

	delim := ','
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if delim, err = cfg.CSV2JSON.DelimiterRune(delim); err != nil {
			return err
		}
	}
	if delimiter != "" {
		if utf8.RuneCountInString(delimiter) != 1 {
			return fault.Newf(fault.KindInvalidArgument, "",
				"the CSV delimiter must be a single character, got %q", delimiter)
		}
		delim, _ = utf8.DecodeRuneInString(delimiter)
	}

	opts := []convert.Option{
		convert.WithOverwrite(overWrite),
		convert.WithDelimiter(delim),
		convert.WithLogger(logger),
	}

	converter, err := convert.New(source, destination, opts...)
	if err != nil {
		return err
	}

	err = converter.Convert(ctx)
	if interactive && fault.IsKind(err, fault.KindAlreadyExists) {
		confirmed, promptErr := cliutil.ConfirmOverwrite(converter.Destination())
		if promptErr != nil {
			return promptErr
		}
		if !confirmed {
			return err
		}
		converter, err = convert.New(source, destination, append(opts, convert.WithOverwrite(true))...)
		if err != nil {
			return err
		}
		err = converter.Convert(ctx)
	}
	return err
}

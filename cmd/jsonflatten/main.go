// Command jsonflatten collapses a nested JSON document into a single-level
// mapping and writes it next to the source as flat_<name>.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tidyops/dataforge/internal/cliutil"
	"github.com/tidyops/dataforge/internal/config"
	"github.com/tidyops/dataforge/pkg/fault"
	"github.com/tidyops/dataforge/pkg/flatten"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Note: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("jsonflatten", flag.ContinueOnError)
	fs.SetOutput(out)

	var (
		source          string
		dictSep         string
		listSep         string
		configPath      string
		overwrite       bool
		failOnCollision bool
		interactive     bool
		verbose         bool
	)
	cliutil.StringVar(fs, &source, "s", "source", "", "Path to the source .json file.")
	cliutil.BoolVar(fs, &overwrite, "w", "overwrite", false, "Overwrite the existing output JSON file.")
	fs.StringVar(&dictSep, "dict-sep", "", "Separator for object-key steps (default '.').")
	fs.StringVar(&listSep, "list-sep", "", "Separator for array-index steps (default '__').")
	fs.BoolVar(&failOnCollision, "fail-on-collision", false, "Fail when two leaf paths flatten to the same key.")
	fs.StringVar(&configPath, "config", "", "Optional YAML configuration file.")
	cliutil.BoolVar(fs, &interactive, "i", "interactive", false, "Ask before overwriting an existing output file.")
	cliutil.BoolVar(fs, &verbose, "v", "verbose", false, "Enable debug logging on stderr.")

	fs.Usage = func() {
		fmt.Fprint(out, "Flatten a nested JSON document into a single-level mapping.\n\nUsage:\n  jsonflatten -s input.json [options]\n\nOptions:\n")
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

	var opts []flatten.Option
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if opts, err = cfg.Flatten.FlattenOptions(); err != nil {
			return err
		}
	}
	if dictSep != "" {
		opts = append(opts, flatten.WithDictSep(dictSep))
	}
	if listSep != "" {
		opts = append(opts, flatten.WithListSep(listSep))
	}
	if failOnCollision {
		opts = append(opts, flatten.WithCollisionMode(flatten.CollisionFail))
	}

	flattener, err := flatten.New(opts...)
	if err != nil {
		return err
	}

	req := flatten.Request{
		Source:    source,
		Overwrite: overwrite,
		Flattener: flattener,
		Logger:    logger,
	}

	output, err := flatten.Run(ctx, req)
	if interactive && fault.IsKind(err, fault.KindAlreadyExists) {
		path := source
		var fe *fault.Error
		if errors.As(err, &fe) && fe.Path != "" {
			path = fe.Path
		}
		confirmed, promptErr := cliutil.ConfirmOverwrite(path)
		if promptErr != nil {
			return promptErr
		}
		if !confirmed {
			return err
		}
		req.Overwrite = true
		output, err = flatten.Run(ctx, req)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Output location: '%s'\n", output)
	return nil
}

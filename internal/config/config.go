// Package config loads the optional YAML configuration file shared by the
// dataforge tools. Flags always win over file values; the file only supplies
// defaults.
package config

import (
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/tidyops/dataforge/pkg/fault"
	"github.com/tidyops/dataforge/pkg/flatten"
)

// Config is the top-level document, one section per tool.
type Config struct {
	CSV2JSON CSVConfig     `yaml:"csv2json"`
	Flatten  FlattenConfig `yaml:"flatten"`
}

// CSVConfig configures the CSV to JSON converter.
type CSVConfig struct {
	Delimiter string `yaml:"delimiter"`
}

// FlattenConfig configures the JSON flattener.
type FlattenConfig struct {
	DictSep     string `yaml:"dict_sep"`
	ListSep     string `yaml:"list_sep"`
	OnCollision string `yaml:"on_collision"`
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fault.Classify(err, path)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fault.Wrap(fault.KindInvalidFormat, path, "could not parse config file", err)
	}
	return cfg, nil
}

// DelimiterRune validates and returns the configured CSV delimiter, or
// fallback when the section leaves it empty.
func (c CSVConfig) DelimiterRune(fallback rune) (rune, error) {
	if c.Delimiter == "" {
		return fallback, nil
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return 0, fault.Newf(fault.KindInvalidArgument, "",
			"the CSV delimiter must be a single character, got %q", c.Delimiter)
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r, nil
}

// CollisionMode maps the on_collision string onto a flatten.CollisionMode.
func (c FlattenConfig) CollisionMode() (flatten.CollisionMode, error) {
	switch c.OnCollision {
	case "", "last-wins":
		return flatten.CollisionLastWins, nil
	case "fail":
		return flatten.CollisionFail, nil
	default:
		return 0, fault.Newf(fault.KindInvalidArgument, "",
			"unknown on_collision mode %q: must be 'last-wins' or 'fail'", c.OnCollision)
	}
}

// FlattenOptions converts the section into flatten constructor options.
func (c FlattenConfig) FlattenOptions() ([]flatten.Option, error) {
	var opts []flatten.Option
	if c.DictSep != "" {
		opts = append(opts, flatten.WithDictSep(c.DictSep))
	}
	if c.ListSep != "" {
		opts = append(opts, flatten.WithListSep(c.ListSep))
	}
	mode, err := c.CollisionMode()
	if err != nil {
		return nil, err
	}
	opts = append(opts, flatten.WithCollisionMode(mode))
	return opts, nil
}

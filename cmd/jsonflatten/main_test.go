package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidyops/dataforge/pkg/fault"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunFlattensFile(t *testing.T) {
	source := writeFile(t, "doc.json", `{"a": [1, 2]}`)
	output := filepath.Join(filepath.Dir(source), "flat_doc.json")

	var out bytes.Buffer
	err := run(context.Background(), []string{"-s", source}, &out)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Output location: '%s'\n", output), out.String())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a__0\": 1,\n  \"a__1\": 2\n}", string(data))
}

func TestRunRequiresSource(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), nil, &out)
	assert.True(t, fault.IsKind(err, fault.KindInvalidArgument), "got %v", err)
}

func TestRunOverwriteFlag(t *testing.T) {
	source := writeFile(t, "doc.json", `{"a": 1}`)
	output := filepath.Join(filepath.Dir(source), "flat_doc.json")
	require.NoError(t, os.WriteFile(output, []byte("old"), 0o644))

	var out bytes.Buffer
	err := run(context.Background(), []string{"-s", source}, &out)
	assert.True(t, fault.IsKind(err, fault.KindAlreadyExists), "got %v", err)

	err = run(context.Background(), []string{"-s", source, "-w"}, &out)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.NotEqual(t, "old", string(data))
}

func TestRunCustomSeparators(t *testing.T) {
	source := writeFile(t, "doc.json", `{"a": {"b": [1]}}`)

	var out bytes.Buffer
	err := run(context.Background(), []string{"-s", source, "--dict-sep", "/", "--list-sep", "#"}, &out)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(filepath.Dir(source), "flat_doc.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a/b#0\": 1\n}", string(data))
}

func TestRunFailOnCollision(t *testing.T) {
	source := writeFile(t, "doc.json", `{"a": ["first"], "a.0": "second"}`)

	var out bytes.Buffer
	err := run(context.Background(), []string{"-s", source, "--list-sep", ".", "--fail-on-collision"}, &out)
	assert.True(t, fault.IsKind(err, fault.KindInvalidFormat), "got %v", err)
}

func TestRunConfigFile(t *testing.T) {
	source := writeFile(t, "doc.json", `{"a": {"b": 1}}`)
	configPath := writeFile(t, "dataforge.yaml", "flatten:\n  dict_sep: \"->\"\n")

	var out bytes.Buffer
	err := run(context.Background(), []string{"-s", source, "--config", configPath}, &out)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(filepath.Dir(source), "flat_doc.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a->b\": 1\n}", string(data))
}

func TestRunHelp(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"-h"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
}

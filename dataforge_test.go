package dataforge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tidyops/dataforge/pkg/flatten"
)

func TestConvertCSV(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "people.csv")
	if err := os.WriteFile(source, []byte("name,age\nalice,30\n"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	destination := filepath.Join(dir, "people.json")

	if err := ConvertCSV(context.Background(), source, destination); err != nil {
		t.Fatalf("convert: %v", err)
	}

	data, err := os.ReadFile(destination)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	want := "[\n  {\n    \"name\": \"alice\",\n    \"age\": \"30\"\n  }\n]"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("destination content mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(source, []byte(`{"a": {"b": [1, 2]}}`), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	output, err := FlattenFile(context.Background(), source, false, flatten.WithDictSep("/"))
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if output != filepath.Join(dir, "flat_doc.json") {
		t.Errorf("output path = %q", output)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "{\n  \"a/b__0\": 1,\n  \"a/b__1\": 2\n}"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("output content mismatch (-want +got):\n%s", diff)
	}
}

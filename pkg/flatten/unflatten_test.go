package flatten

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tidyops/dataforge/pkg/fault"
)

func roundTrip(t *testing.T, f *Flattener, doc string) string {
	t.Helper()
	flat, err := f.Flatten(mustDecode(t, doc))
	if err != nil {
		t.Fatalf("flatten %q: %v", doc, err)
	}
	back, err := f.Unflatten(flat)
	if err != nil {
		t.Fatalf("unflatten %q: %v", doc, err)
	}
	out, err := json.Marshal(back)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(out)
}

func TestUnflattenRoundTrip(t *testing.T) {
	f := defaultFlattener(t)

	docs := []string{
		`{"user":{"name":"alice","langs":["go","py"]},"active":true}`,
		`{"a":[1,2]}`,
		`[{"a":1},{"a":2}]`,
		`{"deep":{"er":{"est":[[1],[2,3]]}}}`,
		`{"a":1,"b":"x","c":null}`,
	}
	for _, doc := range docs {
		if got := roundTrip(t, f, doc); got != doc {
			t.Errorf("round trip of %s produced %s", doc, got)
		}
	}
}

func TestUnflattenCustomSeparators(t *testing.T) {
	f, err := New(WithDictSep("/"), WithListSep("#"))
	if err != nil {
		t.Fatalf("new flattener: %v", err)
	}

	doc := `{"a":{"b":["x","y"]},"c":2}`
	if got := roundTrip(t, f, doc); got != doc {
		t.Errorf("round trip of %s produced %s", doc, got)
	}
}

func TestUnflattenPrefixSeparatorTieBreak(t *testing.T) {
	// The list separator is a repetition of the dict separator; the longer
	// match must win when both start at the same index.
	f, err := New(WithDictSep("."), WithListSep(".."))
	if err != nil {
		t.Fatalf("new flattener: %v", err)
	}

	segs := f.splitPath("a..0.b")
	want := []segment{
		{text: "a", viaList: false},
		{text: "0", viaList: true},
		{text: "b", viaList: false},
	}
	if diff := cmp.Diff(want, segs, cmp.AllowUnexported(segment{})); diff != "" {
		t.Errorf("split mismatch (-want +got):\n%s", diff)
	}
}

func TestUnflattenFillsMissingIndices(t *testing.T) {
	f := defaultFlattener(t)

	flat := NewFlatMap()
	flat.Set("a__0", "x")
	flat.Set("a__2", "y")

	back, err := f.Unflatten(flat)
	if err != nil {
		t.Fatalf("unflatten: %v", err)
	}
	out, err := json.Marshal(back)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"a":["x",null,"y"]}`
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Errorf("sparse array mismatch (-want +got):\n%s", diff)
	}
}

func TestUnflattenConflictingPaths(t *testing.T) {
	f := defaultFlattener(t)

	flat := NewFlatMap()
	flat.Set("a", "scalar")
	flat.Set("a.b", "nested")

	if _, err := f.Unflatten(flat); !fault.IsKind(err, fault.KindInvalidFormat) {
		t.Fatalf("got %v, want invalid-format conflict error", err)
	}
}

func TestUnflattenObjectKeyThatLooksNumeric(t *testing.T) {
	f := defaultFlattener(t)

	// "0" reached through the dict separator stays an object key.
	flat := NewFlatMap()
	flat.Set("a.0", "x")

	back, err := f.Unflatten(flat)
	if err != nil {
		t.Fatalf("unflatten: %v", err)
	}
	out, err := json.Marshal(back)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"a":{"0":"x"}}`
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Errorf("numeric-looking key mismatch (-want +got):\n%s", diff)
	}
}

// Package flatten collapses nested JSON documents into single-level mappings
// keyed by synthesized path strings. Two separators keep object-key and
// array-index steps distinguishable, so a field literally named "0" never
// collides with the 0th element of an array.
package flatten

import (
	"strconv"

	"github.com/tidyops/dataforge/pkg/fault"
)

// Default separators used when no options override them.
const (
	DefaultDictSep = "."
	DefaultListSep = "__"
)

// CollisionMode selects what happens when two distinct leaf paths synthesize
// the same flattened key.
type CollisionMode int

const (
	// CollisionLastWins silently keeps the later value, the historical
	// behavior of mapping merges.
	CollisionLastWins CollisionMode = iota
	// CollisionFail aborts the flattening with an error naming the key.
	CollisionFail
)

// Flattener holds the separator configuration for one flattening run. The
// zero value is not usable; construct with New.
type Flattener struct {
	dictSep     string
	listSep     string
	onCollision CollisionMode
}

// Option mutates a Flattener during construction.
type Option func(*Flattener)

// WithDictSep sets the separator used when descending into an object key.
func WithDictSep(sep string) Option {
	return func(f *Flattener) { f.dictSep = sep }
}

// WithListSep sets the separator used when descending into an array index.
func WithListSep(sep string) Option {
	return func(f *Flattener) { f.listSep = sep }
}

// WithCollisionMode selects the key-collision policy.
func WithCollisionMode(mode CollisionMode) Option {
	return func(f *Flattener) { f.onCollision = mode }
}

// New builds a Flattener, validating the configuration eagerly so transform
// calls cannot fail on bad separators later.
func New(opts ...Option) (*Flattener, error) {
	f := &Flattener{
		dictSep: DefaultDictSep,
		listSep: DefaultListSep,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.dictSep == "" {
		return nil, fault.New(fault.KindInvalidArgument, "", "flatten: dict separator must be a non-empty string")
	}
	if f.listSep == "" {
		return nil, fault.New(fault.KindInvalidArgument, "", "flatten: list separator must be a non-empty string")
	}
	switch f.onCollision {
	case CollisionLastWins, CollisionFail:
	default:
		return nil, fault.Newf(fault.KindInvalidArgument, "", "flatten: unknown collision mode %d", f.onCollision)
	}
	return f, nil
}

// DictSep returns the object-key separator.
func (f *Flattener) DictSep() string {
	return f.dictSep
}

// ListSep returns the array-index separator.
func (f *Flattener) ListSep() string {
	return f.listSep
}

// Flatten collapses v into a single-level mapping. A bare scalar at the top
// level has nothing to flatten and yields an empty mapping; empty objects and
// arrays contribute no keys at any depth.
func (f *Flattener) Flatten(v Value) (*FlatMap, error) {
	out := NewFlatMap()
	if v.Kind() == KindScalar {
		return out, nil
	}
	if err := f.flattenInto(v, "", out); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *Flattener) flattenInto(v Value, parentKey string, out *FlatMap) error {
	switch v.Kind() {
	case KindObject:
		for _, m := range v.Members() {
			if err := f.visit(m.Key, f.dictSep, m.Value, parentKey, out); err != nil {
				return err
			}
		}
	case KindArray:
		// Arrays behave like objects keyed by their integer indices.
		for i, e := range v.Elems() {
			if err := f.visit(strconv.Itoa(i), f.listSep, e, parentKey, out); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *Flattener) visit(key, sep string, v Value, parentKey string, out *FlatMap) error {
	curKey := key
	if parentKey != "" {
		curKey = parentKey + sep + key
	}

	if v.Kind() == KindScalar {
		if f.onCollision == CollisionFail && out.Has(curKey) {
			return fault.Newf(fault.KindInvalidFormat, "", "flatten: key %q produced by more than one leaf path", curKey)
		}
		out.Set(curKey, v.Leaf())
		return nil
	}
	return f.flattenInto(v, curKey, out)
}

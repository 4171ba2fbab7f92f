package flatten

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidyops/dataforge/pkg/fault"
)

// ValueKind discriminates the three shapes a JSON value can take.
type ValueKind uint8

const (
	KindScalar ValueKind = iota
	KindObject
	KindArray
)

func (k ValueKind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "scalar"
	}
}

// Value is a JSON document node. Unlike map[string]any it preserves object
// member order, which the flattener needs to produce deterministic output
// that mirrors the source document.
type Value struct {
	kind    ValueKind
	members []Member
	elems   []Value
	leaf    any
}

// Member is a single key/value pair inside an object.
type Member struct {
	Key   string
	Value Value
}

// Object builds an object value from ordered members.
func Object(members ...Member) Value {
	return Value{kind: KindObject, members: members}
}

// Array builds an array value from ordered elements.
func Array(elems ...Value) Value {
	return Value{kind: KindArray, elems: elems}
}

// String builds a string scalar.
func String(s string) Value {
	return Value{leaf: s}
}

// Number builds a numeric scalar. The textual representation is kept so
// numbers survive a decode/encode round trip unchanged.
func Number(n json.Number) Value {
	return Value{leaf: n}
}

// Bool builds a boolean scalar.
func Bool(b bool) Value {
	return Value{leaf: b}
}

// Null builds the JSON null scalar.
func Null() Value {
	return Value{leaf: nil}
}

// Kind reports the shape of the value.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Members returns the ordered object members. Nil unless Kind is KindObject.
func (v Value) Members() []Member {
	return v.members
}

// Elems returns the ordered array elements. Nil unless Kind is KindArray.
func (v Value) Elems() []Value {
	return v.elems
}

// Leaf returns the scalar payload: string, bool, json.Number, or nil.
func (v Value) Leaf() any {
	return v.leaf
}

// Decode reads a single JSON document from r into a Value, preserving object
// member order and numeric text. Trailing non-whitespace content is an error.
func Decode(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Value{}, fault.New(fault.KindInvalidFormat, "", "flatten: unexpected end of JSON input")
		}
		return Value{}, err
	}

	if dec.More() {
		return Value{}, fault.New(fault.KindInvalidFormat, "", "flatten: trailing data after JSON document")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return Value{}, fmt.Errorf("flatten: unexpected delimiter %q", t.String())
	default:
		// string, bool, json.Number, or nil
		return Value{leaf: t}, nil
	}
}

func decodeObject(dec *json.Decoder) (Value, error) {
	var members []Member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("flatten: object key is not a string: %v", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		members = append(members, Member{Key: key, Value: val})
	}
	// consume the closing brace
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Value{kind: KindObject, members: members}, nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	var elems []Value
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, val)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Value{kind: KindArray, elems: elems}, nil
}

// MarshalJSON renders the value compactly, keeping object member order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(m.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		leaf, err := json.Marshal(v.leaf)
		if err != nil {
			return err
		}
		buf.Write(leaf)
	}
	return nil
}

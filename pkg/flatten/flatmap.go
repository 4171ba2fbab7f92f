package flatten

import (
	"bytes"
	"encoding/json"
)

// FlatMap is a single-level mapping from synthesized path strings to scalar
// values. Keys keep their first-insertion order; overwriting an existing key
// replaces the value without moving the key, matching ordinary mapping-merge
// semantics.
type FlatMap struct {
	keys   []string
	values map[string]any
}

// NewFlatMap returns an empty mapping.
func NewFlatMap() *FlatMap {
	return &FlatMap{values: make(map[string]any)}
}

// Set assigns value to key, appending the key on first insertion.
func (m *FlatMap) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Has reports whether key is present.
func (m *FlatMap) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Get returns the value stored under key.
func (m *FlatMap) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order. The slice is shared; callers must
// not mutate it.
func (m *FlatMap) Keys() []string {
	return m.keys
}

// Len returns the number of entries.
func (m *FlatMap) Len() int {
	return len(m.keys)
}

// MarshalJSON renders the mapping as a JSON object in insertion order.
func (m *FlatMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

package flatten

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidyops/dataforge/pkg/fault"
)

// Unflatten reconstructs a nested Value from a flattened mapping produced
// with the same separator configuration. A segment reached through the list
// separator counts as an array index; a container whose children are all
// index segments becomes an array, with missing indices filled with null.
//
// Reconstruction is best effort: flattening is lossy for containers that were
// empty in the source, and a root whose keys all look like integers is read
// back as an array.
func (f *Flattener) Unflatten(m *FlatMap) (Value, error) {
	root := newNode()
	for _, key := range m.Keys() {
		value, _ := m.Get(key)
		if err := root.insert(f.splitPath(key), key, value); err != nil {
			return Value{}, err
		}
	}
	return root.build(true)
}

// segment is one step of a flattened key, tagged with how it was reached.
type segment struct {
	text    string
	viaList bool
}

// splitPath cuts a flattened key back into segments. At each scan position
// the earlier separator occurrence wins; on a tie the longer separator does,
// so configurations where one separator prefixes the other stay unambiguous.
func (f *Flattener) splitPath(key string) []segment {
	var segs []segment
	rest := key
	viaList := false

	for {
		di := strings.Index(rest, f.dictSep)
		li := strings.Index(rest, f.listSep)

		if di < 0 && li < 0 {
			segs = append(segs, segment{text: rest, viaList: viaList})
			return segs
		}

		var idx, width int
		var nextList bool
		switch {
		case li < 0 || (di >= 0 && di < li):
			idx, width, nextList = di, len(f.dictSep), false
		case di < 0 || li < di:
			idx, width, nextList = li, len(f.listSep), true
		default: // same index: prefer the longer separator
			if len(f.listSep) >= len(f.dictSep) {
				idx, width, nextList = li, len(f.listSep), true
			} else {
				idx, width, nextList = di, len(f.dictSep), false
			}
		}

		segs = append(segs, segment{text: rest[:idx], viaList: viaList})
		rest = rest[idx+width:]
		viaList = nextList
	}
}

type node struct {
	order    []string
	children map[string]*node
	viaList  map[string]bool
	isLeaf   bool
	leaf     any
}

func newNode() *node {
	return &node{
		children: make(map[string]*node),
		viaList:  make(map[string]bool),
	}
}

func (n *node) insert(segs []segment, fullKey string, value any) error {
	cur := n
	for i, seg := range segs {
		if cur.isLeaf {
			return fault.Newf(fault.KindInvalidFormat, "",
				"unflatten: key %q descends through a scalar value", fullKey)
		}
		child, ok := cur.children[seg.text]
		if !ok {
			child = newNode()
			cur.children[seg.text] = child
			cur.order = append(cur.order, seg.text)
			cur.viaList[seg.text] = seg.viaList
		}
		if i == len(segs)-1 {
			if len(child.children) > 0 {
				return fault.Newf(fault.KindInvalidFormat, "",
					"unflatten: key %q is both a scalar and a container", fullKey)
			}
			child.isLeaf = true
			child.leaf = value
			return nil
		}
		cur = child
	}
	return nil
}

func (n *node) build(isRoot bool) (Value, error) {
	if n.isLeaf {
		return scalarValue(n.leaf), nil
	}
	if n.asArray(isRoot) {
		return n.buildArray()
	}

	members := make([]Member, 0, len(n.order))
	for _, key := range n.order {
		child, err := n.children[key].build(false)
		if err != nil {
			return Value{}, err
		}
		members = append(members, Member{Key: key, Value: child})
	}
	return Object(members...), nil
}

// asArray reports whether every child segment is a canonical integer index.
// Root children carry no separator evidence, so the integer shape alone
// decides there.
func (n *node) asArray(isRoot bool) bool {
	if len(n.order) == 0 {
		return false
	}
	for _, key := range n.order {
		if !isRoot && !n.viaList[key] {
			return false
		}
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || strconv.Itoa(idx) != key {
			return false
		}
	}
	return true
}

func (n *node) buildArray() (Value, error) {
	maxIdx := -1
	byIndex := make(map[int]*node, len(n.order))
	for _, key := range n.order {
		idx, _ := strconv.Atoi(key)
		byIndex[idx] = n.children[key]
		if idx > maxIdx {
			maxIdx = idx
		}
	}

	elems := make([]Value, 0, maxIdx+1)
	for i := 0; i <= maxIdx; i++ {
		child, ok := byIndex[i]
		if !ok {
			elems = append(elems, Null())
			continue
		}
		v, err := child.build(false)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}
	return Array(elems...), nil
}

func scalarValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case json.Number:
		return Number(t)
	case float64:
		return Number(json.Number(strconv.FormatFloat(t, 'g', -1, 64)))
	case int:
		return Number(json.Number(strconv.Itoa(t)))
	default:
		return String(fmt.Sprint(t))
	}
}

package convert

import (
	"bytes"
	"encoding/json"
)

// Table is the in-memory row-table parsed from a CSV source: a header row and
// the data rows beneath it. Cell values stay strings; the converter performs
// no type coercion.
type Table struct {
	Header []string
	Rows   [][]string
}

// MarshalJSON renders the table as a JSON array of objects with field order
// matching the header. encoding/json maps would sort keys alphabetically,
// which is why the encoding is done by hand here.
func (t Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range t.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, name := range t.Header {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(name)
			if err != nil {
				return nil, err
			}
			var cell string
			if j < len(row) {
				cell = row[j]
			}
			val, err := json.Marshal(cell)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

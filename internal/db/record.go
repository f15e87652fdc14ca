package db

import (
	"bytes"
	"encoding/json"
)

// Record is one row keyed by column name, marshalled in column order.
type Record struct {
	Columns []string
	Values  []Value
}

// Get returns the value for a column and whether it exists.
func (r Record) Get(column string) (Value, bool) {
	for i, c := range r.Columns {
		if c == column && i < len(r.Values) {
			return r.Values[i], true
		}
	}
	return Value{}, false
}

// Map returns the record with plain Go values.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.Columns))
	for i, c := range r.Columns {
		if i < len(r.Values) {
			out[c] = r.Values[i].Interface()
		}
	}
	return out
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var v Value
		if i < len(r.Values) {
			v = r.Values[i]
		}
		val, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

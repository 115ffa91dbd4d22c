// Package jsonformat writes rows as a JSON array of objects, the headers
// are the keys of the objects.
package jsonformat

import (
	"encoding/json"
	"fmt"
	"io"
)

type Formatter struct {
	keys []string
	rows [][]any
	w    io.Writer
}

func New(keys []string, w io.Writer) *Formatter {
	return &Formatter{keys: keys, w: w}
}

// WriteRow buffers a row. The values are assigned to the keys that were
// passed to New, in the same order.
func (f *Formatter) WriteRow(vals ...any) error {
	if len(vals) != len(f.keys) {
		return fmt.Errorf("row has %d values, expecting one per key (%d)", len(vals), len(f.keys))
	}

	f.rows = append(f.rows, vals)

	return nil
}

// Flush writes the buffered rows as indented JSON array and discards them.
func (f *Formatter) Flush() error {
	objs := make([]map[string]any, 0, len(f.rows))
	for _, row := range f.rows {
		obj := make(map[string]any, len(row))
		for i, v := range row {
			obj[f.keys[i]] = v
		}

		objs = append(objs, obj)
	}

	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(objs); err != nil {
		return err
	}

	f.rows = nil

	return nil
}

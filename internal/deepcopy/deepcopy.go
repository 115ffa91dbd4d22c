// Package deepcopy copies values via gob encoding.
package deepcopy

import (
	"bytes"
	"encoding/gob"
)

// Copy deep copies the exported fields of from into to, to must be a
// pointer.
func Copy(from, to any) error {
	var buf bytes.Buffer

	err := gob.NewEncoder(&buf).Encode(from)
	if err != nil {
		return err
	}

	return gob.NewDecoder(&buf).Decode(to)
}

// MustCopy calls Copy and panics on errors.
func MustCopy(from, to any) {
	err := Copy(from, to)
	if err != nil {
		panic(err)
	}
}

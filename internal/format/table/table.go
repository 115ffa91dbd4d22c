// Package table writes rows as columns that are aligned with spaces.
package table

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

const columnPadding = 4

// Formatter buffers rows in a tabwriter, the column widths are determined
// when Flush is called.
type Formatter struct {
	tw *tabwriter.Writer
}

// New returns a Formatter writing to out. If headers is not empty, it is
// written as first row.
func New(headers []string, out io.Writer) *Formatter {
	f := Formatter{
		tw: tabwriter.NewWriter(out, 0, 0, columnPadding, ' ', 0),
	}

	if len(headers) > 0 {
		_, _ = io.WriteString(f.tw, strings.Join(headers, "\t")+"\n")
	}

	return &f
}

// WriteRow writes vals as a row, nil values are written as empty cells.
func (f *Formatter) WriteRow(vals ...any) error {
	cells := make([]string, len(vals))
	for i, v := range vals {
		if v != nil {
			cells[i] = fmt.Sprint(v)
		}
	}

	_, err := io.WriteString(f.tw, strings.Join(cells, "\t")+"\n")
	return err
}

// Flush aligns and writes the buffered rows.
func (f *Formatter) Flush() error {
	return f.tw.Flush()
}

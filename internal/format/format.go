// Package format writes rows of values in the output formats of the ls
// commands.
package format

// Formatter writes rows. Rows can be buffered until Flush is called.
type Formatter interface {
	WriteRow(vals ...any) error
	Flush() error
}

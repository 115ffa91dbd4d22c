// Package validation provides checks for user supplied identifiers.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// coordinateSeparators delimit the parts of Maven coordinates and
// repository paths.
const coordinateSeparators = `:/\`

// Coordinate checks a Maven group ID, artifact ID or version.
// It must not be empty and may only contain printable characters that are
// neither white spaces nor one of ":/\".
func Coordinate(s string) error {
	if s == "" {
		return errors.New("can not be empty")
	}

	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			return errors.New("contains white spaces")
		case !unicode.IsPrint(r):
			return fmt.Errorf("contains non-printable character: %+q", r)
		case strings.ContainsRune(coordinateSeparators, r):
			return fmt.Errorf("contains %q", r)
		}
	}

	return nil
}

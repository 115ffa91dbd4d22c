package cfg

import (
	"errors"
	"fmt"
	"strings"
)

// fieldError is a validation or resolution error of a configuration
// element. The element path is rendered as TOML path, e.g.
// "Publish.Dependencies[1].version".
type fieldError struct {
	path []string
	err  error
}

func newFieldError(msg string, path ...string) *fieldError {
	return &fieldError{
		err:  errors.New(msg),
		path: path,
	}
}

// fieldErrorWrap prepends path to the element path of err if it is a
// fieldError, otherwise it wraps err in a new fieldError.
func fieldErrorWrap(err error, path ...string) error {
	var fErr *fieldError
	if errors.As(err, &fErr) {
		fErr.path = append(append([]string{}, path...), fErr.path...)
		return err
	}

	return &fieldError{
		path: path,
		err:  err,
	}
}

// ElementPath returns the TOML path of the element the error relates to.
func (f *fieldError) ElementPath() string {
	return strings.Join(f.path, ".")
}

func (f *fieldError) Error() string {
	return fmt.Sprintf("%s: %s", f.ElementPath(), f.err)
}

func (f *fieldError) Unwrap() error {
	return f.err
}

package exec

import (
	"fmt"
	"strings"
)

// Result describes a finished command.
type Result struct {
	Command  string
	Dir      string
	ExitCode int
	// Output contains the combined stdout and stderr output.
	Output []byte
}

// StrOutput returns Output as string.
func (r *Result) StrOutput() string {
	return string(r.Output)
}

// ExpectSuccess returns an *ExitCodeError if the command did not exit with
// code 0.
func (r *Result) ExpectSuccess() error {
	if r.ExitCode != 0 {
		return &ExitCodeError{Result: r}
	}

	return nil
}

// ExitCodeError is returned when a command exited with a code != 0 but
// success was expected.
type ExitCodeError struct {
	*Result
}

func (e *ExitCodeError) Error() string {
	msg := fmt.Sprintf("exec: running '%s' in directory '%s' exited with code %d, expected 0",
		e.Command, e.Dir, e.ExitCode)

	if out := strings.TrimSpace(e.StrOutput()); out != "" {
		msg += ", output: '" + out + "'"
	}

	return msg
}

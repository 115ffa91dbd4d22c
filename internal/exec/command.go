// Package exec runs external commands.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	// DefaultLogFn is the default function that is called to log the
	// executed commands and their output.
	DefaultLogFn = func(string, ...any) {}
	// DefaultDebugPrefix is prepended to messages passed to the log
	// function.
	DefaultDebugPrefix = "exec: "
)

// Cmd is a command that can be run.
type Cmd struct {
	name string
	args []string
	dir  string
	env  []string

	logFn         func(format string, v ...any)
	logPrefix     string
	expectSuccess bool
}

// Command returns a Cmd that runs name with args.
// By default the command is run in the current working directory.
func Command(name string, args ...string) *Cmd {
	return &Cmd{
		name:      name,
		args:      args,
		logFn:     DefaultLogFn,
		logPrefix: DefaultDebugPrefix,
	}
}

// Directory sets the directory in which the command is executed.
func (c *Cmd) Directory(dir string) *Cmd {
	c.dir = dir
	return c
}

// Env sets the environment variables of the process, elements have the
// format KEY=VALUE.
func (c *Cmd) Env(env []string) *Cmd {
	c.env = env
	return c
}

// LogFn sets the function that is called to log the command and its output.
func (c *Cmd) LogFn(fn func(format string, v ...any)) *Cmd {
	c.logFn = fn
	return c
}

// ExpectSuccess makes Run return an *ExitCodeError if the command exits
// with a code != 0.
func (c *Cmd) ExpectSuccess() *Cmd {
	c.expectSuccess = true
	return c
}

// String returns the command line of the command.
func (c *Cmd) String() string {
	if len(c.args) == 0 {
		return c.name
	}

	return c.name + " " + strings.Join(c.args, " ")
}

// Run executes the command and returns its result.
// Stdout and stderr of the process are combined in Result.Output.
func (c *Cmd) Run(ctx context.Context) (*Result, error) {
	var out bytes.Buffer

	cmd := exec.CommandContext(ctx, c.name, c.args...)
	cmd.Dir = c.dir
	cmd.Env = c.env
	cmd.Stdout = &out
	cmd.Stderr = &out

	dir := c.dir
	if dir == "" {
		dir = "."
	}

	c.logFn(c.logPrefix+"running '%s' in directory '%s'\n", c, dir)

	err := cmd.Run()
	exitCode, err := exitCodeFromErr(err)
	if err != nil {
		return nil, fmt.Errorf("running '%s' failed: %w", c, err)
	}

	if out.Len() > 0 {
		c.logFn(c.logPrefix+"%s\n", strings.TrimRight(out.String(), "\n"))
	}
	c.logFn(c.logPrefix+"command terminated with exit code: %d\n", exitCode)

	result := Result{
		Command:  c.String(),
		Dir:      dir,
		ExitCode: exitCode,
		Output:   out.Bytes(),
	}

	if c.expectSuccess && exitCode != 0 {
		return nil, &ExitCodeError{Result: &result}
	}

	return &result, nil
}

func exitCodeFromErr(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var ee *exec.ExitError
	if errors.As(err, &ee) && ee.ExitCode() >= 0 {
		return ee.ExitCode(), nil
	}

	return 0, err
}

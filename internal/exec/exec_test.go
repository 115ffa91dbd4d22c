package exec

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test requires unix commands")
	}
}

func TestEchoStdout(t *testing.T) {
	skipOnWindows(t)
	const echoStr = "hello world!"

	res, err := Command("echo", "-n", echoStr).LogFn(t.Logf).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, echoStr, res.StrOutput())
	assert.NoError(t, res.ExpectSuccess())
}

func TestStderrIsCaptured(t *testing.T) {
	skipOnWindows(t)

	res, err := Command("sh", "-c", "echo out; echo err >&2").Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, res.StrOutput(), "out")
	assert.Contains(t, res.StrOutput(), "err")
}

func TestCommandFails(t *testing.T) {
	skipOnWindows(t)

	res, err := Command("false").Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.ExitCode)
	assert.Empty(t, res.Output)
	assert.Error(t, res.ExpectSuccess())
}

func TestExpectSuccess(t *testing.T) {
	skipOnWindows(t)

	res, err := Command("false").ExpectSuccess().Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, res)

	var ee *ExitCodeError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 1, ee.ExitCode)
}

func TestDirectory(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()

	res, err := Command("pwd", "-P").Directory(dir).ExpectSuccess().Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, res.StrOutput())
	assert.Equal(t, dir, res.Dir)
}

func TestCommandNotFound(t *testing.T) {
	_, err := Command("vrbuild-command-that-does-not-exist").Run(context.Background())
	require.Error(t, err)
}

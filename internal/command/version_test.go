package command

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vrsoftware/vrbuild/internal/testutils/fstest"
	"github.com/vrsoftware/vrbuild/internal/testutils/projecttest"
)

func TestVersion(t *testing.T) {
	initTest(t)
	initProject(t)
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, newVersionCmd(), exitCodeSuccess)

	assert.Equal(t, "VRLog v4.1.2-7\n", stdoutBuf.String())
}

func TestVersionShort(t *testing.T) {
	initTest(t)
	initProject(t)
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, newVersionCmd(), exitCodeSuccess, "--short")

	assert.Equal(t, projecttest.Version+"\n", stdoutBuf.String())
}

func TestVersionSatisfies(t *testing.T) {
	testcases := []struct {
		constraint       string
		expectedExitCode int
	}{
		{constraint: "^4.1", expectedExitCode: exitCodeSuccess},
		{constraint: ">= 4.1.2, < 5", expectedExitCode: exitCodeSuccess},
		{constraint: "4.1.2", expectedExitCode: exitCodeSuccess},
		{constraint: ">= 4.2", expectedExitCode: exitCodeVersionNotSatisfying},
		{constraint: "~3", expectedExitCode: exitCodeVersionNotSatisfying},
		{constraint: "invalid constraint", expectedExitCode: exitCodeError},
	}

	for _, tc := range testcases {
		t.Run(tc.constraint, func(t *testing.T) {
			initTest(t)
			initProject(t)

			execCheck(t, newVersionCmd(), tc.expectedExitCode, "--short", "--satisfies", tc.constraint)
		})
	}
}

func TestVersionFileNotFound(t *testing.T) {
	initTest(t)
	p := initProject(t)
	_, stderrBuf := interceptCmdOutput(t)

	assert.NoError(t, os.Remove(p.Path("src/main/resources/vrlog.properties")))

	execCheck(t, newVersionCmd(), exitCodeError)

	assert.Contains(t, stderrBuf.String(), "version file not found")
}

func TestVersionWithoutProjectConfig(t *testing.T) {
	initTest(t)
	fstest.Chdir(t, t.TempDir())
	_, stderrBuf := interceptCmdOutput(t)

	execCheck(t, newVersionCmd(), exitCodeError)

	assert.Contains(t, stderrBuf.String(), "could not find a '.vrbuild.toml' project config file")
}

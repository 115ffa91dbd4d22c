// Package gittest provides helpers to create git repositories in tests.
package gittest

import (
	"context"
	osexec "os/exec"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vrsoftware/vrbuild/internal/exec"
)

// SkipIfGitMissing skips the testcase if the git command is not installed.
func SkipIfGitMissing(t *testing.T) {
	t.Helper()

	if _, err := osexec.LookPath("git"); err != nil {
		t.Skip("git command not found in $PATH")
	}
}

func run(t *testing.T, dir string, args ...string) {
	t.Helper()

	_, err := exec.Command("git", args...).
		Directory(dir).
		LogFn(t.Logf).
		ExpectSuccess().
		Run(context.Background())
	require.NoError(t, err)
}

// CreateRepository initializes a git repository in directory and configures
// a committer identity for it.
func CreateRepository(t *testing.T, directory string) {
	t.Helper()

	run(t, directory, "init", ".")
	run(t, directory, "config", "user.email", "vrbuild@example.com")
	run(t, directory, "config", "user.name", "vrbuild")
	run(t, directory, "config", "commit.gpgsign", "false")
}

// CommitFilesToGit adds all files in directory to the index and commits
// them.
func CommitFilesToGit(t *testing.T, directory string) {
	t.Helper()

	run(t, directory, "add", "-A")
	run(t, directory, "commit", "-m", "vrbuild commit")
}

// Package git reads information from Git repositories by running the git
// command.
package git

import (
	"context"
	"errors"
	"os"
	stdexec "os/exec"
	"strings"

	"github.com/vrsoftware/vrbuild/internal/exec"
	"github.com/vrsoftware/vrbuild/internal/fs"
)

// CommandIsInstalled returns true if an executable called "git" is found in
// the directories of the PATH environment variable.
func CommandIsInstalled() bool {
	_, err := stdexec.LookPath("git")

	return err == nil
}

// IsGitDir returns true if dir or one of its parent directories contains a
// ".git" directory.
func IsGitDir(dir string) (bool, error) {
	_, err := fs.FindDirInParentDirs(dir, ".git")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// CommitID returns the commit ID of HEAD of the repository containing dir.
func CommitID(ctx context.Context, dir string) (string, error) {
	res, err := exec.Command("git", "rev-parse", "HEAD").Directory(dir).ExpectSuccess().Run(ctx)
	if err != nil {
		return "", err
	}

	commitID := strings.TrimSpace(res.StrOutput())
	if commitID == "" {
		return "", errors.New("git rev-parse HEAD returned no commit ID")
	}

	return commitID, nil
}

// WorktreeIsDirty returns true if the repository contains modified or
// untracked files. Files matching .gitignore entries are not considered.
func WorktreeIsDirty(ctx context.Context, dir string) (bool, error) {
	res, err := exec.Command("git", "status", "-s").Directory(dir).ExpectSuccess().Run(ctx)
	if err != nil {
		return false, err
	}

	return len(res.Output) != 0, nil
}

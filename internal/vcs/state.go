// Package vcs provides information about the version control repository a
// project is stored in.
package vcs

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/vrsoftware/vrbuild/internal/vcs/git"
)

// StateFetcher retrieves information about a VCS repository.
type StateFetcher interface {
	CommitID(context.Context) (string, error)
	WorktreeIsDirty(context.Context) (bool, error)
}

// Logfn is a printf style log function.
type Logfn func(format string, v ...any)

// GetState returns a *git.Repository if dir is part of a git repository and
// the git command is in $PATH, otherwise *NoVCSState.
// logfunc can be nil.
func GetState(dir string, logfunc Logfn) (StateFetcher, error) {
	if logfunc == nil {
		logfunc = func(string, ...any) {}
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	if !git.CommandIsInstalled() {
		logfunc("vcs: git support disabled, git command is not installed or not in $PATH\n")
		return &NoVCSState{}, nil
	}

	isGitDir, err := git.IsGitDir(dir)
	if err != nil {
		return nil, err
	}

	if !isGitDir {
		logfunc("vcs: git support disabled, %s is not part of a git repository\n", dir)
		return &NoVCSState{}, nil
	}

	logfunc("vcs: %s is part of a git repository\n", dir)

	return git.NewRepository(dir), nil
}

// State is a snapshot of the VCS information stored with a build.
type State struct {
	CommitID string
	IsDirty  bool
}

// Snapshot fetches the commit ID and dirty state.
// If no repository exists, an empty State and a nil error are returned.
func Snapshot(ctx context.Context, fetcher StateFetcher) (*State, error) {
	commitID, err := fetcher.CommitID(ctx)
	if err != nil {
		if errors.Is(err, ErrVCSRepositoryNotExist) {
			return &State{}, nil
		}

		return nil, err
	}

	isDirty, err := fetcher.WorktreeIsDirty(ctx)
	if err != nil {
		return nil, err
	}

	return &State{CommitID: commitID, IsDirty: isDirty}, nil
}

// String returns the commit ID, suffixed with "-dirty" if the worktree has
// changes.
func (s *State) String() string {
	if s.CommitID == "" {
		return ""
	}

	if s.IsDirty {
		return s.CommitID + "-dirty"
	}

	return s.CommitID
}

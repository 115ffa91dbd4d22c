package vcs

import (
	"context"
	"errors"
)

// ErrVCSRepositoryNotExist is returned by NoVCSState.
var ErrVCSRepositoryNotExist = errors.New("vcs repository not found")

// NoVCSState is the StateFetcher for directories that are not part of a
// supported repository. All its methods return ErrVCSRepositoryNotExist.
type NoVCSState struct{}

// CommitID returns ErrVCSRepositoryNotExist.
func (*NoVCSState) CommitID(context.Context) (string, error) {
	return "", ErrVCSRepositoryNotExist
}

// WorktreeIsDirty returns ErrVCSRepositoryNotExist.
func (*NoVCSState) WorktreeIsDirty(context.Context) (bool, error) {
	return false, ErrVCSRepositoryNotExist
}

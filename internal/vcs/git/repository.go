package git

import (
	"context"
	"sync"
)

// Repository reads information from a Git repository and caches the
// results.
type Repository struct {
	path string

	lock            sync.Mutex
	commitID        string
	worktreeIsDirty *bool
}

// NewRepository returns a Repository for the worktree containing dir.
func NewRepository(dir string) *Repository {
	return &Repository{path: dir}
}

// CommitID returns the commit ID of HEAD.
// The result of the first successful call is cached.
func (g *Repository) CommitID(ctx context.Context) (string, error) {
	g.lock.Lock()
	defer g.lock.Unlock()

	if g.commitID == "" {
		commitID, err := CommitID(ctx, g.path)
		if err != nil {
			return "", err
		}

		g.commitID = commitID
	}

	return g.commitID, nil
}

// WorktreeIsDirty returns true if the worktree contains changes.
// The result of the first successful call is cached.
func (g *Repository) WorktreeIsDirty(ctx context.Context) (bool, error) {
	g.lock.Lock()
	defer g.lock.Unlock()

	if g.worktreeIsDirty == nil {
		isDirty, err := WorktreeIsDirty(ctx, g.path)
		if err != nil {
			return false, err
		}

		g.worktreeIsDirty = &isDirty
	}

	return *g.worktreeIsDirty, nil
}

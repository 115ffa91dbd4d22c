// Package vrbuild resolves, packages and publishes versions of a Java
// project that is described by a .vrbuild.toml file.
package vrbuild

import (
	"context"
	"time"

	"github.com/vrsoftware/vrbuild/internal/vcs"
	"github.com/vrsoftware/vrbuild/pkg/cfg"
	"github.com/vrsoftware/vrbuild/pkg/manifest"
	"github.com/vrsoftware/vrbuild/pkg/storage"
)

// ProjectCfgFile is the name of the project configuration file.
const ProjectCfgFile = cfg.ProjectFile

// Logger is the logger used by the Packager and Publisher.
type Logger interface {
	Debugf(format string, v ...any)
	Warnf(format string, v ...any)
}

type options struct {
	storer   storage.Storer
	vcsState vcs.StateFetcher
	now      func() time.Time
}

// Option configures a Packager or Publisher.
type Option func(*options)

// WithStorage records builds and uploads in storer.
func WithStorage(storer storage.Storer) Option {
	return func(o *options) {
		o.storer = storer
	}
}

// WithVCSState sets the source of the revision that is stamped into the
// manifest and recorded with builds.
func WithVCSState(fetcher vcs.StateFetcher) Option {
	return func(o *options) {
		o.vcsState = fetcher
	}
}

func newOptions(opts []Option) options {
	o := options{
		vcsState: &vcs.NoVCSState{},
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// snapshot returns the VCS state. Errors, e.g. from a git repository
// without commits, are logged and result in an empty State.
func snapshot(ctx context.Context, fetcher vcs.StateFetcher, logger Logger) (*vcs.State, error) {
	state, err := vcs.Snapshot(ctx, fetcher)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		logger.Warnf("evaluating vcs state failed, %s attribute is not written: %s", manifest.AttrBuildRevision, err)

		return &vcs.State{}, nil
	}

	return state, nil
}

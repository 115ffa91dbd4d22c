package vrbuild

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/vrsoftware/vrbuild/internal/fs"
	"github.com/vrsoftware/vrbuild/internal/vcs"
	"github.com/vrsoftware/vrbuild/pkg/cfg"
	"github.com/vrsoftware/vrbuild/pkg/cfg/resolver"
	"github.com/vrsoftware/vrbuild/pkg/versionfile"
)

// Project represents a project with a vrbuild configuration.
type Project struct {
	Path    string
	CfgPath string
	Cfg     *cfg.Project
}

// FindProjectCfg searches for a project config file. The search starts
// in dir and traverses the parent directory down to the root.
// It returns the path to the first found project configuration file.
func FindProjectCfg(dir string) (string, error) {
	return fs.FindFileInParentDirs(dir, ProjectCfgFile)
}

// FindProject searches for the project configuration in dir and its parent
// directories and loads it.
func FindProject(dir string) (*Project, error) {
	cfgPath, err := FindProjectCfg(dir)
	if err != nil {
		return nil, err
	}

	return NewProject(cfgPath)
}

// NewProject parses the project configuration file cfgPath and returns a
// Project.
func NewProject(cfgPath string) (*Project, error) {
	absCfgPath, err := filepath.Abs(cfgPath)
	if err != nil {
		return nil, err
	}

	projectCfg, err := cfg.ProjectFromFile(absCfgPath)
	if err != nil {
		return nil, fmt.Errorf("reading project config %q failed: %w", absCfgPath, err)
	}

	err = projectCfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating project config %q failed: %w", absCfgPath, err)
	}

	return &Project{
		Path:    filepath.Dir(absCfgPath),
		CfgPath: absCfgPath,
		Cfg:     projectCfg,
	}, nil
}

// Name returns the project name.
func (p *Project) Name() string {
	return p.Cfg.Name
}

// VersionFilePath returns the absolute path of the version properties file.
func (p *Project) VersionFilePath() string {
	return p.Cfg.VersionFilePath()
}

// Fields reads the version fields from the version file.
func (p *Project) Fields() (*versionfile.Fields, error) {
	return versionfile.Load(p.VersionFilePath())
}

// Version returns the current version string of the project.
func (p *Project) Version() (string, error) {
	fields, err := p.Fields()
	if err != nil {
		return "", err
	}

	return fields.Version(), nil
}

// Release increments the build number in the version file and sets its
// date to now. It returns the updated fields.
func (p *Project) Release(now time.Time) (*versionfile.Fields, error) {
	return versionfile.BumpAndStamp(p.VersionFilePath(), now)
}

// ResolvedCfg returns a copy of the project configuration with all
// template expressions evaluated for the version described by fields.
// {{ gitcommit }} evaluates to the commit of state, it fails if state has
// no commit.
func (p *Project) ResolvedCfg(fields *versionfile.Fields, state *vcs.State) (*cfg.Project, error) {
	result := p.Cfg.Clone()

	gitCommitFn := func() (string, error) {
		if state == nil || state.CommitID == "" {
			return "", vcs.ErrVCSRepositoryNotExist
		}

		return state.CommitID, nil
	}

	tmpl := resolver.NewGoTemplate(
		&resolver.Vars{
			Root:       p.Path,
			Project:    p.Cfg.Name,
			Group:      p.Cfg.Group,
			ArtifactID: p.Cfg.Publish.ArtifactID,
			Version:    fields.Version(),
		},
		gitCommitFn,
	)

	if err := result.Resolve(tmpl); err != nil {
		return nil, fmt.Errorf("resolving project config %q failed: %w", p.CfgPath, err)
	}

	return result, nil
}

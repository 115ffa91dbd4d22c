package vrbuild

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/vrsoftware/vrbuild/internal/fs"
	"github.com/vrsoftware/vrbuild/internal/set"
	"github.com/vrsoftware/vrbuild/internal/vcs"
	"github.com/vrsoftware/vrbuild/pkg/archive"
	"github.com/vrsoftware/vrbuild/pkg/cfg"
	"github.com/vrsoftware/vrbuild/pkg/manifest"
	"github.com/vrsoftware/vrbuild/pkg/storage"
	"github.com/vrsoftware/vrbuild/pkg/versionfile"
)

// Packager builds the archives of a project version and copies the main
// archive to the distribution directory.
type Packager struct {
	options
	project *Project
	logger  Logger
	builder *archive.Builder
	copier  FileCopyUploader
}

// NewPackager returns a Packager. Without WithVCSState no Build-Revision
// attribute is written.
func NewPackager(project *Project, logger Logger, copier FileCopyUploader, opts ...Option) *Packager {
	return &Packager{
		options: newOptions(opts),
		project: project,
		logger:  logger,
		builder: archive.NewBuilder(logger),
		copier:  copier,
	}
}

// Artifact is a file that was created by the Packager.
type Artifact struct {
	Type   storage.ArtifactType
	Path   string
	Result *archive.Result
}

// PackageResult describes the outcome of Packager.Package.
type PackageResult struct {
	// BuildID is the ID of the stored build record, it is empty when no
	// storage is configured.
	BuildID   string
	Version   string
	Jar       *Artifact
	Sources   *Artifact
	DistPath  string
	Manifest  *manifest.Manifest
	VCSState  *vcs.State
	StartTime time.Time
	StopTime  time.Time
}

// Package builds the main archive and, if source directories are
// configured, the sources archive of the current version and copies the
// main archive to the distribution directory.
func (p *Packager) Package(ctx context.Context) (*PackageResult, error) {
	result := PackageResult{StartTime: p.now()}

	fields, err := p.project.Fields()
	if err != nil {
		return nil, err
	}
	result.Version = fields.Version()

	result.VCSState, err = p.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	projectCfg, err := p.project.ResolvedCfg(fields, result.VCSState)
	if err != nil {
		return nil, err
	}

	result.Manifest, err = newManifest(projectCfg, fields, result.VCSState)
	if err != nil {
		return nil, err
	}

	libs, err := expandGlobs(projectCfg.AbsPaths(projectCfg.Jar.Libs))
	if err != nil {
		return nil, err
	}

	buildDir := projectCfg.AbsPath(projectCfg.Jar.BuildDir)

	result.Jar, err = p.build(ctx, storage.ArtifactTypeJar, filepath.Join(buildDir, projectCfg.Jar.ArchiveName), &archive.Spec{
		Manifest:     result.Manifest,
		Dirs:         projectCfg.AbsPaths(projectCfg.Jar.ClassDirs),
		Jars:         libs,
		Exclude:      projectCfg.Jar.Exclude,
		Duplicates:   archive.DuplicatesStrategy(projectCfg.Jar.Duplicates),
		Reproducible: projectCfg.Jar.Reproducible,
	})
	if err != nil {
		return nil, err
	}

	if len(projectCfg.Jar.SourcesDirs) > 0 {
		result.Sources, err = p.build(ctx, storage.ArtifactTypeSourcesJar, filepath.Join(buildDir, projectCfg.Jar.SourcesArchiveName()), &archive.Spec{
			Manifest:     result.Manifest,
			Dirs:         projectCfg.AbsPaths(projectCfg.Jar.SourcesDirs),
			Exclude:      projectCfg.Jar.Exclude,
			Duplicates:   archive.DuplicatesStrategy(projectCfg.Jar.Duplicates),
			Reproducible: projectCfg.Jar.Reproducible,
		})
		if err != nil {
			return nil, err
		}
	}

	distPath := filepath.Join(projectCfg.AbsPath(projectCfg.Dist.Dir), projectCfg.Dist.Name)
	result.DistPath, err = p.copier.Upload(ctx, result.Jar.Path, distPath)
	if err != nil {
		return nil, fmt.Errorf("copying %s to distribution directory failed: %w", result.Jar.Path, err)
	}
	p.logger.Debugf("packager: copied %s to %s", result.Jar.Path, result.DistPath)

	result.StopTime = p.now()

	if p.storer != nil {
		result.BuildID, err = p.record(ctx, &result)
		if err != nil {
			return nil, err
		}
	}

	return &result, nil
}

// Manifest returns the manifest that Package stamps into the archives of
// the current version.
func (p *Packager) Manifest(ctx context.Context) (*manifest.Manifest, error) {
	fields, err := p.project.Fields()
	if err != nil {
		return nil, err
	}

	state, err := p.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	projectCfg, err := p.project.ResolvedCfg(fields, state)
	if err != nil {
		return nil, err
	}

	return newManifest(projectCfg, fields, state)
}

func (p *Packager) snapshot(ctx context.Context) (*vcs.State, error) {
	return snapshot(ctx, p.vcsState, p.logger)
}

func (p *Packager) build(ctx context.Context, t storage.ArtifactType, dest string, spec *archive.Spec) (*Artifact, error) {
	res, err := p.builder.Build(ctx, dest, spec)
	if err != nil {
		return nil, fmt.Errorf("creating %s archive failed: %w", t, err)
	}

	p.logger.Debugf("packager: created %s (%d entries, %d bytes, %s)", res.Path, res.Entries, res.SizeBytes, res.Digest)

	return &Artifact{Type: t, Path: res.Path, Result: res}, nil
}

func (p *Packager) record(ctx context.Context, result *PackageResult) (string, error) {
	build := storage.BuildFull{
		Build: storage.Build{
			ID:             uuid.NewString(),
			Project:        p.project.Name(),
			Version:        result.Version,
			VCSRevision:    result.VCSState.CommitID,
			VCSIsDirty:     result.VCSState.IsDirty,
			StartTimestamp: result.StartTime,
			StopTimestamp:  result.StopTime,
		},
	}

	for _, a := range []*Artifact{result.Jar, result.Sources} {
		if a == nil {
			continue
		}

		build.Artifacts = append(build.Artifacts, &storage.Artifact{
			Name:      filepath.Base(a.Path),
			Type:      a.Type,
			Digest:    a.Result.Digest.String(),
			SizeBytes: a.Result.SizeBytes,
		})
	}

	distName := filepath.Base(result.DistPath)
	for _, a := range build.Artifacts {
		if a.Name == distName {
			p.logger.Debugf("packager: dist file has the same name as artifact %s, not recording it separately", distName)
			return p.save(ctx, &build)
		}
	}

	build.Artifacts = append(build.Artifacts, &storage.Artifact{
		Name:      distName,
		Type:      storage.ArtifactTypeDist,
		Digest:    result.Jar.Result.Digest.String(),
		SizeBytes: result.Jar.Result.SizeBytes,
		Uploads: []*storage.Upload{{
			URI:                  "file://" + result.DistPath,
			Method:               storage.UploadMethodFileCopy,
			UploadStartTimestamp: result.StopTime,
			UploadStopTimestamp:  result.StopTime,
		}},
	})

	return p.save(ctx, &build)
}

func (p *Packager) save(ctx context.Context, build *storage.BuildFull) (string, error) {
	err := p.storer.SaveBuild(ctx, build)
	if err != nil {
		if errors.Is(err, storage.ErrExists) {
			return "", fmt.Errorf("build %s was already recorded: %w", build.ID, err)
		}

		return "", fmt.Errorf("recording build failed: %w", err)
	}

	p.logger.Debugf("packager: recorded build %s", build.ID)

	return build.ID, nil
}

func newManifest(projectCfg *cfg.Project, fields *versionfile.Fields, state *vcs.State) (*manifest.Manifest, error) {
	m := manifest.New(projectCfg.Name, fields)

	if err := m.SetAll(projectCfg.Jar.Manifest.Attributes); err != nil {
		return nil, fmt.Errorf("Jar.Manifest.attributes: %w", err)
	}

	if rev := state.String(); rev != "" {
		if err := m.Set(manifest.AttrBuildRevision, rev); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// expandGlobs returns the sorted, deduplicated paths of the files that
// match the glob patterns. Patterns with non-existing directories match
// nothing.
func expandGlobs(patterns []string) ([]string, error) {
	paths := set.Set[string]{}

	for _, pattern := range patterns {
		matches, err := fs.FileGlob(pattern)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}

			return nil, fmt.Errorf("resolving glob %q failed: %w", pattern, err)
		}

		paths.Add(matches...)
	}

	return paths.Sorted(), nil
}

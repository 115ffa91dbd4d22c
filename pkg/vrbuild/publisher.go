package vrbuild

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vrsoftware/vrbuild/internal/digest/sha384"
	"github.com/vrsoftware/vrbuild/internal/fs"
	"github.com/vrsoftware/vrbuild/pkg/cfg"
	"github.com/vrsoftware/vrbuild/pkg/storage"
)

// ErrNoDestinations is returned by Publisher.Publish when the project has
// no publish destinations configured.
var ErrNoDestinations = errors.New("no publish destinations are configured")

// maxParallelUploads is the maximum number of files that are uploaded
// concurrently.
const maxParallelUploads = 8

// Publisher uploads the archives and the POM of the current version to the
// configured Maven repositories.
type Publisher struct {
	options
	project  *Project
	logger   Logger
	uploader *Uploader
}

// NewPublisher returns a Publisher.
func NewPublisher(project *Project, logger Logger, uploader *Uploader, opts ...Option) *Publisher {
	return &Publisher{
		options:  newOptions(opts),
		project:  project,
		logger:   logger,
		uploader: uploader,
	}
}

// PublishFile is a file that is published.
type PublishFile struct {
	Type storage.ArtifactType
	Path string
	// Suffix is appended to <artifactId>-<version> to form the file name
	// in the repository.
	Suffix string
}

// PublishResult describes the outcome of Publisher.Publish.
type PublishResult struct {
	Version string
	// BuildID is the ID of the build record the uploads were attached to,
	// it is empty if none was found or no storage is configured.
	BuildID string
	Files   []*PublishFile
	Uploads []*UploadResult
}

// Publish uploads the main archive, the sources archive if it exists and a
// generated POM to all destinations. The archives must have been created
// by Packager.Package before.
func (p *Publisher) Publish(ctx context.Context) (*PublishResult, error) {
	fields, err := p.project.Fields()
	if err != nil {
		return nil, err
	}

	state, err := snapshot(ctx, p.vcsState, p.logger)
	if err != nil {
		return nil, err
	}

	projectCfg, err := p.project.ResolvedCfg(fields, state)
	if err != nil {
		return nil, err
	}

	if len(projectCfg.Publish.Destinations) == 0 {
		return nil, ErrNoDestinations
	}

	destinations := make([]*Destination, 0, len(projectCfg.Publish.Destinations))
	for _, d := range projectCfg.Publish.Destinations {
		dest, err := ParseDestination(d)
		if err != nil {
			return nil, fmt.Errorf("Publish.destinations: %w", err)
		}

		destinations = append(destinations, dest)
	}

	result := PublishResult{Version: fields.Version()}

	result.Files, err = p.files(projectCfg, result.Version)
	if err != nil {
		return nil, err
	}

	result.Uploads, err = p.uploadAll(ctx, projectCfg, result.Version, destinations, result.Files)
	if err != nil {
		return nil, err
	}

	if p.storer != nil {
		result.BuildID, err = p.record(ctx, result.Version, result.Files, result.Uploads)
		if err != nil {
			return nil, err
		}
	}

	return &result, nil
}

// files returns the archives that exist for the version and writes the POM
// next to them.
func (p *Publisher) files(projectCfg *cfg.Project, version string) ([]*PublishFile, error) {
	buildDir := projectCfg.AbsPath(projectCfg.Jar.BuildDir)

	jarPath := filepath.Join(buildDir, projectCfg.Jar.ArchiveName)
	if !fs.FileExists(jarPath) {
		return nil, fmt.Errorf("archive %s does not exist, create it first by running 'vrbuild jar'", jarPath)
	}

	files := []*PublishFile{{Type: storage.ArtifactTypeJar, Path: jarPath, Suffix: ".jar"}}

	if len(projectCfg.Jar.SourcesDirs) > 0 {
		sourcesPath := filepath.Join(buildDir, projectCfg.Jar.SourcesArchiveName())
		if fs.FileExists(sourcesPath) {
			files = append(files, &PublishFile{Type: storage.ArtifactTypeSourcesJar, Path: sourcesPath, Suffix: "-sources.jar"})
		} else {
			p.logger.Warnf("sources archive %s does not exist, it is not published", sourcesPath)
		}
	}

	pom, err := POM(projectCfg, version)
	if err != nil {
		return nil, fmt.Errorf("generating POM failed: %w", err)
	}

	pomPath := filepath.Join(buildDir, projectCfg.Publish.ArtifactID+"-"+version+".pom")
	if err := os.WriteFile(pomPath, pom, 0o644); err != nil {
		return nil, fmt.Errorf("writing POM failed: %w", err)
	}
	p.logger.Debugf("publisher: wrote %s", pomPath)

	files = append(files, &PublishFile{Path: pomPath, Suffix: ".pom"})

	return files, nil
}

func (p *Publisher) uploadAll(
	ctx context.Context,
	projectCfg *cfg.Project,
	version string,
	destinations []*Destination,
	files []*PublishFile,
) ([]*UploadResult, error) {
	var mu sync.Mutex
	var results []*UploadResult

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxParallelUploads)

	for _, dest := range destinations {
		for _, f := range files {
			relPath := MavenPath(projectCfg, version, f.Suffix)

			eg.Go(func() error {
				res, err := p.uploader.Upload(ctx, f.Path, dest, relPath)
				if err != nil {
					return fmt.Errorf("uploading %s to %s failed: %w", f.Path, dest, err)
				}

				p.logger.Debugf("publisher: uploaded %s to %s", f.Path, res.URL)

				mu.Lock()
				results = append(results, res)
				mu.Unlock()

				return nil
			})
		}
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// record attaches the uploads of the archives to the latest build of the
// version.
func (p *Publisher) record(ctx context.Context, version string, files []*PublishFile, uploads []*UploadResult) (string, error) {
	build, err := p.storer.LatestBuild(ctx, p.project.Name(), version)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			p.logger.Warnf("no build of %s v%s is recorded, uploads are not recorded", p.project.Name(), version)
			return "", nil
		}

		return "", fmt.Errorf("querying latest build failed: %w", err)
	}

	recorded, err := p.recordedDigests(ctx, build.ID)
	if err != nil {
		return "", err
	}

	for _, f := range files {
		if f.Type == "" {
			continue
		}

		name := filepath.Base(f.Path)

		recordedDigest, exist := recorded[name]
		if !exist {
			p.logger.Warnf("%s is not an artifact of build %s, its uploads are not recorded", name, build.ID)
			continue
		}

		d, err := sha384.File(f.Path)
		if err != nil {
			return "", fmt.Errorf("calculating digest of %s failed: %w", f.Path, err)
		}

		if d.String() != recordedDigest {
			p.logger.Warnf("%s changed since build %s was recorded, digest is %s, recorded digest is %s", f.Path, build.ID, d, recordedDigest)
		}

		err = p.storer.SaveUploads(ctx, build.ID, name, toStorageUploads(uploadsOf(f.Path, uploads)))
		if err != nil {
			return "", fmt.Errorf("recording uploads of %s failed: %w", name, err)
		}
	}

	return build.ID, nil
}

func (p *Publisher) recordedDigests(ctx context.Context, buildID string) (map[string]string, error) {
	artifacts, err := p.storer.Artifacts(ctx, buildID)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return map[string]string{}, nil
		}

		return nil, fmt.Errorf("querying artifacts of build %s failed: %w", buildID, err)
	}

	result := make(map[string]string, len(artifacts))
	for _, a := range artifacts {
		result[a.Name] = a.Digest
	}

	return result, nil
}

func uploadsOf(path string, uploads []*UploadResult) []*UploadResult {
	var result []*UploadResult

	for _, u := range uploads {
		if u.Src == path {
			result = append(result, u)
		}
	}

	return result
}

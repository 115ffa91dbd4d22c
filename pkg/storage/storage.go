// Package storage provides an interface for vrbuild build history storage
// implementations.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotExist indicates that a record does not exist
var ErrNotExist = errors.New("does not exist")

// ErrExists indicates that the database or a record already exist.
var ErrExists = errors.New("already exists")

// UploadMethod is the method that was used to upload the object
type UploadMethod string

const (
	UploadMethodS3       UploadMethod = "s3"
	UploadMethodFileCopy UploadMethod = "filecopy"
)

type Upload struct {
	URI                  string
	Method               UploadMethod
	UploadStartTimestamp time.Time
	UploadStopTimestamp  time.Time
}

// ArtifactType describes the kind of file an artifact is.
type ArtifactType string

const (
	ArtifactTypeJar        ArtifactType = "jar"
	ArtifactTypeSourcesJar ArtifactType = "sources"
	ArtifactTypeDist       ArtifactType = "dist"
)

type Artifact struct {
	Name      string
	Type      ArtifactType
	Digest    string
	SizeBytes uint64
	Uploads   []*Upload
}

// Build is a packaging run of a project version.
type Build struct {
	ID             string
	Project        string
	Version        string
	VCSRevision    string
	VCSIsDirty     bool
	StartTimestamp time.Time
	StopTimestamp  time.Time
}

type BuildFull struct {
	Build
	Artifacts []*Artifact
}

// Filter restricts the builds returned by Storer.Builds. Empty fields
// match every value.
type Filter struct {
	Project string
	Version string
}

const (
	NoLimit uint = 0
)

// Storer is an interface for storing and retrieving vrbuild builds.
type Storer interface {
	Close() error

	// IsCompatible verifies that the storage exists and its schema is
	// compatible with the vrbuild version.
	IsCompatible(context.Context) error
	// Init initializes a storage, e.g. creating the database scheme.
	// If it already exist, ErrExists is returned.
	Init(context.Context) error

	// SaveBuild stores a build and its artifacts. If a build with the
	// same ID exists, ErrExists is returned.
	SaveBuild(context.Context, *BuildFull) error
	// SaveUploads records uploads of an artifact of a build. If the build
	// or the artifact does not exist, ErrNotExist is returned.
	SaveUploads(ctx context.Context, buildID, artifactName string, uploads []*Upload) error

	// LatestBuild returns the most recently started build of a project
	// version. If none exists, ErrNotExist is returned.
	LatestBuild(ctx context.Context, project, version string) (*Build, error)
	// Builds queries the storage for builds matching filter, the newest
	// build first.
	// A limit value of 0 will return all results.
	// The found results are passed in iterative manner to the callback
	// function. When the callback function returns an error, the iteration
	// stops.
	// When no matching records exist, the method returns ErrNotExist.
	Builds(ctx context.Context, filter *Filter, limit uint, callback func(*Build) error) error
	// Artifacts returns the artifacts of a build including their uploads.
	// If the build has no artifacts, ErrNotExist is returned.
	Artifacts(ctx context.Context, buildID string) ([]*Artifact, error)
}

// Package storagetest contains tests that every storage.Storer
// implementation must pass.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrsoftware/vrbuild/pkg/storage"
)

// NewStorerFn returns an empty, uninitialized storage.
type NewStorerFn func(t *testing.T) storage.Storer

var startTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// Build returns a build record of project and version started at
// startTime+offset.
func Build(project, version string, offset time.Duration) *storage.BuildFull {
	start := startTime.Add(offset)

	return &storage.BuildFull{
		Build: storage.Build{
			ID:             uuid.NewString(),
			Project:        project,
			Version:        version,
			VCSRevision:    "6b3f1c2e4c8e9b0e2d3f4a5b6c7d8e9f0a1b2c3d",
			VCSIsDirty:     true,
			StartTimestamp: start,
			StopTimestamp:  start.Add(3 * time.Second),
		},
		Artifacts: []*storage.Artifact{
			{
				Name:      "VRLog_v" + version + ".jar",
				Type:      storage.ArtifactTypeJar,
				Digest:    "sha384:033b18e7",
				SizeBytes: 4096,
			},
			{
				Name:      "VRLog.jar",
				Type:      storage.ArtifactTypeDist,
				Digest:    "sha384:033b18e7",
				SizeBytes: 4096,
				Uploads: []*storage.Upload{
					{
						URI:                  "file:///srv/dist/VRLog.jar",
						Method:               storage.UploadMethodFileCopy,
						UploadStartTimestamp: start.Add(time.Second),
						UploadStopTimestamp:  start.Add(2 * time.Second),
					},
				},
			},
		},
	}
}

func assertBuildEqual(t *testing.T, expected *storage.Build, actual *storage.Build) {
	t.Helper()

	assert.Equal(t, expected.ID, actual.ID)
	assert.Equal(t, expected.Project, actual.Project)
	assert.Equal(t, expected.Version, actual.Version)
	assert.Equal(t, expected.VCSRevision, actual.VCSRevision)
	assert.Equal(t, expected.VCSIsDirty, actual.VCSIsDirty)
	assert.WithinDuration(t, expected.StartTimestamp, actual.StartTimestamp, 0)
	assert.WithinDuration(t, expected.StopTimestamp, actual.StopTimestamp, 0)
}

// Run runs all tests against storers created by newStorer.
func Run(t *testing.T, newStorer NewStorerFn) {
	ctx := context.Background()

	initialized := func(t *testing.T) storage.Storer {
		s := newStorer(t)
		require.NoError(t, s.Init(ctx))
		return s
	}

	t.Run("IsCompatibleFailsWithoutSchema", func(t *testing.T) {
		s := newStorer(t)
		require.ErrorIs(t, s.IsCompatible(ctx), storage.ErrNotExist)
	})

	t.Run("InitTwiceFails", func(t *testing.T) {
		s := initialized(t)
		require.NoError(t, s.IsCompatible(ctx))
		require.ErrorIs(t, s.Init(ctx), storage.ErrExists)
	})

	t.Run("SaveAndQueryLatestBuild", func(t *testing.T) {
		s := initialized(t)

		older := Build("VRLog", "1.2.3-4", 0)
		newer := Build("VRLog", "1.2.3-4", time.Hour)
		newer.VCSRevision = ""
		newer.VCSIsDirty = false
		other := Build("VRLog", "1.2.3-5", 2*time.Hour)

		require.NoError(t, s.SaveBuild(ctx, older))
		require.NoError(t, s.SaveBuild(ctx, newer))
		require.NoError(t, s.SaveBuild(ctx, other))

		latest, err := s.LatestBuild(ctx, "VRLog", "1.2.3-4")
		require.NoError(t, err)
		assertBuildEqual(t, &newer.Build, latest)

		_, err = s.LatestBuild(ctx, "VRLog", "9.9.9-9")
		require.ErrorIs(t, err, storage.ErrNotExist)

		_, err = s.LatestBuild(ctx, "other", "1.2.3-4")
		require.ErrorIs(t, err, storage.ErrNotExist)
	})

	t.Run("SaveBuildWithExistingIDFails", func(t *testing.T) {
		s := initialized(t)

		build := Build("VRLog", "1.0.0-1", 0)
		require.NoError(t, s.SaveBuild(ctx, build))
		require.ErrorIs(t, s.SaveBuild(ctx, build), storage.ErrExists)

		latest, err := s.LatestBuild(ctx, "VRLog", "1.0.0-1")
		require.NoError(t, err)
		assertBuildEqual(t, &build.Build, latest)
	})

	t.Run("BuildsFilterAndLimit", func(t *testing.T) {
		s := initialized(t)

		err := s.Builds(ctx, nil, storage.NoLimit, func(*storage.Build) error { return nil })
		require.ErrorIs(t, err, storage.ErrNotExist)

		builds := []*storage.BuildFull{
			Build("VRLog", "1.0.0-1", 0),
			Build("VRLog", "1.0.0-2", time.Minute),
			Build("VRUtil", "2.0.0-1", 2*time.Minute),
		}
		for _, b := range builds {
			require.NoError(t, s.SaveBuild(ctx, b))
		}

		var ids []string
		collect := func(b *storage.Build) error {
			ids = append(ids, b.ID)
			return nil
		}

		require.NoError(t, s.Builds(ctx, nil, storage.NoLimit, collect))
		assert.Equal(t, []string{builds[2].ID, builds[1].ID, builds[0].ID}, ids)

		ids = nil
		require.NoError(t, s.Builds(ctx, &storage.Filter{Project: "VRLog"}, 1, collect))
		assert.Equal(t, []string{builds[1].ID}, ids)

		ids = nil
		require.NoError(t, s.Builds(ctx, &storage.Filter{Project: "VRLog", Version: "1.0.0-1"}, storage.NoLimit, collect))
		assert.Equal(t, []string{builds[0].ID}, ids)

		err = s.Builds(ctx, &storage.Filter{Version: "3.0.0-0"}, storage.NoLimit, collect)
		require.ErrorIs(t, err, storage.ErrNotExist)
	})

	t.Run("ArtifactsAndUploads", func(t *testing.T) {
		s := initialized(t)

		build := Build("VRLog", "1.0.0-1", 0)
		require.NoError(t, s.SaveBuild(ctx, build))

		upload := &storage.Upload{
			URI:                  "s3://maven/br/com/vrsoftware/vrlog/1.0.0-1/vrlog-1.0.0-1.jar",
			Method:               storage.UploadMethodS3,
			UploadStartTimestamp: startTime.Add(time.Hour),
			UploadStopTimestamp:  startTime.Add(time.Hour + time.Second),
		}
		require.NoError(t, s.SaveUploads(ctx, build.ID, build.Artifacts[0].Name, []*storage.Upload{upload}))

		err := s.SaveUploads(ctx, build.ID, "missing.jar", []*storage.Upload{upload})
		require.ErrorIs(t, err, storage.ErrNotExist)

		artifacts, err := s.Artifacts(ctx, build.ID)
		require.NoError(t, err)
		require.Len(t, artifacts, 2)

		// ordered by name
		dist, jar := artifacts[0], artifacts[1]

		assert.Equal(t, "VRLog.jar", dist.Name)
		assert.Equal(t, storage.ArtifactTypeDist, dist.Type)
		require.Len(t, dist.Uploads, 1)
		assert.Equal(t, storage.UploadMethodFileCopy, dist.Uploads[0].Method)

		assert.Equal(t, build.Artifacts[0].Name, jar.Name)
		assert.Equal(t, build.Artifacts[0].Digest, jar.Digest)
		assert.Equal(t, build.Artifacts[0].SizeBytes, jar.SizeBytes)
		require.Len(t, jar.Uploads, 1)
		assert.Equal(t, upload.URI, jar.Uploads[0].URI)
		assert.Equal(t, upload.Method, jar.Uploads[0].Method)
		assert.WithinDuration(t, upload.UploadStartTimestamp, jar.Uploads[0].UploadStartTimestamp, 0)
		assert.WithinDuration(t, upload.UploadStopTimestamp, jar.Uploads[0].UploadStopTimestamp, 0)

		_, err = s.Artifacts(ctx, uuid.NewString())
		require.ErrorIs(t, err, storage.ErrNotExist)
	})
}

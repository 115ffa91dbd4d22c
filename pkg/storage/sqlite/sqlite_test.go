package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrsoftware/vrbuild/internal/testutils/storagetest"
	"github.com/vrsoftware/vrbuild/pkg/storage"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	clt, err := New(context.Background(), URLScheme+filepath.Join(t.TempDir(), "db", "vrbuild.db"), nil)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, clt.Close()) })

	return clt
}

func TestStorer(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storer {
		return newTestClient(t)
	})
}

func TestPathFromURL(t *testing.T) {
	assert.Equal(t, "/var/lib/vrbuild.db", PathFromURL("sqlite:///var/lib/vrbuild.db"))
	assert.Equal(t, "build/vrbuild.db", PathFromURL("sqlite://build/vrbuild.db"))
	assert.Equal(t, "build/vrbuild.db", PathFromURL("build/vrbuild.db"))
}

func TestNewWithEmptyPathFails(t *testing.T) {
	_, err := New(context.Background(), URLScheme, nil)
	require.Error(t, err)
}

func TestIsCompatibleSchemaVersionDoesNotMatch(t *testing.T) {
	ctx := context.Background()
	clt := newTestClient(t)

	require.NoError(t, clt.Init(ctx))

	_, err := clt.db.ExecContext(ctx, "UPDATE migrations SET schema_version = 100")
	require.NoError(t, err)

	require.ErrorContains(t, clt.IsCompatible(ctx), "database schema version is not compatible")
}

func TestDataIsPersisted(t *testing.T) {
	ctx := context.Background()
	dbURL := filepath.Join(t.TempDir(), "vrbuild.db")

	clt, err := New(ctx, dbURL, nil)
	require.NoError(t, err)
	require.NoError(t, clt.Init(ctx))

	build := storagetest.Build("VRLog", "1.0.0-1", 0)
	require.NoError(t, clt.SaveBuild(ctx, build))
	require.NoError(t, clt.Close())

	clt, err = New(ctx, dbURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clt.Close() })

	require.NoError(t, clt.IsCompatible(ctx))

	latest, err := clt.LatestBuild(ctx, "VRLog", "1.0.0-1")
	require.NoError(t, err)
	assert.Equal(t, build.ID, latest.ID)
}

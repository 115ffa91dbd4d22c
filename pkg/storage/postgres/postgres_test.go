//go:build dbtest

package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/vrsoftware/vrbuild/internal/testutils/dbtest"
	"github.com/vrsoftware/vrbuild/internal/testutils/storagetest"
	"github.com/vrsoftware/vrbuild/pkg/storage"
)

var ctx = context.Background()

// newTestClient returns a client that runs all statements in a transaction
// that is rolled back when the test finishes.
func newTestClient(t *testing.T) *Client {
	t.Helper()

	con, err := pgxpool.Connect(ctx, dbtest.PSQLURL())
	require.NoError(t, err)

	tx, err := con.Begin(ctx)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, tx.Rollback(ctx))
		con.Close()
	})

	return &Client{
		db:   tx,
		pool: con,
	}
}

func TestStorer(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storer {
		return newTestClient(t)
	})
}

func TestIsCompatibleSchemaVersionDoesNotMatch(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.Init(ctx))

	_, err := client.db.Exec(ctx, "UPDATE migrations set schema_version = 100")
	require.NoError(t, err)

	err = client.IsCompatible(ctx)
	require.ErrorContains(t, err, "database schema version is not compatible")
}

func TestNewWithCreatedDatabase(t *testing.T) {
	dbURL, err := dbtest.CreateDB(dbtest.UniqueDBName())
	require.NoError(t, err)

	client, err := New(ctx, dbURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.Init(ctx))
	require.NoError(t, client.IsCompatible(ctx))
}

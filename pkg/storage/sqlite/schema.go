package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vrsoftware/vrbuild/pkg/storage"
)

const schemaVer = 1

// timestamps are stored as unix time in nanoseconds
const initQuery = `
CREATE TABLE migrations (
	schema_version INTEGER NOT NULL
);

INSERT INTO migrations (schema_version) VALUES(1);

CREATE TABLE project (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE build (
	id TEXT PRIMARY KEY,
	project_id INTEGER NOT NULL REFERENCES project(id) ON DELETE CASCADE,
	version TEXT NOT NULL,
	vcs_revision TEXT NOT NULL,
	vcs_dirty INTEGER NOT NULL,
	start_timestamp INTEGER NOT NULL,
	stop_timestamp INTEGER NOT NULL
);

CREATE INDEX idx_build_project_id_version ON build(project_id, version);

CREATE TABLE artifact (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	build_id TEXT NOT NULL REFERENCES build(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	digest TEXT NOT NULL,
	size_bytes INTEGER NOT NULL CHECK (size_bytes >= 0),
	UNIQUE (build_id, name)
);

CREATE TABLE upload (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	artifact_id INTEGER NOT NULL REFERENCES artifact(id) ON DELETE CASCADE,
	uri TEXT NOT NULL,
	method TEXT NOT NULL,
	start_timestamp INTEGER NOT NULL,
	stop_timestamp INTEGER NOT NULL
);

CREATE INDEX idx_upload_artifact_id ON upload(artifact_id);
`

// Init creates the vrbuild tables in the database file.
// If they already exist, storage.ErrExists is returned.
func (c *Client) Init(ctx context.Context) error {
	exists, err := c.tableExists(ctx, "migrations")
	if err != nil {
		return err
	}

	if exists {
		return storage.ErrExists
	}

	c.debugf("creating schema in %s", c.path)

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, initQuery); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("creating schema failed: %w", err)
	}

	return tx.Commit()
}

// IsCompatible checks if the database schema exist and has the required
// version.
func (c *Client) IsCompatible(ctx context.Context) error {
	exists, err := c.tableExists(ctx, "migrations")
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("database schema %w", storage.ErrNotExist)
	}

	var ver int
	err = c.db.QueryRowContext(ctx, "SELECT schema_version FROM migrations").Scan(&ver)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errors.New("migrations table is empty")
		}

		return fmt.Errorf("querying schema_version failed: %w", err)
	}

	if ver != schemaVer {
		return fmt.Errorf("database schema version is not compatible with vrbuild version, schema version: %d, expected version: %d", ver, schemaVer)
	}

	return nil
}

func (c *Client) tableExists(ctx context.Context, tableName string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?)`

	var exists bool

	err := c.db.QueryRowContext(ctx, query, tableName).Scan(&exists)

	return exists, err
}

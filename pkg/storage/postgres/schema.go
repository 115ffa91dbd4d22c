package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/vrsoftware/vrbuild/pkg/storage"
)

const schemaVer = 1

const initQuery = `
CREATE TABLE migrations (
	schema_version integer NOT NULL
);

INSERT INTO migrations (schema_version) VALUES(1);

CREATE TABLE project (
	id serial PRIMARY KEY,
	name text NOT NULL,
	CONSTRAINT project_name_uniq UNIQUE (name)
);

CREATE TABLE vcs (
	id serial PRIMARY KEY,
	revision text NOT NULL,
	dirty boolean NOT NULL,
	CONSTRAINT vcs_revision_dirty_uniq UNIQUE (revision, dirty)
);

CREATE TABLE build (
	id text PRIMARY KEY,
	project_id integer NOT NULL REFERENCES project(id) ON DELETE CASCADE,
	version text NOT NULL,
	vcs_id integer REFERENCES vcs(id),
	start_timestamp timestamp with time zone NOT NULL,
	stop_timestamp timestamp with time zone NOT NULL
);

CREATE INDEX idx_build_project_id_version ON build(project_id, version);

CREATE TABLE artifact (
	id serial PRIMARY KEY,
	build_id text NOT NULL REFERENCES build(id) ON DELETE CASCADE,
	name text NOT NULL,
	type text NOT NULL,
	digest text NOT NULL,
	size_bytes bigint NOT NULL CHECK (size_bytes >= 0),
	CONSTRAINT artifact_build_id_name_uniq UNIQUE (build_id, name)
);

CREATE TABLE upload (
	id serial PRIMARY KEY,
	artifact_id integer NOT NULL REFERENCES artifact(id) ON DELETE CASCADE,
	uri text NOT NULL,
	method text NOT NULL,
	start_timestamp timestamp with time zone NOT NULL,
	stop_timestamp timestamp with time zone NOT NULL
);

CREATE INDEX idx_upload_artifact_id ON upload(artifact_id);
`

// Init creates the vrbuild tables in the postgresql database.
// If they already exist, storage.ErrExists is returned.
func (c *Client) Init(ctx context.Context) error {
	exists, err := c.tableExists(ctx, "migrations")
	if err != nil {
		return err
	}

	if exists {
		return storage.ErrExists
	}

	_, err = c.db.Exec(ctx, initQuery)

	return err
}

// IsCompatible checks if the database schema exist and has the required
// migration version.
func (c *Client) IsCompatible(ctx context.Context) error {
	if err := c.schemaExist(ctx); err != nil {
		return err
	}

	return c.ensureSchemaIsCompatible(ctx)
}

func (c *Client) ensureSchemaIsCompatible(ctx context.Context) error {
	var rowsCount int

	rows, err := c.db.Query(ctx, "SELECT schema_version from migrations")
	if err != nil {
		return fmt.Errorf("querying schema_version failed: %w", err)
	}

	defer rows.Close()

	for rows.Next() {
		var ver int

		if rowsCount != 0 {
			return errors.New("migrations table contains >1 rows")
		}

		err = rows.Scan(&ver)
		if err != nil {
			return err
		}

		if ver != schemaVer {
			return fmt.Errorf("database schema version is not compatible with vrbuild version, schema version: %d, expected version: %d", ver, schemaVer)
		}

		rowsCount++
	}

	if err := rows.Err(); err != nil {
		return err
	}

	if rowsCount != 1 {
		return fmt.Errorf("read %d rows from migrations table, expected 1", rowsCount)
	}

	return nil
}

func (c *Client) tableExists(ctx context.Context, tableName string) (bool, error) {
	const query = `
	SELECT EXISTS
	       (
		SELECT FROM pg_tables
		 WHERE schemaname = 'public'
		   AND tablename = $1
	       )
`

	var exists bool

	err := c.db.QueryRow(ctx, query, tableName).Scan(&exists)

	return exists, err
}

func (c *Client) schemaExist(ctx context.Context) error {
	exists, err := c.tableExists(ctx, "migrations")
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("database schema %w", storage.ErrNotExist)
	}

	return nil
}

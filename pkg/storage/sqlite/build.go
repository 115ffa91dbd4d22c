package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vrsoftware/vrbuild/pkg/storage"
)

func toUnixNano(t time.Time) int64 {
	return t.UnixNano()
}

func fromUnixNano(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}

func insertProjectIfNotExist(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	const query = `
	   INSERT INTO project (name)
	   VALUES (?)
	       ON CONFLICT (name) DO UPDATE SET id=id
	RETURNING id
	`

	var id int64

	if err := tx.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
		return -1, fmt.Errorf("storing project %q failed: %w", name, err)
	}

	return id, nil
}

func insertUploads(ctx context.Context, db execer, artifactID int64, uploads []*storage.Upload) error {
	const query = `
	INSERT INTO upload (artifact_id, uri, method, start_timestamp, stop_timestamp)
	VALUES (?, ?, ?, ?, ?)
	`

	for _, upload := range uploads {
		_, err := db.ExecContext(ctx, query,
			artifactID,
			upload.URI,
			string(upload.Method),
			toUnixNano(upload.UploadStartTimestamp),
			toUnixNano(upload.UploadStopTimestamp),
		)
		if err != nil {
			return fmt.Errorf("storing upload %s failed: %w", upload.URI, err)
		}
	}

	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (c *Client) saveBuild(ctx context.Context, tx *sql.Tx, build *storage.BuildFull) error {
	var exists bool
	err := tx.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM build WHERE id = ?)", build.ID).Scan(&exists)
	if err != nil {
		return err
	}

	if exists {
		return fmt.Errorf("build %s %w", build.ID, storage.ErrExists)
	}

	projectID, err := insertProjectIfNotExist(ctx, tx, build.Project)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO build (id, project_id, version, vcs_revision, vcs_dirty, start_timestamp, stop_timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, build.ID, projectID, build.Version, build.VCSRevision, boolToInt(build.VCSIsDirty),
		toUnixNano(build.StartTimestamp), toUnixNano(build.StopTimestamp))
	if err != nil {
		return fmt.Errorf("storing build failed: %w", err)
	}

	for _, artifact := range build.Artifacts {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO artifact (build_id, name, type, digest, size_bytes)
			VALUES (?, ?, ?, ?, ?)
		`, build.ID, artifact.Name, string(artifact.Type), artifact.Digest, int64(artifact.SizeBytes))
		if err != nil {
			return fmt.Errorf("storing artifact record %q failed: %w", artifact.Name, err)
		}

		artifactID, err := res.LastInsertId()
		if err != nil {
			return err
		}

		if err := insertUploads(ctx, tx, artifactID, artifact.Uploads); err != nil {
			return fmt.Errorf("storing upload records of artifact %q failed: %w", artifact.Name, err)
		}
	}

	return nil
}

// SaveBuild stores a build with its artifacts in a transaction.
func (c *Client) SaveBuild(ctx context.Context, build *storage.BuildFull) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	err = c.saveBuild(ctx, tx, build)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	c.debugf("stored build %s of %s %s", build.ID, build.Project, build.Version)

	return tx.Commit()
}

// SaveUploads records uploads of the artifact named artifactName of a
// build.
func (c *Client) SaveUploads(ctx context.Context, buildID, artifactName string, uploads []*storage.Upload) error {
	var artifactID int64

	err := c.db.QueryRowContext(ctx,
		"SELECT id FROM artifact WHERE build_id = ? AND name = ?",
		buildID, artifactName,
	).Scan(&artifactID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("artifact %q of build %s %w", artifactName, buildID, storage.ErrNotExist)
		}

		return err
	}

	return insertUploads(ctx, c.db, artifactID, uploads)
}

const buildQuery = `
	SELECT build.id,
	       project.name,
	       build.version,
	       build.vcs_revision,
	       build.vcs_dirty,
	       build.start_timestamp,
	       build.stop_timestamp
	  FROM build
	  JOIN project ON project.id = build.project_id
`

type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(row scanner) (*storage.Build, error) {
	var result storage.Build
	var dirty int
	var start, stop int64

	err := row.Scan(
		&result.ID,
		&result.Project,
		&result.Version,
		&result.VCSRevision,
		&dirty,
		&start,
		&stop,
	)
	if err != nil {
		return nil, err
	}

	result.VCSIsDirty = dirty != 0
	result.StartTimestamp = fromUnixNano(start)
	result.StopTimestamp = fromUnixNano(stop)

	return &result, nil
}

// LatestBuild returns the build of the project version with the newest start
// timestamp.
func (c *Client) LatestBuild(ctx context.Context, project, version string) (*storage.Build, error) {
	query := buildQuery + `
	 WHERE project.name = ?
	   AND build.version = ?
	 ORDER BY build.start_timestamp DESC
	 LIMIT 1
	`

	result, err := scanBuild(c.db.QueryRowContext(ctx, query, project, version))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotExist
		}

		return nil, err
	}

	return result, nil
}

// Builds passes the builds matching filter to cb, the newest first.
func (c *Client) Builds(ctx context.Context, filter *storage.Filter, limit uint, cb func(*storage.Build) error) error {
	var where []string
	var args []any

	if filter != nil {
		if filter.Project != "" {
			where = append(where, "project.name = ?")
			args = append(args, filter.Project)
		}

		if filter.Version != "" {
			where = append(where, "build.version = ?")
			args = append(args, filter.Version)
		}
	}

	var query strings.Builder
	query.WriteString(buildQuery)

	if len(where) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(where, " AND "))
	}

	query.WriteString(" ORDER BY build.start_timestamp DESC")

	if limit != storage.NoLimit {
		query.WriteString(" LIMIT ?")
		args = append(args, int64(limit))
	}

	rows, err := c.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return err
	}

	// the single connection is released by closing rows, the builds are
	// collected before callbacks run because they might query the storage
	var builds []*storage.Build
	for rows.Next() {
		build, err := scanBuild(rows)
		if err != nil {
			rows.Close()
			return err
		}

		builds = append(builds, build)
	}

	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}

	if err := rows.Close(); err != nil {
		return err
	}

	if len(builds) == 0 {
		return storage.ErrNotExist
	}

	for _, build := range builds {
		if err := cb(build); err != nil {
			return fmt.Errorf("callback failed: %w", err)
		}
	}

	return nil
}

// Artifacts returns the artifacts of a build with their uploads, ordered by
// artifact name.
func (c *Client) Artifacts(ctx context.Context, buildID string) ([]*storage.Artifact, error) {
	const query = `
	SELECT artifact.id,
	       artifact.name,
	       artifact.type,
	       artifact.digest,
	       artifact.size_bytes,
	       upload.uri,
	       upload.method,
	       upload.start_timestamp,
	       upload.stop_timestamp
	  FROM artifact
	  LEFT OUTER JOIN upload ON upload.artifact_id = artifact.id
	 WHERE artifact.build_id = ?
	 ORDER BY artifact.name, upload.id
	`

	rows, err := c.db.QueryContext(ctx, query, buildID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var result []*storage.Artifact
	artifactsByID := map[int64]*storage.Artifact{}

	for rows.Next() {
		var artifactID, size int64
		var name, typ, digest string
		var uri, method sql.NullString
		var uploadStart, uploadStop sql.NullInt64

		err := rows.Scan(&artifactID, &name, &typ, &digest, &size, &uri, &method, &uploadStart, &uploadStop)
		if err != nil {
			return nil, err
		}

		artifact, exists := artifactsByID[artifactID]
		if !exists {
			artifact = &storage.Artifact{
				Name:      name,
				Type:      storage.ArtifactType(typ),
				Digest:    digest,
				SizeBytes: uint64(size),
			}
			artifactsByID[artifactID] = artifact
			result = append(result, artifact)
		}

		if uri.Valid {
			artifact.Uploads = append(artifact.Uploads, &storage.Upload{
				URI:                  uri.String,
				Method:               storage.UploadMethod(method.String),
				UploadStartTimestamp: fromUnixNano(uploadStart.Int64),
				UploadStopTimestamp:  fromUnixNano(uploadStop.Int64),
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, storage.ErrNotExist
	}

	return result, nil
}

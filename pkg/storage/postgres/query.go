package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"

	"github.com/vrsoftware/vrbuild/pkg/storage"
)

const buildColumns = `
	       build.id,
	       project.name,
	       build.version,
	       vcs.revision,
	       vcs.dirty,
	       build.start_timestamp,
	       build.stop_timestamp
`

func scanBuild(row pgx.Row) (*storage.Build, error) {
	var result storage.Build
	var revision sql.NullString
	var dirty sql.NullBool

	err := row.Scan(
		&result.ID,
		&result.Project,
		&result.Version,
		&revision,
		&dirty,
		&result.StartTimestamp,
		&result.StopTimestamp,
	)
	if err != nil {
		return nil, err
	}

	result.VCSRevision = revision.String
	result.VCSIsDirty = dirty.Bool

	return &result, nil
}

// LatestBuild returns the build of the project version with the newest start
// timestamp.
func (c *Client) LatestBuild(ctx context.Context, project, version string) (*storage.Build, error) {
	query := `
	SELECT` + buildColumns + `
	  FROM project
	  JOIN build ON project.id = build.project_id
	  LEFT OUTER JOIN vcs ON vcs.id = build.vcs_id
	 WHERE project.name = $1
	   AND build.version = $2
	 ORDER BY build.start_timestamp DESC
	 LIMIT 1
	 `

	result, err := scanBuild(c.db.QueryRow(ctx, query, project, version))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotExist
		}

		return nil, newQueryError(query, err, project, version)
	}

	return result, nil
}

// Builds passes the builds matching filter to cb, the newest first.
func (c *Client) Builds(
	ctx context.Context,
	filter *storage.Filter,
	limit uint,
	cb func(*storage.Build) error,
) error {
	var where []string
	var args []any

	if filter != nil {
		if filter.Project != "" {
			args = append(args, filter.Project)
			where = append(where, fmt.Sprintf("project.name = $%d", len(args)))
		}

		if filter.Version != "" {
			args = append(args, filter.Version)
			where = append(where, fmt.Sprintf("build.version = $%d", len(args)))
		}
	}

	var query strings.Builder
	query.WriteString(`
	SELECT` + buildColumns + `
	  FROM project
	  JOIN build ON project.id = build.project_id
	  LEFT OUTER JOIN vcs ON vcs.id = build.vcs_id
	`)

	if len(where) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(where, " AND "))
	}

	query.WriteString("\n ORDER BY build.start_timestamp DESC")

	if limit != storage.NoLimit {
		args = append(args, int64(limit))
		fmt.Fprintf(&query, "\n LIMIT $%d", len(args))
	}

	rows, err := c.db.Query(ctx, query.String(), args...)
	if err != nil {
		return newQueryError(query.String(), err, args...)
	}

	defer rows.Close()

	var queryReturnedRows bool
	for rows.Next() {
		queryReturnedRows = true

		build, err := scanBuild(rows)
		if err != nil {
			return newQueryError(query.String(), err, args...)
		}

		if err := cb(build); err != nil {
			return fmt.Errorf("callback failed: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return newQueryError(query.String(), err, args...)
	}

	if !queryReturnedRows {
		return storage.ErrNotExist
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
	 WHERE artifact.build_id = $1
	 ORDER BY artifact.name COLLATE "C", upload.id
	 `

	rows, err := c.db.Query(ctx, query, buildID)
	if err != nil {
		return nil, newQueryError(query, err, buildID)
	}

	defer rows.Close()

	var result []*storage.Artifact
	artifactsByID := map[int]*storage.Artifact{}

	for rows.Next() {
		var artifactID int
		var artifact storage.Artifact
		var uri, method sql.NullString
		var uploadStart, uploadStop sql.NullTime

		err := rows.Scan(
			&artifactID,
			&artifact.Name,
			&artifact.Type,
			&artifact.Digest,
			&artifact.SizeBytes,
			&uri,
			&method,
			&uploadStart,
			&uploadStop,
		)
		if err != nil {
			return nil, newQueryError(query, err, buildID)
		}

		rec, exists := artifactsByID[artifactID]
		if !exists {
			rec = &artifact
			artifactsByID[artifactID] = rec
			result = append(result, rec)
		}

		if uri.Valid {
			rec.Uploads = append(rec.Uploads, &storage.Upload{
				URI:                  uri.String,
				Method:               storage.UploadMethod(method.String),
				UploadStartTimestamp: uploadStart.Time,
				UploadStopTimestamp:  uploadStop.Time,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, newQueryError(query, err, buildID)
	}

	if len(result) == 0 {
		return nil, storage.ErrNotExist
	}

	return result, nil
}

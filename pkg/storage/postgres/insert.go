package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/vrsoftware/vrbuild/pkg/storage"
)

// uniqueViolationCode is the postgresql error code unique_violation.
const uniqueViolationCode = "23505"

// queryValueStr returns the argument for an SQL VALUES statement with
// enumerated parameters.
// It creates pairsCount "($n, $n+1, $n+...)" string pairs, with argsPerPair
// values per pair.
func queryValueStr(pairsCount, argsPerPair int) string {
	var res strings.Builder

	res.Grow(pairsCount * argsPerPair * 5)

	argNr := 1
	for i := range pairsCount {
		if i > 0 {
			res.WriteString(", ")
		}

		res.WriteRune('(')

		for j := range argsPerPair {
			if j > 0 {
				res.WriteString(", ")
			}

			fmt.Fprintf(&res, "$%d", argNr)
			argNr++
		}

		res.WriteRune(')')
	}

	return res.String()
}

func insertProjectIfNotExist(ctx context.Context, db dbConn, name string) (int, error) {
	const query = `
	   INSERT INTO project (name)
	   VALUES ($1)
	       ON CONFLICT ON CONSTRAINT project_name_uniq
	       DO UPDATE SET id=project.id
	RETURNING id
	`

	var id int

	if err := db.QueryRow(ctx, query, name).Scan(&id); err != nil {
		return -1, newQueryError(query, err, name)
	}

	return id, nil
}

func insertVCSIfNotExist(ctx context.Context, db dbConn, revision string, isDirty bool) (int, error) {
	const query = `
	   INSERT INTO vcs (revision, dirty)
	   VALUES ($1, $2)
	       ON CONFLICT ON CONSTRAINT vcs_revision_dirty_uniq
	       DO UPDATE SET id=vcs.id
	RETURNING id
	`

	var id int

	if err := db.QueryRow(ctx, query, revision, isDirty).Scan(&id); err != nil {
		return -1, newQueryError(query, err, revision, isDirty)
	}

	return id, nil
}

func insertArtifact(ctx context.Context, db dbConn, buildID string, artifact *storage.Artifact) (int, error) {
	const query = `
	   INSERT INTO artifact (build_id, name, type, digest, size_bytes)
	   VALUES($1, $2, $3, $4, $5)
	RETURNING id
	`

	var id int

	queryArgs := []any{
		buildID,
		artifact.Name,
		artifact.Type,
		artifact.Digest,
		artifact.SizeBytes,
	}

	err := db.QueryRow(ctx, query, queryArgs...).Scan(&id)
	if err != nil {
		return -1, newQueryError(query, err, queryArgs...)
	}

	return id, nil
}

func insertUploads(ctx context.Context, db dbConn, artifactID int, uploads []*storage.Upload) error {
	if len(uploads) == 0 {
		return nil
	}

	const stmt = `
	INSERT INTO upload (artifact_id, uri, method, start_timestamp, stop_timestamp)
	VALUES `

	queryArgs := make([]any, 0, len(uploads)*5)
	for _, upload := range uploads {
		queryArgs = append(
			queryArgs,
			artifactID, upload.URI, upload.Method, upload.UploadStartTimestamp, upload.UploadStopTimestamp,
		)
	}

	query := stmt + queryValueStr(len(uploads), 5)

	_, err := db.Exec(ctx, query, queryArgs...)
	if err != nil {
		return newQueryError(query, err, queryArgs...)
	}

	return nil
}

func (c *Client) saveBuild(ctx context.Context, tx pgx.Tx, build *storage.BuildFull) error {
	const query = `
	   INSERT INTO build (id, project_id, version, vcs_id, start_timestamp, stop_timestamp)
	   VALUES($1, $2, $3, $4, $5, $6)
	`

	var vcsID *int

	if build.VCSRevision != "" {
		id, err := insertVCSIfNotExist(ctx, tx, build.VCSRevision, build.VCSIsDirty)
		if err != nil {
			return fmt.Errorf("storing vcs record failed: %w", err)
		}

		vcsID = &id
	}

	projectID, err := insertProjectIfNotExist(ctx, tx, build.Project)
	if err != nil {
		return fmt.Errorf("storing project record failed: %w", err)
	}

	queryArgs := []any{
		build.ID,
		projectID,
		build.Version,
		vcsID,
		build.StartTimestamp,
		build.StopTimestamp,
	}

	_, err = tx.Exec(ctx, query, queryArgs...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("build %s %w", build.ID, storage.ErrExists)
		}

		return newQueryError(query, err, queryArgs...)
	}

	for _, artifact := range build.Artifacts {
		artifactID, err := insertArtifact(ctx, tx, build.ID, artifact)
		if err != nil {
			return fmt.Errorf("storing artifact record %q failed: %w", artifact.Name, err)
		}

		if err := insertUploads(ctx, tx, artifactID, artifact.Uploads); err != nil {
			return fmt.Errorf("storing upload records of artifact %q failed: %w", artifact.Name, err)
		}
	}

	return nil
}

// SaveBuild stores a build with its artifacts in a transaction.
func (c *Client) SaveBuild(ctx context.Context, build *storage.BuildFull) error {
	tx, err := c.db.Begin(ctx)
	if err != nil {
		return err
	}

	err = c.saveBuild(ctx, tx, build)
	if err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

// SaveUploads records uploads of the artifact named artifactName of a
// build.
func (c *Client) SaveUploads(ctx context.Context, buildID, artifactName string, uploads []*storage.Upload) error {
	const query = `
	SELECT id
	  FROM artifact
	 WHERE build_id = $1
	   AND name = $2
	`

	var artifactID int

	err := c.db.QueryRow(ctx, query, buildID, artifactName).Scan(&artifactID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("artifact %q of build %s %w", artifactName, buildID, storage.ErrNotExist)
		}

		return newQueryError(query, err, buildID, artifactName)
	}

	return insertUploads(ctx, c.db, artifactID, uploads)
}

package vrbuild

import (
	"context"
	"strings"

	"github.com/vrsoftware/vrbuild/pkg/storage"
	"github.com/vrsoftware/vrbuild/pkg/storage/postgres"
	"github.com/vrsoftware/vrbuild/pkg/storage/sqlite"
)

// StorageLogger is the logger used by the storage clients.
type StorageLogger interface {
	Debugln(v ...any)
	Debugf(format string, v ...any)
}

// IsPostgresURL returns true if url refers to a PostgreSQL database.
func IsPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

// OpenStorage returns a PostgreSQL storage client for postgres:// and
// postgresql:// URLs and a SQLite storage client for sqlite:// URLs and
// plain file paths.
func OpenStorage(ctx context.Context, url string, logger StorageLogger) (storage.Storer, error) {
	if IsPostgresURL(url) {
		clt, err := postgres.New(ctx, url, logger)
		if err != nil {
			return nil, err
		}

		return clt, nil
	}

	clt, err := sqlite.New(ctx, url, logger)
	if err != nil {
		return nil, err
	}

	return clt, nil
}

func toStorageUploads(results []*UploadResult) []*storage.Upload {
	uploads := make([]*storage.Upload, 0, len(results))

	for _, r := range results {
		uploads = append(uploads, &storage.Upload{
			URI:                  r.URL,
			Method:               r.Method,
			UploadStartTimestamp: r.Start,
			UploadStopTimestamp:  r.Stop,
		})
	}

	return uploads
}

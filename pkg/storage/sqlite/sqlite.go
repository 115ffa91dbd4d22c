// Package sqlite is a vrbuild storage implementation storing data in a local
// SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the sqlite database/sql driver

	"github.com/vrsoftware/vrbuild/pkg/storage"
)

// URLScheme is the URL scheme that references SQLite database files.
const URLScheme = "sqlite://"

// Logger is an interface for logging debug informations
type Logger interface {
	Debugf(format string, v ...any)
}

var _ storage.Storer = (*Client)(nil)

// Client is a SQLite storage client
type Client struct {
	db     *sql.DB
	path   string
	logger Logger
}

// PathFromURL returns the database file path of a sqlite://<path> URL or a
// plain path.
func PathFromURL(url string) string {
	return strings.TrimPrefix(url, URLScheme)
}

// New opens the database file referenced by url, the parent directory is
// created if it does not exist.
// If logger is nil, logging is disabled.
func New(ctx context.Context, url string, logger Logger) (*Client, error) {
	path := PathFromURL(url)
	if path == "" {
		return nil, errors.New("database path is empty")
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory failed: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database %s failed: %w", path, err)
	}

	// a single connection serializes writers and keeps :memory: databases
	// alive
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enabling foreign keys failed: %w", err)
	}

	return &Client{
		db:     db,
		path:   path,
		logger: logger,
	}, nil
}

// Close closes the database.
func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) debugf(format string, v ...any) {
	if c.logger != nil {
		c.logger.Debugf("sqlite: "+format, v...)
	}
}

package buildcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// SetupSchema initializes the cache table in the provided database. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const schemaPages = `
CREATE TABLE IF NOT EXISTS build_pages (
    source_path TEXT PRIMARY KEY,
    fingerprint TEXT NOT NULL,
    rendered_at INTEGER NOT NULL
);
`
	if _, err := db.Exec(schemaPages); err != nil {
		return fmt.Errorf("could not create build cache schema: %w", err)
	}
	return nil
}

// Fingerprint returns the hex-encoded digest of the given byte slices,
// in order. Builds fingerprint the fully rendered page, so any change to
// content, layouts, or site metadata invalidates the record.
func Fingerprint(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Cache records page fingerprints in a SQLite database. It holds prepared
// statements for the duration of its life; call Close when done.
type Cache struct {
	db         *sql.DB
	logger     *slog.Logger
	stmtLookup *sql.Stmt
	stmtStore  *sql.Stmt
	stmtAll    *sql.Stmt
	stmtDelete *sql.Stmt
}

// New creates a Cache over db, which must already have the schema set up.
// It pre-compiles all necessary SQL statements, returning an error if any
// preparation fails.
func New(db *sql.DB) (*Cache, error) {
	stmtLookup, err := db.Prepare(`SELECT fingerprint FROM build_pages WHERE source_path = ?;`)
	if err != nil {
		return nil, err
	}

	stmtStore, err := db.Prepare(`INSERT INTO build_pages (source_path, fingerprint, rendered_at) VALUES (?, ?, ?)
ON CONFLICT(source_path) DO UPDATE SET fingerprint = excluded.fingerprint, rendered_at = excluded.rendered_at;`)
	if err != nil {
		return nil, err
	}

	stmtAll, err := db.Prepare(`SELECT source_path FROM build_pages;`)
	if err != nil {
		return nil, err
	}

	stmtDelete, err := db.Prepare(`DELETE FROM build_pages WHERE source_path = ?;`)
	if err != nil {
		return nil, err
	}

	return &Cache{
		db:         db,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		stmtLookup: stmtLookup,
		stmtStore:  stmtStore,
		stmtAll:    stmtAll,
		stmtDelete: stmtDelete,
	}, nil
}

// Close releases all prepared SQL statements held by the Cache.
func (c *Cache) Close() {
	_ = c.stmtLookup.Close()
	_ = c.stmtStore.Close()
	_ = c.stmtAll.Close()
	_ = c.stmtDelete.Close()
}

// SetLogger sets the logger for the Cache. By default, all logs are discarded.
func (c *Cache) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Lookup returns the stored fingerprint for a source path. ok is false when
// the path has never been recorded.
func (c *Cache) Lookup(ctx context.Context, sourcePath string) (fingerprint string, ok bool, err error) {
	err = c.stmtLookup.QueryRowContext(ctx, sourcePath).Scan(&fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return fingerprint, true, nil
}

// Store records the fingerprint for a source path, replacing any previous
// record.
func (c *Cache) Store(ctx context.Context, sourcePath, fingerprint string) error {
	_, err := c.stmtStore.ExecContext(ctx, sourcePath, fingerprint, time.Now().Unix())
	return err
}

// Prune deletes records whose source path is not in live, returning the
// number of records removed. It keeps the cache from growing without bound
// as content files are renamed or removed.
func (c *Cache) Prune(ctx context.Context, live map[string]struct{}) (int, error) {
	rows, err := c.stmtAll.QueryContext(ctx)
	if err != nil {
		return 0, err
	}
	var stale []string
	for rows.Next() {
		var path string
		if err = rows.Scan(&path); err != nil {
			_ = rows.Close()
			return 0, err
		}
		if _, ok := live[path]; !ok {
			stale = append(stale, path)
		}
	}
	if err = rows.Err(); err != nil {
		_ = rows.Close()
		return 0, err
	}
	_ = rows.Close()

	for _, path := range stale {
		if _, err = c.stmtDelete.ExecContext(ctx, path); err != nil {
			return 0, fmt.Errorf("failed to prune cache record %s: %w", path, err)
		}
	}

	if len(stale) > 0 {
		c.logger.Info("Pruned stale cache records", "count", len(stale))
	}
	return len(stale), nil
}

package ssb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Cache persists fetched datasets in a local SQLite database keyed by
// (table_id, period). A dataset is written with a single upsert, so readers
// observe either the previous complete entry or the new complete entry,
// never a partial write.
type Cache struct {
	db   *sql.DB
	path string
}

// OpenCache opens (creating if needed) the cache database at path.
func OpenCache(path string) (*Cache, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("ssb: create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ssb: open cache: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ssb: connect cache: %w", err)
	}

	c := &Cache{db: db, path: path}
	if err := c.configure(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := c.createSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// Path returns the cache database file path.
func (c *Cache) Path() string {
	return c.path
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := c.db.ExecContext(context.Background(), pragma); err != nil {
			return fmt.Errorf("ssb: execute %s: %w", pragma, err)
		}
	}
	return nil
}

func (c *Cache) createSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS datasets (
    table_id       TEXT    NOT NULL,
    period         TEXT    NOT NULL,
    fetched_at     TEXT    NOT NULL,
    schema_version INTEGER NOT NULL,
    payload        BLOB    NOT NULL,
    PRIMARY KEY (table_id, period)
);`
	if _, err := c.db.ExecContext(context.Background(), schema); err != nil {
		return fmt.Errorf("ssb: create cache schema: %w", err)
	}
	return nil
}

// Load returns the cached dataset for (tableID, period), or ErrCacheMiss if
// no entry exists or the entry was written with a different schema version.
// Freshness is the caller's policy; Load returns whatever is stored.
func (c *Cache) Load(ctx context.Context, tableID, period string) (*Dataset, error) {
	const query = `
SELECT fetched_at, schema_version, payload
FROM datasets
WHERE table_id = ? AND period = ?`

	var fetchedAt string
	var version int
	var payload []byte
	err := c.db.QueryRowContext(ctx, query, tableID, period).Scan(&fetchedAt, &version, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("ssb: read cache: %w", err)
	}
	if version != DatasetSchemaVersion {
		return nil, ErrCacheMiss
	}

	ts, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("ssb: cache timestamp: %w", err)
	}

	var records []SpendingRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("ssb: decode cache payload: %w", err)
	}

	return NewDataset(tableID, period, ts, records), nil
}

// Store writes the dataset, replacing any previous entry for the same
// (table_id, period) in one atomic statement.
func (c *Cache) Store(ctx context.Context, d *Dataset) error {
	payload, err := json.Marshal(d.Records)
	if err != nil {
		return fmt.Errorf("ssb: encode cache payload: %w", err)
	}

	const upsert = `
INSERT INTO datasets (table_id, period, fetched_at, schema_version, payload)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (table_id, period) DO UPDATE SET
    fetched_at     = excluded.fetched_at,
    schema_version = excluded.schema_version,
    payload        = excluded.payload`

	_, err = c.db.ExecContext(ctx, upsert,
		d.TableID, d.Period, d.FetchedAt.Format(time.RFC3339Nano), d.SchemaVersion, payload)
	if err != nil {
		return fmt.Errorf("ssb: write cache: %w", err)
	}
	return nil
}

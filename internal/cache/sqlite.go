// Package cache persists pairwise distances between builds. It is the only
// state seqtree keeps on disk.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
}

const schema = `
	CREATE TABLE IF NOT EXISTS pair_distances (
		key         TEXT PRIMARY KEY,
		distance    INTEGER NOT NULL,
		created_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
`

// SQLite is a DistanceCache backed by a single SQLite file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the cache database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	// one writer; workers serialize through the pool
	db.SetMaxOpenConns(1)
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("cache %s: %q: %w", path, p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init cache %s: %w", path, err)
	}
	return &SQLite{db: db}, nil
}

func (c *SQLite) Get(ctx context.Context, key string) (int, bool, error) {
	var d int
	err := c.db.QueryRowContext(ctx, `SELECT distance FROM pair_distances WHERE key = ?`, key).Scan(&d)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return d, true, nil
}

func (c *SQLite) Put(ctx context.Context, key string, d int) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO pair_distances (key, distance) VALUES (?, ?)`, key, d)
	return err
}

// Len counts stored distances.
func (c *SQLite) Len(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pair_distances`).Scan(&n)
	return n, err
}

func (c *SQLite) Close() error { return c.db.Close() }

package opengraph

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	_ "modernc.org/sqlite"
)

// DefaultCacheFile is the SQLite file used when no path is configured.
const DefaultCacheFile = "opengraph.db"

// Cache is a thread-safe SQLite-backed store for OpenGraph lookups.
// Failed lookups are cached too, with a shorter lifetime, so broken
// article pages are not retried on every aggregation pass.
type Cache struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewCache opens (or creates) the cache database at path.
func NewCache(path string) (*Cache, error) {
	if path == "" {
		path = DefaultCacheFile
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=memory",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS opengraph_cache (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		title TEXT DEFAULT '',
		image TEXT DEFAULT '',
		fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		expires_at TIMESTAMP NOT NULL,
		fetch_success BOOLEAN DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_opengraph_url ON opengraph_cache(url);
	CREATE INDEX IF NOT EXISTS idx_opengraph_expires ON opengraph_cache(expires_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	slog.Info("OpenGraph cache initialized", "path", path)
	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Lookup returns unexpired cached data for a URL. failed reports a
// cached failure; both data and failed are zero when nothing is cached.
func (c *Cache) Lookup(url string) (data *Data, failed bool, err error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	query := `
	SELECT url, title, image, fetched_at, expires_at, fetch_success
	FROM opengraph_cache
	WHERE url = ? AND expires_at > CURRENT_TIMESTAMP
	`

	var entry Data
	var success bool
	scanErr := c.db.QueryRow(query, url).Scan(
		&entry.URL,
		&entry.Title,
		&entry.Image,
		&entry.FetchedAt,
		&entry.ExpiresAt,
		&success,
	)

	if scanErr == sql.ErrNoRows {
		return nil, false, nil
	}
	if scanErr != nil {
		return nil, false, fmt.Errorf("failed to query cached data: %w", scanErr)
	}

	if !success {
		return nil, true, nil
	}
	return &entry, false, nil
}

// Store saves a lookup result, success or failure.
func (c *Cache) Store(data *Data, success bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	query := `
	INSERT OR REPLACE INTO opengraph_cache
	(url, title, image, fetched_at, expires_at, fetch_success)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	if _, err := c.db.Exec(query,
		data.URL, data.Title, data.Image, data.FetchedAt, data.ExpiresAt, success,
	); err != nil {
		return fmt.Errorf("failed to save cached data: %w", err)
	}
	return nil
}

// CleanupExpired removes expired cache entries.
func (c *Cache) CleanupExpired() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, err := c.db.Exec(`DELETE FROM opengraph_cache WHERE expires_at < CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("failed to cleanup expired entries: %w", err)
	}

	if rows, _ := result.RowsAffected(); rows > 0 {
		slog.Debug("Cleaned up expired OpenGraph cache entries", "count", rows)
	}
	return nil
}

// Package store persists the last successful snapshot of each remote
// resource in a local SQLite database. On launch the dashboard seeds
// its view containers from these snapshots, marked stale, so the user
// sees data immediately while fresh fetches are in flight.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"careerdesk/internal/logging"
)

// ErrNoSnapshot is returned by Get when no snapshot exists for the
// requested resource.
var ErrNoSnapshot = errors.New("no cached snapshot")

// Well-known resource keys.
const (
	ResourceResumes       = "resumes"
	ResourceRecruiters    = "recruiters"
	ResourceMessages      = "messages"
	ResourceNotifications = "notifications"
	ResourceAccount       = "account"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	resource   TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	fetched_at DATETIME NOT NULL
);
`

// Cache is the on-disk snapshot store. Safe for concurrent use.
type Cache struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// Open initializes the SQLite database at the given path, creating the
// parent directory and schema if needed.
func Open(path string) (*Cache, error) {
	logging.Store("Opening snapshot cache at %s", path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot cache: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize snapshot schema: %w", err)
	}

	return &Cache{db: db, path: path}, nil
}

// Put serializes v and stores it as the latest snapshot for resource,
// replacing any previous one.
func (c *Cache) Put(resource string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot %q: %w", resource, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err = c.db.Exec(
		`INSERT INTO snapshots (resource, payload, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(resource) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		resource, string(payload), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		logging.StoreError("Failed to write snapshot %q: %v", resource, err)
		return fmt.Errorf("failed to write snapshot %q: %w", resource, err)
	}
	logging.StoreDebug("Cached snapshot %q (%d bytes)", resource, len(payload))
	return nil
}

// Get loads the latest snapshot for resource into out and returns when
// it was fetched. Returns ErrNoSnapshot if none exists.
func (c *Cache) Get(resource string, out any) (time.Time, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var payload, fetchedAt string
	err := c.db.QueryRow(
		"SELECT payload, fetched_at FROM snapshots WHERE resource = ?", resource,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read snapshot %q: %w", resource, err)
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return time.Time{}, fmt.Errorf("failed to decode snapshot %q: %w", resource, err)
	}
	at, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		at = time.Time{}
	}
	return at, nil
}

// Evict removes the snapshot for a single resource.
func (c *Cache) Evict(resource string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.db.Exec("DELETE FROM snapshots WHERE resource = ?", resource); err != nil {
		return fmt.Errorf("failed to evict snapshot %q: %w", resource, err)
	}
	return nil
}

// Clear removes every cached snapshot. Called on logout so the next
// user never sees the previous user's data.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.db.Exec("DELETE FROM snapshots"); err != nil {
		return fmt.Errorf("failed to clear snapshot cache: %w", err)
	}
	logging.Store("Snapshot cache cleared")
	return nil
}

// PurgeOlderThan drops snapshots fetched before the cutoff and returns
// how many were removed.
func (c *Cache) PurgeOlderThan(age time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-age).Format(time.RFC3339)

	c.mu.Lock()
	defer c.mu.Unlock()
	res, err := c.db.Exec("DELETE FROM snapshots WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge snapshots: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		logging.Store("Purged %d stale snapshots older than %s", n, age)
	}
	return int(n), nil
}

// Close releases the database handle.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Close()
}

// Package cache is a small key-value blob store over a local SQLite file.
// The sync client uses it for the last-known push token and device
// signature, and in degraded mode for the serialized mock collections.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("cache: key not found")

// Well-known keys. Mock collections only exist in degraded mode.
const (
	KeyPushToken         = "push_token"
	KeyTokenRegisteredAt = "push_token_registered_at"
	KeyPlatform          = "push_platform"
	KeyDeviceSignature   = "device_signature"
	KeyInstallationID    = "installation_id"
	KeyMockNotifications = "mock_notifications"
	KeyMockPreferences   = "mock_preferences"
)

// Cache is a SQLite-backed key-value store.
type Cache struct {
	db *sqlx.DB
}

// Open opens (or creates) the cache database at dbPath and ensures the
// kv table exists. WAL mode keeps concurrent readers cheap.
func Open(dbPath string) (*Cache, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating kv table: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the blob stored under key, or ErrNotFound.
func (c *Cache) Get(key string) ([]byte, error) {
	var value []byte
	err := c.db.Get(&value, "SELECT value FROM kv WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading key %q: %w", key, err)
	}
	return value, nil
}

// GetString is Get for text values.
func (c *Cache) GetString(key string) (string, error) {
	value, err := c.Get(key)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// Set stores value under key, replacing any previous value.
func (c *Cache) Set(key string, value []byte) error {
	_, err := c.db.Exec(
		"INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

// SetString is Set for text values.
func (c *Cache) SetString(key, value string) error {
	return c.Set(key, []byte(value))
}

// Delete removes key. Deleting an absent key is not an error.
func (c *Cache) Delete(key string) error {
	if _, err := c.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}
	return nil
}
